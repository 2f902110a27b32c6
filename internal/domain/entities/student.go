package entities

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Common errors
var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrDuplicateRollNumber = errors.New("roll number already exists")
	ErrInvalidAge          = fmt.Errorf("invalid age, age must be between %d and %d", MinAge, MaxAge)
	ErrInvalidName         = errors.New("invalid name")
	ErrParse               = errors.New("malformed student record")
)

// Field bounds, inclusive
const (
	MinAge = 1
	MaxAge = 150

	// MaxNameLength is in bytes
	MaxNameLength = 1024
)

// Student represents a single student record
type Student struct {
	RollNumber int    `json:"roll_number"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
}

// ValidAge reports whether age is within [MinAge, MaxAge]
func ValidAge(age int) bool {
	return age >= MinAge && age <= MaxAge
}

// ValidName reports whether name fits on a single stored line
func ValidName(name string) bool {
	return len(name) <= MaxNameLength && !strings.ContainsAny(name, ",\r\n")
}

// SortByRollNumber sorts students ascending by roll number in place
func SortByRollNumber(students []Student) {
	slices.SortStableFunc(students, func(a, b Student) int {
		return cmp.Compare(a.RollNumber, b.RollNumber)
	})
}

// ParseError describes a stored line that could not be decoded
type ParseError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: malformed record %q: %v", e.Path, e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}
