package repository

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/rheetham/Student-Record-Management-System/internal/domain/entities"
	"github.com/rheetham/Student-Record-Management-System/internal/ports"
)

const fieldCount = 3

// FileStudentRepository implements the StudentRepository interface on top
// of a comma-delimited text file with one roll,name,age line per record.
type FileStudentRepository struct {
	path string
}

// NewFileStudentRepository creates a new file backed student repository
func NewFileStudentRepository(path string) ports.StudentRepository {
	return &FileStudentRepository{path: path}
}

// Load reads every record from the backing file. A missing file yields an
// empty slice.
func (r *FileStudentRepository) Load(ctx context.Context) ([]entities.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []entities.Student{}, nil
		}
		return nil, fmt.Errorf("open student file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	students := []entities.Student{}
	reader := bufio.NewReader(f)
	lineNo := 0
	for {
		raw, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("read student file: %w", readErr)
		}
		if raw != "" {
			lineNo++
			line := strings.TrimRight(raw, "\r\n")
			if strings.TrimSpace(line) != "" {
				student, err := parseLine(line)
				if err != nil {
					return nil, &entities.ParseError{Path: r.path, Line: lineNo, Text: line, Err: err}
				}
				students = append(students, student)
			}
		}
		if readErr != nil {
			break
		}
	}

	return students, nil
}

// Save sorts the records by roll number and replaces the backing file
// content with them.
func (r *FileStudentRepository) Save(ctx context.Context, students []entities.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sorted := slices.Clone(students)
	entities.SortByRollNumber(sorted)

	var buf bytes.Buffer
	for _, s := range sorted {
		buf.WriteString(formatLine(s))
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create student file directory: %w", err)
		}
	}
	if err := renameio.WriteFile(r.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write student file: %w", err)
	}

	return nil
}

func parseLine(line string) (entities.Student, error) {
	fields := strings.Split(line, ",")
	if len(fields) != fieldCount {
		return entities.Student{}, fmt.Errorf("expected %d fields, got %d", fieldCount, len(fields))
	}

	roll, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return entities.Student{}, fmt.Errorf("roll number: %w", err)
	}
	age, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return entities.Student{}, fmt.Errorf("age: %w", err)
	}

	return entities.Student{RollNumber: roll, Name: fields[1], Age: age}, nil
}

func formatLine(s entities.Student) string {
	return strconv.Itoa(s.RollNumber) + "," + s.Name + "," + strconv.Itoa(s.Age) + "\n"
}
