package ports

import (
	"context"

	"github.com/rheetham/Student-Record-Management-System/internal/domain/entities"
)

// StudentService interface for student record operations
type StudentService interface {
	Exists(ctx context.Context, rollNumber int, except ...int) (bool, error)
	CreateStudent(ctx context.Context, req CreateStudentRequest) (*entities.Student, error)
	GetStudent(ctx context.Context, rollNumber int) (*entities.Student, error)
	ListStudents(ctx context.Context) ([]entities.Student, error)
	UpdateStudent(ctx context.Context, rollNumber int, req UpdateStudentRequest) (*entities.Student, error)
	DeleteStudent(ctx context.Context, rollNumber int) error
}

// Request types

type CreateStudentRequest struct {
	RollNumber int    `json:"roll_number"`
	Name       string `json:"name" validate:"studentname"`
	Age        int    `json:"age" validate:"studentage"`
}

// UpdateStudentRequest replaces every field of an existing record
type UpdateStudentRequest struct {
	RollNumber int    `json:"roll_number"`
	Name       string `json:"name" validate:"studentname"`
	Age        int    `json:"age" validate:"studentage"`
}
