package ports

import (
	"context"

	"github.com/rheetham/Student-Record-Management-System/internal/domain/entities"
)

// StudentRepository defines the interface for student record persistence.
// Implementations own the whole backing content: Load returns everything
// and Save replaces everything.
type StudentRepository interface {
	Load(ctx context.Context) ([]entities.Student, error)
	Save(ctx context.Context, students []entities.Student) error
}
