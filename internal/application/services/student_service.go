package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rheetham/Student-Record-Management-System/internal/domain/entities"
	"github.com/rheetham/Student-Record-Management-System/internal/infrastructure/logger"
	"github.com/rheetham/Student-Record-Management-System/internal/infrastructure/metrics"
	"github.com/rheetham/Student-Record-Management-System/internal/infrastructure/validation"
	"github.com/rheetham/Student-Record-Management-System/internal/ports"
)

// StudentService handles student record operations. Every operation reloads
// the repository first so changes made to the file between calls are seen,
// and every successful mutation rewrites the whole file.
type StudentService struct {
	repo      ports.StudentRepository
	validator *validation.Validator
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// NewStudentService creates a new student service. metrics may be nil.
func NewStudentService(repo ports.StudentRepository, v *validation.Validator, logger *logger.Logger, m *metrics.Metrics) *StudentService {
	return &StudentService{
		repo:      repo,
		validator: v,
		logger:    logger.WithComponent("student_service"),
		metrics:   m,
	}
}

// Exists reports whether a record with rollNumber is stored, ignoring
// records whose roll number is listed in except.
func (s *StudentService) Exists(ctx context.Context, rollNumber int, except ...int) (bool, error) {
	students, err := s.repo.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load students: %w", err)
	}

	for _, st := range students {
		if slices.Contains(except, st.RollNumber) {
			continue
		}
		if st.RollNumber == rollNumber {
			return true, nil
		}
	}
	return false, nil
}

// CreateStudent creates a new student record
func (s *StudentService) CreateStudent(ctx context.Context, req ports.CreateStudentRequest) (student *entities.Student, err error) {
	start := time.Now()
	defer func() { s.observe("create", req.RollNumber, start, err) }()

	students, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	if indexOf(students, req.RollNumber) >= 0 {
		return nil, fmt.Errorf("roll number %d: %w", req.RollNumber, entities.ErrDuplicateRollNumber)
	}

	if err := s.validate(req); err != nil {
		return nil, err
	}

	created := entities.Student{
		RollNumber: req.RollNumber,
		Name:       req.Name,
		Age:        req.Age,
	}
	students = append(students, created)

	if err := s.repo.Save(ctx, students); err != nil {
		return nil, fmt.Errorf("failed to save students: %w", err)
	}
	s.metrics.SetRecords(len(students))

	s.logger.Infow("Student created successfully", "roll_number", created.RollNumber)

	return &created, nil
}

// GetStudent retrieves a student by roll number
func (s *StudentService) GetStudent(ctx context.Context, rollNumber int) (student *entities.Student, err error) {
	start := time.Now()
	defer func() { s.observe("get", rollNumber, start, err) }()

	students, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	idx := indexOf(students, rollNumber)
	if idx < 0 {
		return nil, fmt.Errorf("roll number %d: %w", rollNumber, entities.ErrStudentNotFound)
	}

	found := students[idx]
	return &found, nil
}

// ListStudents returns every record sorted by roll number
func (s *StudentService) ListStudents(ctx context.Context) (students []entities.Student, err error) {
	start := time.Now()
	defer func() { s.observe("list", 0, start, err) }()

	students, err = s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	entities.SortByRollNumber(students)
	s.metrics.SetRecords(len(students))

	return students, nil
}

// UpdateStudent replaces the roll number, name and age of an existing record
func (s *StudentService) UpdateStudent(ctx context.Context, rollNumber int, req ports.UpdateStudentRequest) (student *entities.Student, err error) {
	start := time.Now()
	defer func() { s.observe("update", rollNumber, start, err) }()

	students, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}

	idx := indexOf(students, rollNumber)
	if idx < 0 {
		return nil, fmt.Errorf("roll number %d: %w", rollNumber, entities.ErrStudentNotFound)
	}

	// Check if roll number is being changed and if it's already taken
	if req.RollNumber != rollNumber && indexOf(students, req.RollNumber) >= 0 {
		return nil, fmt.Errorf("roll number %d: %w", req.RollNumber, entities.ErrDuplicateRollNumber)
	}

	if err := s.validate(req); err != nil {
		return nil, err
	}

	students[idx].RollNumber = req.RollNumber
	students[idx].Name = req.Name
	students[idx].Age = req.Age
	updated := students[idx]

	if err := s.repo.Save(ctx, students); err != nil {
		return nil, fmt.Errorf("failed to save students: %w", err)
	}
	s.metrics.SetRecords(len(students))

	s.logger.Infow("Student updated successfully", "roll_number", rollNumber, "new_roll_number", updated.RollNumber)

	return &updated, nil
}

// DeleteStudent deletes a student record
func (s *StudentService) DeleteStudent(ctx context.Context, rollNumber int) (err error) {
	start := time.Now()
	defer func() { s.observe("delete", rollNumber, start, err) }()

	students, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load students: %w", err)
	}

	idx := indexOf(students, rollNumber)
	if idx < 0 {
		return fmt.Errorf("roll number %d: %w", rollNumber, entities.ErrStudentNotFound)
	}
	students = slices.Delete(students, idx, idx+1)

	if err := s.repo.Save(ctx, students); err != nil {
		return fmt.Errorf("failed to save students: %w", err)
	}
	s.metrics.SetRecords(len(students))

	s.logger.Infow("Student deleted successfully", "roll_number", rollNumber)

	return nil
}

// validate maps validator failures onto the domain errors
func (s *StudentService) validate(req interface{}) error {
	err := s.validator.Validate(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.Field() {
			case "Age":
				return fmt.Errorf("%w: got %v", entities.ErrInvalidAge, fe.Value())
			case "Name":
				return fmt.Errorf("%w: must be at most %d bytes without commas or line breaks", entities.ErrInvalidName, entities.MaxNameLength)
			}
		}
	}
	return fmt.Errorf("invalid request: %w", err)
}

func (s *StudentService) observe(operation string, rollNumber int, start time.Time, err error) {
	s.metrics.Observe(operation, start, err)
	s.logger.LogStoreOperation(operation, rollNumber, float64(time.Since(start).Microseconds())/1000, err)
}

func indexOf(students []entities.Student, rollNumber int) int {
	return slices.IndexFunc(students, func(st entities.Student) bool {
		return st.RollNumber == rollNumber
	})
}

var _ ports.StudentService = (*StudentService)(nil)
