package validation

import (
	"github.com/go-playground/validator/v10"

	"github.com/rheetham/Student-Record-Management-System/internal/domain/entities"
)

// Validator wraps the go-playground validator with the tags used by
// student requests.
type Validator struct {
	validator *validator.Validate
}

// New creates a validator with the custom student tags registered:
// studentname rejects names the records file cannot hold on one line and
// studentage enforces the entities age bounds.
func New() *Validator {
	v := validator.New()
	if err := v.RegisterValidation("studentname", studentName); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("studentage", studentAge); err != nil {
		panic(err)
	}
	return &Validator{validator: v}
}

// Validate validates structs
func (v *Validator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func studentName(fl validator.FieldLevel) bool {
	return entities.ValidName(fl.Field().String())
}

func studentAge(fl validator.FieldLevel) bool {
	return entities.ValidAge(int(fl.Field().Int()))
}
