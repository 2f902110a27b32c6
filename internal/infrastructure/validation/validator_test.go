package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `validate:"studentname"`
	Age  int    `validate:"studentage"`
}

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name      string
		in        sample
		wantField string
	}{
		{name: "valid", in: sample{Name: "Alice", Age: 20}},
		{name: "empty name allowed", in: sample{Name: "", Age: 1}},
		{name: "upper bound", in: sample{Name: "Old", Age: 150}},
		{name: "comma in name", in: sample{Name: "Doe, John", Age: 20}, wantField: "Name"},
		{name: "newline in name", in: sample{Name: "a\nb", Age: 20}, wantField: "Name"},
		{name: "name longer than a stored line allows", in: sample{Name: strings.Repeat("a", 70000), Age: 20}, wantField: "Name"},
		{name: "age zero", in: sample{Name: "Bob", Age: 0}, wantField: "Age"},
		{name: "age too high", in: sample{Name: "Bob", Age: 151}, wantField: "Age"},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field())
		})
	}
}
