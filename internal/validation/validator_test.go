package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/msomdec/run-tracker/internal/domain"
	"github.com/msomdec/run-tracker/internal/validation"
)

type sample struct {
	Email    string  `json:"email" validate:"required"`
	Distance float64 `json:"distance" validate:"gt=0"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, validation.Struct(sample{Email: "a@b.c", Distance: 1}))
}

func TestStruct_ReportsEveryField(t *testing.T) {
	err := validation.Struct(sample{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "email is required")
	assert.Contains(t, err.Error(), "distance must be greater than 0")
}

func TestStruct_UpperBound(t *testing.T) {
	type bounded struct {
		Distance float64 `json:"distance" validate:"gt=0,lte=10000"`
	}

	err := validation.Struct(bounded{Distance: 20000})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "distance must be at most 10000")
}
