package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/apperr"
)

type sample struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Price    float64 `json:"price" validate:"gt=0"`
	Currency string  `json:"currency" validate:"omitempty,oneof=MDL EUR"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Struct(sample{Email: "nope", Password: "123", Currency: "GBP"})
	require.Error(t, err)

	e := apperr.As(err)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Equal(t, []string{"must be a valid email"}, e.Fields["email"])
	assert.Equal(t, []string{"must be at least 6 characters"}, e.Fields["password"])
	assert.Equal(t, []string{"must be greater than 0"}, e.Fields["price"])
	assert.Equal(t, []string{"must be one of: MDL EUR"}, e.Fields["currency"])
}

func TestStructAcceptsValidInput(t *testing.T) {
	assert.NoError(t, New().Struct(sample{Email: "a@b.md", Password: "secret1", Price: 10}))
}
