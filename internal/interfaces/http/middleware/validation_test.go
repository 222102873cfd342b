package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quantityPayload struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required,gt=0"`
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	t.Run("positive decimal passes gt rule", func(t *testing.T) {
		err := v.Struct(quantityPayload{Quantity: decimal.NewFromInt(3)})
		assert.NoError(t, err)
	})

	t.Run("negative decimal fails gt rule", func(t *testing.T) {
		err := v.Struct(quantityPayload{Quantity: decimal.NewFromInt(-1)})
		assert.Error(t, err)
	})

	t.Run("field names come from json tags", func(t *testing.T) {
		err := v.Struct(quantityPayload{Quantity: decimal.NewFromInt(-1)})
		require.Error(t, err)

		validationErrors, ok := err.(validator.ValidationErrors)
		require.True(t, ok)
		require.Len(t, validationErrors, 1)
		assert.Equal(t, "quantity", validationErrors[0].Field())
	})
}

func TestFormatValidationErrors(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	err := v.Struct(quantityPayload{Quantity: decimal.NewFromInt(-5)})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-1")

	assert.False(t, resp.Success)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "quantity", resp.Error.Details[0].Field)
	assert.Equal(t, "req-1", resp.Error.RequestID)
}
