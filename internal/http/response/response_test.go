package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]any{"id": 7})

	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)
	assert.Equal(t, map[string]any{"id": 7}, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something went wrong")

	assert.False(t, resp.Success)
	assert.Equal(t, "something went wrong", resp.Error)
}

func TestValidationError(t *testing.T) {
	type form struct {
		Email  string `validate:"required,email"`
		Name   string `validate:"required"`
		Method string `validate:"required,oneof=mercadopago paypal"`
		Amount int64  `validate:"gt=0"`
	}

	tests := []struct {
		name  string
		input form
		want  []string
	}{
		{
			name:  "пустая форма перечисляет обязательные поля",
			input: form{Amount: 1},
			want: []string{
				"field Email is a required field",
				"field Name is a required field",
				"field Method is a required field",
			},
		},
		{
			name:  "некорректный email",
			input: form{Email: "not-an-email", Name: "Maria", Method: "paypal", Amount: 1},
			want:  []string{"field Email must be a valid email"},
		},
		{
			name:  "недопустимый способ оплаты",
			input: form{Email: "maria@example.com", Name: "Maria", Method: "efectivo", Amount: 1},
			want:  []string{"field Method must be one of: mercadopago paypal"},
		},
		{
			name:  "сумма должна быть положительной",
			input: form{Email: "maria@example.com", Name: "Maria", Method: "paypal"},
			want:  []string{"field Amount must be greater than 0"},
		},
	}

	validate := validator.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.input)
			require.Error(t, err)

			var validErrs validator.ValidationErrors
			require.ErrorAs(t, err, &validErrs)

			resp := ValidationError(validErrs)
			assert.False(t, resp.Success)
			for _, msg := range tt.want {
				assert.Contains(t, resp.Error, msg)
			}
		})
	}
}
