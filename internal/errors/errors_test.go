package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "type only",
			err:      &AppError{Type: ErrTypeUnexpected},
			expected: "[UNEXPECTED] UNEXPECTED",
		},
		{
			name:     "op and resource",
			err:      NewNotFoundError("load_params", "params.yaml", nil),
			expected: "[RESOURCE_NOT_FOUND] load_params: resource not found (params.yaml)",
		},
		{
			name:     "with cause",
			err:      NewStorageError("save_data", "data/raw", fmt.Errorf("disk full")),
			expected: "[STORAGE] save_data: storage failure (data/raw): disk full",
		},
		{
			name:     "missing columns",
			err:      NewMissingColumnError("preprocess", []string{"v1", "Unnamed: 3"}),
			expected: `[MISSING_COLUMN] preprocess: missing column(s) ["v1" "Unnamed: 3"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_IsSentinel(t *testing.T) {
	err := fmt.Errorf("step failed: %w", NewParsingError("load_data", "spam.csv", nil))

	assert.True(t, errors.Is(err, ErrParsing))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrMissingColumn))
}

func TestAppError_UnwrapReachesCause(t *testing.T) {
	err := NewNotFoundError("load_params", "missing.yaml", os.ErrNotExist)

	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewValidationError("split", "test_size out of range", nil).
		WithContext("test_size", 1.5)

	require.NotNil(t, err.Context)
	assert.Equal(t, 1.5, err.Context["test_size"])
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap("op", nil))
	})

	t.Run("plain error becomes unexpected", func(t *testing.T) {
		cause := fmt.Errorf("boom")
		err := Wrap("load_data", cause)
		assert.Equal(t, ErrTypeUnexpected, TypeOf(err))
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("typed error passes through", func(t *testing.T) {
		typed := NewMissingColumnError("preprocess", []string{"v2"})
		err := Wrap("pipeline", typed)
		assert.Same(t, typed, err)
	})
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorType(""), TypeOf(nil))
	assert.Equal(t, ErrTypeUnexpected, TypeOf(fmt.Errorf("plain")))
	assert.Equal(t, ErrTypeMalformedData, TypeOf(fmt.Errorf("wrapped: %w", NewMalformedDataError("op", "f", nil))))
}
