package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrSourceUnavailable(t *testing.T) {
	cause := errors.New("no such file")
	err := ErrSourceUnavailable("data/May.xlsx", "data 1").Wrap(cause)

	assert.Equal(t, CodeSourceUnavailable, err.Code)
	assert.Equal(t, "data/May.xlsx", err.Details["path"])
	assert.Equal(t, "data 1", err.Details["sheet"])
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "SOURCE_UNAVAILABLE: source data/May.xlsx could not be read: no such file", err.Error())

	noSheet := ErrSourceUnavailable("recipes.csv", "")
	assert.NotContains(t, noSheet.Details, "sheet")
}

func TestErrDatasetUnavailable(t *testing.T) {
	wrapped := fmt.Errorf("failed to load revenue data: %w", ErrDatasetUnavailable("revenue", "data"))

	assert.True(t, IsCode(wrapped, CodeDatasetUnavailable))
	assert.False(t, IsCode(wrapped, CodeInternalError))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(wrapped))

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "revenue", appErr.Details["dataset"])
	assert.Equal(t, "no revenue data was loaded from data", appErr.Message)
}

func TestHTTPStatus(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"invalid input", ErrInvalidInput("bad"), http.StatusBadRequest},
		{"not found", ErrNotFound("item"), http.StatusNotFound},
		{"internal", ErrInternal(""), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, HTTPStatus(tc.err))
		})
	}

	assert.Equal(t, "an internal error occurred", ErrInternal("").Message)
	assert.Equal(t, "item not found", ErrNotFound("item").Message)
}
