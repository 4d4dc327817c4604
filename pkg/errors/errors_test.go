package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesByCode(t *testing.T) {
	cause := stderrors.New("dial tcp: i/o timeout")
	err := Wrap(cause, CodeLLMProviderError, "gemini call failed")

	assert.True(t, stderrors.Is(err, ErrLLMProviderError))
	assert.False(t, stderrors.Is(err, ErrStoreUnavailable))
	assert.True(t, stderrors.Is(err, cause), "cause must stay reachable through Unwrap")

	wrapped := fmt.Errorf("pipeline: %w", err)
	assert.True(t, stderrors.Is(wrapped, ErrLLMProviderError))
}

func TestAppError_WithDetailDoesNotMutateSentinel(t *testing.T) {
	err := ErrInvalidPreference.WithDetail("layout is required")

	assert.Equal(t, "layout is required", err.Detail)
	assert.Empty(t, ErrInvalidPreference.Detail)
	assert.True(t, stderrors.Is(err, ErrInvalidPreference))
}

func TestCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeInvalidPreference, http.StatusBadRequest},
		{CodeUnsupportedCategory, http.StatusBadRequest},
		{CodeLLMProviderError, http.StatusBadGateway},
		{CodeStoreUnavailable, http.StatusServiceUnavailable},
		{CodeCacheError, http.StatusServiceUnavailable},
		{CodeTooManyRequests, http.StatusTooManyRequests},
		{CodeUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "x").HTTPStatus)
		})
	}
}

func TestAsAppError(t *testing.T) {
	t.Run("unwraps through fmt wrapping", func(t *testing.T) {
		inner := ErrStoreUnavailable.WithError(stderrors.New("disk full"))
		got := AsAppError(fmt.Errorf("save: %w", inner))
		assert.Equal(t, CodeStoreUnavailable, got.Code)
	})

	t.Run("plain error becomes unknown", func(t *testing.T) {
		got := AsAppError(stderrors.New("boom"))
		assert.Equal(t, CodeUnknown, got.Code)
		assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
	})
}
