package llm

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"site-gen-ai-api/internal/config"
	apperrors "site-gen-ai-api/pkg/errors"
)

const testAPIKey = "test-key-123"

func newGeminiTestServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request, *string) {
	t.Helper()
	var captured http.Request
	var payload string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		b, _ := io.ReadAll(r.Body)
		payload = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured, &payload
}

func newTestGemini(baseURL string, timeout time.Duration) *GeminiClient {
	return NewGeminiClient("gemini", config.ProviderConfig{
		APIKey:  testAPIKey,
		BaseURL: baseURL,
		Model:   "gemini-pro",
		Timeout: timeout,
	})
}

func TestGeminiClient_Success(t *testing.T) {
	srv, req, payload := newGeminiTestServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"<html>ok</html>"}]}}]}`)

	text, err := newTestGemini(srv.URL, time.Second).Generate(context.Background(), "Crie um site")
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", text)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/models/gemini-pro:generateContent", req.URL.Path)
	assert.Equal(t, testAPIKey, req.Header.Get("x-goog-api-key"))
	assert.NotContains(t, req.URL.String(), testAPIKey)
	assert.Equal(t, "Crie um site", gjson.Get(*payload, "contents.0.parts.0.text").String())
}

func TestGeminiClient_MissingCandidates(t *testing.T) {
	srv, _, _ := newGeminiTestServer(t, http.StatusOK, `{"promptFeedback":{"blockReason":"SAFETY"}}`)

	text, err := newTestGemini(srv.URL, time.Second).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Empty(t, text)
	assert.True(t, stderrors.Is(err, apperrors.ErrLLMProviderError))
}

func TestGeminiClient_ProviderFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"non 2xx", http.StatusTooManyRequests, `{"error":{"message":"quota exceeded"}}`},
		{"server error", http.StatusInternalServerError, `oops`},
		{"malformed json", http.StatusOK, `{"candidates":[`},
		{"empty candidates", http.StatusOK, `{"candidates":[]}`},
		{"non string text", http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":42}]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _ := newGeminiTestServer(t, tt.status, tt.body)

			_, err := newTestGemini(srv.URL, time.Second).Generate(context.Background(), "x")
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, apperrors.ErrLLMProviderError))
			assert.NotContains(t, err.Error(), testAPIKey)
		})
	}
}

func TestGeminiClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	start := time.Now()
	_, err := newTestGemini(srv.URL, 50*time.Millisecond).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrLLMProviderError))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestGeminiClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestGemini(url, time.Second).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrLLMProviderError))
}

func TestNewGeminiClient_TrimsBaseURL(t *testing.T) {
	c := newTestGemini("https://example.test/v1beta/", 0)
	assert.True(t, strings.HasSuffix(c.endpoint, "/v1beta/models/gemini-pro:generateContent"))
	assert.Equal(t, defaultProviderTimeout, c.httpClient.Timeout)
}
