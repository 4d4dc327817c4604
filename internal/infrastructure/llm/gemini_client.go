package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"site-gen-ai-api/internal/config"
	apperrors "site-gen-ai-api/pkg/errors"
	"site-gen-ai-api/pkg/logger"
	"site-gen-ai-api/pkg/tracer"
)

const (
	defaultProviderTimeout = 30 * time.Second
	maxResponseBytes       = 16 << 20
	geminiTextPath         = "candidates.0.content.parts.0.text"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

// GeminiClient Gemini generateContent 接口客户端
type GeminiClient struct {
	name       string
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewGeminiClient 创建 Gemini 客户端
func NewGeminiClient(name string, cfg config.ProviderConfig) *GeminiClient {
	timeout := providerTimeout(cfg)
	return &GeminiClient{
		name:       name,
		endpoint:   fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(cfg.BaseURL, "/"), cfg.Model),
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Generate 发送一次生成请求并返回首个候选文本，不做重试
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.GeminiClient.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", c.name),
		attribute.String("llm.model", c.model),
		attribute.Int("llm.prompt_length", len(prompt)),
	)

	start := time.Now()
	text, err := c.generate(ctx, prompt)
	observeCall(c.name, c.model, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		logger.Error(ctx, "llm provider call failed", err, "provider", c.name, "model", c.model)
		return "", apperrors.ErrLLMProviderError.WithError(err)
	}
	span.SetAttributes(attribute.Int("llm.response_length", len(text)))
	return text, nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "error.message").String()
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, msg)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("gemini returned malformed json")
	}

	text := gjson.GetBytes(body, geminiTextPath)
	if !text.Exists() || text.Type != gjson.String {
		return "", fmt.Errorf("gemini response has no %s", geminiTextPath)
	}

	usage := gjson.GetBytes(body, "usageMetadata")
	if usage.Exists() {
		observeTokens(c.name, c.model, usage.Get("promptTokenCount").Int(), usage.Get("candidatesTokenCount").Int())
	}
	return text.String(), nil
}
