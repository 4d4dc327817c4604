package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "site-gen-ai-api/pkg/errors"
	"site-gen-ai-api/pkg/logger"
	"site-gen-ai-api/pkg/tracer"
)

// EinoClient 基于 Eino ChatModel 的生成客户端，用于 OpenAI 兼容接口
type EinoClient struct {
	name  string
	model string
	chat  model.BaseChatModel
}

// NewEinoClient 创建 Eino 生成客户端
func NewEinoClient(name, modelName string, chat model.BaseChatModel) *EinoClient {
	return &EinoClient{name: name, model: modelName, chat: chat}
}

// Generate 以单条用户消息调用模型
func (c *EinoClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracer.Start(ctx, "llm.EinoClient.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", c.name),
		attribute.String("llm.model", c.model),
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
	return text, nil
}

func (c *EinoClient) generate(ctx context.Context, prompt string) (string, error) {
	// 挂载全局 callbacks，令牌用量由 observability/eino 上报
	ctx = callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      c.name,
		Type:      c.model,
		Component: components.ComponentOfChatModel,
	})
	msg, err := c.chat.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("%s chat model: %w", c.name, err)
	}
	if msg == nil || msg.Content == "" {
		return "", fmt.Errorf("%s chat model returned empty content", c.name)
	}
	return msg.Content, nil
}
