package eino

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"site-gen-ai-api/pkg/logger"
	"site-gen-ai-api/pkg/metrics"
)

// newChatModelCallbackHandler 记录令牌用量
// 调用次数与耗时由 llm 客户端自身上报，这里不重复计数
func newChatModelCallbackHandler() *cbtemplate.ModelCallbackHandler {
	return &cbtemplate.ModelCallbackHandler{
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) context.Context {
			recordUsage(ctx, info, output)
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			provider, _ := names(info, nil)
			logger.Debug(ctx, "chat model callback error", "provider", provider, "error", err.Error())
			return ctx
		},
	}
}

func recordUsage(ctx context.Context, info *einocb.RunInfo, output *model.CallbackOutput) {
	if output == nil || output.TokenUsage == nil {
		return
	}
	provider, modelName := names(info, output)
	usage := output.TokenUsage

	metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "prompt").Add(float64(usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(provider, modelName, "completion").Add(float64(usage.CompletionTokens))

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("llm.prompt_tokens", usage.PromptTokens),
		attribute.Int("llm.completion_tokens", usage.CompletionTokens),
	)
	logger.Debug(ctx, "chat model token usage",
		"provider", provider,
		"model", modelName,
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
	)
}

// names 返回 provider 与模型名，输出中带模型名时优先使用
func names(info *einocb.RunInfo, output *model.CallbackOutput) (string, string) {
	provider, modelName := "unknown", ""
	if info != nil {
		provider = info.Name
		modelName = info.Type
	}
	if output != nil && output.Config != nil && output.Config.Model != "" {
		modelName = output.Config.Model
	}
	return provider, modelName
}
