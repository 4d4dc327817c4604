package port

import (
	"context"
)

// SiteGenerator 定义工作流层对文本生成服务的最小依赖（port）。
// 失败统一返回 errors.ErrLLMProviderError。
type SiteGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
