package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"

	"site-gen-ai-api/internal/config"
	"site-gen-ai-api/internal/workflow/port"
)

// Factory 按名称管理生成客户端实例
type Factory struct {
	config     *config.LLMConfig
	generators map[string]port.SiteGenerator
	mu         sync.RWMutex
}

// NewFactory 创建 LLM 工厂
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		config:     &cfg.LLM,
		generators: make(map[string]port.SiteGenerator),
	}
}

// Get 获取指定名称的生成客户端，如果未指定则返回默认客户端
func (f *Factory) Get(ctx context.Context, name string) (port.SiteGenerator, error) {
	if name == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	g, ok := f.generators[name]
	f.mu.RUnlock()
	if ok {
		return g, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if g, ok = f.generators[name]; ok {
		return g, nil
	}

	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %s not found in LLM config", name)
	}

	g, err := newGenerator(ctx, name, providerCfg)
	if err != nil {
		return nil, err
	}
	f.generators[name] = g
	return g, nil
}

// Default 返回默认生成客户端
func (f *Factory) Default(ctx context.Context) (port.SiteGenerator, error) {
	return f.Get(ctx, "")
}

func newGenerator(ctx context.Context, name string, cfg config.ProviderConfig) (port.SiteGenerator, error) {
	providerType := cfg.Type
	if providerType == "" {
		providerType = name
	}

	switch providerType {
	case config.ProviderTypeGemini:
		return NewGeminiClient(name, cfg), nil
	case config.ProviderTypeOpenAI:
		modelCfg := &openai.ChatModelConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: providerTimeout(cfg),
		}
		if cfg.MaxTokens > 0 {
			modelCfg.MaxTokens = &cfg.MaxTokens
		}
		if cfg.Temperature > 0 {
			modelCfg.Temperature = ptrFloat32(float32(cfg.Temperature))
		}
		chatModel, err := openai.NewChatModel(ctx, modelCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
		}
		return NewEinoClient(name, cfg.Model, chatModel), nil
	default:
		return nil, fmt.Errorf("provider %s has unsupported type %q", name, providerType)
	}
}

// providerTimeout 返回单次调用超时，未配置时使用默认值
func providerTimeout(cfg config.ProviderConfig) time.Duration {
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return defaultProviderTimeout
}

func ptrFloat32(f float32) *float32 {
	return &f
}
