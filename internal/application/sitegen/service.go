// Package sitegen 编排站点生成流程：偏好校验、提示词构建、模型调用与项目保存
package sitegen

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"site-gen-ai-api/internal/domain/entity"
	"site-gen-ai-api/internal/domain/repository"
	"site-gen-ai-api/internal/workflow/port"
	apperrors "site-gen-ai-api/pkg/errors"
	"site-gen-ai-api/pkg/logger"
	"site-gen-ai-api/pkg/metrics"
	"site-gen-ai-api/pkg/tracer"
)

// PromptBuilder 根据类别与偏好生成提示词
type PromptBuilder interface {
	Build(ctx context.Context, category entity.SiteCategory, prefs entity.PreferenceSet) (string, error)
}

// GenerateResult 生成结果
type GenerateResult struct {
	Code string
	// ProjectID 保存失败时为 nil
	ProjectID *int64
	Duplicate bool
}

// Service 站点生成服务
type Service struct {
	prompts   PromptBuilder
	generator port.SiteGenerator
	projects  repository.ProjectRepository
}

// NewService 创建站点生成服务
func NewService(prompts PromptBuilder, generator port.SiteGenerator, projects repository.ProjectRepository) *Service {
	return &Service{
		prompts:   prompts,
		generator: generator,
		projects:  projects,
	}
}

// GenerateSite 生成站点代码并尽力保存
// 输入错误在调用模型前返回；保存失败只记录日志，仍返回已生成的代码
func (s *Service) GenerateSite(ctx context.Context, category string, raw entity.RawPreferences) (*GenerateResult, error) {
	ctx, span := tracer.Start(ctx, "sitegen.Service.GenerateSite")
	defer span.End()

	label := metricCategory(category)

	prefs, err := entity.NormalizePreferences(raw)
	if err != nil {
		metrics.SiteGenerationTotal.WithLabelValues(label, "invalid").Inc()
		return nil, err
	}

	siteCategory, err := entity.ParseSiteCategory(category)
	if err != nil {
		metrics.SiteGenerationTotal.WithLabelValues(label, "invalid").Inc()
		return nil, err
	}
	label = string(siteCategory)
	ctx = logger.WithContext(ctx, logger.SiteCategoryKey, label)
	span.SetAttributes(attribute.String("site.category", label))

	prompt, err := s.prompts.Build(ctx, siteCategory, prefs)
	if err != nil {
		metrics.SiteGenerationTotal.WithLabelValues(label, "invalid").Inc()
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrInternalError.WithError(err)
	}

	code, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		metrics.SiteGenerationTotal.WithLabelValues(label, "provider_error").Inc()
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.ErrLLMProviderError.WithError(err)
	}

	metrics.SiteGenerationTotal.WithLabelValues(label, "success").Inc()
	metrics.SiteCodeSize.WithLabelValues(label).Observe(float64(len(code)))

	result := &GenerateResult{Code: code}

	saved, err := s.projects.Save(ctx, siteCategory, prefs, code)
	if err != nil {
		span.RecordError(err)
		metrics.ProjectSaveTotal.WithLabelValues("error").Inc()
		logger.Error(ctx, "failed to save generated project", err)
		return result, nil
	}

	id := saved.Project.ID
	result.ProjectID = &id
	result.Duplicate = saved.Duplicate
	if saved.Duplicate {
		metrics.ProjectSaveTotal.WithLabelValues("duplicate").Inc()
	} else {
		metrics.ProjectSaveTotal.WithLabelValues("created").Inc()
	}

	span.SetAttributes(attribute.Int64("project.id", id), attribute.Bool("duplicate", saved.Duplicate))
	logger.Info(logger.WithContext(ctx, logger.ProjectIDKey, id), "site generated",
		"duplicate", saved.Duplicate,
		"code_bytes", len(code),
	)
	return result, nil
}

// ListProjects 按创建时间倒序返回全部项目
func (s *Service) ListProjects(ctx context.Context) ([]*entity.SiteProject, error) {
	ctx, span := tracer.Start(ctx, "sitegen.Service.ListProjects")
	defer span.End()

	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return projects, nil
}

// metricCategory 限制指标标签取值，未知类别统一记为 unknown
func metricCategory(category string) string {
	if c, err := entity.ParseSiteCategory(strings.TrimSpace(category)); err == nil {
		return string(c)
	}
	return "unknown"
}
