// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"site-gen-ai-api/internal/application/sitegen"
	"site-gen-ai-api/internal/domain/entity"
	"site-gen-ai-api/internal/interfaces/http/dto"
	apperrors "site-gen-ai-api/pkg/errors"
	"site-gen-ai-api/pkg/logger"
)

// SiteService 站点生成用例
type SiteService interface {
	GenerateSite(ctx context.Context, category string, raw entity.RawPreferences) (*sitegen.GenerateResult, error)
	ListProjects(ctx context.Context) ([]*entity.SiteProject, error)
}

// SiteHandler 站点处理器
type SiteHandler struct {
	service SiteService
}

// NewSiteHandler 创建站点处理器
func NewSiteHandler(service SiteService) *SiteHandler {
	return &SiteHandler{service: service}
}

// GenerateSite 生成站点代码
// @Summary 生成站点
// @Description 根据站点类别与偏好生成单文件 HTML 站点并保存为项目
// @Tags Sites
// @Accept json
// @Produce json
// @Param body body dto.GenerateSiteRequest true "站点类别与偏好"
// @Success 200 {object} dto.Response[dto.GenerateSiteResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/generate-site [post]
func (h *SiteHandler) GenerateSite(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.AppError(c, apperrors.ErrInvalidParam.WithDetail("invalid request body: "+err.Error()))
		return
	}

	result, err := h.service.GenerateSite(ctx, req.SiteType, req.Preferences)
	if err != nil {
		logger.Warn(ctx, "site generation rejected",
			"site_type", req.SiteType,
			"error", err.Error(),
		)
		dto.AppError(c, err)
		return
	}

	dto.SuccessWithMessage(c, dto.GenerateSiteMessage, dto.ToGenerateSiteResponse(result))
}

// ListProjects 获取项目列表
// @Summary 获取项目列表
// @Description 按创建时间倒序返回全部已保存项目
// @Tags Sites
// @Produce json
// @Success 200 {object} dto.Response[dto.ProjectListResponse]
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/projects [get]
func (h *SiteHandler) ListProjects(c *gin.Context) {
	ctx := c.Request.Context()

	projects, err := h.service.ListProjects(ctx)
	if err != nil {
		logger.Error(ctx, "failed to list projects", err)
		dto.AppError(c, err)
		return
	}

	dto.Success(c, dto.ToProjectListResponse(projects))
}
