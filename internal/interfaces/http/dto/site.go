package dto

import (
	"time"

	"site-gen-ai-api/internal/application/sitegen"
	"site-gen-ai-api/internal/domain/entity"
)

// GenerateSiteMessage 生成成功提示
const GenerateSiteMessage = "Site gerado com sucesso! 🚀"

// GenerateSiteRequest 生成站点请求
type GenerateSiteRequest struct {
	SiteType    string                `json:"siteType" binding:"required"`
	Preferences entity.RawPreferences `json:"preferences"`
}

// GenerateSiteResponse 生成站点响应
type GenerateSiteResponse struct {
	Code      string `json:"code"`
	ProjectID *int64 `json:"project_id"`
	Duplicate bool   `json:"duplicate"`
}

// ProjectResponse 项目响应
type ProjectResponse struct {
	ID           int64                `json:"id"`
	SiteCategory string               `json:"site_category"`
	Preferences  entity.PreferenceSet `json:"preferences"`
	Code         string               `json:"code"`
	CreatedAt    string               `json:"created_at"`
}

// ProjectListResponse 项目列表响应
type ProjectListResponse struct {
	Projects []*ProjectResponse `json:"projects"`
}

// ToGenerateSiteResponse 转换生成结果
func ToGenerateSiteResponse(res *sitegen.GenerateResult) *GenerateSiteResponse {
	return &GenerateSiteResponse{
		Code:      res.Code,
		ProjectID: res.ProjectID,
		Duplicate: res.Duplicate,
	}
}

// ToProjectResponse 转换项目实体
func ToProjectResponse(p *entity.SiteProject) *ProjectResponse {
	return &ProjectResponse{
		ID:           p.ID,
		SiteCategory: string(p.SiteCategory),
		Preferences:  p.Preferences,
		Code:         p.Code,
		CreatedAt:    p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// ToProjectListResponse 转换项目列表，空列表输出 []
func ToProjectListResponse(projects []*entity.SiteProject) *ProjectListResponse {
	out := make([]*ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, ToProjectResponse(p))
	}
	return &ProjectListResponse{Projects: out}
}
