// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"site-gen-ai-api/internal/domain/entity"
	"site-gen-ai-api/internal/domain/repository"
	apperrors "site-gen-ai-api/pkg/errors"
)

// 保存项目时使用的事务级 advisory lock 键
const projectSaveLockKey int64 = 0x73697465

// siteProjectModel site_projects 表结构，偏好字段逐列存储
type siteProjectModel struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	SiteCategory   string    `gorm:"type:varchar(32);not null"`
	PrimaryColor   string    `gorm:"type:varchar(64);not null"`
	SecondaryColor string    `gorm:"type:varchar(64);not null"`
	Font           string    `gorm:"type:varchar(128);not null"`
	HasNavbar      bool      `gorm:"not null"`
	HasWhatsapp    bool      `gorm:"not null"`
	HasCart        bool      `gorm:"not null"`
	HasGallery     bool      `gorm:"not null"`
	Layout         string    `gorm:"type:varchar(32);not null"`
	Code           string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"type:timestamptz;not null;index"`
}

// TableName 指定表名
func (siteProjectModel) TableName() string {
	return "site_projects"
}

func toModel(category entity.SiteCategory, prefs entity.PreferenceSet, code string) *siteProjectModel {
	return &siteProjectModel{
		SiteCategory:   string(category),
		PrimaryColor:   prefs.PrimaryColor,
		SecondaryColor: prefs.SecondaryColor,
		Font:           prefs.Font,
		HasNavbar:      prefs.HasNavbar,
		HasWhatsapp:    prefs.HasWhatsapp,
		HasCart:        prefs.HasCart,
		HasGallery:     prefs.HasGallery,
		Layout:         string(prefs.Layout),
		Code:           code,
	}
}

func (m *siteProjectModel) toEntity() *entity.SiteProject {
	return &entity.SiteProject{
		ID:           m.ID,
		SiteCategory: entity.SiteCategory(m.SiteCategory),
		Preferences: entity.PreferenceSet{
			PrimaryColor:   m.PrimaryColor,
			SecondaryColor: m.SecondaryColor,
			Font:           m.Font,
			HasNavbar:      m.HasNavbar,
			HasWhatsapp:    m.HasWhatsapp,
			HasCart:        m.HasCart,
			HasGallery:     m.HasGallery,
			Layout:         entity.Layout(m.Layout),
		},
		Code:      m.Code,
		CreatedAt: m.CreatedAt,
	}
}

// contentConditions 逐列等值条件，使用 map 以保留零值字段
func (m *siteProjectModel) contentConditions() map[string]any {
	return map[string]any{
		"site_category":   m.SiteCategory,
		"primary_color":   m.PrimaryColor,
		"secondary_color": m.SecondaryColor,
		"font":            m.Font,
		"has_navbar":      m.HasNavbar,
		"has_whatsapp":    m.HasWhatsapp,
		"has_cart":        m.HasCart,
		"has_gallery":     m.HasGallery,
		"layout":          m.Layout,
		"code":            m.Code,
	}
}

// ProjectRepository 站点项目仓储
type ProjectRepository struct {
	client *Client
	tx     repository.Transactor
	now    func() time.Time
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)

// NewProjectRepository 创建站点项目仓储
func NewProjectRepository(client *Client, tx *TxManager) *ProjectRepository {
	return &ProjectRepository{client: client, tx: tx, now: time.Now}
}

// Save 在事务内持有 advisory lock 完成查重与插入
func (r *ProjectRepository) Save(ctx context.Context, category entity.SiteCategory, prefs entity.PreferenceSet, code string) (*repository.SaveResult, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.Save")
	defer span.End()

	candidate := toModel(category, prefs, code)
	var result *repository.SaveResult

	err := r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		db := getDB(ctx, r.client.db)

		if err := db.Exec("SELECT pg_advisory_xact_lock(?)", projectSaveLockKey).Error; err != nil {
			return fmt.Errorf("acquire save lock: %w", err)
		}

		var existing []siteProjectModel
		if err := db.Where(candidate.contentConditions()).Order("id ASC").Limit(1).Find(&existing).Error; err != nil {
			return fmt.Errorf("find duplicate project: %w", err)
		}
		if len(existing) > 0 {
			result = &repository.SaveResult{Project: existing[0].toEntity(), Duplicate: true}
			return nil
		}

		candidate.CreatedAt = r.now().UTC().Truncate(time.Microsecond)
		if err := db.Create(candidate).Error; err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		result = &repository.SaveResult{Project: candidate.toEntity()}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, apperrors.ErrStoreUnavailable.WithError(err)
	}

	span.SetAttributes(
		attribute.Int64("project.id", result.Project.ID),
		attribute.Bool("duplicate", result.Duplicate),
	)
	return result, nil
}

// ListAll 按创建时间倒序返回全部项目
func (r *ProjectRepository) ListAll(ctx context.Context) ([]*entity.SiteProject, error) {
	ctx, span := tracer.Start(ctx, "postgres.ProjectRepository.ListAll")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var rows []siteProjectModel
	if err := db.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		span.RecordError(err)
		return nil, apperrors.ErrStoreUnavailable.WithError(fmt.Errorf("list projects: %w", err))
	}

	out := make([]*entity.SiteProject, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	span.SetAttributes(attribute.Int("project.count", len(out)))
	return out, nil
}

// HealthCheck 检查数据库连接
func (r *ProjectRepository) HealthCheck(ctx context.Context) error {
	return r.client.HealthCheck(ctx)
}
