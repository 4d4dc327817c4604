// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"site-gen-ai-api/internal/domain/entity"
)

// SaveResult 保存结果
type SaveResult struct {
	// Project 新建的项目，重复时为已存在的项目
	Project *entity.SiteProject
	// Duplicate 为 true 表示内容完全一致的项目已存在，未写入新记录
	Duplicate bool
}

// ProjectRepository 站点项目仓储接口
// 存储层故障统一以 errors.ErrStoreUnavailable 返回
type ProjectRepository interface {
	// Save 保存项目，类别、偏好与代码完全一致时不重复写入
	Save(ctx context.Context, category entity.SiteCategory, prefs entity.PreferenceSet, code string) (*SaveResult, error)

	// ListAll 按创建时间倒序返回全部项目
	ListAll(ctx context.Context) ([]*entity.SiteProject, error)
}
