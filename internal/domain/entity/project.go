// Package entity 定义领域实体
package entity

import (
	"time"
)

// SiteProject 已生成的站点项目，持久化后不再修改
type SiteProject struct {
	ID           int64         `json:"id"`
	SiteCategory SiteCategory  `json:"site_category"`
	Preferences  PreferenceSet `json:"preferences"`
	Code         string        `json:"code"`
	CreatedAt    time.Time     `json:"created_at"`
}

// SameContent 判断类别、偏好与代码是否完全一致
func (p *SiteProject) SameContent(category SiteCategory, prefs PreferenceSet, code string) bool {
	return p.SiteCategory == category && p.Code == code && p.Preferences.Equal(prefs)
}

// Clone 返回副本
func (p *SiteProject) Clone() *SiteProject {
	cp := *p
	return &cp
}

// NewestFirst 按创建时间倒序比较，时间相同按 ID 倒序
func NewestFirst(a, b *SiteProject) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	switch {
	case a.ID > b.ID:
		return -1
	case a.ID < b.ID:
		return 1
	}
	return 0
}
