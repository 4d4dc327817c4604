package entity

import (
	"strings"

	apperrors "site-gen-ai-api/pkg/errors"
)

// SiteCategory 站点业务类别
type SiteCategory string

const (
	SiteCategoryRestaurant    SiteCategory = "restaurant"
	SiteCategoryClothingStore SiteCategory = "clothing-store"
	SiteCategoryPortfolio     SiteCategory = "portfolio"
	SiteCategoryClinic        SiteCategory = "clinic"
	SiteCategoryGym           SiteCategory = "gym"
)

// 前端历史上使用的葡萄牙语标识
var siteCategoryAliases = map[string]SiteCategory{
	"restaurante": SiteCategoryRestaurant,
	"loja-roupas": SiteCategoryClothingStore,
	"consultorio": SiteCategoryClinic,
	"academia":    SiteCategoryGym,
}

// SiteCategories 返回全部支持的类别
func SiteCategories() []SiteCategory {
	return []SiteCategory{
		SiteCategoryRestaurant,
		SiteCategoryClothingStore,
		SiteCategoryPortfolio,
		SiteCategoryClinic,
		SiteCategoryGym,
	}
}

// IsValid 检查类别是否受支持
func (c SiteCategory) IsValid() bool {
	switch c {
	case SiteCategoryRestaurant, SiteCategoryClothingStore, SiteCategoryPortfolio,
		SiteCategoryClinic, SiteCategoryGym:
		return true
	}
	return false
}

// ParseSiteCategory 解析类别标识，大小写不敏感，兼容葡萄牙语别名
func ParseSiteCategory(s string) (SiteCategory, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c := SiteCategory(key); c.IsValid() {
		return c, nil
	}
	if c, ok := siteCategoryAliases[key]; ok {
		return c, nil
	}
	return "", apperrors.ErrUnsupportedCategory.WithDetail("unsupported site category: " + s)
}
