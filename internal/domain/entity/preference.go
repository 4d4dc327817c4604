package entity

import (
	"regexp"
	"strings"

	apperrors "site-gen-ai-api/pkg/errors"
)

// Layout 页面布局
type Layout string

const (
	LayoutGrid       Layout = "grid"
	LayoutList       Layout = "list"
	LayoutSinglePage Layout = "single-page"
	LayoutSidebar    Layout = "sidebar"
)

// IsValid 检查布局是否受支持
func (l Layout) IsValid() bool {
	switch l {
	case LayoutGrid, LayoutList, LayoutSinglePage, LayoutSidebar:
		return true
	}
	return false
}

var (
	hexColorPattern   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	namedColorPattern = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// PreferenceSet 规范化后的站点偏好，创建后不再修改
type PreferenceSet struct {
	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	Font           string `json:"font"`
	HasNavbar      bool   `json:"hasNavbar"`
	HasWhatsapp    bool   `json:"hasWhatsapp"`
	HasCart        bool   `json:"hasCart"`
	HasGallery     bool   `json:"hasGallery"`
	Layout         Layout `json:"layout"`
}

// Equal 逐字段比较
func (p PreferenceSet) Equal(other PreferenceSet) bool {
	return p.PrimaryColor == other.PrimaryColor &&
		p.SecondaryColor == other.SecondaryColor &&
		p.Font == other.Font &&
		p.HasNavbar == other.HasNavbar &&
		p.HasWhatsapp == other.HasWhatsapp &&
		p.HasCart == other.HasCart &&
		p.HasGallery == other.HasGallery &&
		p.Layout == other.Layout
}

// RawColors 前端旧版提交的颜色结构
type RawColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// RawPreferences 未经校验的偏好输入
// 同时接受扁平字段与旧版前端结构，两者同时出现时以扁平字段为准
type RawPreferences struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	Font           string `json:"font"`
	HasNavbar      *bool  `json:"hasNavbar"`
	HasWhatsapp    *bool  `json:"hasWhatsapp"`
	HasCart        *bool  `json:"hasCart"`
	HasGallery     *bool  `json:"hasGallery"`
	Layout         string `json:"layout"`

	Colors   *RawColors `json:"colors"`
	Navbar   *bool      `json:"navbar"`
	Whatsapp *bool      `json:"whatsapp"`
	Cart     *bool      `json:"cart"`
	Gallery  *bool      `json:"gallery"`
}

// NormalizePreferences 校验原始偏好并生成 PreferenceSet
func NormalizePreferences(raw RawPreferences) (PreferenceSet, error) {
	primary := strings.TrimSpace(raw.PrimaryColor)
	secondary := strings.TrimSpace(raw.SecondaryColor)
	if raw.Colors != nil {
		if primary == "" {
			primary = strings.TrimSpace(raw.Colors.Primary)
		}
		if secondary == "" {
			secondary = strings.TrimSpace(raw.Colors.Secondary)
		}
	}

	var err error
	if primary, err = normalizeColor("primaryColor", primary); err != nil {
		return PreferenceSet{}, err
	}
	if secondary, err = normalizeColor("secondaryColor", secondary); err != nil {
		return PreferenceSet{}, err
	}
	if secondary != "" && primary == "" {
		return PreferenceSet{}, invalidPreference("secondaryColor requires primaryColor")
	}

	font := strings.TrimSpace(raw.Font)
	if font == "" {
		return PreferenceSet{}, invalidPreference("font is required")
	}
	if strings.ContainsAny(font, "{}") {
		return PreferenceSet{}, invalidPreference("font must not contain braces")
	}

	layout := Layout(strings.ToLower(strings.TrimSpace(raw.Layout)))
	if layout == "" {
		return PreferenceSet{}, invalidPreference("layout is required")
	}
	if !layout.IsValid() {
		return PreferenceSet{}, invalidPreference("unsupported layout: " + string(layout))
	}

	return PreferenceSet{
		PrimaryColor:   primary,
		SecondaryColor: secondary,
		Font:           font,
		HasNavbar:      firstBool(raw.HasNavbar, raw.Navbar),
		HasWhatsapp:    firstBool(raw.HasWhatsapp, raw.Whatsapp),
		HasCart:        firstBool(raw.HasCart, raw.Cart),
		HasGallery:     firstBool(raw.HasGallery, raw.Gallery),
		Layout:         layout,
	}, nil
}

// normalizeColor 接受 #rgb/#rrggbb 或 CSS 颜色名，十六进制统一小写
func normalizeColor(field, value string) (string, error) {
	switch {
	case value == "":
		return "", nil
	case hexColorPattern.MatchString(value):
		return strings.ToLower(value), nil
	case namedColorPattern.MatchString(value):
		return value, nil
	default:
		return "", invalidPreference(field + " must be a hex color or a CSS color name")
	}
}

func firstBool(values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return false
}

func invalidPreference(detail string) error {
	return apperrors.ErrInvalidPreference.WithDetail(detail)
}
