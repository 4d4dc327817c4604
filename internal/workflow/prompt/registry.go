package prompt

import (
	"context"
	"embed"
	"fmt"
	"regexp"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"site-gen-ai-api/internal/domain/entity"
	apperrors "site-gen-ai-api/pkg/errors"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// 模板占位符替换用的固定短语
const (
	DefaultColors = "azul e roxo"
	DefaultFont   = "Poppins"

	NavbarEnabled    = "Navbar fixa no topo"
	NavbarDisabled   = "Sem navbar"
	WhatsappEnabled  = "Botão do WhatsApp flutuante"
	WhatsappDisabled = "Sem WhatsApp"
	CartEnabled      = "Carrinho de compras funcional"
	CartDisabled     = "Sem carrinho"
)

var placeholderPattern = regexp.MustCompile(`\{[a-zA-Z_]+\}`)

// Registry 站点类别到提示词模板的只读注册表
type Registry struct {
	templates map[entity.SiteCategory]einoprompt.ChatTemplate
}

// NewRegistry 加载并解析全部内嵌模板
func NewRegistry() (*Registry, error) {
	r := &Registry{templates: make(map[entity.SiteCategory]einoprompt.ChatTemplate)}
	for _, category := range entity.SiteCategories() {
		text, err := readEmbeddedText(templateFile(category))
		if err != nil {
			return nil, fmt.Errorf("load template for %s: %w", category, err)
		}
		r.templates[category] = einoprompt.FromMessages(schema.FString, schema.UserMessage(text))
	}
	return r, nil
}

// Build 根据类别与偏好生成提示词
func (r *Registry) Build(ctx context.Context, category entity.SiteCategory, prefs entity.PreferenceSet) (string, error) {
	tpl, ok := r.templates[category]
	if !ok {
		return "", apperrors.ErrUnsupportedCategory.WithDetail("unsupported site category: " + string(category))
	}

	msgs, err := tpl.Format(ctx, Variables(prefs))
	if err != nil {
		return "", fmt.Errorf("format %s template: %w", category, err)
	}
	if len(msgs) == 0 {
		return "", fmt.Errorf("format %s template: empty result", category)
	}

	text := msgs[0].Content
	if leftover := placeholderPattern.FindString(text); leftover != "" {
		return "", fmt.Errorf("template %s left placeholder %s unresolved", category, leftover)
	}
	return text, nil
}

// Variables 计算模板变量
func Variables(prefs entity.PreferenceSet) map[string]any {
	return map[string]any{
		"colors":   colorsPhrase(prefs),
		"font":     fontPhrase(prefs),
		"navbar":   choose(prefs.HasNavbar, NavbarEnabled, NavbarDisabled),
		"whatsapp": choose(prefs.HasWhatsapp, WhatsappEnabled, WhatsappDisabled),
		"cart":     choose(prefs.HasCart, CartEnabled, CartDisabled),
	}
}

func colorsPhrase(prefs entity.PreferenceSet) string {
	switch {
	case prefs.PrimaryColor != "" && prefs.SecondaryColor != "":
		return prefs.PrimaryColor + " e " + prefs.SecondaryColor
	case prefs.PrimaryColor != "":
		return prefs.PrimaryColor
	default:
		return DefaultColors
	}
}

func fontPhrase(prefs entity.PreferenceSet) string {
	if prefs.Font == "" {
		return DefaultFont
	}
	return prefs.Font
}

func choose(flag bool, enabled, disabled string) string {
	if flag {
		return enabled
	}
	return disabled
}

func templateFile(category entity.SiteCategory) string {
	return "templates/" + strings.ReplaceAll(string(category), "-", "_") + ".txt"
}

func readEmbeddedText(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
