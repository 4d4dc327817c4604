package entity

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "site-gen-ai-api/pkg/errors"
)

func boolPtr(b bool) *bool { return &b }

func TestNormalizePreferences_MinimalInput(t *testing.T) {
	prefs, err := NormalizePreferences(RawPreferences{
		Font:        "Poppins",
		HasWhatsapp: boolPtr(true),
		Layout:      "grid",
	})
	require.NoError(t, err)

	assert.Equal(t, PreferenceSet{
		Font:        "Poppins",
		HasWhatsapp: true,
		Layout:      LayoutGrid,
	}, prefs)
}

func TestNormalizePreferences_LegacyShape(t *testing.T) {
	prefs, err := NormalizePreferences(RawPreferences{
		Colors:   &RawColors{Primary: "#FF0000", Secondary: "navy"},
		Font:     " Roboto ",
		Navbar:   boolPtr(true),
		Cart:     boolPtr(true),
		Gallery:  boolPtr(false),
		Layout:   "Single-Page",
		Whatsapp: boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "#ff0000", prefs.PrimaryColor)
	assert.Equal(t, "navy", prefs.SecondaryColor)
	assert.Equal(t, "Roboto", prefs.Font)
	assert.True(t, prefs.HasNavbar)
	assert.True(t, prefs.HasCart)
	assert.True(t, prefs.HasWhatsapp)
	assert.False(t, prefs.HasGallery)
	assert.Equal(t, LayoutSinglePage, prefs.Layout)
}

func TestNormalizePreferences_CanonicalFieldsWin(t *testing.T) {
	prefs, err := NormalizePreferences(RawPreferences{
		PrimaryColor: "#123",
		Colors:       &RawColors{Primary: "#abcdef"},
		Font:         "Lato",
		HasNavbar:    boolPtr(false),
		Navbar:       boolPtr(true),
		Layout:       "list",
	})
	require.NoError(t, err)

	assert.Equal(t, "#123", prefs.PrimaryColor)
	assert.False(t, prefs.HasNavbar)
}

func TestNormalizePreferences_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  RawPreferences
	}{
		{"missing layout", RawPreferences{Font: "Poppins"}},
		{"unknown layout", RawPreferences{Font: "Poppins", Layout: "masonry"}},
		{"missing font", RawPreferences{Layout: "grid"}},
		{"blank font", RawPreferences{Font: "   ", Layout: "grid"}},
		{"font with placeholder", RawPreferences{Font: "{navbar}", Layout: "grid"}},
		{"secondary without primary", RawPreferences{SecondaryColor: "#fff", Font: "Poppins", Layout: "grid"}},
		{"malformed hex", RawPreferences{PrimaryColor: "#12345", Font: "Poppins", Layout: "grid"}},
		{"css expression", RawPreferences{PrimaryColor: "rgb(0,0,0)", Font: "Poppins", Layout: "grid"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizePreferences(tt.raw)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, apperrors.ErrInvalidPreference))
		})
	}
}

func TestNormalizePreferences_EqualInputsCompareEqual(t *testing.T) {
	a, err := NormalizePreferences(RawPreferences{PrimaryColor: "#ABC", Font: "Poppins", Layout: "grid"})
	require.NoError(t, err)
	b, err := NormalizePreferences(RawPreferences{Colors: &RawColors{Primary: "#abc"}, Font: "Poppins ", Layout: "GRID"})
	require.NoError(t, err)

	assert.True(t, a.Equal(b))

	b.HasGallery = true
	assert.False(t, a.Equal(b))
}

func TestParseSiteCategory(t *testing.T) {
	tests := []struct {
		in   string
		want SiteCategory
	}{
		{"restaurant", SiteCategoryRestaurant},
		{" Gym ", SiteCategoryGym},
		{"restaurante", SiteCategoryRestaurant},
		{"loja-roupas", SiteCategoryClothingStore},
		{"consultorio", SiteCategoryClinic},
		{"academia", SiteCategoryGym},
		{"portfolio", SiteCategoryPortfolio},
	}
	for _, tt := range tests {
		got, err := ParseSiteCategory(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseSiteCategory("bakery")
	assert.True(t, stderrors.Is(err, apperrors.ErrUnsupportedCategory))
}
