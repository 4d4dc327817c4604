package sitegen

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-gen-ai-api/internal/domain/entity"
	"site-gen-ai-api/internal/domain/repository"
	"site-gen-ai-api/internal/workflow/prompt"
	apperrors "site-gen-ai-api/pkg/errors"
)

type fakeGenerator struct {
	code    string
	err     error
	calls   int
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, p string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, p)
	return f.code, f.err
}

type fakeRepo struct {
	saved   []*entity.SiteProject
	saveErr error
	listErr error
}

func (f *fakeRepo) Save(_ context.Context, category entity.SiteCategory, prefs entity.PreferenceSet, code string) (*repository.SaveResult, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	for _, p := range f.saved {
		if p.SiteCategory == category && p.Preferences.Equal(prefs) && p.Code == code {
			return &repository.SaveResult{Project: p, Duplicate: true}, nil
		}
	}
	p := &entity.SiteProject{
		ID:           int64(len(f.saved) + 1),
		SiteCategory: category,
		Preferences:  prefs,
		Code:         code,
		CreatedAt:    time.Now().UTC(),
	}
	f.saved = append(f.saved, p)
	return &repository.SaveResult{Project: p}, nil
}

func (f *fakeRepo) ListAll(context.Context) ([]*entity.SiteProject, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*entity.SiteProject, 0, len(f.saved))
	for i := len(f.saved) - 1; i >= 0; i-- {
		out = append(out, f.saved[i])
	}
	return out, nil
}

func newTestService(t *testing.T, gen *fakeGenerator, repo *fakeRepo) *Service {
	t.Helper()
	registry, err := prompt.NewRegistry()
	require.NoError(t, err)
	return NewService(registry, gen, repo)
}

func boolPtr(b bool) *bool { return &b }

func validPrefs() entity.RawPreferences {
	return entity.RawPreferences{
		PrimaryColor: "#FF0000",
		Font:         "Roboto",
		HasWhatsapp:  boolPtr(true),
		Layout:       "grid",
	}
}

func TestService_GenerateSite_Success(t *testing.T) {
	gen := &fakeGenerator{code: "<!DOCTYPE html><html></html>"}
	repo := &fakeRepo{}
	svc := newTestService(t, gen, repo)

	res, err := svc.GenerateSite(context.Background(), "restaurant", validPrefs())
	require.NoError(t, err)

	assert.Equal(t, gen.code, res.Code)
	require.NotNil(t, res.ProjectID)
	assert.Equal(t, int64(1), *res.ProjectID)
	assert.False(t, res.Duplicate)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Roboto")
	assert.Contains(t, gen.prompts[0], prompt.WhatsappEnabled)
	assert.NotContains(t, gen.prompts[0], "{")

	require.Len(t, repo.saved, 1)
	assert.Equal(t, entity.SiteCategoryRestaurant, repo.saved[0].SiteCategory)
	assert.Equal(t, "#ff0000", repo.saved[0].Preferences.PrimaryColor)
}

func TestService_GenerateSite_DuplicateReusesProject(t *testing.T) {
	gen := &fakeGenerator{code: "<html></html>"}
	repo := &fakeRepo{}
	svc := newTestService(t, gen, repo)
	ctx := context.Background()

	first, err := svc.GenerateSite(ctx, "gym", validPrefs())
	require.NoError(t, err)
	second, err := svc.GenerateSite(ctx, "gym", validPrefs())
	require.NoError(t, err)

	assert.True(t, second.Duplicate)
	assert.Equal(t, *first.ProjectID, *second.ProjectID)
	assert.Len(t, repo.saved, 1)
}

func TestService_GenerateSite_ValidationBeforeProvider(t *testing.T) {
	tests := []struct {
		name     string
		category string
		prefs    entity.RawPreferences
		want     error
	}{
		{
			name:     "unsupported category",
			category: "bakery",
			prefs:    validPrefs(),
			want:     apperrors.ErrUnsupportedCategory,
		},
		{
			name:     "missing font",
			category: "portfolio",
			prefs:    entity.RawPreferences{PrimaryColor: "#000000", Layout: "list"},
			want:     apperrors.ErrInvalidPreference,
		},
		{
			name:     "bad color",
			category: "clinic",
			prefs:    entity.RawPreferences{PrimaryColor: "red;}", Font: "Inter", Layout: "grid"},
			want:     apperrors.ErrInvalidPreference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{code: "x"}
			repo := &fakeRepo{}
			svc := newTestService(t, gen, repo)

			res, err := svc.GenerateSite(context.Background(), tt.category, tt.prefs)
			assert.Nil(t, res)
			assert.True(t, stderrors.Is(err, tt.want), "got %v", err)
			assert.Zero(t, gen.calls)
			assert.Empty(t, repo.saved)
		})
	}
}

func TestService_GenerateSite_ProviderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"app error passes through", apperrors.ErrLLMProviderError.WithDetail("status 500")},
		{"plain error is wrapped", stderrors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{err: tt.err}
			repo := &fakeRepo{}
			svc := newTestService(t, gen, repo)

			res, err := svc.GenerateSite(context.Background(), "portfolio", validPrefs())
			assert.Nil(t, res)
			assert.True(t, stderrors.Is(err, apperrors.ErrLLMProviderError))
			assert.Empty(t, repo.saved)
		})
	}
}

func TestService_GenerateSite_StoreFailureStillReturnsCode(t *testing.T) {
	gen := &fakeGenerator{code: "<html>ok</html>"}
	repo := &fakeRepo{saveErr: apperrors.ErrStoreUnavailable.WithError(stderrors.New("disk full"))}
	svc := newTestService(t, gen, repo)

	res, err := svc.GenerateSite(context.Background(), "clothing-store", validPrefs())
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", res.Code)
	assert.Nil(t, res.ProjectID)
}

func TestService_ListProjects(t *testing.T) {
	gen := &fakeGenerator{code: "a"}
	repo := &fakeRepo{}
	svc := newTestService(t, gen, repo)
	ctx := context.Background()

	_, err := svc.GenerateSite(ctx, "gym", validPrefs())
	require.NoError(t, err)
	gen.code = "b"
	_, err = svc.GenerateSite(ctx, "gym", validPrefs())
	require.NoError(t, err)

	all, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].Code)

	repo.listErr = apperrors.ErrStoreUnavailable
	_, err = svc.ListProjects(ctx)
	assert.True(t, stderrors.Is(err, apperrors.ErrStoreUnavailable))
}
