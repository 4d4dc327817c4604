package file

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-gen-ai-api/internal/domain/entity"
	apperrors "site-gen-ai-api/pkg/errors"
)

var basePrefs = entity.PreferenceSet{
	PrimaryColor: "#ff0000",
	Font:         "Poppins",
	HasWhatsapp:  true,
	Layout:       entity.LayoutGrid,
}

func newTestStore(t *testing.T) *ProjectStore {
	t.Helper()
	s, err := NewProjectStore(filepath.Join(t.TempDir(), "data", "projects.json"))
	require.NoError(t, err)

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestProjectStore_DuplicateIsSkipped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, entity.SiteCategoryRestaurant, basePrefs, "<html>1</html>")
	require.NoError(t, err)
	assert.False(t, first.Duplicate)
	assert.Equal(t, int64(1), first.Project.ID)

	second, err := s.Save(ctx, entity.SiteCategoryRestaurant, basePrefs, "<html>1</html>")
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Project.ID, second.Project.ID)
	assert.Equal(t, first.Project.CreatedAt, second.Project.CreatedAt)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProjectStore_DifferingPreferenceCreatesNewRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, entity.SiteCategoryGym, basePrefs, "same")
	require.NoError(t, err)

	changed := basePrefs
	changed.HasGallery = true
	res, err := s.Save(ctx, entity.SiteCategoryGym, changed, "same")
	require.NoError(t, err)
	assert.False(t, res.Duplicate)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProjectStore_ListAllNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const n = 5
	for i := 0; i < n; i++ {
		_, err := s.Save(ctx, entity.SiteCategoryPortfolio, basePrefs, fmt.Sprintf("code-%d", i))
		require.NoError(t, err)
	}

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)
	for i := 1; i < n; i++ {
		assert.True(t, all[i-1].CreatedAt.After(all[i].CreatedAt))
		assert.Greater(t, all[i-1].ID, all[i].ID)
	}
	assert.Equal(t, "code-4", all[0].Code)
}

func TestProjectStore_ListAllReturnsFreshCopies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, entity.SiteCategoryClinic, basePrefs, "code")
	require.NoError(t, err)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	all[0].Code = "mutated"

	again, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "code", again[0].Code)
}

func TestProjectStore_ConcurrentSaves(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const n = 8
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := s.Save(ctx, entity.SiteCategoryRestaurant, basePrefs, fmt.Sprintf("code-%d", i))
			assert.NoError(t, err)
			if err == nil {
				ids[i] = res.Project.ID
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)
	for i := 1; i < n; i++ {
		assert.Greater(t, all[i-1].ID, all[i].ID)
	}
}

func TestProjectStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	s, err := NewProjectStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Save(ctx, entity.SiteCategoryRestaurant, basePrefs, "a")
	require.NoError(t, err)

	reopened, err := NewProjectStore(path)
	require.NoError(t, err)
	res, err := reopened.Save(ctx, entity.SiteCategoryRestaurant, basePrefs, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Project.ID)
}

func TestProjectStore_CorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.path, []byte("{not json"), 0o644))
	ctx := context.Background()

	_, err := s.ListAll(ctx)
	assert.True(t, stderrors.Is(err, apperrors.ErrStoreUnavailable))

	_, err = s.Save(ctx, entity.SiteCategoryGym, basePrefs, "x")
	assert.True(t, stderrors.Is(err, apperrors.ErrStoreUnavailable))

	assert.Error(t, s.HealthCheck(ctx))
}

func TestProjectStore_FailedSaveLeavesContentsUnchanged(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, entity.SiteCategoryGym, basePrefs, "kept")
	require.NoError(t, err)
	before, err := os.ReadFile(s.path)
	require.NoError(t, err)

	s.writeFile = func(string, []byte) error { return stderrors.New("disk full") }
	_, err = s.Save(ctx, entity.SiteCategoryGym, basePrefs, "lost")
	assert.True(t, stderrors.Is(err, apperrors.ErrStoreUnavailable))

	after, err := os.ReadFile(s.path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	s.writeFile = atomicWriteFile
	res, err := s.Save(ctx, entity.SiteCategoryGym, basePrefs, "next")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Project.ID)
}

func TestAtomicWriteFile_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projects.json")

	require.NoError(t, atomicWriteFile(path, []byte(`{"next_id":1}`)))
	require.NoError(t, atomicWriteFile(path, []byte(`{"next_id":2}`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"next_id":2}`, string(data))
}

func TestProjectStore_Init(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Init(ctx))
	_, err := os.Stat(s.path)
	require.NoError(t, err)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = s.Save(ctx, entity.SiteCategoryGym, basePrefs, "a")
	require.NoError(t, err)
	require.NoError(t, s.Init(ctx))

	all, err = s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, os.WriteFile(s.path, []byte("{broken"), 0o644))
	assert.True(t, stderrors.Is(s.Init(ctx), apperrors.ErrStoreUnavailable))
}
