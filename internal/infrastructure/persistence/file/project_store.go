// Package file 提供基于单个 JSON 文件的项目存储
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"site-gen-ai-api/internal/domain/entity"
	"site-gen-ai-api/internal/domain/repository"
	apperrors "site-gen-ai-api/pkg/errors"
)

var tracer = otel.Tracer("filestore")

// document 文件中的持久化结构
type document struct {
	NextID   int64                 `json:"next_id"`
	Projects []*entity.SiteProject `json:"projects"`
}

// ProjectStore 单写者 JSON 文件项目仓储
// 每次保存都会完整重写文件：写临时文件、fsync、再 rename 覆盖
type ProjectStore struct {
	path      string
	mu        sync.Mutex
	now       func() time.Time
	writeFile func(path string, data []byte) error
}

var _ repository.ProjectRepository = (*ProjectStore)(nil)

// NewProjectStore 创建文件仓储，必要时创建所在目录
func NewProjectStore(path string) (*ProjectStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &ProjectStore{
		path:      path,
		now:       time.Now,
		writeFile: atomicWriteFile,
	}, nil
}

// Save 保存项目，内容完全一致时返回已存在的项目
func (s *ProjectStore) Save(ctx context.Context, category entity.SiteCategory, prefs entity.PreferenceSet, code string) (*repository.SaveResult, error) {
	_, span := tracer.Start(ctx, "filestore.ProjectStore.Save")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	for _, p := range doc.Projects {
		if p.SameContent(category, prefs, code) {
			span.SetAttributes(attribute.Bool("duplicate", true), attribute.Int64("project.id", p.ID))
			return &repository.SaveResult{Project: p.Clone(), Duplicate: true}, nil
		}
	}

	project := &entity.SiteProject{
		ID:           nextID(doc),
		SiteCategory: category,
		Preferences:  prefs,
		Code:         code,
		CreatedAt:    s.createdAt(doc),
	}
	next := &document{
		NextID:   project.ID + 1,
		Projects: append(slices.Clone(doc.Projects), project),
	}

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable.WithError(fmt.Errorf("encode store: %w", err))
	}
	if err := s.writeFile(s.path, data); err != nil {
		span.RecordError(err)
		return nil, apperrors.ErrStoreUnavailable.WithError(err)
	}

	span.SetAttributes(attribute.Int64("project.id", project.ID))
	return &repository.SaveResult{Project: project.Clone()}, nil
}

// ListAll 按创建时间倒序返回全部项目
func (s *ProjectStore) ListAll(ctx context.Context) ([]*entity.SiteProject, error) {
	_, span := tracer.Start(ctx, "filestore.ProjectStore.ListAll")
	defer span.End()

	s.mu.Lock()
	doc, err := s.load()
	s.mu.Unlock()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	out := make([]*entity.SiteProject, 0, len(doc.Projects))
	for _, p := range doc.Projects {
		out = append(out, p.Clone())
	}
	slices.SortFunc(out, entity.NewestFirst)
	span.SetAttributes(attribute.Int("project.count", len(out)))
	return out, nil
}

// Init 存储文件不存在时写入空集合，已存在时只校验格式
func (s *ProjectStore) Init(ctx context.Context) error {
	_, span := tracer.Start(ctx, "filestore.ProjectStore.Init")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		_, err := s.load()
		return err
	} else if !errors.Is(err, fs.ErrNotExist) {
		return apperrors.ErrStoreUnavailable.WithError(fmt.Errorf("stat store: %w", err))
	}

	data, err := json.MarshalIndent(&document{NextID: 1, Projects: []*entity.SiteProject{}}, "", "  ")
	if err != nil {
		return apperrors.ErrStoreUnavailable.WithError(fmt.Errorf("encode store: %w", err))
	}
	if err := s.writeFile(s.path, data); err != nil {
		span.RecordError(err)
		return apperrors.ErrStoreUnavailable.WithError(err)
	}
	return nil
}

// HealthCheck 检查存储文件可读且格式正确
func (s *ProjectStore) HealthCheck(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.load()
	return err
}

// load 读取存储文件，文件不存在视为空集合
func (s *ProjectStore) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &document{NextID: 1}, nil
	}
	if err != nil {
		return nil, apperrors.ErrStoreUnavailable.WithError(fmt.Errorf("read store: %w", err))
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.ErrStoreUnavailable.WithError(fmt.Errorf("decode store %s: %w", s.path, err))
	}
	return &doc, nil
}

func (s *ProjectStore) createdAt(doc *document) time.Time {
	now := s.now().UTC()
	for _, p := range doc.Projects {
		if p.CreatedAt.After(now) {
			now = p.CreatedAt
		}
	}
	return now
}

func nextID(doc *document) int64 {
	id := doc.NextID
	for _, p := range doc.Projects {
		if p.ID >= id {
			id = p.ID + 1
		}
	}
	if id < 1 {
		id = 1
	}
	return id
}

// atomicWriteFile 写入同目录临时文件后 rename 覆盖目标
func atomicWriteFile(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
