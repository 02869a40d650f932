package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// CategoryFetcher loads the category menu. *catalog.Client satisfies it.
type CategoryFetcher interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// ErrCategoriesNotLoaded is reported by Ready until the first successful load.
var ErrCategoriesNotLoaded = errors.New("categories not loaded")

// CategoryStore holds the category menu for the lifetime of the app. It is
// loaded once and never refreshed.
type CategoryStore struct {
	fetcher CategoryFetcher
	logger  *slog.Logger

	once    sync.Once
	initErr error

	mu         sync.RWMutex
	categories []domain.Category
	loaded     bool
}

// NewCategoryStore creates an empty store.
func NewCategoryStore(fetcher CategoryFetcher, logger *slog.Logger) *CategoryStore {
	return &CategoryStore{
		fetcher:    fetcher,
		logger:     logger,
		categories: []domain.Category{},
	}
}

// Init fetches the categories. Only the first call fetches; later calls
// return the first call's result.
func (s *CategoryStore) Init(ctx context.Context) error {
	s.once.Do(func() {
		categories, err := s.fetcher.ListCategories(ctx)
		if err != nil {
			s.initErr = err
			s.logger.WarnContext(ctx, "failed to load categories",
				slog.String("kind", apperrors.KindOf(err)),
				slog.String("error", err.Error()),
			)
			return
		}
		s.Set(categories)
		s.logger.InfoContext(ctx, "categories loaded", slog.Int("count", len(categories)))
	})
	return s.initErr
}

// Get returns a copy of the categories, empty before the first load.
func (s *CategoryStore) Get() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

// Set replaces the categories.
func (s *CategoryStore) Set(categories []domain.Category) {
	cp := make([]domain.Category, len(categories))
	copy(cp, categories)

	s.mu.Lock()
	s.categories = cp
	s.loaded = true
	s.mu.Unlock()
}

// Ready reports ErrCategoriesNotLoaded until categories have been set.
func (s *CategoryStore) Ready(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return ErrCategoriesNotLoaded
	}
	return nil
}
