package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// ProductGetter fetches one product. *catalog.Client satisfies it.
type ProductGetter interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// DetailState is what the product detail view shows.
type DetailState struct {
	Product *domain.Product
	Loading bool
	Err     error
}

// DetailView loads the product shown on the detail page. A newer Load
// supersedes an older one still in flight.
type DetailView struct {
	getter ProductGetter
	logger *slog.Logger

	mu    sync.Mutex
	state DetailState
	seq   uint64
}

// NewDetailView creates an empty detail view.
func NewDetailView(getter ProductGetter, logger *slog.Logger) *DetailView {
	return &DetailView{getter: getter, logger: logger}
}

// State returns the current view state.
func (v *DetailView) State() DetailState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Load fetches product id and returns the resulting state.
func (v *DetailView) Load(ctx context.Context, id string) DetailState {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	v.state = DetailState{Loading: true}
	v.mu.Unlock()

	product, err := v.getter.GetProduct(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		return v.state
	}
	v.state = DetailState{Product: product, Err: err}
	if err != nil {
		v.logger.WarnContext(ctx, "product load failed",
			slog.String("product_id", id),
			slog.String("kind", apperrors.KindOf(err)),
			slog.String("error", err.Error()),
		)
	}
	return v.state
}
