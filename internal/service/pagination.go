package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/scroll"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/pagination"
)

// ProductLister fetches one window of the catalog. *catalog.Client
// satisfies it.
type ProductLister interface {
	ListProducts(ctx context.Context, limit, skip int) (*domain.ProductPage, error)
}

// ControllerConfig holds the paging constants of a listing.
type ControllerConfig struct {
	// PageSize is the number of products requested per page.
	PageSize int
	// TotalPages is the last page infinite scrolling loads before it hands
	// over to manual page selection.
	TotalPages int
}

// errFetchAborted stands in for the error of a fetch that never returned.
var errFetchAborted = errors.New("fetch aborted")

const (
	modeScroll = "scroll"
	modeJump   = "jump"
)

// PaginationController drives an infinite-scroll listing. It loads pages in
// order as near-bottom signals arrive, stops after TotalPages and then
// serves explicit page jumps.
//
// At most one fetch is admitted while IsLoading is set. A page jump may
// start while a fetch is in flight; the older response is then discarded
// when it arrives.
type PaginationController struct {
	lister ProductLister
	cfg    ControllerConfig
	logger *slog.Logger

	mu    sync.Mutex
	state domain.PaginationState
	err   error
	seq   uint64

	// deliverMu orders deliveries so listeners never see an older state after
	// a newer one. notifyMu guards the listener set only and is never held
	// while a listener runs.
	deliverMu      sync.Mutex
	notifyMu       sync.Mutex
	listeners      map[uint64]func(domain.PaginationState)
	nextListenerID uint64

	inflight sync.WaitGroup
}

// NewPaginationController creates a controller in its initial state:
// nothing loaded, CurrentPage 0, HasMore set.
func NewPaginationController(lister ProductLister, cfg ControllerConfig, logger *slog.Logger) (*PaginationController, error) {
	if cfg.PageSize <= 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("page size must be positive, got %d", cfg.PageSize))
	}
	if cfg.TotalPages <= 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("total pages must be positive, got %d", cfg.TotalPages))
	}

	return &PaginationController{
		lister:    lister,
		cfg:       cfg,
		logger:    logger,
		state:     domain.InitialPaginationState(),
		listeners: make(map[uint64]func(domain.PaginationState)),
	}, nil
}

// Config returns the paging constants.
func (c *PaginationController) Config() ControllerConfig {
	return c.cfg
}

// State returns a copy of the current state.
func (c *PaginationController) State() domain.PaginationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Phase returns the coarse controller state.
func (c *PaginationController) Phase() domain.ControllerPhase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Phase()
}

// Err returns the error of the last failed fetch. It is cleared when the
// next fetch starts.
func (c *PaginationController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// RequestNextPage loads the page after CurrentPage and appends it. It is
// ignored, returning false, while a fetch is in flight, once the listing is
// exhausted or while manual pagination is shown. Otherwise it blocks until
// the fetch has resolved and returns true; failures are kept in Err.
func (c *PaginationController) RequestNextPage(ctx context.Context) bool {
	c.mu.Lock()
	if reason := c.refusal(); reason != "" {
		c.mu.Unlock()
		ignoredRequestsTotal.WithLabelValues(reason).Inc()
		c.logger.DebugContext(ctx, "next page request ignored", slog.String("reason", reason))
		return false
	}
	page := c.state.CurrentPage + 1
	seq := c.beginLocked()
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "loading next page", slog.Int("page", page), slog.Uint64("seq", seq))
	c.publish()

	_ = c.fetch(ctx, seq, page, modeScroll)
	return true
}

// GoToPage discards everything loaded so far and loads page p alone. It
// works from any state, including while another fetch is in flight, and
// infinite scrolling resumes from p afterwards. A page past the end of the
// catalog loads as an empty list.
func (c *PaginationController) GoToPage(ctx context.Context, p int) error {
	if p < 1 {
		return apperrors.InvalidInput(fmt.Sprintf("page must be at least 1, got %d", p))
	}

	c.mu.Lock()
	c.state = domain.PaginationState{
		Products:    []domain.Product{},
		CurrentPage: p,
		HasMore:     true,
	}
	seq := c.beginLocked()
	c.mu.Unlock()

	accumulatedProducts.Set(0)

	c.logger.DebugContext(ctx, "jumping to page", slog.Int("page", p), slog.Uint64("seq", seq))
	c.publish()

	return c.fetch(ctx, seq, p, modeJump)
}

// Attach subscribes the controller to near-bottom signals from src. Each
// signal requests the next page on its own goroutine so src is never
// blocked; signals arriving while a page is loading are dropped. The
// returned function detaches again.
func (c *PaginationController) Attach(ctx context.Context, src scroll.Source) (detach func()) {
	return src.Subscribe(func() {
		c.mu.Lock()
		reason := c.refusal()
		c.mu.Unlock()
		if reason != "" {
			ignoredRequestsTotal.WithLabelValues(reason).Inc()
			return
		}

		c.inflight.Add(1)
		go func() {
			defer c.inflight.Done()
			c.RequestNextPage(ctx)
		}()
	})
}

// Wait blocks until every fetch started through Attach has resolved.
func (c *PaginationController) Wait() {
	c.inflight.Wait()
}

// Subscribe registers fn to receive the state after every transition. fn
// runs without the state or listener locks held. It may read the controller
// or cancel its own subscription, but must not start fetches itself.
func (c *PaginationController) Subscribe(fn func(domain.PaginationState)) (cancel func()) {
	c.notifyMu.Lock()
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn
	c.notifyMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.notifyMu.Lock()
			delete(c.listeners, id)
			c.notifyMu.Unlock()
		})
	}
}

// refusal names why a next-page request cannot start, or returns "".
// Callers hold c.mu.
func (c *PaginationController) refusal() string {
	switch {
	case c.state.IsLoading:
		return "loading"
	case !c.state.HasMore, c.state.IsPaginationVisible:
		return "exhausted"
	default:
		return ""
	}
}

// beginLocked marks a fetch as started and returns its sequence number.
// Callers hold c.mu.
func (c *PaginationController) beginLocked() uint64 {
	c.seq++
	c.state.IsLoading = true
	c.err = nil
	return c.seq
}

// fetch loads page and settles the outcome. The deferred settle releases
// IsLoading on every exit path.
func (c *PaginationController) fetch(ctx context.Context, seq uint64, page int, mode string) (err error) {
	start := time.Now()
	var result *domain.ProductPage
	defer func() {
		if result == nil && err == nil {
			err = errFetchAborted
		}
		c.settle(ctx, seq, page, mode, result, err, time.Since(start))
	}()

	p := pagination.ForPage(page, c.cfg.PageSize)
	result, err = c.lister.ListProducts(ctx, p.Limit, p.Skip)
	return err
}

// settle applies a fetch outcome if seq is still the latest fetch.
func (c *PaginationController) settle(ctx context.Context, seq uint64, page int, mode string, result *domain.ProductPage, err error, took time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = apperrors.KindOf(err)
	}
	fetchesTotal.WithLabelValues(mode, outcome).Inc()

	c.mu.Lock()
	if seq != c.seq {
		latest := c.seq
		c.mu.Unlock()
		staleResponsesTotal.Inc()
		c.logger.DebugContext(ctx, "discarding stale page response",
			slog.Int("page", page),
			slog.Uint64("seq", seq),
			slog.Uint64("latest_seq", latest),
		)
		return
	}

	c.state.IsLoading = false
	if err != nil {
		c.err = err
		total := len(c.state.Products)
		c.mu.Unlock()

		c.logger.WarnContext(ctx, "page fetch failed",
			slog.Int("page", page),
			slog.String("mode", mode),
			slog.String("kind", outcome),
			slog.String("error", err.Error()),
			slog.Int("kept_products", total),
		)
		c.publish()
		return
	}

	c.state.Products = append(c.state.Products, result.Products...)
	c.state.CurrentPage = page
	if page >= c.cfg.TotalPages {
		c.state.HasMore = false
		c.state.IsPaginationVisible = true
	}
	total := len(c.state.Products)
	phase := c.state.Phase()
	c.mu.Unlock()

	accumulatedProducts.Set(float64(total))
	c.logger.DebugContext(ctx, "page loaded",
		slog.Int("page", page),
		slog.String("mode", mode),
		slog.Int("received", len(result.Products)),
		slog.Int("total", total),
		slog.String("phase", phase.String()),
		slog.Duration("duration", took),
	)
	c.publish()
}

// publish delivers the current state to every listener.
func (c *PaginationController) publish() {
	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	c.notifyMu.Lock()
	fns := make([]func(domain.PaginationState), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.notifyMu.Unlock()
	if len(fns) == 0 {
		return
	}

	snapshot := c.State()
	for _, fn := range fns {
		fn(snapshot)
	}
}
