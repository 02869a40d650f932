// Package catalog is the client of the remote product catalog API.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/tracing"
)

const (
	// DefaultCategoriesPath is where the category list is served.
	DefaultCategoriesPath = "/categories"

	maxBody = 10 << 20
)

// Doer sends an HTTP request. *httpclient.Client and
// *httpclient.CircuitBreakerClient both satisfy it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client reads products and categories from the catalog API. Every failure
// it returns is an *apperrors.AppError of kind Transport, HTTP, NotFound,
// Malformed or InvalidInput.
type Client struct {
	baseURL        *url.URL
	categoriesPath string
	doer           Doer
	logger         *slog.Logger
	tracer         trace.Tracer
}

// Option customizes a Client.
type Option func(*Client)

// WithCategoriesPath overrides DefaultCategoriesPath.
func WithCategoriesPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.categoriesPath = path
		}
	}
}

// WithLogger sets the logger for request and failure logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a catalog client rooted at baseURL.
func New(baseURL string, doer Doer, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid catalog base URL %q", baseURL))
	}

	c := &Client{
		baseURL:        u,
		categoriesPath: DefaultCategoriesPath,
		doer:           doer,
		logger:         logger.Discard(),
		tracer:         tracing.Tracer("github.com/utafrali/storefront/internal/catalog"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListProducts fetches one window of products: limit items starting at skip.
func (c *Client) ListProducts(ctx context.Context, limit, skip int) (*domain.ProductPage, error) {
	if limit <= 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("limit must be positive, got %d", limit))
	}
	if skip < 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("skip must not be negative, got %d", skip))
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(skip))

	var page *domain.ProductPage
	err := c.get(ctx, "list_products", "/products", q, func(body []byte) error {
		var err error
		page, err = decodeProductPage(body, limit, skip)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// GetProduct fetches a single product. A 404 yields a NotFound error whose
// message is the server's own text.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	var product *domain.Product
	err := c.get(ctx, "get_product", "/products/"+url.PathEscape(id), nil, func(body []byte) error {
		var err error
		product, err = decodeProduct(body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// ListCategories fetches the category menu.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := c.get(ctx, "list_categories", c.categoriesPath, nil, func(body []byte) error {
		var err error
		categories, err = decodeCategories(body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// get performs one GET against path and hands a 2xx body to decode. All
// failures leave as classified AppErrors.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, decode func([]byte) error) (err error) {
	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()
	target := u.String()

	ctx, span := c.tracer.Start(ctx, "catalog."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.HTTPMethod(http.MethodGet),
			semconv.HTTPURL(target),
		),
	)
	correlationID := uuid.NewString()
	ctx = logger.WithCorrelationID(ctx, correlationID)
	log := logger.WithContext(ctx, c.logger).With(slog.String("operation", op))
	start := time.Now()

	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = apperrors.KindOf(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
			level := slog.LevelError
			if errors.Is(err, apperrors.ErrNotFound) {
				level = slog.LevelInfo
			}
			log.Log(ctx, level, "catalog request failed",
				slog.String("url", target),
				slog.String("kind", outcome),
				slog.String("error", err.Error()),
				slog.Duration("duration", time.Since(start)),
			)
		}
		requestsTotal.WithLabelValues(op, outcome).Inc()
		requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return apperrors.InvalidInput(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Correlation-ID", correlationID)
	if sid := logger.SessionIDFromContext(ctx); sid != "" {
		req.Header.Set("X-Session-ID", sid)
	}
	tracing.InjectHTTP(ctx, req.Header)

	log.DebugContext(ctx, "catalog request", slog.String("method", req.Method), slog.String("url", target))

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		var serverErr *httpclient.ServerError
		if errors.As(err, &serverErr) {
			span.SetAttributes(semconv.HTTPStatusCode(serverErr.StatusCode))
			return httpclient.ErrorFromBody(serverErr.StatusCode, serverErr.Body)
		}
		return apperrors.Transport(err)
	}
	span.SetAttributes(semconv.HTTPStatusCode(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpclient.ParseResponseError(resp)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return apperrors.Transport(fmt.Errorf("read body: %w", err))
	}
	span.SetAttributes(attribute.Int("http.response_content_length", len(body)))

	log.DebugContext(ctx, "catalog response",
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", time.Since(start)),
	)

	return decode(body)
}
