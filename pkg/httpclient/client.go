package httpclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Config holds HTTP client configuration.
type Config struct {
	// Timeout bounds one attempt, including reading the body.
	Timeout         time.Duration
	MaxRetries      int
	RetryWaitMin    time.Duration
	RetryWaitMax    time.Duration
	MaxConnsPerHost int
	UserAgent       string
}

// DefaultConfig returns sensible defaults for HTTP client
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		RetryWaitMin:    time.Second,
		RetryWaitMax:    5 * time.Second,
		MaxConnsPerHost: 100,
		UserAgent:       "storefront/0.1",
	}
}

// Client is an http.Client that retries idempotent requests on network
// errors, 5xx answers and 429 rate limiting.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger logs every attempt at debug level and every failed attempt at
// warn level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client with its own pooled transport.
func New(cfg Config, opts ...Option) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	c := &Client{
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		config:     cfg,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends req, retrying up to MaxRetries times. Only the final response is
// returned; the bodies of retried responses are closed.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	if c.config.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
	log := c.logger.With(slog.String("method", req.Method), slog.String("url", req.URL.Redacted()))

	var wait time.Duration
	for attempt := 1; ; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		log.DebugContext(ctx, "http request", slog.Int("attempt", attempt))
		resp, err := c.httpClient.Do(req)
		last := attempt > c.config.MaxRetries

		if err != nil {
			log.WarnContext(ctx, "http request failed",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			if last || !isRetryableError(err) {
				return nil, fmt.Errorf("http request failed after %d attempts: %w", attempt, err)
			}
			wait = c.backoff(attempt)
			continue
		}

		if last || !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		wait = c.backoff(attempt)
		if after, ok := retryAfter(resp); ok {
			wait = min(after, c.config.RetryWaitMax)
		}
		log.DebugContext(ctx, "retrying after status",
			slog.Int("attempt", attempt),
			slog.Int("status", resp.StatusCode),
			slog.Duration("wait", wait),
		)
		_ = resp.Body.Close()
	}
}

// Get performs a GET that accepts JSON.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.Do(ctx, req)
}

// backoff is the jittered exponential wait after the given failed attempt.
func (c *Client) backoff(attempt int) time.Duration {
	wait := c.config.RetryWaitMin << uint(min(attempt-1, 30))
	if wait > c.config.RetryWaitMax || wait <= 0 {
		wait = c.config.RetryWaitMax
	}
	return addJitter(wait)
}

// retryableStatus covers 5xx except 501, which no retry will fix, and 429.
func retryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code != http.StatusNotImplemented
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(resp *http.Response) (time.Duration, bool) {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// isRetryableError determines if an error is retryable. Cancellation and
// deadline expiry of the caller's context are final.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// addJitter spreads d by ±25% so that clients retrying together do not
// hit the catalog in lockstep.
func addJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	spread := int64(d) / 2
	if spread == 0 {
		return d
	}
	return time.Duration(int64(d) - spread/2 + rand.Int64N(spread+1))
}
