package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// CircuitBreakerConfig holds configuration for the circuit breaker.
type CircuitBreakerConfig struct {
	// Name labels the breaker in metrics and logs.
	Name string

	// MaxRequests is how many probes pass while half-open. 0 means 1.
	MaxRequests uint32

	// Interval clears the counts while closed. 0 never clears them.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration

	// FailureRatio trips the breaker once failures/requests reaches it.
	FailureRatio float64

	// MinRequests is the sample size below which the breaker never trips.
	MinRequests uint32
}

// DefaultCircuitBreakerConfig returns the defaults used for the catalog.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// ErrCircuitOpen is returned without contacting the remote while the breaker
// refuses traffic, either open or half-open with every probe slot taken.
var ErrCircuitOpen = errors.New("circuit breaker open")

var (
	circuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storefront_circuit_breaker_state",
			Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	circuitBreakerRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_circuit_breaker_rejected_total",
			Help: "Requests refused by the circuit breaker without reaching the remote",
		},
		[]string{"name"},
	)
)

func init() {
	prometheus.MustRegister(circuitBreakerState, circuitBreakerRejected)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// CircuitBreakerClient guards a Client with a circuit breaker. Transport
// failures and 5xx answers count against the remote; 4xx answers and callers
// giving up do not.
type CircuitBreakerClient struct {
	client  *Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	logger  *slog.Logger
	cfg     CircuitBreakerConfig
}

// NewCircuitBreakerClient wraps client with a breaker configured by cbCfg.
func NewCircuitBreakerClient(client *Client, cbCfg CircuitBreakerConfig, logger *slog.Logger) *CircuitBreakerClient {
	c := &CircuitBreakerClient{
		client: client,
		logger: logger,
		cfg:    cbCfg,
	}
	c.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:          cbCfg.Name,
		MaxRequests:   cbCfg.MaxRequests,
		Interval:      cbCfg.Interval,
		Timeout:       cbCfg.Timeout,
		ReadyToTrip:   c.readyToTrip,
		IsSuccessful:  isSuccessful,
		OnStateChange: c.onStateChange,
	})
	circuitBreakerState.WithLabelValues(cbCfg.Name).Set(0)
	return c
}

func (c *CircuitBreakerClient) readyToTrip(counts gobreaker.Counts) bool {
	if counts.Requests < c.cfg.MinRequests {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= c.cfg.FailureRatio
}

func (c *CircuitBreakerClient) onStateChange(name string, from, to gobreaker.State) {
	c.logger.Warn("circuit breaker state change",
		slog.String("breaker", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)
	circuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
}

func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// Do sends req through the breaker. A 5xx answer is returned as
// *ServerError with its body already read and closed.
func (c *CircuitBreakerClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.client.Do(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 500 {
			return resp, nil
		}
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &ServerError{StatusCode: resp.StatusCode, Body: body}
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		circuitBreakerRejected.WithLabelValues(c.cfg.Name).Inc()
		c.logger.DebugContext(ctx, "request refused by circuit breaker",
			slog.String("breaker", c.cfg.Name),
			slog.String("url", req.URL.Redacted()),
		)
		return nil, fmt.Errorf("%s: %w", c.cfg.Name, ErrCircuitOpen)
	}
	return resp, err
}

// Get performs a GET that accepts JSON.
func (c *CircuitBreakerClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.Do(ctx, req)
}

// State returns the current state of the circuit breaker.
func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.breaker.State()
}

// Healthy reports an error while the breaker is open. It has the shape of a
// health.Checker.
func (c *CircuitBreakerClient) Healthy(context.Context) error {
	if c.breaker.State() != gobreaker.StateOpen {
		return nil
	}
	return fmt.Errorf("%s: %w", c.cfg.Name, ErrCircuitOpen)
}
