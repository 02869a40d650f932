package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/tracing"
)

// Config holds all configuration for the storefront browser.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Remote catalog
	CatalogBaseURL        string `env:"CATALOG_BASE_URL" envDefault:"https://dummyjson.com"`
	CatalogCategoriesPath string `env:"CATALOG_CATEGORIES_PATH" envDefault:"/categories"`

	// Pagination
	PageSize   int `env:"PAGE_SIZE" envDefault:"20"`
	TotalPages int `env:"TOTAL_PAGES" envDefault:"10"`

	// Scroll trigger
	ScrollDebounce       time.Duration `env:"SCROLL_DEBOUNCE" envDefault:"150ms"`
	ScrollThresholdLines int           `env:"SCROLL_THRESHOLD_LINES" envDefault:"1"`
	ViewportHeight       int           `env:"VIEWPORT_HEIGHT" envDefault:"24"`
	ViewportWidth        int           `env:"VIEWPORT_WIDTH" envDefault:"80"`

	NotificationDuration time.Duration `env:"NOTIFICATION_DURATION" envDefault:"3s"`

	// HTTP client
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	HTTPMaxRetries int           `env:"HTTP_MAX_RETRIES" envDefault:"2"`
	HTTPRetryWait  time.Duration `env:"HTTP_RETRY_WAIT" envDefault:"250ms"`

	// Circuit breaker around the catalog
	CBMaxRequests  uint32        `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     time.Duration `env:"CB_INTERVAL" envDefault:"60s"`
	CBTimeout      time.Duration `env:"CB_TIMEOUT" envDefault:"30s"`
	CBFailureRatio float64       `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32        `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Admin HTTP server (health, metrics, pprof); 0 disables it.
	AdminHTTPPort       int      `env:"ADMIN_HTTP_PORT" envDefault:"0"`
	MetricsAllowedCIDRs []string `env:"METRICS_ALLOWED_CIDRS" envDefault:"127.0.0.0/8,::1/128,10.0.0.0/8,172.16.0.0/12,192.168.0.0/16" envSeparator:","`
	PprofEnabled        bool     `env:"PPROF_ENABLED" envDefault:"false"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom is Load with an explicit variable set instead of the process env.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadFromMap(cfg, vars); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.CatalogBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("CATALOG_BASE_URL must be an absolute URL, got %q", c.CatalogBaseURL)
	}
	if !strings.HasPrefix(c.CatalogCategoriesPath, "/") {
		return fmt.Errorf("CATALOG_CATEGORIES_PATH must start with '/', got %q", c.CatalogCategoriesPath)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.TotalPages < 1 {
		return fmt.Errorf("TOTAL_PAGES must be positive, got %d", c.TotalPages)
	}
	if c.ScrollDebounce < 0 {
		return fmt.Errorf("SCROLL_DEBOUNCE must not be negative, got %s", c.ScrollDebounce)
	}
	if c.ScrollThresholdLines < 0 {
		return fmt.Errorf("SCROLL_THRESHOLD_LINES must not be negative, got %d", c.ScrollThresholdLines)
	}
	if c.ViewportHeight < 1 || c.ViewportWidth < 20 {
		return fmt.Errorf("viewport must be at least 1 line high and 20 columns wide, got %dx%d", c.ViewportWidth, c.ViewportHeight)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.NotificationDuration <= 0 {
		return fmt.Errorf("NOTIFICATION_DURATION must be positive, got %s", c.NotificationDuration)
	}
	if c.HTTPMaxRetries < 0 {
		return fmt.Errorf("HTTP_MAX_RETRIES must not be negative, got %d", c.HTTPMaxRetries)
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0, 1], got %f", c.CBFailureRatio)
	}
	if c.AdminHTTPPort < 0 || c.AdminHTTPPort > 65535 {
		return fmt.Errorf("invalid ADMIN_HTTP_PORT: %d", c.AdminHTTPPort)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// HTTPClient returns the retrying client settings.
func (c *Config) HTTPClient() httpclient.Config {
	hc := httpclient.DefaultConfig()
	hc.Timeout = c.HTTPTimeout
	hc.MaxRetries = c.HTTPMaxRetries
	hc.RetryWaitMin = c.HTTPRetryWait
	if hc.RetryWaitMax < hc.RetryWaitMin {
		hc.RetryWaitMax = hc.RetryWaitMin
	}
	return hc
}

// CircuitBreaker returns the breaker settings for the catalog client.
func (c *Config) CircuitBreaker() httpclient.CircuitBreakerConfig {
	return httpclient.CircuitBreakerConfig{
		Name:         "catalog",
		MaxRequests:  c.CBMaxRequests,
		Interval:     c.CBInterval,
		Timeout:      c.CBTimeout,
		FailureRatio: c.CBFailureRatio,
		MinRequests:  c.CBMinRequests,
	}
}

// Tracing returns the OpenTelemetry settings for the given service name.
func (c *Config) Tracing(service string) tracing.Config {
	tc := tracing.DefaultConfig(service)
	tc.Environment = c.Environment
	tc.Enabled = c.OTELEnabled
	tc.OTLPEndpoint = c.OTELEndpoint
	tc.SampleRate = c.OTELSampleRate
	return tc
}
