package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
	"github.com/utafrali/storefront/pkg/tracing"
)

// MockCatalog holds configuration for the local catalog API.
type MockCatalog struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort            int           `env:"MOCK_CATALOG_HTTP_PORT" envDefault:"8090"`
	Products            int           `env:"MOCK_CATALOG_PRODUCTS" envDefault:"194"`
	Seed                uint64        `env:"MOCK_CATALOG_SEED" envDefault:"42"`
	Latency             time.Duration `env:"MOCK_CATALOG_LATENCY" envDefault:"0s"`
	CORSOrigins         []string      `env:"MOCK_CATALOG_CORS_ORIGINS" envDefault:"*" envSeparator:","`
	CacheMaxAge         int           `env:"MOCK_CATALOG_CACHE_SECONDS" envDefault:"300"`
	CategoriesAsStrings bool          `env:"MOCK_CATALOG_CATEGORY_STRINGS" envDefault:"false"`

	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// LoadMockCatalog reads the mock catalog configuration from the environment.
func LoadMockCatalog() (*MockCatalog, error) {
	cfg := &MockCatalog{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load mock catalog config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid MOCK_CATALOG_HTTP_PORT: %d", cfg.HTTPPort)
	}
	if cfg.Products < 0 {
		return nil, fmt.Errorf("MOCK_CATALOG_PRODUCTS must not be negative, got %d", cfg.Products)
	}
	if cfg.Latency < 0 {
		return nil, fmt.Errorf("MOCK_CATALOG_LATENCY must not be negative, got %s", cfg.Latency)
	}
	return cfg, nil
}

// Tracing returns the OpenTelemetry settings for the mock catalog.
func (c *MockCatalog) Tracing() tracing.Config {
	tc := tracing.DefaultConfig("mockcatalog")
	tc.Environment = c.Environment
	tc.Enabled = c.OTELEnabled
	tc.OTLPEndpoint = c.OTELEndpoint
	tc.SampleRate = c.OTELSampleRate
	return tc
}
