package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// ClientConfig configures the settle command line client.
type ClientConfig struct {
	BaseURL     string        `env:"SETTLE_BASE_URL" envDefault:"http://localhost:5000"`
	HTTPTimeout time.Duration `env:"SETTLE_HTTP_TIMEOUT" envDefault:"30s"`

	// One attempt means no retries.
	RetryAttempts  int           `env:"SETTLE_RETRY_ATTEMPTS" envDefault:"1"`
	RetryBaseDelay time.Duration `env:"SETTLE_RETRY_BASE_DELAY" envDefault:"200ms"`
	RetryMaxDelay  time.Duration `env:"SETTLE_RETRY_MAX_DELAY" envDefault:"2s"`

	ReportDir string `env:"SETTLE_REPORT_DIR" envDefault:"."`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// FakeBackendConfig configures the in-memory dispute API.
type FakeBackendConfig struct {
	Port     int    `env:"PORT" envDefault:"5000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	// Seed loads a few sample disputes at startup.
	Seed bool `env:"FAKE_SEED" envDefault:"false"`
}

func NewClientConfig() (ClientConfig, error) {
	c, err := env.ParseAs[ClientConfig]()
	if err != nil {
		return ClientConfig{}, err
	}

	return c, nil
}

func NewFakeBackendConfig() (FakeBackendConfig, error) {
	c, err := env.ParseAs[FakeBackendConfig]()
	if err != nil {
		return FakeBackendConfig{}, err
	}

	return c, nil
}
