package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv  string `envconfig:"APP_ENV" default:"dev"`
	Port    string `envconfig:"PORT" default:"8080"`
	Version string `envconfig:"APP_VERSION" default:"0.1.0"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:"file:bluereserve.db"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Empty RedisURL keeps booking locks in process.
	RedisURL string        `envconfig:"REDIS_URL"`
	LockTTL  time.Duration `envconfig:"LOCK_TTL" default:"10s"`

	// Empty RabbitURL disables event forwarding.
	RabbitURL       string `envconfig:"RABBIT_URL"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"booking.events"`

	EventWorkers int `envconfig:"EVENT_WORKERS" default:"4"`
	EventBuffer  int `envconfig:"EVENT_BUFFER" default:"256"`

	CompletionInterval time.Duration `envconfig:"COMPLETION_INTERVAL" default:"1m"`
	CompletionBatch    int           `envconfig:"COMPLETION_BATCH" default:"100"`

	// Empty endpoint leaves tracing as a no-op.
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	if os.Getenv("APP_ENV") == "" && os.Getenv("ENV") != "" {
		_ = os.Setenv("APP_ENV", os.Getenv("ENV"))
	}

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	if c.AppEnv == "" {
		c.AppEnv = "dev"
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

func (c *Config) validate() error {
	if c.EventWorkers < 0 {
		return fmt.Errorf("EVENT_WORKERS must be >= 0")
	}
	if c.CompletionInterval <= 0 {
		return fmt.Errorf("COMPLETION_INTERVAL must be > 0")
	}
	if c.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be > 0")
	}
	if c.CompletionBatch <= 0 {
		return fmt.Errorf("COMPLETION_BATCH must be > 0")
	}
	return nil
}
