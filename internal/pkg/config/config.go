package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.)
// - default: Values common across all environments (timeouts, retry budgets, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
	Sales   SalesConfig
	Mint    MintConfig
	Payment PaymentConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	// Channel that availability change notifications are published on.
	AvailabilityChannel string `envconfig:"REDIS_AVAILABILITY_CHANNEL" default:"ticket_availability"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type SalesConfig struct {
	// Default TTL for inventory holds; short so abandoned checkouts
	// return inventory quickly. Overridable per ticket type.
	HoldTTL time.Duration `envconfig:"SALES_HOLD_TTL" default:"5m"`
	// Upper bound on tickets a single purchase request may ask for.
	MaxPerBuyer int `envconfig:"SALES_MAX_PER_BUYER" default:"10"`
	// How often the sweeper reclaims expired holds and listings.
	SweepInterval time.Duration `envconfig:"SALES_SWEEP_INTERVAL" default:"30s"`
	// CAS retry budget before an inventory operation surfaces Contended.
	CounterRetryBudget int `envconfig:"SALES_COUNTER_RETRY_BUDGET" default:"8"`
}

type MintConfig struct {
	MaxRetries  int           `envconfig:"MINT_MAX_RETRIES" default:"5"`
	BaseBackoff time.Duration `envconfig:"MINT_BASE_BACKOFF" default:"2s"`
	Workers     int           `envconfig:"MINT_WORKERS" default:"4"`
	QueueSize   int           `envconfig:"MINT_QUEUE_SIZE" default:"1024"`
}

type PaymentConfig struct {
	GatewayBaseURL string        `envconfig:"PAYMENT_GATEWAY_BASE_URL" default:"http://localhost:9090"`
	Timeout        time.Duration `envconfig:"PAYMENT_TIMEOUT" default:"10s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Sales: SalesConfig{
			HoldTTL:            5 * time.Minute,
			MaxPerBuyer:        10,
			SweepInterval:      30 * time.Second,
			CounterRetryBudget: 8,
		},
		Mint: MintConfig{
			MaxRetries:  3,
			BaseBackoff: 10 * time.Millisecond,
			Workers:     2,
			QueueSize:   64,
		},
	}
}
