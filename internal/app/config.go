package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/lamdaser/statements/internal/ledger"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":20186"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"60s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"45s"`
	AppForceHTTPS     bool          `envconfig:"APP_FORCE_HTTPS" default:"false"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	UpstreamURL     string        `envconfig:"UPSTREAM_URL" default:"https://api.lamdaser.com"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"15s"`
	QueryBackendURL string        `envconfig:"QUERY_BACKEND_URL"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"https://lamda.netlify.app"`
	RateLimitPerMinute int      `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`
	ExportsPerMinute   int      `envconfig:"EXPORTS_PER_MINUTE" default:"10"`

	RedisAddr        string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RosterCacheTTL   time.Duration `envconfig:"ROSTER_CACHE_TTL" default:"10m"`
	RosterWarmupCron string        `envconfig:"ROSTER_WARMUP_CRON" default:"@every 15m"`

	GotenbergURL     string        `envconfig:"GOTENBERG_URL" default:"http://127.0.0.1:3000"`
	GotenbergTimeout time.Duration `envconfig:"GOTENBERG_TIMEOUT" default:"30s"`

	StatementTimezone string `envconfig:"STATEMENT_TIMEZONE" default:"America/Argentina/Buenos_Aires"`
	AgingScheme       string `envconfig:"AGING_SCHEME" default:"five"`
	AgingBucketsFile  string `envconfig:"AGING_BUCKETS_FILE"`

	CompanyName  string `envconfig:"COMPANY_NAME" default:"Lamda"`
	CompanyAlias string `envconfig:"COMPANY_ALIAS" default:"LAMDA.SER.MARTIN"`
}

// LoadConfig reads configuration from a .env file when present and then from
// environment variables, which take precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.UpstreamURL) == "" {
		return errors.New("upstream url must be provided")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Scheme(); err != nil {
		return err
	}
	if c.ExportsPerMinute <= 0 || c.RateLimitPerMinute <= 0 {
		return errors.New("rate limits must be positive")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// RedirectHTTPS reports whether plain HTTP requests are redirected.
func (c *Config) RedirectHTTPS() bool {
	return c != nil && (c.IsProduction() || c.AppForceHTTPS)
}

// Location resolves the reference timezone for calendar-day comparisons.
func (c *Config) Location() (*time.Location, error) {
	if c.StatementTimezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.StatementTimezone)
	if err != nil {
		return nil, fmt.Errorf("statement timezone: %w", err)
	}
	return loc, nil
}

// Scheme returns the aging bucket scheme. A bucket file overrides the named
// scheme.
func (c *Config) Scheme() (ledger.AgingScheme, error) {
	if c.AgingBucketsFile == "" {
		return ledger.SchemeByName(c.AgingScheme)
	}
	f, err := os.Open(c.AgingBucketsFile)
	if err != nil {
		return ledger.AgingScheme{}, fmt.Errorf("aging buckets file: %w", err)
	}
	defer f.Close()
	return ledger.LoadScheme(f)
}
