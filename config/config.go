package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// RedisOptions configures the credential cache. An empty Addr disables it.
type RedisOptions struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type RateLimitOptions struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	Burst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

// Config is everything the console reads from its environment.
type Config struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	APIURL      string        `env:"API_URL,required"`
	APITimeout  time.Duration `env:"API_TIMEOUT" envDefault:"30s"`
	DebugHTTP   bool          `env:"DEBUG_HTTP" envDefault:"false"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string        `env:"LOG_FORMAT" envDefault:"text"`
	CORSOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	SessionName          string        `env:"SESSION_NAME" envDefault:"console"`
	SessionEncryptionKey string        `env:"SESSION_ENCRYPTION_KEY"`
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	MaxCodeAttempts      int64         `env:"MAX_CODE_ATTEMPTS" envDefault:"5"`

	Redis     RedisOptions
	RateLimit RateLimitOptions
}

// LoadEnv loads whichever of envFiles exist, in order. It returns how many
// were found.
func LoadEnv(envFiles ...string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads .env files, then the environment, into a Config.
func Load() (*Config, error) {
	if _, err := LoadEnv(".env", ".env.local"); err != nil {
		return nil, errors.Wrap(err, "load .env")
	}
	return Parse()
}

// Parse reads the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APITimeout <= 0 {
		return errors.Errorf("API_TIMEOUT must be positive, got %s", c.APITimeout)
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.Redis.Addr != "" && c.SessionEncryptionKey == "" {
		return errors.New("SESSION_ENCRYPTION_KEY is required when REDIS_ADDR is set")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}
