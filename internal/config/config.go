package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env             string        `env:"BLINK_ENV" env-default:"development"`
	Port            string        `env:"PORT" env-default:"3000"`
	DatabaseDSN     string        `env:"DATABASE_DSN" env-required:"true"`
	TokenSecret     string        `env:"TOKEN_SECRET" env-required:"true"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"5m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" env-default:"720h"`
	CookieDomain    string        `env:"COOKIE_DOMAIN"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" env-default:"http://localhost:3000,http://localhost:5173"`
}

// Load reads configuration from the environment. Call godotenv.Load first if
// a .env file should participate.
func Load() (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if len(cfg.TokenSecret) < 16 {
		return nil, fmt.Errorf("TOKEN_SECRET must be at least 16 characters")
	}

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
