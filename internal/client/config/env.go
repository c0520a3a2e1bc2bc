package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/ridehail/internal/flagx"
)

const envPrefix = "RIDEHAIL_"

// EnvConfig mirrors Config for environment parsing. Only variables that are
// set overwrite the values already present.
type EnvConfig struct {
	ServerURL        string        `env:"SERVER_URL"`
	StorePath        string        `env:"STORE_PATH"`
	StoreSecret      string        `env:"STORE_SECRET"`
	RequestTimeout   time.Duration `env:"REQUEST_TIMEOUT"`
	ResendCooldown   time.Duration `env:"RESEND_COOLDOWN"`
	DefaultCountry   string        `env:"DEFAULT_COUNTRY"`
	CheckTokenExpiry bool          `env:"CHECK_TOKEN_EXPIRY"`
	LogLevel         string        `env:"LOG_LEVEL"`
}

// parseEnv overlays Config with RIDEHAIL_* environment variables. A dotenv
// file named by -e or -env is loaded first; variables already present in
// the environment win over the file. Panics on read or parse errors.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	}

	ec := EnvConfig{
		ServerURL:        cfg.ServerURL,
		StorePath:        cfg.StorePath,
		StoreSecret:      cfg.StoreSecret,
		RequestTimeout:   cfg.RequestTimeout,
		ResendCooldown:   cfg.ResendCooldown,
		DefaultCountry:   cfg.DefaultCountry,
		CheckTokenExpiry: cfg.CheckTokenExpiry,
		LogLevel:         cfg.LogLevel,
	}
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: envPrefix}); err != nil {
		panic(err)
	}

	cfg.ServerURL = ec.ServerURL
	cfg.StorePath = ec.StorePath
	cfg.StoreSecret = ec.StoreSecret
	cfg.RequestTimeout = ec.RequestTimeout
	cfg.ResendCooldown = ec.ResendCooldown
	cfg.DefaultCountry = ec.DefaultCountry
	cfg.CheckTokenExpiry = ec.CheckTokenExpiry
	cfg.LogLevel = ec.LogLevel
}
