package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/ridehail/internal/flagx"
	"github.com/dmitrijs2005/ridehail/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// use timex.Duration, so "15s" and integer nanoseconds both work. Pointer
// fields distinguish "absent" from a zero value.
type JsonConfig struct {
	ServerURL        *string         `json:"server_url"`
	StorePath        *string         `json:"store_path"`
	StoreSecret      *string         `json:"store_secret"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	ResendCooldown   *timex.Duration `json:"resend_cooldown"`
	DefaultCountry   *string         `json:"default_country"`
	CheckTokenExpiry *bool           `json:"check_token_expiry"`
	LogLevel         *string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag nothing is loaded. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.StorePath != nil {
		cfg.StorePath = *jc.StorePath
	}
	if jc.StoreSecret != nil {
		cfg.StoreSecret = *jc.StoreSecret
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ResendCooldown != nil {
		cfg.ResendCooldown = jc.ResendCooldown.Duration
	}
	if jc.DefaultCountry != nil {
		cfg.DefaultCountry = *jc.DefaultCountry
	}
	if jc.CheckTokenExpiry != nil {
		cfg.CheckTokenExpiry = *jc.CheckTokenExpiry
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
