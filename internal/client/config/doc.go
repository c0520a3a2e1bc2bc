// Package config loads runtime configuration for the ridehail CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables prefixed with RIDEHAIL_ (see parseEnv), after
//     loading an optional dotenv file selected via -e or -env.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the auth API
//	-s string   path of the session store
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// Durations are timex.Duration values, either strings like "15s" or integer
// nanoseconds. Every key is optional:
//
//	{
//	  "server_url": "http://127.0.0.1:5001",
//	  "store_path": "/var/lib/ridehail/session.db",
//	  "store_secret": "",
//	  "request_timeout": "15s",
//	  "resend_cooldown": "60s",
//	  "default_country": "GH",
//	  "check_token_expiry": true,
//	  "log_level": "info"
//	}
//
// # Environment
//
//	RIDEHAIL_SERVER_URL, RIDEHAIL_STORE_PATH, RIDEHAIL_STORE_SECRET,
//	RIDEHAIL_REQUEST_TIMEOUT, RIDEHAIL_RESEND_COOLDOWN,
//	RIDEHAIL_DEFAULT_COUNTRY, RIDEHAIL_CHECK_TOKEN_EXPIRY, RIDEHAIL_LOG_LEVEL
package config
