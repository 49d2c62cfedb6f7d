// Package config loads server configuration from environment variables.
// CLI flags override the parsed values in cmd/app.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr           string `env:"RELIEFDESK_ADDR" envDefault:":8080"`
	RPCSocket      string `env:"RELIEFDESK_RPC_SOCKET" envDefault:"/tmp/reliefdesk.sock"`
	DBPath         string `env:"RELIEFDESK_DB_PATH" envDefault:"reliefdesk.db"`
	JWTSecret      string `env:"RELIEFDESK_JWT_SECRET" envDefault:"dev-secret-change-me"`
	AdminEmail     string `env:"RELIEFDESK_ADMIN_EMAIL" envDefault:"admin@reliefdesk.local"`
	AdminPassword  string `env:"RELIEFDESK_ADMIN_PASSWORD" envDefault:"admin"`
	SessionTTLMins int    `env:"RELIEFDESK_SESSION_TTL_MINUTES" envDefault:"720"`
	Debug          bool   `env:"RELIEFDESK_DEBUG" envDefault:"false"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
