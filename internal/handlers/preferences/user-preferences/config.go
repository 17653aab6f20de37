// internal/handlers/preferences/user-preferences/config.go
package userpreferences

import (
	"time"

	"realestate-marketplace/internal/common/config"
)

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	hc := config.GetHandlerConfig(appCfg, GetEndpointID)
	return &Config{
		Timeout:  config.GetDuration(hc.Timeout),
		CacheTTL: 5 * time.Minute,
	}
}
