// internal/handlers/admin/settings/config.go
package settings

import (
	"time"

	"realestate-marketplace/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	hc := config.GetHandlerConfig(appCfg, UpdateEndpointID)
	return &Config{
		Timeout: config.GetDuration(hc.Timeout),
	}
}
