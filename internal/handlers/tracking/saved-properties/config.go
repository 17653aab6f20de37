// internal/handlers/tracking/saved-properties/config.go
package savedproperties

import (
	"time"

	"realestate-marketplace/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	hc := config.GetHandlerConfig(appCfg, ListEndpointID)
	return &Config{
		Timeout: config.GetDuration(hc.Timeout),
	}
}
