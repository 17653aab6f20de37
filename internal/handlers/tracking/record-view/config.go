// internal/handlers/tracking/record-view/config.go
package recordview

import (
	"time"

	"realestate-marketplace/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config, endpointID string) *Config {
	hc := config.GetHandlerConfig(appCfg, endpointID)
	return &Config{
		Timeout: config.GetDuration(hc.Timeout),
	}
}
