// internal/handlers/maintenance/list-services/config.go
package listservices

import (
	"time"

	"realestate-marketplace/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	hc := config.GetHandlerConfig(appCfg, EndpointID)
	return &Config{
		Timeout: config.GetDuration(hc.Timeout),
	}
}
