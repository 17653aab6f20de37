// internal/handlers/maintenance/book-service/config.go
package bookservice

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
