// internal/handlers/catalog/list-furniture/config.go
package listfurniture

import (
	"time"

	"realestate-marketplace/internal/common/config"
)

type Config struct {
	MaxResults int
	Timeout    time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	hc := config.GetHandlerConfig(appCfg, EndpointID)
	return &Config{
		MaxResults: 200,
		Timeout:    config.GetDuration(hc.Timeout),
	}
}
