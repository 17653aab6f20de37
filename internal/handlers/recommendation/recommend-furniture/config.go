// internal/handlers/recommendation/recommend-furniture/config.go
package recommendfurniture

import (
	"time"

	"realestate-marketplace/internal/common/config"
)

type Config struct {
	DefaultLimit int
	HistoryDepth int
	Timeout      time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	hc := config.GetHandlerConfig(appCfg, EndpointID)
	return &Config{
		DefaultLimit: appCfg.Recommendation.DefaultLimit,
		HistoryDepth: appCfg.Recommendation.HistoryDepth,
		Timeout:      config.GetDuration(hc.Timeout),
	}
}
