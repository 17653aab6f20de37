// internal/handlers/recommendation/recommend-properties/config.go
package recommendproperties

import (
	"time"

	"realestate-marketplace/internal/common/config"
)

type Config struct {
	DefaultLimit int
	HistoryDepth int
	Overfetch    int
	Timeout      time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	hc := config.GetHandlerConfig(appCfg, EndpointID)
	return &Config{
		DefaultLimit: appCfg.Recommendation.DefaultLimit,
		HistoryDepth: appCfg.Recommendation.HistoryDepth,
		Overfetch:    appCfg.Recommendation.PreferenceOverfetch,
		Timeout:      config.GetDuration(hc.Timeout),
	}
}
