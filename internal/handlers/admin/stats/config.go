// internal/handlers/admin/stats/config.go
package stats

import (
	"time"

	"realestate-marketplace/internal/common/config"
)

type Config struct {
	CacheTTL    time.Duration
	RecentLimit int
	Timeout     time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	hc := config.GetHandlerConfig(appCfg, EndpointID)
	return &Config{
		CacheTTL:    config.GetDuration(appCfg.Admin.StatsCacheTTL),
		RecentLimit: 10,
		Timeout:     config.GetDuration(hc.Timeout),
	}
}
