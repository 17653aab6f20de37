// internal/handlers/admin/manage-bookings/config.go
package managebookings

import (
	"time"

	"realestate-marketplace/internal/common/config"
)

type Config struct {
	PageSize int
	Timeout  time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	hc := config.GetHandlerConfig(appCfg, ManageEndpointID)
	return &Config{
		PageSize: appCfg.Admin.PageSize,
		Timeout:  config.GetDuration(hc.Timeout),
	}
}
