// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App            AppConfig                `mapstructure:"app"`
	Server         ServerConfig             `mapstructure:"server"`
	Database       DatabaseConfig           `mapstructure:"database"`
	Handlers       map[string]HandlerConfig `mapstructure:"handlers"`
	Recommendation RecommendationConfig     `mapstructure:"recommendation"`
	Search         SearchConfig             `mapstructure:"search"`
	Notifications  NotificationConfig       `mapstructure:"notifications"`
	Admin          AdminConfig              `mapstructure:"admin"`
	Logging        LoggingConfig            `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Address         string   `mapstructure:"address"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	RateLimit       struct {
		Enabled  bool `mapstructure:"enabled"`
		Requests int  `mapstructure:"requests"`
		Window   int  `mapstructure:"window"` // milliseconds
	} `mapstructure:"rate_limit"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// HandlerConfig holds the settings applicable to every HTTP handler.
type HandlerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Timeout int  `mapstructure:"timeout"` // milliseconds
}

// RecommendationConfig tunes the ranking procedure.
type RecommendationConfig struct {
	DefaultLimit        int `mapstructure:"default_limit"`
	HistoryDepth        int `mapstructure:"history_depth"`
	PreferenceOverfetch int `mapstructure:"preference_overfetch"`
}

// SearchConfig holds index names and the breaker guarding Elasticsearch.
type SearchConfig struct {
	PropertyIndex  string `mapstructure:"property_index"`
	FurnitureIndex string `mapstructure:"furniture_index"`
	MaxResults     int    `mapstructure:"max_results"`
	Breaker        struct {
		MaxRequests  uint32  `mapstructure:"max_requests"`
		Interval     int     `mapstructure:"interval"` // milliseconds
		Timeout      int     `mapstructure:"timeout"`  // milliseconds
		MinRequests  uint32  `mapstructure:"min_requests"`
		FailureRatio float64 `mapstructure:"failure_ratio"`
	} `mapstructure:"breaker"`
}

// NotificationConfig holds settings for booking notifications.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// AdminConfig holds back-office settings.
type AdminConfig struct {
	RoleCacheTTL  int `mapstructure:"role_cache_ttl"`  // milliseconds
	StatsCacheTTL int `mapstructure:"stats_cache_ttl"` // milliseconds
	PageSize      int `mapstructure:"page_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
