package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
database:
  postgres:
    host: localhost
    database: marketplace
    user: marketplace
  elasticsearch:
    addresses: ["http://localhost:9200"]
  redis:
    address: localhost:6379
`

// ==========================
// Loading Tests
// ==========================

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfigFile(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "http://localhost:9200", cfg.Database.Elasticsearch.URL)
	assert.Equal(t, 6, cfg.Recommendation.DefaultLimit)
	assert.Equal(t, 10, cfg.Recommendation.HistoryDepth)
	assert.Equal(t, 2, cfg.Recommendation.PreferenceOverfetch)
	assert.Equal(t, "properties", cfg.Search.PropertyIndex)
	assert.Equal(t, 50, cfg.Admin.PageSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_REDIS_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfigFile(t, minimalConfig+`
    password: ${TEST_REDIS_PASSWORD}
`))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Redis.Password)
}

func TestLoadFromFile_HandlerDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfigFile(t, minimalConfig+`
handlers:
  recommend-properties:
    enabled: true
  nlp-search:
    enabled: false
    timeout: 2500
`))
	require.NoError(t, err)

	assert.Equal(t, 10000, cfg.Handlers["recommend-properties"].Timeout)
	assert.True(t, IsHandlerEnabled(cfg, "recommend-properties"))
	assert.False(t, IsHandlerEnabled(cfg, "nlp-search"))
	assert.Equal(t, 2500, GetHandlerConfig(cfg, "nlp-search").Timeout)
	assert.True(t, IsHandlerEnabled(cfg, "unknown-route"))
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing postgres host",
			body:    "database:\n  redis:\n    address: localhost:6379\n",
			wantErr: "database.postgres.host is required",
		},
		{
			name: "missing redis",
			body: `
database:
  postgres: {host: localhost, database: db, user: u}
  elasticsearch: {url: "http://localhost:9200"}
`,
			wantErr: "database.redis.address is required",
		},
		{
			name: "sns without topic",
			body: minimalConfig + `
notifications:
  sns:
    enabled: true
`,
			wantErr: "notifications.sns.topic_arn is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfigFile(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
