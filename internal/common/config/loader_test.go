// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
upstream:
  base_url: http://platform.local
database:
  redis:
    address: localhost:6379
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "portal_client", cfg.Server.ClientCookie)
	assert.Equal(t, PayloadShapeNested, cfg.Upstream.PayloadShape)
	assert.Equal(t, "/api/v1/applications", cfg.Upstream.LegacyPath)
	assert.Equal(t, "/api/v2/applications", cfg.Upstream.NestedPath)
	assert.Equal(t, JobsSourceAPI, cfg.Jobs.Source)
	assert.Equal(t, 3000, cfg.Toasts.Duration)
	assert.Equal(t, 64, cfg.Toasts.Offset)
	assert.Equal(t, "application-review", cfg.Camunda.ProcessID)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_PLATFORM_URL", "http://expanded.local")
	path := writeConfig(t, `
upstream:
  base_url: ${TEST_PLATFORM_URL}
database:
  redis:
    address: localhost:6379
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://expanded.local", cfg.Upstream.BaseURL)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "missing upstream",
			body: `
database:
  redis:
    address: localhost:6379
`,
			wantErr: "upstream.base_url is required",
		},
		{
			name: "unknown payload shape",
			body: `
upstream:
  base_url: http://platform.local
  payload_shape: flat
database:
  redis:
    address: localhost:6379
`,
			wantErr: "upstream.payload_shape",
		},
		{
			name: "postgres source needs postgres",
			body: `
upstream:
  base_url: http://platform.local
jobs:
  source: postgres
database:
  redis:
    address: localhost:6379
`,
			wantErr: "database.postgres.host is required",
		},
		{
			name: "camunda needs broker",
			body: `
upstream:
  base_url: http://platform.local
camunda:
  enabled: true
database:
  redis:
    address: localhost:6379
`,
			wantErr: "camunda.broker_address is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PLATFORM_API_URL", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWorkerDefaults(t *testing.T) {
	path := writeConfig(t, `
upstream:
  base_url: http://platform.local
database:
  redis:
    address: localhost:6379
workers:
  record-application:
    enabled: true
`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	w := GetWorkerConfig(cfg, "record-application")
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
	assert.Equal(t, 3, w.MaxRetries)

	fallback := GetWorkerConfig(cfg, "unknown")
	assert.True(t, fallback.Enabled)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 3*time.Second, GetDuration(3000))
}

func TestElasticsearchAddresses(t *testing.T) {
	assert.Equal(t, []string{"http://es:9200"}, ElasticsearchConfig{URL: "http://es:9200"}.GetAddresses())
	assert.Equal(t, []string{"a", "b"}, ElasticsearchConfig{Addresses: []string{"a", "b"}, URL: "c"}.GetAddresses())
	assert.Nil(t, ElasticsearchConfig{}.GetAddresses())
}
