package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("SHAREIT_TEST_DB", "test.db")

	yamlContent := `
app:
  name: "shareit-test"
database:
  path: "${SHAREIT_TEST_DB}"
server:
  http:
    port: 9191
  auth:
    enabled: true
    api_keys:
      - key: "gateway-key"
        extra: "gateway-extra"
        name: "gateway"
gateway:
  server_url: "http://localhost:9191"
  user_rate_limit:
    requests: 5
    window: 10s
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "shareit-test", cfg.App.Name)
	assert.Equal(t, "test.db", cfg.Database.Path)
	assert.Equal(t, 9191, cfg.Server.HTTP.Port)
	assert.Equal(t, 8080, cfg.Gateway.HTTP.Port)
	assert.Equal(t, 5, cfg.Gateway.UserLimit.Requests)
	assert.Equal(t, 10*time.Second, cfg.Gateway.UserLimit.Window)
	assert.Equal(t, 10*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, "x-api-key", cfg.Server.Auth.HeaderAPIKey)
	require.Len(t, cfg.Server.Auth.APIKeys, 1)
	assert.Equal(t, "gateway", cfg.Server.Auth.APIKeys[0].Name)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     Config{Database: DatabaseConfig{Path: "path"}},
			wantErr: false,
		},
		{
			name:    "missing database path",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "relative server url",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Gateway:  GatewayConfig{ServerURL: "localhost:9090"},
			},
			wantErr: true,
		},
		{
			name: "backup without storage path",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Backup:   BackupConfig{Enabled: true},
			},
			wantErr: true,
		},
		{
			name: "duplicate api key",
			cfg: Config{
				Database: DatabaseConfig{Path: "path"},
				Server: ServerConfig{Auth: AuthConfig{APIKeys: []ClientKey{
					{Key: "k", Name: "a"},
					{Key: "k", Name: "b"},
				}}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{Monitoring: MonitoringConfig{PrometheusEnabled: true}}
	cfg.applyDefaults()

	assert.Equal(t, "shareit", cfg.App.Name)
	assert.Equal(t, 9090, cfg.Server.HTTP.Port)
	assert.Equal(t, "http://localhost:9090", cfg.Gateway.ServerURL)
	assert.Equal(t, 9100, cfg.Monitoring.PrometheusPort)
	assert.Equal(t, "x-api-extra", cfg.Server.Auth.HeaderExtra)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}
