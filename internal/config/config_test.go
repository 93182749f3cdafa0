package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REFRESH_CRON", "")
	t.Setenv("SQLITE_PATH", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, 15, cfg.Resolver.PrimaryTimeoutSec)
	require.Equal(t, 60, cfg.Resolver.CacheTTLMin)
	require.Equal(t, 3, cfg.Resolver.MaxConcurrent)
	require.Equal(t, "0 */5 * * * *", cfg.Refresh.Cron)
	require.Equal(t, "data/marketpulse.db", cfg.Database.SQLitePath)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
search:
  endpoint: https://search.example.com/api
  api_key: from-file
  result_count: 8
resolver:
  primary_timeout_sec: 20
`), 0o644))

	t.Setenv("SEARCH_API_KEY", "from-env")
	t.Setenv("SQLITE_PATH", "/tmp/override.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Server.Port)
	require.Equal(t, "from-env", cfg.Search.APIKey, "env beats file")
	require.Equal(t, 8, cfg.Search.ResultCount)
	require.Equal(t, 20, cfg.Resolver.PrimaryTimeoutSec)
	require.Equal(t, "/tmp/override.db", cfg.Database.SQLitePath)
	require.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not: a: mapping"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate_SearchKeyRequiredWithEndpoint(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	cfg.Search.Endpoint = "https://search.example.com/api"
	require.Error(t, cfg.Validate())
	cfg.Search.APIKey = "k"
	require.NoError(t, cfg.Validate())
}
