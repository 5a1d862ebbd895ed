package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("APP_CONFIG_NAME", "does-not-exist")

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, EnvDev, c.Env)
	require.Equal(t, "postgres", c.Database.Driver)
	require.Equal(t, 30*time.Second, c.Gateway.Timeout)
	require.Equal(t, 8, c.Collection.Workers)
	require.Equal(t, 5*time.Minute, c.Collection.SweepInterval)
}

func TestNew_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
database:
  driver: sqlite
  dsn: /tmp/pledge.db
gateway:
  timeout: 5s
  client_id: abc
collection:
  workers: 2
`), 0o600))
	t.Setenv("APP_CONFIG_FILE", file)
	t.Setenv("APP_GATEWAY_CLIENT_ID", "from-env")

	c, err := New()
	require.NoError(t, err)
	require.Equal(t, "sqlite", c.Database.Driver)
	require.Equal(t, 5*time.Second, c.Gateway.Timeout)
	require.Equal(t, "from-env", c.Gateway.ClientID)
	require.Equal(t, 2, c.Collection.Workers)
}

func TestNew_ExplicitFileMissing(t *testing.T) {
	t.Setenv("APP_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := New()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := &Config{
		Database:   DBConfig{Driver: "mysql"},
		Gateway:    GatewayConfig{Timeout: time.Second},
		Collection: CollectionConfig{Workers: 1},
	}
	require.ErrorContains(t, c.Validate(), "unsupported database driver")

	c.Database.Driver = "sqlite"
	c.Gateway.Timeout = 0
	require.ErrorContains(t, c.Validate(), "gateway timeout")
}
