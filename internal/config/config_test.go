package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  name: sentinela
  user: sentinela
  password: secret
nats:
  url: nats://localhost:4222
minio:
  endpoint: localhost:9000
  bucket: media
face:
  api_url: http://localhost:8000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, 20, cfg.Database.MaxConns)
	require.Equal(t, 60*time.Second, cfg.Face.ExtractTimeout)
	require.Equal(t, 10*time.Second, cfg.Face.DownloadTimeout)
	require.Equal(t, 5*time.Second, cfg.Face.HealthTimeout)
	require.InDelta(t, 0.5, cfg.Face.DefaultThreshold, 1e-12)
	require.Equal(t, 10, cfg.Face.DefaultLimit)
	require.Equal(t, 4, cfg.Face.WorkerCount)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  host: localhost
face:
  api_url: http://localhost:8000
`)

	t.Setenv("SENTINELA_SERVER_PORT", "9090")
	t.Setenv("SENTINELA_DB_HOST", "db.internal")
	t.Setenv("SENTINELA_DB_PASSWORD", "from-env")
	t.Setenv("SENTINELA_FACE_API_URL", "http://face.internal:8000")
	t.Setenv("SENTINELA_FACE_WORKER_COUNT", "8")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "db.internal", cfg.Database.Host)
	require.Equal(t, "from-env", cfg.Database.Password)
	require.Equal(t, "http://face.internal:8000", cfg.Face.APIURL)
	require.Equal(t, 8, cfg.Face.WorkerCount)
}

func TestLoadAPIKeys(t *testing.T) {
	path := writeConfig(t, `
server:
  api_keys:
    - key: k-admin
      name: ops
      role: admin_geral
    - key: k-viewer
      name: kiosk
      role: usuario
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Server.APIKeys, 2)
	require.Equal(t, "ops", cfg.Server.APIKeys[0].Name)
	require.Equal(t, "admin_geral", cfg.Server.APIKeys[0].Role)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, Name: "sentinela", User: "app", Password: "pw"}
	require.Equal(t, "postgres://app:pw@db:5433/sentinela?sslmode=disable", d.DSN())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
