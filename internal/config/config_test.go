package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("QUICKNOTIFY_SESSION_FILE", "-")

	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5000/api", c.API.BaseURL)
	require.Equal(t, 30*time.Second, c.API.Timeout)
	require.Equal(t, "text", c.UI.Out)
	require.Equal(t, 3*time.Second, c.UI.NotifyTTL)
	require.Equal(t, 50, c.UI.LogLines)
	require.Equal(t, "ALL", c.UI.LogLevel)
	require.Equal(t, "", c.Session.File)
	require.Equal(t, 30*time.Minute, c.DevBackend.SessionTTL)
	require.Equal(t, 10, c.DevBackend.LoginAttempts)
	require.Equal(t, time.Minute, c.DevBackend.LoginWindow)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "quicknotify.yaml")
	yml := `
api:
  base_url: http://mail.internal:8080/api
  timeout: 5s
ui:
  out: json
  log_lines: 10
session:
  file: /tmp/qn-session.json
`
	require.NoError(t, os.WriteFile(p, []byte(yml), 0o600))

	t.Setenv("QUICKNOTIFY_TIMEOUT", "2s")
	t.Setenv("INIT_USER", "root")

	c, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "http://mail.internal:8080/api", c.API.BaseURL)
	require.Equal(t, 2*time.Second, c.API.Timeout)
	require.Equal(t, "json", c.UI.Out)
	require.Equal(t, 10, c.UI.LogLines)
	require.Equal(t, "/tmp/qn-session.json", c.Session.File)
	require.Equal(t, "root", c.DevBackend.InitUser)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("QUICKNOTIFY_API_URL", "ftp://nope")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("QUICKNOTIFY_API_URL", "http://localhost:5000/api")
	t.Setenv("QUICKNOTIFY_OUT", "xml")
	_, err = Load("")
	require.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("api: [unclosed"), 0o600))
	_, err := Load(p)
	require.Error(t, err)
}

func TestLoad_DevBackendSessions(t *testing.T) {
	t.Setenv("SESSION_DRIVER", "REDIS")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SECRET_KEY", "s3cr3t")

	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "redis", c.DevBackend.Sessions.Driver)
	require.Equal(t, "cache:6379", c.DevBackend.Sessions.RedisAddr)
	require.Equal(t, 2, c.DevBackend.Sessions.RedisDB)
	require.Equal(t, "s3cr3t", c.DevBackend.SecretKey)
	require.Equal(t, 1000, c.DevBackend.LogBuffer)

	t.Setenv("SESSION_DRIVER", "etcd")
	_, err = Load("")
	require.Error(t, err)
}
