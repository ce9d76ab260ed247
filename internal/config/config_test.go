package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultKeywords, cfg.Keywords)
	assert.Equal(t, DefaultStatus, cfg.Status)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, DefaultRefreshInterval, cfg.RefreshInterval)
	assert.Equal(t, DefaultPagePath, cfg.PagePath)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `origin: https://bpms.example.com/
session_cookie: "ASP.NET_SessionId=abc"
keywords: [corrigir, revisar]
refresh_interval: 45s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://bpms.example.com", cfg.Origin)
	assert.Equal(t, []string{"corrigir", "revisar"}, cfg.Keywords)
	assert.Equal(t, 45*time.Second, cfg.RefreshInterval)
	assert.Equal(t, DefaultStatus, cfg.Status)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("origin: [unterminated"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnv_OverridesFile(t *testing.T) {
	cfg := Default()
	cfg.Origin = "https://file.example.com"

	env := map[string]string{
		EnvOrigin:   "https://env.example.com",
		EnvCookie:   "sid=1",
		EnvInterval: "10s",
	}
	err := cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.Origin)
	assert.Equal(t, "sid=1", cfg.SessionCookie)
	assert.Equal(t, 10*time.Second, cfg.RefreshInterval)
}

func TestApplyEnv_InvalidInterval(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(k string) (string, bool) {
		if k == EnvInterval {
			return "soon", true
		}
		return "", false
	})
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Origin = "https://bpms.example.com"
	cfg.SessionCookie = "sid=xyz"

	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Origin, loaded.Origin)
	assert.Equal(t, cfg.SessionCookie, loaded.SessionCookie)
	assert.Equal(t, cfg.RefreshInterval, loaded.RefreshInterval)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate())

	cfg.Origin = "bpms.example.com"
	cfg.SessionCookie = "sid=1"
	assert.Error(t, cfg.Validate())

	cfg.Origin = "https://bpms.example.com"
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsConfigured())
}
