package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "base_url: https://api.example.com\nlog_level: debug\ntimeout: 30s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	s, err := loadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", s.BaseURL)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 30*time.Second, s.Timeout)
	// not in the file
	assert.Equal(t, defaultFallbackEmail, s.FallbackEmail)
	assert.NotEmpty(t, s.DataDir)
}

func TestLoadSettingsMissing(t *testing.T) {
	s, err := loadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultSettings(), s)
}

func TestLoadSettingsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_ur: typo\n"), 0600))

	_, err := loadSettings(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	s := defaultSettings()
	env := map[string]string{
		"BIZGEN_BASE_URL": "http://backend:8000",
		"BIZGEN_DATA_DIR": "/tmp/bizgen",
	}
	s.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "http://backend:8000", s.BaseURL)
	assert.Equal(t, "/tmp/bizgen", s.DataDir)
	assert.Equal(t, "warning", s.LogLevel)
	assert.Equal(t, filepath.Join("/tmp/bizgen", "access-token"), s.tokenPath())
	assert.Equal(t, filepath.Join("/tmp/bizgen", "cache"), s.cacheDir())
}
