package main

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/akeil/bizgen"
	"github.com/akeil/bizgen/pkg/api"
)

const (
	defaultFallbackEmail = "fallback@example.com"
	defaultTimeout       = 5 * time.Minute
)

// settings are read from the config file, then from the environment.
// Command line flags override both.
type settings struct {
	BaseURL       string        `yaml:"base_url"`
	DataDir       string        `yaml:"data_dir"`
	LogLevel      string        `yaml:"log_level"`
	FallbackEmail string        `yaml:"fallback_email"`
	Timeout       time.Duration `yaml:"timeout"`
}

func defaultSettings() settings {
	dataDir := "./data"
	base, err := os.UserConfigDir()
	if err == nil {
		dataDir = filepath.Join(base, "bizgen")
	}
	return settings{
		BaseURL:       api.DefaultBaseURL,
		DataDir:       dataDir,
		LogLevel:      "warning",
		FallbackEmail: defaultFallbackEmail,
		Timeout:       defaultTimeout,
	}
}

func defaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "bizgen", "config.yaml")
}

// loadSettings reads the config file at path over the defaults.
// A missing file is not an error.
func loadSettings(path string) (settings, error) {
	s := defaultSettings()
	if path == "" {
		return s, nil
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return s, nil
	} else if err != nil {
		return s, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	err = dec.Decode(&s)
	if err != nil {
		return s, bizgen.Wrap(err, "invalid config %q", path)
	}

	return s, nil
}

// applyEnv overrides settings from BIZGEN_* environment variables.
func (s *settings) applyEnv(getenv func(string) string) {
	vars := []struct {
		name string
		dst  *string
	}{
		{"BIZGEN_BASE_URL", &s.BaseURL},
		{"BIZGEN_DATA_DIR", &s.DataDir},
		{"BIZGEN_LOG_LEVEL", &s.LogLevel},
		{"BIZGEN_FALLBACK_EMAIL", &s.FallbackEmail},
	}
	for _, v := range vars {
		val := getenv(v.name)
		if val != "" {
			*v.dst = val
		}
	}
}

func (s settings) tokenPath() string {
	return filepath.Join(s.DataDir, "access-token")
}

func (s settings) cacheDir() string {
	return filepath.Join(s.DataDir, "cache")
}
