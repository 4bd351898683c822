package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EndpointsConfig overrides where chat and recommendation requests go
type EndpointsConfig struct {
	Chat      string            `yaml:"chat"`
	Recommend string            `yaml:"recommend"`
	Agents    map[string]string `yaml:"agents"`
}

// fileConfig mirrors settings/app.yaml
type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	StaticDir string          `yaml:"static_dir"`
	Endpoints EndpointsConfig `yaml:"endpoints"`
}

// Config holds all application configuration
type Config struct {
	Port        string
	DBPath      string
	StaticDir   string
	SettingsDir string
	Endpoints   EndpointsConfig
}

// Load loads configuration from settings/app.yaml and the environment.
// Environment variables take precedence over the file.
func Load() (*Config, error) {
	settingsDir := os.Getenv("SETTINGS_DIR")
	if settingsDir == "" {
		settingsDir = "settings"
	}

	cfg := &Config{
		Port:        "8080",
		DBPath:      "data/app.db",
		StaticDir:   "static",
		SettingsDir: settingsDir,
	}

	fc, err := loadFileConfig(filepath.Join(settingsDir, "app.yaml"))
	if err != nil {
		return nil, err
	}
	if fc != nil {
		if fc.Server.Port != "" {
			cfg.Port = fc.Server.Port
		}
		if fc.Database.Path != "" {
			cfg.DBPath = fc.Database.Path
		}
		if fc.StaticDir != "" {
			cfg.StaticDir = fc.StaticDir
		}
		cfg.Endpoints = fc.Endpoints
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}

	return cfg, nil
}

// loadFileConfig reads a YAML settings file. A missing file yields nil, nil.
func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &fc, nil
}
