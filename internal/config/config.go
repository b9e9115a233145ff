package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "docnav.yaml"

type Config struct {
	Sidebars struct {
		Path    string `yaml:"path"`    // sidebars source; empty means the built-in tree
		Format  string `yaml:"format"`  // json, yaml or js; empty means detect from extension
		Sidebar string `yaml:"sidebar"` // empty means the built-in default sidebar
	} `yaml:"sidebars"`
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
	Log struct {
		Level   string `yaml:"level"`
		Console bool   `yaml:"console"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Store.Path = "docnav.db"
	cfg.Log.Level = "info"
	return &cfg
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	if v := os.Getenv("DOCNAV_SIDEBARS"); v != "" {
		cfg.Sidebars.Path = v
	}
	if v := os.Getenv("DOCNAV_DB"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("DOCNAV_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg, nil
}
