package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/metalagman/credo/internal/config"
	"github.com/spf13/viper"
)

// loadConfig reads the config file when present and falls back to defaults
// otherwise. Settings are validated against the embedded schema before use.
func loadConfig() (config.Config, error) {
	path := viper.GetString("config")
	if path == "" {
		path = filepath.Join(".credo", "config.json")
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("json")
	if err := viper.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return config.Config{}, fmt.Errorf("read config: %w", err)
	}
	settings := viper.AllSettings()
	delete(settings, "config") // bound flag, not part of the file schema
	if err := config.ValidateSettings(settings); err != nil {
		return config.Config{}, err
	}
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return config.Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}
