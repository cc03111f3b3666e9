// Package config provides configuration loading and management for credo.
package config

import "path/filepath"

// Config is the root configuration.
type Config struct {
	RequirementsPath string `json:"requirements_path" mapstructure:"requirements_path"`
	OutputDir        string `json:"output_dir"        mapstructure:"output_dir"`
	DraftFilename    string `json:"draft_filename"    mapstructure:"draft_filename"`
	LedgerFilename   string `json:"ledger_filename"   mapstructure:"ledger_filename"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{
		RequirementsPath: "requirements_context.json",
		OutputDir:        "outputs",
		DraftFilename:    "diagnostic_draft.json",
		LedgerFilename:   "diagnostic_results.db",
	}
}

// ApplyDefaults fills unset fields from Default.
func (c *Config) ApplyDefaults() {
	def := Default()
	if c.RequirementsPath == "" {
		c.RequirementsPath = def.RequirementsPath
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.DraftFilename == "" {
		c.DraftFilename = def.DraftFilename
	}
	if c.LedgerFilename == "" {
		c.LedgerFilename = def.LedgerFilename
	}
}

// DraftPath returns the path of the session-wide current draft.
func (c Config) DraftPath() string {
	return filepath.Join(c.OutputDir, c.DraftFilename)
}

// LedgerPath returns the path of the execution ledger database.
func (c Config) LedgerPath() string {
	return filepath.Join(c.OutputDir, c.LedgerFilename)
}
