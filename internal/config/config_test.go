package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	cfg.ApplyDefaults()
	assert.Equal(t, Default(), cfg)

	cfg = Config{OutputDir: "artifacts"}
	cfg.ApplyDefaults()
	assert.Equal(t, "artifacts", cfg.OutputDir)
	assert.Equal(t, "requirements_context.json", cfg.RequirementsPath)
}

func TestPaths(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, "outputs/diagnostic_draft.json", cfg.DraftPath())
	assert.Equal(t, "outputs/diagnostic_results.db", cfg.LedgerPath())
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateSettings(map[string]any{
		"requirements_path": "req.json",
		"output_dir":        "outputs",
	}))

	err := ValidateSettings(map[string]any{"output_dir": 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output_dir")

	err = ValidateSettings(map[string]any{"unexpected": "x"})
	assert.Error(t, err)
}
