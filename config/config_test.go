package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cycles "github.com/lucasjlepore/cycle-analyzer"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 74, cfg.Input.SkipRows)
	assert.Equal(t, 11, cfg.Output.TableRows)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, "Cycle Number", cfg.Chart.XLabel)
	assert.Equal(t, "Capacity (mA.h)", cfg.Chart.YLabel)
	assert.Equal(t, "Max Charge and Max Discharge Capacities for Cycle Number", cfg.Chart.Title)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	path := writeFile(t, dir, "cyclecap.yaml", `
input:
  skip_rows: 10
  lenient: true
output:
  format: parquet
  table_rows: 5
chart:
  title: From file
`)
	t.Setenv("CYCLECAP_OUTPUT_TABLE_ROWS", "7")
	t.Setenv("CYCLECAP_CHART_X_LABEL", "Cycle")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Input.SkipRows)
	assert.True(t, cfg.Input.Lenient)
	assert.Equal(t, "parquet", cfg.Output.Format)
	assert.Equal(t, 7, cfg.Output.TableRows)
	assert.Equal(t, "From file", cfg.Chart.Title)
	assert.Equal(t, "Cycle", cfg.Chart.XLabel)
	assert.Equal(t, "Capacity (mA.h)", cfg.Chart.YLabel)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, ".env", "CYCLECAP_INPUT_SKIP_ROWS=3\n")
	t.Cleanup(func() { os.Unsetenv("CYCLECAP_INPUT_SKIP_ROWS") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Input.SkipRows)
}

func TestLoadRejectsUnknownYAMLKeys(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := writeFile(t, dir, "bad.yaml", "input:\n  skiprows: 3\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cycles.ErrConfig))
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load("does-not-exist.yaml")
	assert.True(t, errors.Is(err, cycles.ErrConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "negative skip", mutate: func(c *Config) { c.Input.SkipRows = -1 }, want: "SkipRows must be >= 0"},
		{name: "bad format", mutate: func(c *Config) { c.Output.Format = "xml" }, want: "Format must be one of"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, want: "Level must be one of"},
		{name: "file output without path", mutate: func(c *Config) {
			c.Logging.Output = "file"
			c.Logging.FilePath = ""
		}, want: "FilePath is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, cycles.ErrConfig))
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir for Go < 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
