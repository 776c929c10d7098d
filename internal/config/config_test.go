package config

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/sidebyside/internal/foundation/errors"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "examples", cfg.Examples.Directory)
	assert.Equal(t, ".mjs", cfg.Examples.Extension)
	assert.Equal(t, filepath.Join(".html-includes", "side-by-side"), cfg.Output.Directory)
	assert.Equal(t, "node", cfg.Transform.Command[0])
	assert.Equal(t, "--", cfg.Transform.Command[len(cfg.Transform.Command)-1])
	assert.Zero(t, cfg.Transform.Timeout)
	assert.Equal(t, "javascript", cfg.Highlight.Lexer)
	assert.Empty(t, cfg.Source())
}

func TestLoad_ParsesFileAndResolvesAgainstConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SIDEBYSIDE_TEST_OUT", "rendered")
	path := filepath.Join(dir, "sidebyside.yaml")
	content := `
project_root: site
examples:
  directory: samples
  extension: .js
output:
  directory: ${SIDEBYSIDE_TEST_OUT}
transform:
  command: [cat]
  timeout: 5s
highlight:
  lexer: js
  style: monokai
  css_file: chroma.css
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat"}, cfg.Transform.Command)
	assert.Equal(t, 5*time.Second, cfg.Transform.Timeout)
	assert.Equal(t, "monokai", cfg.Highlight.Style)

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "site"), paths.Root)
	assert.Equal(t, filepath.Join(dir, "site", "samples"), paths.ExamplesDir)
	assert.Equal(t, filepath.Join(dir, "site", "rendered"), paths.OutputDir)
	assert.Equal(t, filepath.Join(dir, "site", "chroma.css"), paths.CSSFile)
	assert.Empty(t, paths.MetricsTextfile)
}

func TestLoad_InvalidYAMLIsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("examples: [unterminated"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"extension without dot", func(c *Config) { c.Examples.Extension = "mjs" }},
		{"bare dot extension", func(c *Config) { c.Examples.Extension = "." }},
		{"empty command", func(c *Config) { c.Transform.Command = []string{" "} }},
		{"negative timeout", func(c *Config) { c.Transform.Timeout = -time.Second }},
		{"empty output", func(c *Config) { c.Output.Directory = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Transform.Command, cfg.Transform.Command)
	assert.Equal(t, Default().Output.Directory, cfg.Output.Directory)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))

	assert.NoError(t, Init(path, true))
}

func TestLoad_KeepsTransformCommandVerbatim(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("x", "EXPANDED")
	t.Setenv("SIDEBYSIDE_TEST_OUT", "rendered")
	path := filepath.Join(dir, "sidebyside.yaml")
	script := "const x = 1; console.log(`${x}`, \"$x\")"
	content := "output:\n  directory: ${SIDEBYSIDE_TEST_OUT}\ntransform:\n  command:\n    - node\n    - -e\n    - '" + script + "'\n    - --\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"node", "-e", script, "--"}, cfg.Transform.Command)
	assert.Equal(t, "rendered", cfg.Output.Directory)
}

func TestLoggingConfig_SlogLevel(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	assert.Equal(t, slog.LevelDebug, LoggingConfig{Level: "error"}.SlogLevel(true))
	assert.Equal(t, slog.LevelWarn, LoggingConfig{Level: " WARNING "}.SlogLevel(false))
	assert.Equal(t, slog.LevelInfo, LoggingConfig{Level: "bogus"}.SlogLevel(false))

	t.Setenv(LogLevelEnv, "error")
	assert.Equal(t, slog.LevelError, LoggingConfig{Level: "debug"}.SlogLevel(false))
}

func TestLoggingConfig_NewProgressLogger(t *testing.T) {
	t.Setenv(LogLevelEnv, "")
	ctx := context.Background()

	quiet := LoggingConfig{Level: "error"}
	assert.False(t, quiet.NewLogger(io.Discard, false).Enabled(ctx, slog.LevelInfo))
	assert.True(t, quiet.NewProgressLogger(io.Discard, false).Enabled(ctx, slog.LevelInfo))
	assert.False(t, quiet.NewProgressLogger(io.Discard, false).Enabled(ctx, slog.LevelDebug))
	assert.True(t, quiet.NewProgressLogger(io.Discard, true).Enabled(ctx, slog.LevelDebug))

	var buf bytes.Buffer
	LoggingConfig{Level: "warn", Format: "json"}.NewProgressLogger(&buf, false).Info("Translating example")
	assert.Contains(t, buf.String(), `"msg":"Translating example"`)
}

func TestNormalizeLogFormat(t *testing.T) {
	assert.Equal(t, LogFormatJSON, NormalizeLogFormat(" JSON"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat("xml"))
}
