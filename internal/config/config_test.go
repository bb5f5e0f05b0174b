package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRootCmd mirrors the persistent flags of the real root command so
// that Load can bind them.
func newTestRootCmd() *cobra.Command {
	cmd := &cobra.Command{}
	pf := cmd.PersistentFlags()
	pf.String("config", "", "")
	pf.String("log-level", "info", "")
	pf.String("log-format", "text", "")
	pf.Bool("no-color", false, "")
	pf.BoolP("quiet", "q", false, "")
	pf.String("dataset", "", "")
	pf.String("state", DefaultStateFile, "")
	pf.String("identity-category", DefaultIdentityCategory, "")

	return cmd
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.False(t, cfg.NoColor)
	assert.False(t, cfg.Quiet)
	assert.Empty(t, cfg.Dataset)
	assert.Equal(t, DefaultStateFile, cfg.State)
	assert.Equal(t, DefaultIdentityCategory, cfg.IdentityCategory)
	assert.Empty(t, cfg.InvalidValues)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "debug level", mutate: func(c *Config) { c.LogLevel = LogLevelDebug }},
		{name: "json format", mutate: func(c *Config) { c.LogFormat = LogFormatJSON }},
		{name: "bad level", mutate: func(c *Config) { c.LogLevel = "verbose" }, wantErr: "invalid log level"},
		{name: "bad format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "invalid log format"},
		{name: "blank identity", mutate: func(c *Config) { c.IdentityCategory = "  " }, wantErr: "identity category"},
		{name: "blank state", mutate: func(c *Config) { c.State = "" }, wantErr: "state file path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := &Config{LogLevel: "loud", LogFormat: "xml"}

	err := cfg.Validate()
	require.Error(t, err)

	for _, want := range []string{"invalid log level", "invalid log format", "identity category", "state file path"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestEffectiveLogLevel(t *testing.T) {
	assert.Equal(t, "debug", (&Config{LogLevel: "debug"}).EffectiveLogLevel())
	assert.Equal(t, "error", (&Config{LogLevel: "debug", Quiet: true}).EffectiveLogLevel())
}

func TestLoad_DefaultsOnly(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, DefaultStateFile, cfg.State)
	assert.Equal(t, DefaultIdentityCategory, cfg.IdentityCategory)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FACETFILTER_LOG_LEVEL", "debug")
	t.Setenv("FACETFILTER_NO_COLOR", "true")
	t.Setenv("FACETFILTER_QUIET", "true")
	t.Setenv("FACETFILTER_DATASET", "samples.yaml")
	t.Setenv("FACETFILTER_IDENTITY_CATEGORY", "sample")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.NoColor)
	assert.True(t, cfg.Quiet)
	assert.Equal(t, "samples.yaml", cfg.Dataset)
	assert.Equal(t, "sample", cfg.IdentityCategory)
}

func TestLoad_ConfigFile(t *testing.T) {
	p := writeTempConfig(t, `log-level: warn
log-format: json
dataset: data/samples.yaml
state: .state.yaml
invalid-values:
  - pending
  - tbd
`)

	cfg, err := Load(nil, p)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "data/samples.yaml", cfg.Dataset)
	assert.Equal(t, ".state.yaml", cfg.State)
	assert.Equal(t, []string{"pending", "tbd"}, cfg.InvalidValues)
	assert.Equal(t, p, cfg.ConfigFile)
}

func TestLoad_AutoDiscoverFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".facetfilter.yaml"), []byte("identity-category: isolate\n"), 0o600))
	t.Chdir(dir)

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "isolate", cfg.IdentityCategory)
	assert.NotEmpty(t, cfg.ConfigFile)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_MalformedFile(t *testing.T) {
	p := writeTempConfig(t, ": invalid yaml :")

	_, err := Load(nil, p)
	require.Error(t, err)
}

func TestLoad_Precedence(t *testing.T) {
	p := writeTempConfig(t, "log-level: warn\nstate: from-file.yaml\n")

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("FACETFILTER_LOG_LEVEL", "debug")

		cfg, err := Load(nil, p)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "from-file.yaml", cfg.State)
	})

	t.Run("flag overrides env and file", func(t *testing.T) {
		t.Setenv("FACETFILTER_LOG_LEVEL", "debug")

		cmd := newTestRootCmd()
		require.NoError(t, cmd.PersistentFlags().Set("log-level", "error"))
		require.NoError(t, cmd.PersistentFlags().Set("state", "from-flag.yaml"))

		cfg, err := Load(cmd, p)
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, "from-flag.yaml", cfg.State)
	})

	t.Run("unset flag keeps file value", func(t *testing.T) {
		cfg, err := Load(newTestRootCmd(), p)
		require.NoError(t, err)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "from-file.yaml", cfg.State)
	})
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("level from env", func(t *testing.T) {
		t.Setenv("FACETFILTER_LOG_LEVEL", "verbose")

		_, err := Load(nil, "")
		assert.ErrorContains(t, err, "invalid log level")
	})

	t.Run("format from file", func(t *testing.T) {
		_, err := Load(nil, writeTempConfig(t, "log-format: xml\n"))
		assert.ErrorContains(t, err, "invalid log format")
	})
}

func TestContext_RoundTrip(t *testing.T) {
	cfg := &Config{LogLevel: "debug", LogFormat: "json", Dataset: "d.yaml"}
	got := FromContext(NewContext(context.Background(), cfg))
	assert.Same(t, cfg, got)
}

func TestFromContext_FallbackToDefault(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
}

func TestConfigFileContext(t *testing.T) {
	assert.Empty(t, ConfigFileFromContext(context.Background()))

	ctx := NewContextWithConfigFile(context.Background(), "/etc/facetfilter.yaml")
	assert.Equal(t, "/etc/facetfilter.yaml", ConfigFileFromContext(ctx))
}
