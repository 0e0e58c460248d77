package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(envConfig, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv(envConfig, "")
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir := filepath.Join(xdg, appName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
python: /usr/bin/python3.12
pretty_indent: 2
log_level: debug
lenient: true
namespace:
  np: numpy
  dumps: json:dumps
`), 0o644))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/python3.12", cfg.Python)
	assert.Equal(t, 2, cfg.PrettyIndent)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.Lenient)
	assert.Equal(t, map[string]string{"np": "numpy", "dumps": "json:dumps"}, cfg.Namespace)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigPriority(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	envPath := writeTemp(t, "env.yaml", "prefix: env.\n")
	flagPath := writeTemp(t, "flag.yaml", "prefix: flag.\n")
	t.Setenv(envConfig, envPath)

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "env.", cfg.Prefix)

	cfg, err = LoadConfig(flagPath)
	require.NoError(t, err)
	assert.Equal(t, "flag.", cfg.Prefix)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv(envConfig, "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = LoadConfig(writeTemp(t, "typo.yaml", "pyhton: python3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pyhton")

	cfg, err := LoadConfig(writeTemp(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogFormat = "xml"
	cfg.PrettyIndent = 0
	cfg.Prefix = "ast"
	cfg.Namespace = map[string]string{"1x": "os", "y": ":attr"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	for _, want := range []string{"log_format", "pretty_indent", "prefix", `"1x"`, "names no module"} {
		assert.Contains(t, err.Error(), want)
	}
}
