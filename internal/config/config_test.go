package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VikingMew/quickpython/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, int64(0), cfg.MaxSteps)
	require.True(t, cfg.BuiltinEnabled("len"))
	require.True(t, cfg.BuiltinEnabled("next"))
	require.False(t, cfg.BuiltinEnabled("eval"))
}

func TestLoadFillsDefaultsForOmittedFields(t *testing.T) {
	cfg, err := config.Load([]byte(`max_steps: 1000`))
	require.NoError(t, err)
	require.Equal(t, int64(1000), cfg.MaxSteps)
	require.True(t, cfg.BuiltinEnabled("print"))
}

func TestLoadHonorsExplicitBuiltinAllowlist(t *testing.T) {
	cfg, err := config.Load([]byte(`
enabled_builtins: ["len", "str"]
extension_names: ["widgets"]
`))
	require.NoError(t, err)
	require.True(t, cfg.BuiltinEnabled("len"))
	require.True(t, cfg.BuiltinEnabled("str"))
	require.False(t, cfg.BuiltinEnabled("range"))
	require.Equal(t, []string{"widgets"}, cfg.ExtensionNames)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := config.Load([]byte("max_steps: [this is not an int"))
	require.Error(t, err)
}
