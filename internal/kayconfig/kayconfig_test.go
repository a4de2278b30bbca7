package kayconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("KAYTON_SCRATCH_DIR", "/tmp/scratch-override")
	t.Setenv("KAYTON_NO_COLOR", "true")
	cfg := FromEnv(Default())
	require.Equal(t, "/tmp/scratch-override", cfg.ScratchDir)
	require.True(t, cfg.NoColor)
}

func TestLoadFlagsWinOverEnv(t *testing.T) {
	t.Setenv("KAYTON_SCRATCH_DIR", "/tmp/from-env")
	cfg, err := Load([]string{"-scratch-dir=/tmp/from-flag"})
	require.NoError(t, err)
	require.Equal(t, "/tmp/from-flag", cfg.ScratchDir)
}

func TestValidateRejectsEmptyScratchDir(t *testing.T) {
	cfg := Default()
	cfg.ScratchDir = ""
	require.Error(t, cfg.Validate())
}
