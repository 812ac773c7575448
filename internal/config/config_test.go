package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 256, cfg.ChunkSize)
	assert.Equal(t, "build/littlefs.img", cfg.LittlefsImage)
	assert.Equal(t, "build/firmware_lfs.uf2", cfg.OutputPath)
	assert.Equal(t, "picotool", cfg.PicotoolPath)
	assert.Equal(t, "mklittlefs", cfg.MklittlefsPath)
	assert.Empty(t, cfg.FamiliesFile)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("UF2_CHUNK_SIZE", "476")
	t.Setenv("UF2_OUTPUT_PATH", "/tmp/out.uf2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 476, cfg.ChunkSize)
	assert.Equal(t, "/tmp/out.uf2", cfg.OutputPath)
}
