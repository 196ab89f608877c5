package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecsforge/internal/core/config"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "universe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: "my game"
world:
  max_entities: 500
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "my game", cfg.Title)
	assert.Equal(t, 500, cfg.World.MaxEntities)
	assert.Equal(t, 44100, cfg.AudioArgs.SampleFrequency, "fields absent from the file keep their default")
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
