package assets_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecsforge/internal/core/assets"
	"ecsforge/internal/core/config"
)

func TestResolverMatchesIncludePatternAndExistence(t *testing.T) {
	dir := t.TempDir()
	scripts := filepath.Join(dir, "scripts")
	require.NoError(t, os.MkdirAll(scripts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "main.lua"), []byte("-- ok"), 0o644))

	r, err := assets.NewResolver(config.ResourceArgs{Scripts: scripts}, "*.lua")
	require.NoError(t, err)

	got, err := r.Resolve("scripts", "main.lua")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(scripts, "main.lua"), got)

	_, err = r.Resolve("scripts", "main.txt")
	assert.Error(t, err, "non-matching include pattern must be rejected")

	_, err = r.Resolve("scripts", "missing.lua")
	assert.Error(t, err, "nonexistent file must be rejected even if it matches the pattern")
}

func TestWatchScriptsNotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	scripts := filepath.Join(dir, "scripts")
	require.NoError(t, os.MkdirAll(scripts, 0o755))

	sw, err := assets.WatchScripts(config.ResourceArgs{Scripts: scripts})
	require.NoError(t, err)
	defer sw.Close()

	target := filepath.Join(scripts, "main.lua")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	select {
	case name := <-sw.Changed:
		assert.Equal(t, target, name)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification after writing into the watched directory")
	}
}
