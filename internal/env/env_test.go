package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad_Standardwerte(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"SERVER_ADDR", "DATA_SOURCE", "DATA_PATH", "RATE_LIMIT", "MAX_PERSONS",
		"PRUNE_TAGS_ON_ADD", "PRUNE_TAGS_ON_REMOVE", "AUTOSAVE"} {
		t.Setenv(k, "")
	}

	cfg := MustLoad()

	assert.Equal(t, Config{
		ServerAddr: ":8081",
		DataSource: "memory",
		DataPath:   "data",
		RateLimit:  100,
		MaxPersons: 10_000,
		Autosave:   true,
	}, cfg)
}

func TestMustLoad_UmgebungUndDotenv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("DATA_SOURCE=yaml\nMAX_PERSONS=5\n"), 0o644))
	for _, k := range []string{"DATA_SOURCE", "MAX_PERSONS"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("PRUNE_TAGS_ON_ADD", "true")
	t.Setenv("AUTOSAVE", "nein")
	t.Setenv("RATE_LIMIT", "2.5")

	cfg := MustLoad()

	assert.Equal(t, "yaml", cfg.DataSource)
	assert.Equal(t, 5, cfg.MaxPersons)
	assert.True(t, cfg.PruneTagsOnAdd)
	assert.True(t, cfg.Autosave, "ungültiger wert fällt auf standard zurück")
	assert.Equal(t, 2.5, cfg.RateLimit)
}
