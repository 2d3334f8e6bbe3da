package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"teambook/internal/domain"
	"teambook/internal/env"
	yamlrepo "teambook/internal/repository/yaml"
)

func TestInitRepo_UnbekannteQuelle(t *testing.T) {
	_, _, err := initRepo(env.Config{DataSource: "excel"}, zap.NewNop())
	require.Error(t, err)
}

func TestInitRepo_Memory(t *testing.T) {
	repo, cleanup, err := initRepo(env.Config{DataSource: "memory"}, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	assert.Nil(t, repo)
}

func TestExport_YamlNachCsvUndSqlite(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	logger := zap.NewNop()

	source := yamlrepo.NewSnapshotRepository(filepath.Join(dir, "teambook.yaml"), logger)
	require.NoError(t, source.Save(ctx, domain.Snapshot{
		Persons: []domain.Person{
			{Name: "Hans", Team: "Rot", Tags: domain.NewTagSet("sturm")},
			{Name: "Peter", Team: domain.UnspecifiedTeam, Tags: domain.NewTagSet()},
		},
		Tags:  []domain.Tag{{Name: "sturm", Colour: "rot"}},
		Teams: []domain.Team{domain.NewTeam("Rot")},
	}))

	cfg := env.Config{DataSource: "yaml", DataPath: dir}

	csvDir := filepath.Join(dir, "export")
	require.NoError(t, export(ctx, cfg, "csv", csvDir, logger))
	data, err := os.ReadFile(filepath.Join(csvDir, "persons.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hans")

	dbPath := filepath.Join(dir, "export.db")
	require.NoError(t, export(ctx, cfg, "sqlite", dbPath, logger))

	exported, cleanup, err := openRepo("sqlite", dbPath, logger)
	require.NoError(t, err)
	defer cleanup()
	s, err := exported.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, s.Persons, 2)
	assert.Len(t, s.Teams, 1)

	require.Error(t, export(ctx, cfg, "xml", filepath.Join(dir, "x"), logger))
}

func TestExport_ProtokolliertRevision(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zap.InfoLevel)
	cfg := env.Config{DataSource: "memory", DataPath: dir}

	require.NoError(t, export(context.Background(), cfg, "sqlite", filepath.Join(dir, "export.db"), zap.New(core)))
	entries := logs.FilterMessage("export abgeschlossen").All()
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ContextMap()["revision"])

	require.NoError(t, export(context.Background(), cfg, "yaml", filepath.Join(dir, "export.yaml"), zap.New(core)))
	entries = logs.FilterMessage("export abgeschlossen").All()
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[1].ContextMap(), "revision")
}
