package yaml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"teambook/internal/addressbook"
	"teambook/internal/domain"
)

func testLogger() *zap.Logger {
	l, _ := zap.NewDevelopment()
	return l
}

func TestLoad_FehlendeDatei(t *testing.T) {
	repo := NewSnapshotRepository(filepath.Join(t.TempDir(), "fehlt.yaml"), testLogger())

	s, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s.Persons)
	assert.Empty(t, s.Teams)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daten", "teambook.yaml")
	repo := NewSnapshotRepository(path, testLogger())

	in := domain.Snapshot{
		Persons: []domain.Person{
			{Name: "Hans", Team: "Rot", Tags: domain.NewTagSet("sturm"), Rating: 5, JerseyNumber: "10"},
			{Name: "Peter", Team: domain.UnspecifiedTeam, Tags: domain.NewTagSet()},
		},
		Tags:  []domain.Tag{{Name: "sturm", Colour: "rot"}},
		Teams: []domain.Team{domain.NewTeam("Rot")},
	}
	require.NoError(t, repo.Save(context.Background(), in))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "jersey_number: \"10\"")
	assert.NotContains(t, string(raw), string(domain.UnspecifiedTeam))

	out, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, in.Persons, out.Persons)
	assert.Equal(t, in.Tags, out.Tags)
	assert.Equal(t, in.Teams, out.Teams)

	want, err := addressbook.NewFrom(in.RebuildMembers())
	require.NoError(t, err)
	got, err := addressbook.NewFrom(out.RebuildMembers())
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestLoad_Fehler(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"kaputtes yaml", "persons: [\n"},
		{"neuere version", "version: 99\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "teambook.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := NewSnapshotRepository(path, testLogger()).Load(context.Background())
			require.Error(t, err)
		})
	}
}
