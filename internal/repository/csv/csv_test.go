package csv

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

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// ─── toPerson ─────────────────────────────────────────────────────────────────

func TestToPerson(t *testing.T) {
	tests := []struct {
		name    string
		dto     *personDTO
		tags    []string
		want    domain.Person
		wantErr bool
	}{
		{
			name: "vollständige gültige Eingabe",
			dto:  &personDTO{Name: " Hans ", Team: "Rot", Rating: 3, JerseyNumber: "9"},
			tags: []string{" sturm ", "Sturm"},
			want: domain.Person{Name: "Hans", Team: "Rot", Tags: domain.TagSet{"sturm"}, Rating: 3, JerseyNumber: "9"},
		},
		{
			name: "leeres Team wird Platzhalter",
			dto:  &personDTO{Name: "Peter"},
			want: domain.Person{Name: "Peter", Team: domain.UnspecifiedTeam, Tags: domain.TagSet{}},
		},
		{
			name:    "fehlender Name",
			dto:     &personDTO{Team: "Rot"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toPerson(tt.dto, tt.tags)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ─── SnapshotRepository ───────────────────────────────────────────────────────

func TestLoad_LeeresVerzeichnis(t *testing.T) {
	repo, err := NewSnapshotRepository(filepath.Join(t.TempDir(), "neu"), testLogger())
	require.NoError(t, err)

	s, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s.Persons)
	assert.Empty(t, s.Tags)
	assert.Empty(t, s.Teams)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	repo, err := NewSnapshotRepository(t.TempDir(), testLogger())
	require.NoError(t, err)

	in := domain.Snapshot{
		Persons: []domain.Person{
			{Name: "Hans", Phone: "0151", Email: "hans@example.com", Address: "Hauptstr. 1, Lauterecken",
				Remark: "kommt \"immer\" zu spät", Team: "Rot", Tags: domain.NewTagSet("sturm", "kapitän"),
				Rating: 4, Position: "sturm", JerseyNumber: "9", Avatar: "hans.png"},
			{Name: "Peter", Team: domain.UnspecifiedTeam, Tags: domain.NewTagSet()},
		},
		Tags:  []domain.Tag{{Name: "kapitän", Colour: "gelb"}, {Name: "sturm", Colour: "rot"}},
		Teams: []domain.Team{domain.NewTeam("Rot"), domain.NewTeam("Leer")},
	}
	require.NoError(t, repo.Save(context.Background(), in))

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

func TestLoad_UngueltigeZeileUebersprungen(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, personsFile,
		"name,phone,email,address,remark,team,rating,position,jersey_number,avatar\n"+
			",,,,,Rot,0,,,\n"+
			"Hans,,,,,,3,,9,\n")
	writeFile(t, dir, personTagsFile, "person,tag\n0,verloren\n1,sturm\n")
	repo, err := NewSnapshotRepository(dir, testLogger())
	require.NoError(t, err)

	s, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, s.Persons, 1)
	assert.Equal(t, "Hans", s.Persons[0].Name)
	assert.Equal(t, domain.TagSet{"sturm"}, s.Persons[0].Tags)
}

func TestSaveLoad_TagsMitSonderzeichen(t *testing.T) {
	repo, err := NewSnapshotRepository(t.TempDir(), testLogger())
	require.NoError(t, err)

	tags := domain.NewTagSet("a;b", "c,d", `"zitat"`)
	in := domain.Snapshot{
		Persons: []domain.Person{{Name: "Hans", Team: domain.UnspecifiedTeam, Tags: tags}},
		Tags:    []domain.Tag{{Name: "a;b", Colour: "rot"}, {Name: "c,d", Colour: "blau"}, {Name: `"zitat"`, Colour: "gelb"}},
	}
	require.NoError(t, repo.Save(context.Background(), in))

	out, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Persons, 1)
	assert.Equal(t, tags, out.Persons[0].Tags)
	assert.Equal(t, in.Tags, out.Tags)
}

func TestLoad_KaputteDatei(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, personsFile, "name,rating\nHans,viel\n")
	repo, err := NewSnapshotRepository(dir, testLogger())
	require.NoError(t, err)

	_, err = repo.Load(context.Background())
	require.Error(t, err)
}
