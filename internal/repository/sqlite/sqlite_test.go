package sqlite

import (
	"context"
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

func newRepo(t *testing.T) *SnapshotRepository {
	t.Helper()
	repo, err := NewSnapshotRepository(":memory:", testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func seedSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Persons: []domain.Person{
			{Name: "Hans", Email: "hans@example.com", Team: "Rot", Tags: domain.NewTagSet("Sturm", "kapitän"),
				Rating: 4, Position: "sturm", JerseyNumber: "9"},
			{Name: "Peter", Phone: "0170", Team: domain.UnspecifiedTeam, Tags: domain.NewTagSet(), Avatar: "p.png"},
			{Name: "Johnny", Remark: "neu", Team: "Rot", Tags: domain.NewTagSet("Sturm")},
		},
		Tags:  []domain.Tag{{Name: "kapitän", Colour: "gelb"}, {Name: "Sturm", Colour: "rot"}},
		Teams: []domain.Team{domain.NewTeam("Rot"), domain.NewTeam("Blau")},
	}
}

func TestLoad_LeereDatenbank(t *testing.T) {
	repo := newRepo(t)

	s, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, s.Persons)
	assert.Empty(t, s.Persons)
	assert.Empty(t, s.Tags)
	assert.Empty(t, s.Teams)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	repo := newRepo(t)
	in := seedSnapshot()

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

func TestSave_ErsetztInhalt(t *testing.T) {
	repo := newRepo(t)
	require.NoError(t, repo.Save(context.Background(), seedSnapshot()))

	smaller := domain.Snapshot{
		Persons: []domain.Person{{Name: "Solo", Team: domain.UnspecifiedTeam, Tags: domain.NewTagSet()}},
	}
	require.NoError(t, repo.Save(context.Background(), smaller))

	out, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Persons, 1)
	assert.Equal(t, "Solo", out.Persons[0].Name)
	assert.Empty(t, out.Tags)
	assert.Empty(t, out.Teams)
}

func TestSave_DoppeltesTeamRollback(t *testing.T) {
	repo := newRepo(t)
	require.NoError(t, repo.Save(context.Background(), seedSnapshot()))

	broken := seedSnapshot()
	broken.Teams = append(broken.Teams, domain.NewTeam("Rot"))
	require.Error(t, repo.Save(context.Background(), broken))

	out, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, out.Persons, 3)
	assert.Len(t, out.Teams, 2)
}

func TestLastRevision(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.LastRevision(context.Background())
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Save(context.Background(), seedSnapshot()))
	first, err := repo.LastRevision(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, first.Persons)
	assert.Equal(t, 2, first.Tags)
	assert.Equal(t, 2, first.Teams)

	require.NoError(t, repo.Save(context.Background(), domain.Snapshot{}))
	second, err := repo.LastRevision(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Zero(t, second.Persons)
}

func TestDateiDatenbank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teambook.db")

	repo, err := NewSnapshotRepository(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), seedSnapshot()))
	require.NoError(t, repo.Close())

	reopened, err := NewSnapshotRepository(path, testLogger())
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	out, err := reopened.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, out.Persons, 3)
}
