package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"teambook/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS persons (
		position      INTEGER PRIMARY KEY,
		name          TEXT NOT NULL,
		phone         TEXT NOT NULL DEFAULT '',
		email         TEXT NOT NULL DEFAULT '',
		address       TEXT NOT NULL DEFAULT '',
		remark        TEXT NOT NULL DEFAULT '',
		team          TEXT,
		rating        INTEGER NOT NULL DEFAULT 0,
		role          TEXT NOT NULL DEFAULT '',
		jersey_number TEXT NOT NULL DEFAULT '',
		avatar        TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS person_tags (
		person_position INTEGER NOT NULL REFERENCES persons(position) ON DELETE CASCADE,
		tag_name        TEXT NOT NULL,
		PRIMARY KEY (person_position, tag_name)
	);
	CREATE TABLE IF NOT EXISTS tags (
		position INTEGER PRIMARY KEY,
		name     TEXT NOT NULL,
		colour   TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS teams (
		position INTEGER PRIMARY KEY,
		name     TEXT NOT NULL UNIQUE
	);
	CREATE TABLE IF NOT EXISTS revisions (
		id       TEXT PRIMARY KEY,
		saved_at TEXT NOT NULL,
		persons  INTEGER NOT NULL,
		tags     INTEGER NOT NULL,
		teams    INTEGER NOT NULL
	);
`

// Revision beschreibt einen gespeicherten Stand.
type Revision struct {
	ID      uuid.UUID
	SavedAt time.Time
	Persons int
	Tags    int
	Teams   int
}

// SnapshotRepository implementiert repository.SnapshotRepository auf SQLite.
// Jeder Save ersetzt den kompletten Inhalt und protokolliert eine Revision.
type SnapshotRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSnapshotRepository öffnet die SQLite-Datenbank unter dsn und erstellt
// das Schema.
func NewSnapshotRepository(dsn string, logger *zap.Logger) (*SnapshotRepository, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite öffnen: %w", err)
	}
	// Jede Verbindung zu :memory: wäre eine eigene, leere Datenbank.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("schema erstellen: %w", err)
	}

	logger.Info("sqlite-repository initialisiert", zap.String("dsn", dsn))
	return &SnapshotRepository{db: db, logger: logger}, nil
}

// Close schließt die zugrunde liegende Datenbankverbindung.
func (r *SnapshotRepository) Close() error {
	return r.db.Close()
}

// Load liest den zuletzt gespeicherten Stand.
func (r *SnapshotRepository) Load(ctx context.Context) (domain.Snapshot, error) {
	tagsByPerson, err := r.personTags(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}

	s := domain.Snapshot{Persons: []domain.Person{}, Tags: []domain.Tag{}, Teams: []domain.Team{}}

	rows, err := r.db.QueryContext(ctx, `
		SELECT position, name, phone, email, address, remark, team, rating, role, jersey_number, avatar
		FROM persons ORDER BY position`)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("abfrage personen: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pos  int
			p    domain.Person
			team sql.NullString
		)
		if err := rows.Scan(&pos, &p.Name, &p.Phone, &p.Email, &p.Address, &p.Remark,
			&team, &p.Rating, &p.Position, &p.JerseyNumber, &p.Avatar); err != nil {
			return domain.Snapshot{}, fmt.Errorf("zeile lesen: %w", err)
		}
		p.Team = domain.UnspecifiedTeam
		if team.Valid {
			p.Team = domain.TeamName(team.String)
		}
		p.Tags = domain.NewTagSet(tagsByPerson[pos]...)
		s.Persons = append(s.Persons, p)
	}
	if err := rows.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	if err := r.queryEach(ctx, "SELECT name, colour FROM tags ORDER BY position", func(rows *sql.Rows) error {
		var t domain.Tag
		if err := rows.Scan(&t.Name, &t.Colour); err != nil {
			return err
		}
		s.Tags = append(s.Tags, t)
		return nil
	}); err != nil {
		return domain.Snapshot{}, fmt.Errorf("abfrage tags: %w", err)
	}

	if err := r.queryEach(ctx, "SELECT name FROM teams ORDER BY position", func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		s.Teams = append(s.Teams, domain.NewTeam(domain.TeamName(name)))
		return nil
	}); err != nil {
		return domain.Snapshot{}, fmt.Errorf("abfrage teams: %w", err)
	}

	return s, nil
}

// Save ersetzt den gespeicherten Stand in einer Transaktion.
func (r *SnapshotRepository) Save(ctx context.Context, s domain.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("transaktion starten: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"person_tags", "persons", "tags", "teams"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("tabelle %s leeren: %w", table, err)
		}
	}

	for i, p := range s.Persons {
		var team sql.NullString
		if p.HasTeam() {
			team = sql.NullString{String: string(p.Team), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO persons (position, name, phone, email, address, remark, team, rating, role, jersey_number, avatar)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, p.Name, p.Phone, p.Email, p.Address, p.Remark, team, p.Rating, p.Position, p.JerseyNumber, p.Avatar,
		); err != nil {
			return fmt.Errorf("person %q einfügen: %w", p.Name, err)
		}
		for _, tag := range p.Tags {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO person_tags (person_position, tag_name) VALUES (?, ?)", i, tag,
			); err != nil {
				return fmt.Errorf("tag %q für %q einfügen: %w", tag, p.Name, err)
			}
		}
	}
	for i, t := range s.Tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO tags (position, name, colour) VALUES (?, ?, ?)", i, t.Name, t.Colour,
		); err != nil {
			return fmt.Errorf("tag %q einfügen: %w", t.Name, err)
		}
	}
	for i, t := range s.Teams {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO teams (position, name) VALUES (?, ?)", i, string(t.Name),
		); err != nil {
			return fmt.Errorf("team %q einfügen: %w", t.Name, err)
		}
	}

	rev := Revision{
		ID:      uuid.New(),
		SavedAt: time.Now().UTC(),
		Persons: len(s.Persons),
		Tags:    len(s.Tags),
		Teams:   len(s.Teams),
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO revisions (id, saved_at, persons, tags, teams) VALUES (?, ?, ?, ?, ?)",
		rev.ID.String(), rev.SavedAt.Format(time.RFC3339Nano), rev.Persons, rev.Tags, rev.Teams,
	); err != nil {
		return fmt.Errorf("revision einfügen: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.logger.Debug("snapshot gespeichert", zap.String("revision", rev.ID.String()))
	return nil
}

// LastRevision liefert die jüngste Revision.
func (r *SnapshotRepository) LastRevision(ctx context.Context) (Revision, error) {
	var (
		rev     Revision
		id      string
		savedAt string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, saved_at, persons, tags, teams FROM revisions ORDER BY rowid DESC LIMIT 1",
	).Scan(&id, &savedAt, &rev.Persons, &rev.Tags, &rev.Teams)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, fmt.Errorf("revision: %w", domain.ErrNotFound)
	}
	if err != nil {
		return Revision{}, fmt.Errorf("abfrage revision: %w", err)
	}
	if rev.ID, err = uuid.Parse(id); err != nil {
		return Revision{}, fmt.Errorf("revision id %q: %w", id, err)
	}
	if rev.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return Revision{}, fmt.Errorf("revision zeit %q: %w", savedAt, err)
	}
	return rev, nil
}

// personTags sammelt die Tag-Namen je Personenposition.
func (r *SnapshotRepository) personTags(ctx context.Context) (map[int][]string, error) {
	out := make(map[int][]string)
	err := r.queryEach(ctx, "SELECT person_position, tag_name FROM person_tags", func(rows *sql.Rows) error {
		var (
			pos  int
			name string
		)
		if err := rows.Scan(&pos, &name); err != nil {
			return err
		}
		out[pos] = append(out[pos], strings.TrimSpace(name))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("abfrage personen-tags: %w", err)
	}
	return out, nil
}

// queryEach führt eine Abfrage aus und ruft fn für jede Zeile auf.
func (r *SnapshotRepository) queryEach(ctx context.Context, query string, fn func(*sql.Rows) error) error {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
