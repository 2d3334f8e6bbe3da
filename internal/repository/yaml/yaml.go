// Package yaml speichert Snapshots als einzelne YAML-Datei.
package yaml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	yamlv3 "gopkg.in/yaml.v3"

	"teambook/internal/domain"
	"teambook/internal/repository/fileutil"
)

// formatVersion wird bei inkompatiblen Änderungen am Dateiformat erhöht.
const formatVersion = 1

type document struct {
	Version int             `yaml:"version"`
	SavedAt time.Time       `yaml:"saved_at"`
	Persons []domain.Person `yaml:"persons"`
	Tags    []domain.Tag    `yaml:"tags"`
	Teams   []string        `yaml:"teams"`
}

// SnapshotRepository implementiert repository.SnapshotRepository über eine
// YAML-Datei.
type SnapshotRepository struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// NewSnapshotRepository liefert ein Repository für die Datei unter path. Die
// Datei muss noch nicht existieren.
func NewSnapshotRepository(path string, logger *zap.Logger) *SnapshotRepository {
	return &SnapshotRepository{path: path, logger: logger}
}

// Load liest die Datei; eine fehlende Datei ergibt einen leeren Snapshot.
func (r *SnapshotRepository) Load(_ context.Context) (domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	empty := domain.Snapshot{Persons: []domain.Person{}, Tags: []domain.Tag{}, Teams: []domain.Team{}}

	b, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return empty, nil
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("datei lesen %s: %w", r.path, err)
	}

	var doc document
	if err := yamlv3.Unmarshal(b, &doc); err != nil {
		return domain.Snapshot{}, fmt.Errorf("yaml lesen %s: %w", r.path, err)
	}
	if doc.Version > formatVersion {
		return domain.Snapshot{}, fmt.Errorf("dateiversion %d nicht unterstützt: %w", doc.Version, domain.ErrInvalidInput)
	}

	s := empty
	for _, p := range doc.Persons {
		s.Persons = append(s.Persons, p.Normalized())
	}
	s.Tags = append(s.Tags, doc.Tags...)
	for _, name := range doc.Teams {
		s.Teams = append(s.Teams, domain.NewTeam(domain.TeamName(name)))
	}

	r.logger.Info("snapshot aus YAML geladen",
		zap.Int("personen", len(s.Persons)),
		zap.String("datei", r.path),
	)
	return s, nil
}

// Save schreibt den Snapshot atomar.
func (r *SnapshotRepository) Save(_ context.Context, s domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := document{
		Version: formatVersion,
		SavedAt: time.Now().UTC(),
		Persons: make([]domain.Person, 0, len(s.Persons)),
		Tags:    s.Tags,
		Teams:   make([]string, 0, len(s.Teams)),
	}
	for _, p := range s.Persons {
		if !p.HasTeam() {
			p = p.WithTeam("")
		}
		doc.Persons = append(doc.Persons, p)
	}
	for _, t := range s.Teams {
		doc.Teams = append(doc.Teams, string(t.Name))
	}

	b, err := yamlv3.Marshal(doc)
	if err != nil {
		return fmt.Errorf("yaml schreiben: %w", err)
	}
	return fileutil.WriteAtomic(r.path, b, 0o644)
}
