package csv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"teambook/internal/domain"
	"teambook/internal/repository/fileutil"
)

const (
	personsFile = "persons.csv"
	tagsFile    = "tags.csv"
	teamsFile   = "teams.csv"

	// personTagsFile ordnet Tags über die Zeilennummer in persons.csv zu.
	personTagsFile = "person_tags.csv"
)

// personDTO ist die CSV-Zeile einer Person.
type personDTO struct {
	Name         string `csv:"name"`
	Phone        string `csv:"phone"`
	Email        string `csv:"email"`
	Address      string `csv:"address"`
	Remark       string `csv:"remark"`
	Team         string `csv:"team"`
	Rating       int    `csv:"rating"`
	Position     string `csv:"position"`
	JerseyNumber string `csv:"jersey_number"`
	Avatar       string `csv:"avatar"`
}

// personTagDTO verknüpft die Person in Zeile Person (ab 0) mit einem Tag.
type personTagDTO struct {
	Person int    `csv:"person"`
	Tag    string `csv:"tag"`
}

type tagDTO struct {
	Name   string `csv:"name"`
	Colour string `csv:"colour"`
}

type teamDTO struct {
	Name string `csv:"name"`
}

// SnapshotRepository implementiert repository.SnapshotRepository über vier
// CSV-Dateien in einem Verzeichnis.
type SnapshotRepository struct {
	mu     sync.Mutex
	dir    string
	logger *zap.Logger
}

// NewSnapshotRepository legt das Verzeichnis dir an, falls es fehlt.
func NewSnapshotRepository(dir string, logger *zap.Logger) (*SnapshotRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("csv-repository: %w", err)
	}
	return &SnapshotRepository{dir: dir, logger: logger}, nil
}

// Load liest alle Dateien. Fehlende Dateien gelten als leer, Personen
// ohne Namen werden übersprungen.
func (r *SnapshotRepository) Load(_ context.Context) (domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		persons    []*personDTO
		personTags []*personTagDTO
		tags       []*tagDTO
		teams      []*teamDTO
	)
	if err := r.read(personsFile, &persons); err != nil {
		return domain.Snapshot{}, err
	}
	if err := r.read(personTagsFile, &personTags); err != nil {
		return domain.Snapshot{}, err
	}
	if err := r.read(tagsFile, &tags); err != nil {
		return domain.Snapshot{}, err
	}
	if err := r.read(teamsFile, &teams); err != nil {
		return domain.Snapshot{}, err
	}

	s := domain.Snapshot{
		Persons: make([]domain.Person, 0, len(persons)),
		Tags:    make([]domain.Tag, 0, len(tags)),
		Teams:   make([]domain.Team, 0, len(teams)),
	}
	tagsByPerson := make(map[int][]string, len(persons))
	for _, dto := range personTags {
		tagsByPerson[dto.Person] = append(tagsByPerson[dto.Person], dto.Tag)
	}
	for i, dto := range persons {
		p, err := toPerson(dto, tagsByPerson[i])
		if err != nil {
			r.logger.Warn("ungültiger Datensatz wird übersprungen",
				zap.Int("datensatz", i+1),
				zap.Error(err),
			)
			continue
		}
		s.Persons = append(s.Persons, p)
	}
	for _, dto := range tags {
		s.Tags = append(s.Tags, domain.Tag{Name: dto.Name, Colour: dto.Colour})
	}
	for _, dto := range teams {
		s.Teams = append(s.Teams, domain.NewTeam(domain.TeamName(dto.Name)))
	}

	r.logger.Info("snapshot aus CSV geladen",
		zap.Int("personen", len(s.Persons)),
		zap.Int("tags", len(s.Tags)),
		zap.Int("teams", len(s.Teams)),
		zap.String("verzeichnis", r.dir),
	)
	return s, nil
}

// Save schreibt alle Dateien neu.
func (r *SnapshotRepository) Save(_ context.Context, s domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	persons := make([]*personDTO, 0, len(s.Persons))
	personTags := make([]*personTagDTO, 0, len(s.Persons))
	for i, p := range s.Persons {
		persons = append(persons, toDTO(p))
		for _, tag := range p.Tags {
			personTags = append(personTags, &personTagDTO{Person: i, Tag: tag})
		}
	}
	tags := make([]*tagDTO, 0, len(s.Tags))
	for _, t := range s.Tags {
		tags = append(tags, &tagDTO{Name: t.Name, Colour: t.Colour})
	}
	teams := make([]*teamDTO, 0, len(s.Teams))
	for _, t := range s.Teams {
		teams = append(teams, &teamDTO{Name: string(t.Name)})
	}

	if err := r.write(personsFile, &persons); err != nil {
		return err
	}
	if err := r.write(personTagsFile, &personTags); err != nil {
		return err
	}
	if err := r.write(tagsFile, &tags); err != nil {
		return err
	}
	return r.write(teamsFile, &teams)
}

func (r *SnapshotRepository) read(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("datei lesen %s: %w", name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := gocsv.UnmarshalBytes(data, out); err != nil {
		return fmt.Errorf("csv lesen %s: %w", name, err)
	}
	return nil
}

func (r *SnapshotRepository) write(name string, in any) error {
	var buf bytes.Buffer
	if err := gocsv.Marshal(in, &buf); err != nil {
		return fmt.Errorf("csv schreiben %s: %w", name, err)
	}
	return fileutil.WriteAtomic(filepath.Join(r.dir, name), buf.Bytes(), 0o644)
}

// toPerson wandelt eine CSV-Zeile samt ihrer Tags in eine Person um.
func toPerson(dto *personDTO, tags []string) (domain.Person, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return domain.Person{}, fmt.Errorf("name fehlt: %w", domain.ErrInvalidInput)
	}
	team := domain.TeamName(strings.TrimSpace(dto.Team))
	if team.IsUnspecified() {
		team = domain.UnspecifiedTeam
	}
	return domain.Person{
		Name:         name,
		Phone:        dto.Phone,
		Email:        dto.Email,
		Address:      dto.Address,
		Remark:       dto.Remark,
		Team:         team,
		Tags:         domain.NewTagSet(tags...),
		Rating:       dto.Rating,
		Position:     dto.Position,
		JerseyNumber: dto.JerseyNumber,
		Avatar:       dto.Avatar,
	}, nil
}

func toDTO(p domain.Person) *personDTO {
	team := ""
	if p.HasTeam() {
		team = string(p.Team)
	}
	return &personDTO{
		Name:         p.Name,
		Phone:        p.Phone,
		Email:        p.Email,
		Address:      p.Address,
		Remark:       p.Remark,
		Team:         team,
		Rating:       p.Rating,
		Position:     p.Position,
		JerseyNumber: p.JerseyNumber,
		Avatar:       p.Avatar,
	}
}
