package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"teambook/internal/addressbook"
	"teambook/internal/domain"
	"teambook/internal/metrics"
	"teambook/internal/repository"
)

// Config steuert Kapazität und automatisches Speichern.
type Config struct {
	MaxPersons int  // 0 bedeutet unbegrenzt
	Autosave   bool // nach jeder erfolgreichen Änderung speichern
}

// AddressBookService kapselt das Adressbuch für nebenläufige Aufrufer. Jede
// Operation läuft exklusiv; Personen werden über ihre 1-basierte Position in
// der aktuellen Liste angesprochen.
type AddressBookService struct {
	mu     sync.Mutex
	book   *addressbook.AddressBook
	repo   repository.SnapshotRepository
	cfg    Config
	logger *zap.Logger
}

// NewAddressBookService gibt einen einsatzbereiten Service zurück. repo darf nil
// sein; dann wird nichts gespeichert.
func NewAddressBookService(book *addressbook.AddressBook, repo repository.SnapshotRepository, cfg Config, logger *zap.Logger) *AddressBookService {
	return &AddressBookService{book: book, repo: repo, cfg: cfg, logger: logger}
}

// Load ersetzt den Inhalt des Adressbuchs durch den gespeicherten Stand.
func (s *AddressBookService) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	snapshot, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("snapshot laden: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.book.ResetData(snapshot.RebuildMembers()); err != nil {
		return fmt.Errorf("snapshot übernehmen: %w", err)
	}
	s.observe()
	s.logger.Info("adressbuch geladen", zap.String("stand", s.book.String()))
	return nil
}

// Snapshot liefert eine Kopie des aktuellen Stands.
func (s *AddressBookService) Snapshot(_ context.Context) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Snapshot()
}

// Stats liefert eine Kurzbeschreibung des Adressbuchs.
func (s *AddressBookService) Stats(_ context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.String()
}

// ListPersons gibt alle Personen in Listenreihenfolge zurück.
func (s *AddressBookService) ListPersons(_ context.Context) []domain.Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.PersonList().Slice()
}

// ListTags gibt alle Tags mit ihrer aktuellen Farbe zurück.
func (s *AddressBookService) ListTags(_ context.Context) []domain.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Tag, 0, s.book.TagList().Len())
	for _, t := range s.book.TagList().All() {
		out = append(out, *t)
	}
	return out
}

// ListTeams gibt alle Teams samt Mitgliedern zurück.
func (s *AddressBookService) ListTeams(_ context.Context) []domain.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Snapshot().Teams
}

//// Personen

// AddPerson validiert und fügt eine neue Person hinzu.
func (s *AddressBookService) AddPerson(ctx context.Context, p domain.Person) (domain.Person, error) {
	p, err := s.validatePerson(p)
	if err != nil {
		return domain.Person{}, err
	}
	var created domain.Person
	err = s.mutate(ctx, "add_person", func() error {
		if s.cfg.MaxPersons > 0 && s.book.PersonList().Len() >= s.cfg.MaxPersons {
			return fmt.Errorf("max %d personen: %w", s.cfg.MaxPersons, domain.ErrCapacityReached)
		}
		if err := s.book.AddPerson(p); err != nil {
			return err
		}
		created = s.book.PersonList().At(s.book.PersonList().Len() - 1)
		return nil
	})
	return created, err
}

// UpdatePerson ersetzt die Person an Position index. Das Team lässt sich nur
// über AssignPersonToTeam und UnassignPersonFromTeam ändern.
func (s *AddressBookService) UpdatePerson(ctx context.Context, index int, edited domain.Person) (domain.Person, error) {
	edited, err := s.validatePerson(edited)
	if err != nil {
		return domain.Person{}, err
	}
	var updated domain.Person
	err = s.mutate(ctx, "update_person", func() error {
		target, err := s.at(index)
		if err != nil {
			return err
		}
		if err := s.book.UpdatePerson(target, edited.WithTeam(target.Team)); err != nil {
			return err
		}
		updated = s.book.PersonList().At(index - 1)
		return nil
	})
	return updated, err
}

// RemovePerson entfernt die Person an Position index und löst vorher ihre
// Teamzuordnung.
func (s *AddressBookService) RemovePerson(ctx context.Context, index int) error {
	return s.mutate(ctx, "remove_person", func() error {
		target, err := s.at(index)
		if err != nil {
			return err
		}
		if target.HasTeam() {
			if err := s.book.UnassignPersonFromTeam(target); err != nil {
				return err
			}
			target = s.book.PersonList().At(index - 1)
		}
		return s.book.RemovePerson(target)
	})
}

// SortPersons sortiert die Personenliste nach field und order.
func (s *AddressBookService) SortPersons(ctx context.Context, field, order string) error {
	return s.mutate(ctx, "sort_persons", func() error {
		return s.book.SortPersons(field, order)
	})
}

//// Tags

// AddTag legt einen Tag an. Ohne Farbe wird die Standardfarbe verwendet.
func (s *AddressBookService) AddTag(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	tag.Name = strings.TrimSpace(tag.Name)
	if tag.Name == "" {
		return domain.Tag{}, fmt.Errorf("tagname ist erforderlich: %w", domain.ErrInvalidInput)
	}
	if tag.Colour == "" {
		tag.Colour = domain.DefaultTagColour
	}
	colour, err := s.colour(tag.Colour)
	if err != nil {
		return domain.Tag{}, err
	}
	tag.Colour = colour

	err = s.mutate(ctx, "add_tag", func() error {
		return s.book.AddTag(tag)
	})
	return tag, err
}

// SetTagColour ändert die Farbe eines Tags. Der Farbname wird normalisiert.
func (s *AddressBookService) SetTagColour(ctx context.Context, name, colour string) (domain.Tag, error) {
	c, err := s.colour(colour)
	if err != nil {
		return domain.Tag{}, err
	}
	var tag domain.Tag
	err = s.mutate(ctx, "set_tag_colour", func() error {
		if err := s.book.SetTagColour(name, c); err != nil {
			return err
		}
		t, _ := s.book.Tag(name)
		tag = *t
		return nil
	})
	return tag, err
}

// RemoveTag entfernt einen Tag von allen Personen.
func (s *AddressBookService) RemoveTag(ctx context.Context, name string) error {
	return s.mutate(ctx, "remove_tag", func() error {
		return s.book.RemoveTag(name)
	})
}

//// Teams

// CreateTeam legt ein leeres Team an.
func (s *AddressBookService) CreateTeam(ctx context.Context, name domain.TeamName) (domain.Team, error) {
	var team domain.Team
	err := s.mutate(ctx, "create_team", func() error {
		if err := s.book.CreateTeam(name); err != nil {
			return err
		}
		t, err := s.book.Team(domain.NewTeam(name).Name)
		team = t
		return err
	})
	return team, err
}

// RenameTeam benennt ein Team um.
func (s *AddressBookService) RenameTeam(ctx context.Context, name, newName domain.TeamName) (domain.Team, error) {
	var team domain.Team
	err := s.mutate(ctx, "rename_team", func() error {
		if err := s.book.RenameTeam(name, newName); err != nil {
			return err
		}
		t, err := s.book.Team(domain.NewTeam(newName).Name)
		team = t
		return err
	})
	return team, err
}

// RemoveTeam löscht ein Team; seine Mitglieder bleiben ohne Team zurück.
func (s *AddressBookService) RemoveTeam(ctx context.Context, name domain.TeamName) error {
	return s.mutate(ctx, "remove_team", func() error {
		return s.book.RemoveTeam(name)
	})
}

// AssignPersonToTeam weist die Person an Position index dem Team name zu.
func (s *AddressBookService) AssignPersonToTeam(ctx context.Context, index int, name domain.TeamName) (domain.Person, error) {
	var updated domain.Person
	err := s.mutate(ctx, "assign_team", func() error {
		target, err := s.at(index)
		if err != nil {
			return err
		}
		if err := s.book.AssignPersonToTeam(target, name); err != nil {
			return err
		}
		updated = s.book.PersonList().At(index - 1)
		return nil
	})
	return updated, err
}

// UnassignPersonFromTeam löst die Person an Position index aus ihrem Team.
func (s *AddressBookService) UnassignPersonFromTeam(ctx context.Context, index int) (domain.Person, error) {
	var updated domain.Person
	err := s.mutate(ctx, "unassign_team", func() error {
		target, err := s.at(index)
		if err != nil {
			return err
		}
		if err := s.book.UnassignPersonFromTeam(target); err != nil {
			return err
		}
		updated = s.book.PersonList().At(index - 1)
		return nil
	})
	return updated, err
}

//// Hilfsfunktionen

// mutate führt fn exklusiv aus, speichert bei Erfolg und zählt das Ergebnis.
// Scheitert das Speichern, bleibt die Änderung im Speicher erhalten; der
// Fehler wird trotzdem gemeldet und als "error" gezählt.
func (s *AddressBookService) mutate(ctx context.Context, op string, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(); err != nil {
		metrics.Mutations.WithLabelValues(op, "error").Inc()
		return err
	}
	s.observe()

	if s.cfg.Autosave && s.repo != nil {
		start := time.Now()
		if err := s.repo.Save(ctx, s.book.Snapshot()); err != nil {
			metrics.Mutations.WithLabelValues(op, "error").Inc()
			s.logger.Error("snapshot speichern", zap.String("operation", op), zap.Error(err))
			return fmt.Errorf("snapshot speichern: %w", err)
		}
		metrics.SaveLatency.Observe(float64(time.Since(start).Milliseconds()))
	}
	metrics.Mutations.WithLabelValues(op, "ok").Inc()
	return nil
}

func (s *AddressBookService) observe() {
	metrics.Entries.WithLabelValues("persons").Set(float64(s.book.PersonList().Len()))
	metrics.Entries.WithLabelValues("tags").Set(float64(s.book.TagList().Len()))
	metrics.Entries.WithLabelValues("teams").Set(float64(s.book.TeamList().Len()))
}

// at liefert die Person an der 1-basierten Position index.
func (s *AddressBookService) at(index int) (domain.Person, error) {
	if index <= 0 {
		return domain.Person{}, fmt.Errorf("index muss positiv sein: %w", domain.ErrInvalidInput)
	}
	if index > s.book.PersonList().Len() {
		return domain.Person{}, fmt.Errorf("person an position %d: %w", index, domain.ErrNotFound)
	}
	return s.book.PersonList().At(index - 1), nil
}

func (s *AddressBookService) validatePerson(p domain.Person) (domain.Person, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.JerseyNumber = strings.TrimSpace(p.JerseyNumber)

	if p.Name == "" {
		return domain.Person{}, fmt.Errorf("name ist erforderlich: %w", domain.ErrInvalidInput)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return domain.Person{}, fmt.Errorf("bewertung %d außerhalb 0-5: %w", p.Rating, domain.ErrInvalidInput)
	}
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		return domain.Person{}, fmt.Errorf("ungültige e-mail %q: %w", p.Email, domain.ErrInvalidInput)
	}
	if p.JerseyNumber != "" {
		n, err := strconv.Atoi(p.JerseyNumber)
		if err != nil || n < 0 || n > 99 {
			s.logger.Warn("ungültige rückennummer", zap.String("rueckennummer", p.JerseyNumber))
			return domain.Person{}, fmt.Errorf("rückennummer %q: %w", p.JerseyNumber, domain.ErrInvalidInput)
		}
	}
	return p, nil
}

func (s *AddressBookService) colour(colour string) (string, error) {
	c, ok := domain.NormalizeColour(colour)
	if !ok {
		s.logger.Warn("unbekannte farbe", zap.String("farbe", colour))
		return "", fmt.Errorf("ungültige farbe %q: %w", colour, domain.ErrInvalidInput)
	}
	return c, nil
}
