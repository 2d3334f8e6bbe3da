// Package addressbook enthält das Adressbuch-Aggregat mit Personen-, Tag- und
// Team-Register. Das Aggregat ist die einzige Stelle, an der Personen, Tags und
// Teams verändert werden, und hält die Register untereinander konsistent:
//
//   - jeder Tag einer Person ist im Tag-Register vorhanden (Interning),
//   - das Team einer Person und die Mitgliederliste dieses Teams stimmen überein.
//
// Das Aggregat ist nicht für nebenläufige Aufrufe ausgelegt.
package addressbook

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"teambook/internal/domain"
	"teambook/internal/unique"
)

// AddressBook bündelt die drei Register.
type AddressBook struct {
	persons *PersonList
	tags    *TagList
	teams   *TeamList

	logger        *zap.Logger
	pruneOnAdd    bool
	pruneOnRemove bool
}

// Option konfiguriert ein AddressBook.
type Option func(*AddressBook)

// WithLogger setzt den Logger; Standard ist zap.NewNop.
func WithLogger(logger *zap.Logger) Option {
	return func(ab *AddressBook) { ab.logger = logger }
}

// WithPruneOnAdd entfernt ungenutzte Tags auch nach AddPerson.
func WithPruneOnAdd(enabled bool) Option {
	return func(ab *AddressBook) { ab.pruneOnAdd = enabled }
}

// WithPruneOnRemove entfernt ungenutzte Tags auch nach RemovePerson.
func WithPruneOnRemove(enabled bool) Option {
	return func(ab *AddressBook) { ab.pruneOnRemove = enabled }
}

// New legt ein leeres Adressbuch an.
func New(opts ...Option) *AddressBook {
	ab := &AddressBook{
		persons: NewPersonList(),
		tags:    NewTagList(),
		teams:   NewTeamList(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ab)
	}
	return ab
}

// NewFrom legt ein Adressbuch mit dem Inhalt von data an.
func NewFrom(data domain.Snapshot, opts ...Option) (*AddressBook, error) {
	ab := New(opts...)
	if err := ab.ResetData(data); err != nil {
		return nil, err
	}
	return ab, nil
}

//// Listen überschreiben

// ResetData ersetzt den gesamten Inhalt durch data. Die Tags aller Personen
// werden gegen das neue Tag-Register abgeglichen. Duplikate in data gelten als
// Vertragsbruch des Aufrufers und liefern ErrInvariantViolation; das Adressbuch
// bleibt dann unverändert.
func (ab *AddressBook) ResetData(data domain.Snapshot) error {
	return ab.atomically("reset", func() error {
		if err := ab.tags.Reset(data.Tags); err != nil {
			return invariant("tags beim zurücksetzen", err)
		}
		persons := make([]domain.Person, 0, len(data.Persons))
		for _, p := range data.Persons {
			persons = append(persons, ab.intern(p))
		}
		if err := ab.persons.SetAll(persons); err != nil {
			return invariant("personen beim zurücksetzen", err)
		}
		teams := make([]domain.Team, 0, len(data.Teams))
		for _, t := range data.Teams {
			members := make([]domain.Person, 0, len(t.Members))
			for _, m := range t.Members {
				members = append(members, ab.intern(m))
			}
			teams = append(teams, domain.Team{Name: t.Name, Members: members})
		}
		if err := ab.teams.SetAll(teams); err != nil {
			return invariant("teams beim zurücksetzen", err)
		}
		ab.logger.Info("adressbuch zurückgesetzt",
			zap.Int("personen", len(persons)),
			zap.Int("tags", len(data.Tags)),
			zap.Int("teams", len(teams)),
		)
		return nil
	})
}

//// Personen

// AddPerson fügt p hinzu. Die Tags von p werden vorher ins Tag-Register
// übernommen; schlägt das Einfügen fehl, bleiben die neuen Tags dennoch im
// Register (außer bei WithPruneOnAdd). Ist p einem Team zugeordnet, muss das
// Team existieren und p wird dessen Mitglied.
func (ab *AddressBook) AddPerson(p domain.Person) error {
	if p.HasTeam() && !ab.teams.Contains(p.Team) {
		return fmt.Errorf("team %q: %w", p.Team, domain.ErrNotFound)
	}
	synced := ab.intern(p)
	err := ab.persons.Add(synced)
	if err == nil && synced.HasTeam() {
		if err = ab.teams.AddMember(synced.Team, synced); err != nil {
			_ = ab.persons.Remove(synced)
			err = invariant("neue person ins team aufnehmen", err)
		}
	}
	if ab.pruneOnAdd {
		ab.removeUnusedTags()
	}
	return err
}

// UpdatePerson ersetzt target durch edited. Gehört edited zu einem Team, wird
// zuerst dessen Mitgliederliste angepasst. Anschließend werden ungenutzte Tags
// aus dem Register entfernt. Das Team lässt sich hier nicht ändern, dafür gibt
// es AssignPersonToTeam und UnassignPersonFromTeam.
func (ab *AddressBook) UpdatePerson(target, edited domain.Person) error {
	if target.Normalized().Team != edited.Normalized().Team {
		return fmt.Errorf("team von %q: %q statt %q: %w",
			target.Name, edited.Team, target.Team, domain.ErrInvalidInput)
	}
	return ab.atomically("update", func() error {
		return ab.updatePerson(target, edited)
	})
}

func (ab *AddressBook) updatePerson(target, edited domain.Person) error {
	synced := ab.intern(edited)
	if synced.HasTeam() {
		if err := ab.teams.ReplaceMember(synced.Team, target, synced); err != nil {
			return err
		}
	}
	if err := ab.persons.Set(target, synced); err != nil {
		return err
	}
	ab.removeUnusedTags()
	return nil
}

// RemovePerson entfernt p. Teammitgliedschaften bleiben unberührt und müssen
// vom Aufrufer zuvor aufgelöst werden.
func (ab *AddressBook) RemovePerson(p domain.Person) error {
	if err := ab.persons.Remove(p); err != nil {
		return err
	}
	if ab.pruneOnRemove {
		ab.removeUnusedTags()
	}
	return nil
}

// SortPersons sortiert die Personenliste.
func (ab *AddressBook) SortPersons(field, order string) error {
	return ab.persons.SortBy(field, order)
}

// intern übernimmt die Tags von p ins Register und liefert eine Kopie von p,
// deren Tag-Namen der kanonischen Schreibweise im Register entsprechen.
func (ab *AddressBook) intern(p domain.Person) domain.Person {
	p = p.Normalized()
	ab.tags.MergeFrom(p.Tags)
	names := make([]string, 0, len(p.Tags))
	for _, n := range p.Tags {
		if t, ok := ab.tags.Get(n); ok {
			names = append(names, t.Name)
		}
	}
	return p.WithTags(domain.NewTagSet(names...))
}

// removeUnusedTags reduziert das Register auf die Tags, die mindestens eine
// Person trägt.
func (ab *AddressBook) removeUnusedTags() {
	used := make(map[string]struct{})
	for _, p := range ab.persons.View().All() {
		for _, n := range p.Tags {
			used[domain.TagKey(n)] = struct{}{}
		}
	}
	kept := make([]*domain.Tag, 0, len(used))
	for _, t := range ab.tags.View().All() {
		if _, ok := used[t.Key()]; ok {
			kept = append(kept, t)
		}
	}
	if len(kept) == ab.tags.View().Len() {
		return
	}
	_ = ab.tags.SetAll(kept)
	ab.logger.Debug("ungenutzte tags entfernt", zap.Int("verbleibend", len(kept)))
}

//// Tags

// AddTag legt einen Tag ohne Träger an.
func (ab *AddressBook) AddTag(tag domain.Tag) error {
	return ab.tags.Add(tag)
}

// SetTagColour ändert die Farbe des Tags; alle Personen mit diesem Tag sehen
// die neue Farbe.
func (ab *AddressBook) SetTagColour(name, colour string) error {
	return ab.tags.SetColour(name, colour)
}

// RemoveTag entfernt den Tag von allen Personen und aus dem Register. Personen
// ohne diesen Tag bleiben unverändert.
func (ab *AddressBook) RemoveTag(name string) error {
	return ab.atomically("removeTag", func() error {
		for _, p := range ab.persons.View().Slice() {
			if !p.Tags.Has(name) {
				continue
			}
			if err := ab.updatePerson(p, p.WithoutTag(name)); err != nil {
				return personStep(fmt.Sprintf("tag %q von %q entfernen", name, p.Name), err)
			}
		}
		if _, ok := ab.tags.Get(name); ok {
			return ab.tags.Remove(name)
		}
		return nil
	})
}

//// Teams

// CreateTeam legt ein leeres Team an.
func (ab *AddressBook) CreateTeam(name domain.TeamName) error {
	team := domain.NewTeam(name)
	if team.Name.IsUnspecified() {
		return fmt.Errorf("teamname %q: %w", name, domain.ErrInvalidInput)
	}
	return ab.teams.Add(team)
}

// AssignPersonToTeam nimmt p in das Team name auf. War p bereits in einem
// anderen Team, wird p dort entfernt.
func (ab *AddressBook) AssignPersonToTeam(p domain.Person, name domain.TeamName) error {
	return ab.atomically("assign", func() error {
		if _, err := ab.teams.Get(name); err != nil {
			return err
		}
		if !ab.persons.Contains(p) {
			return fmt.Errorf("person %q: %w", p.Name, domain.ErrNotFound)
		}
		if err := ab.teams.AddMember(name, p); err != nil {
			return err
		}
		if p.HasTeam() {
			if err := ab.teams.RemoveMember(p.Team, p); err != nil {
				return invariant(fmt.Sprintf("person %q aus altem team lösen", p.Name), err)
			}
		}
		if err := ab.updatePerson(p, p.WithTeam(name)); err != nil {
			return personStep(fmt.Sprintf("team von %q setzen", p.Name), err)
		}
		return nil
	})
}

// UnassignPersonFromTeam löst p aus seinem Team.
func (ab *AddressBook) UnassignPersonFromTeam(p domain.Person) error {
	if !p.HasTeam() {
		return fmt.Errorf("person %q: %w", p.Name, domain.ErrTeamNotSpecified)
	}
	return ab.atomically("unassign", func() error {
		if !ab.persons.Contains(p) {
			return fmt.Errorf("person %q: %w", p.Name, domain.ErrNotFound)
		}
		if err := ab.teams.RemoveMember(p.Team, p); err != nil {
			return invariant(fmt.Sprintf("person %q aus team lösen", p.Name), err)
		}
		if err := ab.updatePerson(p, p.WithTeam(domain.UnspecifiedTeam)); err != nil {
			return personStep(fmt.Sprintf("team von %q zurücksetzen", p.Name), err)
		}
		return nil
	})
}

// RenameTeam benennt das Team um und übernimmt den neuen Namen in alle
// Mitglieder. Mitglieder, die nicht mehr im Personenregister stehen, fallen
// aus dem Team heraus.
func (ab *AddressBook) RenameTeam(name, newName domain.TeamName) error {
	return ab.atomically("renameTeam", func() error {
		team, err := ab.teams.Get(name)
		if err != nil {
			return err
		}
		newName = domain.NewTeam(newName).Name
		if newName.IsUnspecified() {
			return fmt.Errorf("teamname %q: %w", newName, domain.ErrInvalidInput)
		}
		if newName != name && ab.teams.Contains(newName) {
			return fmt.Errorf("team %q: %w", newName, domain.ErrDuplicate)
		}
		renamed := make([]domain.Person, 0, len(team.Members))
		for _, m := range team.Members {
			if !ab.persons.Contains(m) {
				continue
			}
			updated := m.WithTeam(newName)
			if err := ab.persons.Set(m, updated); err != nil {
				return personStep(fmt.Sprintf("team von %q umbenennen", m.Name), err)
			}
			renamed = append(renamed, updated)
		}
		return ab.teams.Set(team, team.WithName(newName).WithMembers(renamed))
	})
}

// RemoveTeam löscht das Team; alle Mitglieder verlieren ihre Teamzuordnung.
// Bereits entfernte Personen werden übergangen.
func (ab *AddressBook) RemoveTeam(name domain.TeamName) error {
	return ab.atomically("removeTeam", func() error {
		team, err := ab.teams.Get(name)
		if err != nil {
			return err
		}
		for _, m := range team.Members {
			if !ab.persons.Contains(m) {
				continue
			}
			if err := ab.persons.Set(m, m.WithTeam(domain.UnspecifiedTeam)); err != nil {
				return personStep(fmt.Sprintf("team von %q entfernen", m.Name), err)
			}
		}
		return ab.teams.Remove(name)
	})
}

//// Lesezugriff

// PersonList liefert die lebende Sicht auf alle Personen.
func (ab *AddressBook) PersonList() unique.View[domain.Person] { return ab.persons.View() }

// TagList liefert die lebende Sicht auf alle Tags.
func (ab *AddressBook) TagList() unique.View[*domain.Tag] { return ab.tags.View() }

// TeamList liefert die lebende Sicht auf alle Teams.
func (ab *AddressBook) TeamList() unique.View[domain.Team] { return ab.teams.View() }

// Tag liefert die kanonische Instanz zu name.
func (ab *AddressBook) Tag(name string) (*domain.Tag, bool) { return ab.tags.Get(name) }

// TagsOf löst die Tag-Namen von p in die kanonischen Instanzen auf.
func (ab *AddressBook) TagsOf(p domain.Person) []*domain.Tag {
	out := make([]*domain.Tag, 0, len(p.Tags))
	for _, n := range p.Tags {
		if t, ok := ab.tags.Get(n); ok {
			out = append(out, t)
		}
	}
	return out
}

// Team liefert das Team mit diesem Namen.
func (ab *AddressBook) Team(name domain.TeamName) (domain.Team, error) { return ab.teams.Get(name) }

// Snapshot liefert eine losgelöste Kopie aller Listen.
func (ab *AddressBook) Snapshot() domain.Snapshot {
	s := domain.Snapshot{
		Persons: ab.persons.View().Slice(),
		Tags:    make([]domain.Tag, 0, ab.tags.View().Len()),
		Teams:   ab.teams.View().Slice(),
	}
	for _, t := range ab.tags.View().All() {
		s.Tags = append(s.Tags, *t)
	}
	return s.Clone()
}

// Equal vergleicht Personen (geordnet) und Tags (ungeordnet).
func (ab *AddressBook) Equal(other *AddressBook) bool {
	if ab == other {
		return true
	}
	if other == nil || ab.persons.View().Len() != other.persons.View().Len() {
		return false
	}
	for i, p := range ab.persons.View().All() {
		if !p.Equal(other.persons.View().At(i)) {
			return false
		}
	}
	return ab.tags.EqualOrderInsensitive(other.tags)
}

func (ab *AddressBook) String() string {
	return fmt.Sprintf("%d persons, %d tags, %d teams",
		ab.persons.View().Len(), ab.tags.View().Len(), ab.teams.View().Len())
}

// personStep ordnet Fehler aus dem Personenregister innerhalb einer
// zusammengesetzten Operation ein: eine verschwundene Person ist unmöglich,
// ein Duplikat dagegen ein regulärer Fehler.
func personStep(what string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return invariant(what, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func invariant(what string, err error) error {
	return fmt.Errorf("%s: %w: %v", what, domain.ErrInvariantViolation, err)
}
