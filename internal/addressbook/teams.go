package addressbook

import (
	"fmt"
	"slices"

	"teambook/internal/domain"
	"teambook/internal/unique"
)

// TeamList ist das Team-Register. Teams sind über ihren Namen eindeutig;
// jede Änderung der Mitglieder erzeugt einen neuen Team-Wert.
type TeamList struct {
	list *unique.List[domain.Team]
}

// NewTeamList legt ein leeres Register an.
func NewTeamList() *TeamList {
	return &TeamList{list: unique.New(domain.Team.Equal)}
}

// Add legt ein neues Team an.
func (l *TeamList) Add(team domain.Team) error {
	if err := l.list.Add(team.WithMembers(team.Members)); err != nil {
		return fmt.Errorf("team %q anlegen: %w", team.Name, err)
	}
	return nil
}

// Get liefert das Team mit diesem Namen.
func (l *TeamList) Get(name domain.TeamName) (domain.Team, error) {
	t, ok := l.list.Find(func(t domain.Team) bool { return t.Name == name })
	if !ok {
		return domain.Team{}, fmt.Errorf("team %q: %w", name, domain.ErrNotFound)
	}
	return t, nil
}

// Contains meldet, ob ein Team mit diesem Namen existiert.
func (l *TeamList) Contains(name domain.TeamName) bool {
	return l.list.Contains(domain.Team{Name: name})
}

// AddMember hängt p an die Mitgliederliste von name an.
func (l *TeamList) AddMember(name domain.TeamName, p domain.Person) error {
	team, err := l.Get(name)
	if err != nil {
		return err
	}
	if team.HasMember(p) {
		return fmt.Errorf("person %q in team %q: %w", p.Name, name, domain.ErrDuplicate)
	}
	return l.list.Set(team, team.WithMembers(append(slices.Clone(team.Members), p)))
}

// RemoveMember entfernt p aus der Mitgliederliste von name.
func (l *TeamList) RemoveMember(name domain.TeamName, p domain.Person) error {
	team, err := l.Get(name)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(team.Members, p.Equal)
	if i < 0 {
		return fmt.Errorf("person %q in team %q: %w", p.Name, name, domain.ErrNotFound)
	}
	members := slices.Delete(slices.Clone(team.Members), i, i+1)
	return l.list.Set(team, team.WithMembers(members))
}

// ReplaceMember ersetzt old durch replacement in der Mitgliederliste von name.
func (l *TeamList) ReplaceMember(name domain.TeamName, old, replacement domain.Person) error {
	team, err := l.Get(name)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(team.Members, old.Equal)
	if i < 0 {
		return fmt.Errorf("person %q in team %q: %w", old.Name, name, domain.ErrNotFound)
	}
	if j := slices.IndexFunc(team.Members, replacement.Equal); j >= 0 && j != i {
		return fmt.Errorf("person %q in team %q: %w", replacement.Name, name, domain.ErrDuplicate)
	}
	members := slices.Clone(team.Members)
	members[i] = replacement
	return l.list.Set(team, team.WithMembers(members))
}

// Set ersetzt target durch edited, etwa beim Umbenennen.
func (l *TeamList) Set(target, edited domain.Team) error {
	if err := l.list.Set(target, edited.WithMembers(edited.Members)); err != nil {
		return fmt.Errorf("team %q ersetzen: %w", target.Name, err)
	}
	return nil
}

// Remove löscht das Team samt Mitgliederliste.
func (l *TeamList) Remove(name domain.TeamName) error {
	if err := l.list.Remove(domain.Team{Name: name}); err != nil {
		return fmt.Errorf("team %q entfernen: %w", name, err)
	}
	return nil
}

// SetAll überschreibt das Register.
func (l *TeamList) SetAll(teams []domain.Team) error {
	cloned := make([]domain.Team, 0, len(teams))
	for _, t := range teams {
		cloned = append(cloned, t.WithMembers(t.Members))
	}
	if err := l.list.SetAll(cloned); err != nil {
		return fmt.Errorf("teamliste setzen: %w", err)
	}
	return nil
}

// View liefert die lebende Sicht auf alle Teams.
func (l *TeamList) View() unique.View[domain.Team] { return l.list.View() }
