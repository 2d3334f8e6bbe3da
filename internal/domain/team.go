package domain

import (
	"slices"
	"strings"
)

// TeamName benennt ein Team. UnspecifiedTeam steht für "kein Team".
type TeamName string

// UnspecifiedTeam ist der reservierte Wert für Personen ohne Team.
const UnspecifiedTeam TeamName = "<UNSPECIFIED>"

// IsUnspecified meldet, ob der Name der Platzhalter für "kein Team" ist.
func (n TeamName) IsUnspecified() bool {
	return n == UnspecifiedTeam || strings.TrimSpace(string(n)) == ""
}

func (n TeamName) String() string { return string(n) }

// Team besitzt eine geordnete Liste seiner Mitglieder.
type Team struct {
	Name    TeamName `json:"name" yaml:"name"`
	Members []Person `json:"members" yaml:"-"`
}

// NewTeam legt ein leeres Team an.
func NewTeam(name TeamName) Team {
	return Team{Name: TeamName(strings.TrimSpace(string(name))), Members: []Person{}}
}

// Equal vergleicht Teams nur über den Namen.
func (t Team) Equal(other Team) bool { return t.Name == other.Name }

// HasMember meldet, ob p Mitglied des Teams ist.
func (t Team) HasMember(p Person) bool {
	return slices.ContainsFunc(t.Members, p.Equal)
}

// WithName liefert eine Kopie mit neuem Namen.
func (t Team) WithName(name TeamName) Team {
	return Team{Name: name, Members: cloneMembers(t.Members)}
}

// WithMembers liefert eine Kopie mit den angegebenen Mitgliedern.
func (t Team) WithMembers(members []Person) Team {
	return Team{Name: t.Name, Members: cloneMembers(members)}
}

func cloneMembers(members []Person) []Person {
	out := make([]Person, 0, len(members))
	for _, m := range members {
		out = append(out, m.clone())
	}
	return out
}
