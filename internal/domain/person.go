package domain

import "slices"

// Person repräsentiert ein Teammitglied. Werte werden nie verändert: jede
// Bearbeitung erzeugt über die With-Methoden eine neue Person.
type Person struct {
	Name         string   `json:"name" yaml:"name"`
	Phone        string   `json:"phone" yaml:"phone"`
	Email        string   `json:"email" yaml:"email"`
	Address      string   `json:"address" yaml:"address"`
	Remark       string   `json:"remark" yaml:"remark"`
	Team         TeamName `json:"team" yaml:"team"`
	Tags         TagSet   `json:"tags" yaml:"tags"`
	Rating       int      `json:"rating" yaml:"rating"`
	Position     string   `json:"position" yaml:"position"`
	JerseyNumber string   `json:"jerseyNumber" yaml:"jersey_number"`
	Avatar       string   `json:"avatar" yaml:"avatar"`
}

// Equal vergleicht alle Felder; Tags als Menge.
func (p Person) Equal(other Person) bool {
	return p.Name == other.Name &&
		p.Phone == other.Phone &&
		p.Email == other.Email &&
		p.Address == other.Address &&
		p.Remark == other.Remark &&
		p.teamOrSentinel() == other.teamOrSentinel() &&
		p.Tags.Equal(other.Tags) &&
		p.Rating == other.Rating &&
		p.Position == other.Position &&
		p.JerseyNumber == other.JerseyNumber &&
		p.Avatar == other.Avatar
}

// HasTeam meldet, ob die Person einem Team zugewiesen ist.
func (p Person) HasTeam() bool { return !p.Team.IsUnspecified() }

func (p Person) teamOrSentinel() TeamName {
	if p.Team.IsUnspecified() {
		return UnspecifiedTeam
	}
	return p.Team
}

// Normalized ersetzt einen leeren Teamnamen durch den Platzhalter.
func (p Person) Normalized() Person {
	out := p.clone()
	out.Team = p.teamOrSentinel()
	out.Tags = NewTagSet(p.Tags...)
	return out
}

// WithTeam liefert eine Kopie mit anderem Team.
func (p Person) WithTeam(name TeamName) Person {
	out := p.clone()
	out.Team = name
	return out
}

// WithTags liefert eine Kopie mit ersetzter Tag-Menge.
func (p Person) WithTags(tags TagSet) Person {
	out := p.clone()
	out.Tags = slices.Clone(tags)
	return out
}

// WithoutTag liefert eine Kopie ohne den genannten Tag.
func (p Person) WithoutTag(name string) Person {
	out := p.clone()
	out.Tags = p.Tags.Without(name)
	return out
}

func (p Person) clone() Person {
	out := p
	out.Tags = slices.Clone(p.Tags)
	return out
}
