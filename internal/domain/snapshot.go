package domain

import "slices"

// Snapshot ist eine losgelöste Kopie aller Listen eines Adressbuchs. Sie dient
// als Eingabe für das Zurücksetzen und als Austauschformat der Persistenz.
type Snapshot struct {
	Persons []Person `json:"persons" yaml:"persons"`
	Tags    []Tag    `json:"tags" yaml:"tags"`
	Teams   []Team   `json:"teams" yaml:"teams"`
}

// Clone erstellt eine tiefe Kopie.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Persons: make([]Person, 0, len(s.Persons)),
		Tags:    slices.Clone(s.Tags),
		Teams:   make([]Team, 0, len(s.Teams)),
	}
	for _, p := range s.Persons {
		out.Persons = append(out.Persons, p.clone())
	}
	for _, t := range s.Teams {
		out.Teams = append(out.Teams, t.WithMembers(t.Members))
	}
	return out
}

// RebuildMembers füllt die Mitgliederlisten der Teams anhand der Teamnamen der
// Personen, in der Reihenfolge der Personenliste. Teams, die nur über Personen
// bekannt sind, werden ergänzt.
func (s Snapshot) RebuildMembers() Snapshot {
	out := Snapshot{Persons: s.Persons, Tags: s.Tags, Teams: make([]Team, 0, len(s.Teams))}
	index := make(map[TeamName]int, len(s.Teams))
	for _, t := range s.Teams {
		if _, ok := index[t.Name]; ok {
			continue
		}
		index[t.Name] = len(out.Teams)
		out.Teams = append(out.Teams, NewTeam(t.Name))
	}
	for _, p := range s.Persons {
		if !p.HasTeam() {
			continue
		}
		i, ok := index[p.Team]
		if !ok {
			i = len(out.Teams)
			index[p.Team] = i
			out.Teams = append(out.Teams, NewTeam(p.Team))
		}
		out.Teams[i].Members = append(out.Teams[i].Members, p)
	}
	return out
}
