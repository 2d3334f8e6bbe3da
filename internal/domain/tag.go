package domain

import (
	"slices"
	"strings"
)

// ColorMap bildet Farben-IDs auf ihre Farbnamen ab.
var ColorMap = map[int]string{
	1: "blau",
	2: "grün",
	3: "violett",
	4: "rot",
	5: "gelb",
	6: "türkis",
	7: "weiß",
}

// ColorNameID bildet Farbnamen auf ihre jeweiligen IDs ab.
var ColorNameID = map[string]int{
	"blau":    1,
	"grün":    2,
	"violett": 3,
	"rot":     4,
	"gelb":    5,
	"türkis":  6,
	"weiß":    7,
}

// DefaultTagColour ist die Farbe neu angelegter Tags.
const DefaultTagColour = "blau"

// NormalizeColour bringt einen Farbnamen in die Form der Palette.
func NormalizeColour(colour string) (string, bool) {
	c := strings.ToLower(strings.TrimSpace(colour))
	_, ok := ColorNameID[c]
	return c, ok
}

// Tag ist ein Etikett mit veränderlicher Farbe. Die Identität ergibt sich
// allein aus dem Namen ohne Beachtung der Groß-/Kleinschreibung: "Sturm" und
// "sturm" sind derselbe Tag. Das Register hält je Schlüssel genau eine
// Instanz, und Personen tragen deren Schreibweise.
type Tag struct {
	Name   string `json:"name" yaml:"name"`
	Colour string `json:"colour" yaml:"colour"`
}

// NewTag legt einen Tag mit Standardfarbe an.
func NewTag(name string) Tag {
	return Tag{Name: strings.TrimSpace(name), Colour: DefaultTagColour}
}

// Key liefert den Identitätsschlüssel des Tags.
func (t Tag) Key() string { return TagKey(t.Name) }

// Equal vergleicht zwei Tags nur über den Namen.
func (t Tag) Equal(other Tag) bool { return t.Key() == other.Key() }

// TagKey normalisiert einen Tag-Namen zum Vergleichsschlüssel.
func TagKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// TagSet ist eine sortierte Menge von Tag-Namen ohne Duplikate.
type TagSet []string

// NewTagSet baut eine Menge aus beliebigen Namen; leere Namen werden verworfen,
// bei gleichem Schlüssel gewinnt der erste Name.
func NewTagSet(names ...string) TagSet {
	seen := make(map[string]struct{}, len(names))
	out := make(TagSet, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		k := TagKey(n)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b string) int { return strings.Compare(TagKey(a), TagKey(b)) })
	return out
}

// Has meldet, ob die Menge einen Tag mit diesem Namen enthält.
func (s TagSet) Has(name string) bool {
	k := TagKey(name)
	for _, n := range s {
		if TagKey(n) == k {
			return true
		}
	}
	return false
}

// Without liefert eine Kopie ohne den genannten Tag.
func (s TagSet) Without(name string) TagSet {
	k := TagKey(name)
	out := make(TagSet, 0, len(s))
	for _, n := range s {
		if TagKey(n) != k {
			out = append(out, n)
		}
	}
	return out
}

// Equal vergleicht zwei Mengen unabhängig von Reihenfolge und Schreibweise.
func (s TagSet) Equal(other TagSet) bool {
	a, b := NewTagSet(s...), NewTagSet(other...)
	return slices.EqualFunc(a, b, func(x, y string) bool { return TagKey(x) == TagKey(y) })
}
