package addressbook

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"

	"teambook/internal/domain"
	"teambook/internal/unique"
)

// PersonList ist das Personenregister. Zwei Personen sind gleich, wenn alle
// Felder übereinstimmen.
type PersonList struct {
	list *unique.List[domain.Person]
}

// NewPersonList legt ein leeres Register an.
func NewPersonList() *PersonList {
	return &PersonList{list: unique.New(domain.Person.Equal)}
}

// Add fügt p an, sofern keine gleiche Person existiert.
func (l *PersonList) Add(p domain.Person) error {
	if err := l.list.Add(p); err != nil {
		return fmt.Errorf("person %q hinzufügen: %w", p.Name, err)
	}
	return nil
}

// Set ersetzt target durch edited.
func (l *PersonList) Set(target, edited domain.Person) error {
	if err := l.list.Set(target, edited); err != nil {
		return fmt.Errorf("person %q ersetzen: %w", target.Name, err)
	}
	return nil
}

// Remove entfernt p.
func (l *PersonList) Remove(p domain.Person) error {
	if err := l.list.Remove(p); err != nil {
		return fmt.Errorf("person %q entfernen: %w", p.Name, err)
	}
	return nil
}

// Contains meldet, ob eine gleiche Person vorhanden ist.
func (l *PersonList) Contains(p domain.Person) bool { return l.list.Contains(p) }

// SetAll überschreibt das Register.
func (l *PersonList) SetAll(persons []domain.Person) error {
	if err := l.list.SetAll(persons); err != nil {
		return fmt.Errorf("personenliste setzen: %w", err)
	}
	return nil
}

// View liefert die lebende Sicht auf alle Personen.
func (l *PersonList) View() unique.View[domain.Person] { return l.list.View() }

// SortBy sortiert das Register stabil nach field ("name", "phone", "email",
// "address", "rating", "position", "jersey") in order ("asc" oder "desc").
func (l *PersonList) SortBy(field, order string) error {
	if l.list.Len() == 0 {
		return domain.ErrNoPersons
	}
	compare, ok := personComparators[strings.ToLower(strings.TrimSpace(field))]
	if !ok {
		return fmt.Errorf("unbekanntes sortierfeld %q: %w", field, domain.ErrInvalidInput)
	}
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "asc":
		l.list.Sort(compare)
	case "desc":
		l.list.Sort(func(a, b domain.Person) int { return compare(b, a) })
	default:
		return fmt.Errorf("unbekannte sortierreihenfolge %q: %w", order, domain.ErrInvalidInput)
	}
	return nil
}

var personComparators = map[string]func(a, b domain.Person) int{
	"name":     func(a, b domain.Person) int { return foldCompare(a.Name, b.Name) },
	"phone":    func(a, b domain.Person) int { return strings.Compare(a.Phone, b.Phone) },
	"email":    func(a, b domain.Person) int { return foldCompare(a.Email, b.Email) },
	"address":  func(a, b domain.Person) int { return foldCompare(a.Address, b.Address) },
	"rating":   func(a, b domain.Person) int { return cmp.Compare(a.Rating, b.Rating) },
	"position": func(a, b domain.Person) int { return foldCompare(a.Position, b.Position) },
	"jersey":   func(a, b domain.Person) int { return cmp.Compare(jerseyValue(a), jerseyValue(b)) },
}

func foldCompare(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// jerseyValue sortiert Personen ohne Rückennummer ans Ende.
func jerseyValue(p domain.Person) int {
	n, err := strconv.Atoi(p.JerseyNumber)
	if err != nil {
		return 1 << 30
	}
	return n
}
