package addressbook

import (
	"fmt"

	"teambook/internal/domain"
	"teambook/internal/unique"
)

// TagList ist das Tag-Register. Es hält genau eine kanonische Instanz pro
// Tag-Name; Farbänderungen wirken über diese Instanz auf alle Personen.
type TagList struct {
	list *unique.List[*domain.Tag]
}

// NewTagList legt ein leeres Register an.
func NewTagList() *TagList {
	return &TagList{list: unique.New(func(a, b *domain.Tag) bool { return a.Equal(*b) })}
}

// Add legt tag als neue kanonische Instanz an.
func (l *TagList) Add(tag domain.Tag) error {
	t := tag
	if t.Colour == "" {
		t.Colour = domain.DefaultTagColour
	}
	if err := l.list.Add(&t); err != nil {
		return fmt.Errorf("tag %q hinzufügen: %w", tag.Name, err)
	}
	return nil
}

// MergeFrom ergänzt alle noch fehlenden Tags mit Standardfarbe.
func (l *TagList) MergeFrom(names domain.TagSet) {
	for _, n := range names {
		if _, ok := l.Get(n); ok {
			continue
		}
		t := domain.NewTag(n)
		_ = l.list.Add(&t)
	}
}

// Get liefert die kanonische Instanz zu name.
func (l *TagList) Get(name string) (*domain.Tag, bool) {
	key := domain.TagKey(name)
	return l.list.Find(func(t *domain.Tag) bool { return t.Key() == key })
}

// SetColour ändert die Farbe der kanonischen Instanz.
func (l *TagList) SetColour(name, colour string) error {
	t, ok := l.Get(name)
	if !ok {
		return fmt.Errorf("tag %q: %w", name, domain.ErrNotFound)
	}
	t.Colour = colour
	return nil
}

// Remove entfernt den Tag mit diesem Namen.
func (l *TagList) Remove(name string) error {
	t, ok := l.Get(name)
	if !ok {
		return fmt.Errorf("tag %q: %w", name, domain.ErrNotFound)
	}
	return l.list.Remove(t)
}

// SetAll überschreibt das Register mit bereits kanonischen Instanzen.
func (l *TagList) SetAll(tags []*domain.Tag) error {
	if err := l.list.SetAll(tags); err != nil {
		return fmt.Errorf("tagliste setzen: %w", err)
	}
	return nil
}

// Reset ersetzt das Register durch neue Instanzen der übergebenen Tags.
func (l *TagList) Reset(tags []domain.Tag) error {
	fresh := make([]*domain.Tag, 0, len(tags))
	for _, t := range tags {
		c := t
		if c.Colour == "" {
			c.Colour = domain.DefaultTagColour
		}
		fresh = append(fresh, &c)
	}
	return l.SetAll(fresh)
}

// View liefert die lebende Sicht auf alle Tags. Die Instanzen dürfen von
// Aufrufern nicht verändert werden.
func (l *TagList) View() unique.View[*domain.Tag] { return l.list.View() }

// EqualOrderInsensitive vergleicht beide Register als Mengen von Namen.
func (l *TagList) EqualOrderInsensitive(other *TagList) bool {
	if l.list.Len() != other.list.Len() {
		return false
	}
	for _, t := range l.list.View().All() {
		if _, ok := other.Get(t.Name); !ok {
			return false
		}
	}
	return true
}
