// Package unique stellt eine geordnete Liste bereit, die keine gleichen
// Elemente zulässt.
package unique

import (
	"iter"
	"slices"

	"teambook/internal/domain"
)

// List ist eine geordnete Sammlung ohne Duplikate. Gleichheit wird über die
// beim Anlegen übergebene Funktion bestimmt.
type List[T any] struct {
	items []T
	equal func(a, b T) bool
}

// New legt eine leere Liste mit der gegebenen Gleichheitsfunktion an.
func New[T any](equal func(a, b T) bool) *List[T] {
	return &List[T]{items: []T{}, equal: equal}
}

// Len liefert die Anzahl der Elemente.
func (l *List[T]) Len() int { return len(l.items) }

// IndexOf liefert die Position von v oder -1.
func (l *List[T]) IndexOf(v T) int {
	for i, it := range l.items {
		if l.equal(it, v) {
			return i
		}
	}
	return -1
}

// Contains meldet, ob ein gleiches Element vorhanden ist.
func (l *List[T]) Contains(v T) bool { return l.IndexOf(v) >= 0 }

// Find liefert das erste Element, für das match true ergibt.
func (l *List[T]) Find(match func(T) bool) (T, bool) {
	for _, it := range l.items {
		if match(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Add hängt v an.
func (l *List[T]) Add(v T) error {
	if l.Contains(v) {
		return domain.ErrDuplicate
	}
	l.items = append(l.items, v)
	return nil
}

// Set ersetzt old durch replacement an derselben Position.
func (l *List[T]) Set(old, replacement T) error {
	i := l.IndexOf(old)
	if i < 0 {
		return domain.ErrNotFound
	}
	if j := l.IndexOf(replacement); j >= 0 && j != i {
		return domain.ErrDuplicate
	}
	l.items[i] = replacement
	return nil
}

// Remove entfernt v.
func (l *List[T]) Remove(v T) error {
	i := l.IndexOf(v)
	if i < 0 {
		return domain.ErrNotFound
	}
	l.items = slices.Delete(l.items, i, i+1)
	return nil
}

// SetAll überschreibt den Inhalt. Enthält items Duplikate, bleibt die Liste unverändert.
func (l *List[T]) SetAll(items []T) error {
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			if l.equal(items[i], items[j]) {
				return domain.ErrDuplicate
			}
		}
	}
	l.items = slices.Clone(items)
	return nil
}

// Items liefert eine Kopie der Elemente.
func (l *List[T]) Items() []T { return slices.Clone(l.items) }

// Restore überschreibt den Inhalt ohne Prüfung. Nur für Zustände gedacht, die
// zuvor über Items gesichert wurden.
func (l *List[T]) Restore(items []T) { l.items = slices.Clone(items) }

// Sort sortiert stabil nach cmp.
func (l *List[T]) Sort(cmp func(a, b T) int) { slices.SortStableFunc(l.items, cmp) }

// View liefert eine lebende, nur lesende Sicht auf die Liste.
func (l *List[T]) View() View[T] { return View[T]{list: l} }

// View ist eine nur lesende Sicht, die jede spätere Änderung der Liste sieht.
type View[T any] struct {
	list *List[T]
}

// Len liefert die aktuelle Länge.
func (v View[T]) Len() int { return len(v.list.items) }

// At liefert das Element an Position i.
func (v View[T]) At(i int) T { return v.list.items[i] }

// All iteriert über den aktuellen Inhalt.
func (v View[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, it := range v.list.items {
			if !yield(i, it) {
				return
			}
		}
	}
}

// Slice liefert eine Kopie des aktuellen Inhalts.
func (v View[T]) Slice() []T { return slices.Clone(v.list.items) }
