package addressbook

import (
	"errors"

	"go.uber.org/zap"

	"teambook/internal/domain"
)

// checkpoint sichert den Inhalt aller Register. Tag-Instanzen werden nicht
// kopiert, damit kanonische Zeiger über einen Rollback hinweg gültig bleiben.
type checkpoint struct {
	persons []domain.Person
	tags    []*domain.Tag
	teams   []domain.Team
}

func (ab *AddressBook) checkpoint() checkpoint {
	return checkpoint{
		persons: ab.persons.list.Items(),
		tags:    ab.tags.list.Items(),
		teams:   ab.teams.list.Items(),
	}
}

func (ab *AddressBook) rollback(cp checkpoint) {
	ab.persons.list.Restore(cp.persons)
	ab.tags.list.Restore(cp.tags)
	ab.teams.list.Restore(cp.teams)
}

// atomically führt fn als Einheit aus: liefert fn einen Fehler, werden alle
// Register auf den Stand vor dem Aufruf zurückgesetzt.
func (ab *AddressBook) atomically(op string, fn func() error) error {
	cp := ab.checkpoint()
	if err := fn(); err != nil {
		ab.rollback(cp)
		if errors.Is(err, domain.ErrInvariantViolation) {
			ab.logger.Error("invariante verletzt, änderungen verworfen",
				zap.String("operation", op),
				zap.Error(err),
			)
		} else {
			ab.logger.Debug("operation abgebrochen, änderungen verworfen",
				zap.String("operation", op),
				zap.Error(err),
			)
		}
		return err
	}
	return nil
}
