package repository

import (
	"context"

	"teambook/internal/domain"
)

// SnapshotRepository speichert und lädt den vollständigen Stand eines
// Adressbuchs. Mitgliederlisten der Teams werden nicht gespeichert; sie ergeben
// sich beim Laden aus den Teamnamen der Personen.
type SnapshotRepository interface {
	Load(ctx context.Context) (domain.Snapshot, error)
	Save(ctx context.Context, snapshot domain.Snapshot) error
}
