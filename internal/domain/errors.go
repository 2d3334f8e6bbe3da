package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("nicht gefunden")
	ErrDuplicate          = errors.New("bereits vorhanden")
	ErrInvalidInput       = errors.New("ungültige eingabe")
	ErrCapacityReached    = errors.New("kapazitätsgrenze erreicht")
	ErrInvariantViolation = errors.New("interne invariante verletzt")
)

// ErrTeamNotSpecified wird zurückgegeben, wenn eine Person keinem Team zugewiesen ist.
var ErrTeamNotSpecified = fmt.Errorf("kein team zugewiesen: %w", ErrNotFound)

// ErrNoPersons signalisiert eine Operation auf einer leeren Personenliste.
var ErrNoPersons = fmt.Errorf("keine personen vorhanden: %w", ErrNotFound)
