package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"teambook/internal/domain"
)

// maxRequestBody begrenzt die Body-Größe auf 1 MegaByte
const maxRequestBody = 1 << 20

// AddressBookService definiert den Vertrag, den der Handler von der Service-Schicht erwartet.
type AddressBookService interface {
	ListPersons(ctx context.Context) []domain.Person
	AddPerson(ctx context.Context, p domain.Person) (domain.Person, error)
	UpdatePerson(ctx context.Context, index int, edited domain.Person) (domain.Person, error)
	RemovePerson(ctx context.Context, index int) error
	SortPersons(ctx context.Context, field, order string) error
	AssignPersonToTeam(ctx context.Context, index int, name domain.TeamName) (domain.Person, error)
	UnassignPersonFromTeam(ctx context.Context, index int) (domain.Person, error)

	ListTags(ctx context.Context) []domain.Tag
	AddTag(ctx context.Context, tag domain.Tag) (domain.Tag, error)
	SetTagColour(ctx context.Context, name, colour string) (domain.Tag, error)
	RemoveTag(ctx context.Context, name string) error

	ListTeams(ctx context.Context) []domain.Team
	CreateTeam(ctx context.Context, name domain.TeamName) (domain.Team, error)
	RenameTeam(ctx context.Context, name, newName domain.TeamName) (domain.Team, error)
	RemoveTeam(ctx context.Context, name domain.TeamName) error
}

// AddressBookHandler stellt Personen-, Tag- und Team-Endpunkte über HTTP bereit.
type AddressBookHandler struct {
	service AddressBookService
	logger  *zap.Logger
}

// NewAddressBookHandler erstellt einen neuen AddressBookHandler.
func NewAddressBookHandler(svc AddressBookService, logger *zap.Logger) *AddressBookHandler {
	return &AddressBookHandler{service: svc, logger: logger}
}

type teamBody struct {
	Team string `json:"team"`
}

type renameBody struct {
	Name string `json:"name"`
}

type colourBody struct {
	Colour string `json:"colour"`
}

//// Personen

// ListPersons gibt alle Personen in Listenreihenfolge zurück.
func (h *AddressBookHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListPersons(r.Context()))
}

// CreatePerson fügt eine neue Person hinzu.
func (h *AddressBookHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var p domain.Person
	if !h.decode(w, r, &p) {
		return
	}
	created, err := h.service.AddPerson(r.Context(), p)
	if err != nil {
		h.writeError(w, "person erstellen", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdatePerson ersetzt die Person an der angegebenen Position.
func (h *AddressBookHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var p domain.Person
	if !h.decode(w, r, &p) {
		return
	}
	updated, err := h.service.UpdatePerson(r.Context(), index, p)
	if err != nil {
		h.writeError(w, "person bearbeiten", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeletePerson entfernt die Person an der angegebenen Position.
func (h *AddressBookHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	if err := h.service.RemovePerson(r.Context(), index); err != nil {
		h.writeError(w, "person entfernen", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SortPersons sortiert die Personenliste nach ?field= und ?order=.
func (h *AddressBookHandler) SortPersons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := h.service.SortPersons(r.Context(), q.Get("field"), q.Get("order")); err != nil {
		h.writeError(w, "personen sortieren", err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.ListPersons(r.Context()))
}

// AssignTeam weist die Person an der angegebenen Position einem Team zu.
func (h *AddressBookHandler) AssignTeam(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var body teamBody
	if !h.decode(w, r, &body) {
		return
	}
	updated, err := h.service.AssignPersonToTeam(r.Context(), index, domain.TeamName(body.Team))
	if err != nil {
		h.writeError(w, "team zuweisen", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// UnassignTeam löst die Person an der angegebenen Position aus ihrem Team.
func (h *AddressBookHandler) UnassignTeam(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	updated, err := h.service.UnassignPersonFromTeam(r.Context(), index)
	if err != nil {
		h.writeError(w, "team lösen", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

//// Tags

// ListTags gibt alle Tags zurück.
func (h *AddressBookHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListTags(r.Context()))
}

// CreateTag legt einen neuen Tag an.
func (h *AddressBookHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var tag domain.Tag
	if !h.decode(w, r, &tag) {
		return
	}
	created, err := h.service.AddTag(r.Context(), tag)
	if err != nil {
		h.writeError(w, "tag erstellen", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// SetTagColour ändert die Farbe eines Tags.
func (h *AddressBookHandler) SetTagColour(w http.ResponseWriter, r *http.Request) {
	var body colourBody
	if !h.decode(w, r, &body) {
		return
	}
	tag, err := h.service.SetTagColour(r.Context(), chi.URLParam(r, "name"), body.Colour)
	if err != nil {
		h.writeError(w, "tagfarbe ändern", err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// DeleteTag entfernt einen Tag von allen Personen.
func (h *AddressBookHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveTag(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.writeError(w, "tag entfernen", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//// Teams

// ListTeams gibt alle Teams samt Mitgliedern zurück.
func (h *AddressBookHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListTeams(r.Context()))
}

// CreateTeam legt ein leeres Team an.
func (h *AddressBookHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var body renameBody
	if !h.decode(w, r, &body) {
		return
	}
	team, err := h.service.CreateTeam(r.Context(), domain.TeamName(body.Name))
	if err != nil {
		h.writeError(w, "team erstellen", err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

// RenameTeam benennt ein Team um.
func (h *AddressBookHandler) RenameTeam(w http.ResponseWriter, r *http.Request) {
	var body renameBody
	if !h.decode(w, r, &body) {
		return
	}
	team, err := h.service.RenameTeam(r.Context(),
		domain.TeamName(chi.URLParam(r, "name")), domain.TeamName(body.Name))
	if err != nil {
		h.writeError(w, "team umbenennen", err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// DeleteTeam löscht ein Team.
func (h *AddressBookHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveTeam(r.Context(), domain.TeamName(chi.URLParam(r, "name"))); err != nil {
		h.writeError(w, "team löschen", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//// Hilfsfunktionen

// decode liest den Request-Body nach v. Der Body wird auf maxRequestBody begrenzt.
func (h *AddressBookHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{"ungültiger anfrage-body"})
		return false
	}
	return true
}

// writeError bildet Domänenfehler auf Statuscodes ab.
func (h *AddressBookHandler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvariantViolation):
		h.logger.Error(op, zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{"interner serverfehler"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		writeJSON(w, http.StatusConflict, errorBody{err.Error()})
	case errors.Is(err, domain.ErrCapacityReached):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{err.Error()})
	default:
		h.logger.Error(op, zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{"interner serverfehler"})
	}
}

// indexParam liest die 1-basierte Position aus dem Pfad.
func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{"index muss eine ganzzahl sein"})
		return 0, false
	}
	return index, true
}

// errorBody ist die einheitliche Fehlerantwort-Struktur.
type errorBody struct {
	Error string `json:"error"`
}

// writeJSON setzt den Content-Type-Header und schreibt v als JSON in w.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
