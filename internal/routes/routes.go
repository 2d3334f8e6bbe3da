package routes

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"teambook/internal/handler"
	"teambook/internal/middleware"
)

// Setup registriert globale Middleware, alle Adressbuch-Endpunkte und /metrics am Router.
func Setup(r chi.Router, h *handler.AddressBookHandler, logger *zap.Logger, rps float64, gatherer prometheus.Gatherer) {
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.RateLimit(rps, logger))

	r.Route("/persons", func(r chi.Router) {
		r.Get("/", h.ListPersons)
		r.Post("/", h.CreatePerson)
		r.Post("/sort", h.SortPersons)
		r.Put("/{index}", h.UpdatePerson)
		r.Delete("/{index}", h.DeletePerson)
		r.Put("/{index}/team", h.AssignTeam)
		r.Delete("/{index}/team", h.UnassignTeam)
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", h.ListTags)
		r.Post("/", h.CreateTag)
		r.Put("/{name}/colour", h.SetTagColour)
		r.Delete("/{name}", h.DeleteTag)
	})

	r.Route("/teams", func(r chi.Router) {
		r.Get("/", h.ListTeams)
		r.Post("/", h.CreateTeam)
		r.Put("/{name}", h.RenameTeam)
		r.Delete("/{name}", h.DeleteTeam)
	})

	r.Method("GET", "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
