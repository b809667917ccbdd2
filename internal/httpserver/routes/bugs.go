package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/handlers"
)

func init() { Register(registerBugs) }

func registerBugs(r chi.Router, d deps.Deps) {
	r.Route("/api/bugs", func(r chi.Router) {
		r.Get("/", handlers.ListBugs(d))
		r.Post("/", handlers.CreateBug(d))
		// /stats before /{id} so "stats" is never parsed as an id.
		r.Get("/stats", handlers.BugStats(d))
		r.Get("/{id}", handlers.GetBug(d))
		r.Patch("/{id}", handlers.UpdateBug(d))
		r.Delete("/{id}", handlers.DeleteBug(d))
	})
}
