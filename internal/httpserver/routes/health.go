package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/handlers"
)

func init() { Register(registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	r.Get("/api/healthz", handlers.Healthz(d))
	r.Get("/api/readyz", handlers.Readyz(d))
}
