package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bugtrack/internal/domain"
	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Store string `json:"store"`
}

// Readyz reports whether the store answers. A cheap count doubles as the
// liveness probe for both backends.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if _, err := d.Store.Count(ctx, domain.Filter{}); err != nil {
			d.Logger.Warn("readiness check failed", logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false, Store: d.StoreName})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true, Store: d.StoreName})
	}
}
