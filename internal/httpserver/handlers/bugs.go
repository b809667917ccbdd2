package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
)

// bugData wraps a single bug for the response envelope: {data:{bug:{...}}}.
type bugData struct {
	Bug any `json:"bug"`
}

// bugListData wraps a page of bugs: {data:{bugs:[...]}}.
type bugListData struct {
	Bugs any `json:"bugs"`
}

// ListBugs handles GET /api/bugs with filter, sort and pagination
// parameters.
func ListBugs(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := d.Bugs.List(r.Context(), r.URL.Query())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		results := len(result.Bugs)
		writeJSON(w, http.StatusOK, successResponse{
			Status:     "success",
			Results:    &results,
			Pagination: &result.Pagination,
			Data:       bugListData{Bugs: result.Bugs},
		})
	}
}

// GetBug handles GET /api/bugs/{id}.
func GetBug(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bug, err := d.Bugs.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeSuccess(w, http.StatusOK, bugData{Bug: bug})
	}
}

// CreateBug handles POST /api/bugs.
func CreateBug(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := decodePayload(r)
		if err != nil {
			d.Logger.Debug("malformed create payload", logger.Error(err))
			writeFail(w, http.StatusBadRequest, "Invalid JSON payload")
			return
		}

		bug, err := d.Bugs.Create(r.Context(), payload)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeSuccess(w, http.StatusCreated, bugData{Bug: bug})
	}
}

// UpdateBug handles PATCH /api/bugs/{id}. Only supplied fields change.
func UpdateBug(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := decodePayload(r)
		if err != nil {
			d.Logger.Debug("malformed update payload", logger.Error(err))
			writeFail(w, http.StatusBadRequest, "Invalid JSON payload")
			return
		}

		bug, err := d.Bugs.Update(r.Context(), chi.URLParam(r, "id"), payload)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeSuccess(w, http.StatusOK, bugData{Bug: bug})
	}
}

// DeleteBug handles DELETE /api/bugs/{id}. Success is 204 with no body.
func DeleteBug(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Bugs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// BugStats handles GET /api/bugs/stats.
func BugStats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := d.Bugs.GetStats(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeSuccess(w, http.StatusOK, stats)
	}
}

// RouteNotFound is the fallback for unknown paths.
func RouteNotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeFail(w, http.StatusNotFound, "Route not found")
	}
}
