package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/bugtrack/internal/bugs"
	"github.com/MrSnakeDoc/bugtrack/internal/domain"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
)

// successResponse is the envelope for every 2xx body:
// {status:"success", data:{...}}, with results+pagination added on lists.
type successResponse struct {
	Status     string     `json:"status"`
	Results    *int       `json:"results,omitempty"`
	Pagination *bugs.Page `json:"pagination,omitempty"`
	Data       any        `json:"data"`
}

// errorResponse is the envelope for every failure:
// {status:"fail"|"error", message}. "fail" for user-correctable 4xx,
// "error" for 5xx.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, successResponse{Status: "success", Data: data})
}

func writeFail(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{Status: "fail", Message: message})
}

// writeError maps the domain error taxonomy to HTTP status codes without
// re-inspecting error internals: validation and malformed ids are 400,
// missing records 404, anything else a generic 500.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	var (
		validationErr *domain.ValidationError
		invalidIDErr  *domain.InvalidIDError
		notFoundErr   *domain.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		writeFail(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &invalidIDErr):
		writeFail(w, http.StatusBadRequest, invalidIDErr.Error())
	case errors.As(err, &notFoundErr):
		writeFail(w, http.StatusNotFound, notFoundErr.Error())
	default:
		log.Error("request failed", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Status:  "error",
			Message: "Something went wrong",
		})
	}
}

// decodePayload parses a JSON request body into a bug payload.
// Unknown fields are ignored (documented looseness of the API).
func decodePayload(r *http.Request) (*domain.BugPayload, error) {
	var payload domain.BugPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
