package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/petiteannonce/server/internal/common"
)

type errorResponse struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func (s *HTTPServer) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(ctx, "encoding response", "error", err)
	}
}

func (s *HTTPServer) writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	s.writeJSON(ctx, w, status, errorResponse{Message: msg})
}

func (s *HTTPServer) writeValidationError(ctx context.Context, w http.ResponseWriter, fields []string) {
	s.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Message: "validation failed", Fields: fields})
}

// serviceError maps sentinel errors to HTTP responses. Internal failures get
// a generic body; specifics stay in the logs.
func (s *HTTPServer) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, common.ErrorNotFound):
		s.writeError(ctx, w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorConflict):
		s.writeError(ctx, w, http.StatusConflict, "already exists")
	case errors.Is(err, common.ErrorForbidden):
		s.writeError(ctx, w, http.StatusForbidden, "you can only modify your own announces")
	case errors.Is(err, common.ErrorUnauthorized):
		s.writeError(ctx, w, http.StatusUnauthorized, "unauthorized")
	default:
		s.logger.Error(ctx, "request failed", "path", r.URL.Path, "error", err)
		s.writeError(ctx, w, http.StatusInternalServerError, "internal error")
	}
}
