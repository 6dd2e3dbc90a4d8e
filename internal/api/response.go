package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/custody"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/imaging"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/report"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

type conflictResponse struct {
	Error    string            `json:"error"`
	Conflict *custody.Conflict `json:"conflict"`
}

// jsonConflict reports a soft conflict the caller may resolve by retrying
// with an override.
func jsonConflict(w http.ResponseWriter, c *custody.Conflict) {
	jsonResponse(w, http.StatusConflict, conflictResponse{Error: c.Message, Conflict: c})
}

// writeError maps an operation error to a status code. Unexpected errors
// are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ge *gateError
	switch {
	case errors.As(err, &ge):
		jsonError(w, ge.status, ge.message)
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, custody.ErrInvalidCatalog),
		errors.Is(err, custody.ErrPartialRemoval),
		errors.Is(err, imaging.ErrTooLarge):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, custody.ErrNoOpenIssuance),
		errors.Is(err, custody.ErrNotEmpty):
		jsonError(w, http.StatusConflict, err.Error())
	case db.IsUniqueViolation(err):
		jsonError(w, http.StatusConflict, "already exists")
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// writeWorkbook sends an XLSX file as a download.
func writeWorkbook(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
