package handlers

import (
	"depot-route-service/internal/domain"
	"depot-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Request bodies are small JSON objects.
const maxBodyBytes = 1 << 16

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().
			Str("req_id", obs.RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Err(err).
			Msg("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into dst. An empty body leaves
// dst untouched when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// writeServiceError maps domain failures to HTTP statuses. Anything
// unrecognized is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var parseErr *domain.ParseError
	var graphErr *domain.GraphQueryError

	switch {
	case errors.As(err, &parseErr):
		writeError(w, r, http.StatusBadRequest, parseErr.Error())
	case errors.Is(err, domain.ErrIdentifierRequired):
		writeError(w, r, http.StatusBadRequest, domain.ErrIdentifierRequired.Error())
	case errors.Is(err, domain.ErrIdentifierReserved):
		writeError(w, r, http.StatusBadRequest, domain.ErrIdentifierReserved.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, r, http.StatusNotFound, domain.ErrSessionNotFound.Error())
	case errors.Is(err, domain.ErrNoStops):
		writeError(w, r, http.StatusConflict, domain.ErrNoStops.Error())
	case errors.Is(err, domain.ErrConcurrentUpdate):
		writeError(w, r, http.StatusConflict, domain.ErrConcurrentUpdate.Error())
	case errors.As(err, &graphErr):
		log.Warn().
			Str("req_id", obs.RequestID(r.Context())).
			Str("op", op).
			Err(err).
			Msg("route computation failed")
		writeError(w, r, http.StatusUnprocessableEntity, "route could not be computed: "+graphErr.Error())
	default:
		log.Error().
			Str("req_id", obs.RequestID(r.Context())).
			Str("op", op).
			Err(err).
			Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
