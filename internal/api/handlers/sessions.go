package handlers

import (
	"depot-route-service/internal/api/dto"
	"depot-route-service/internal/domain"
	"depot-route-service/internal/ports"
	"net/http"
)

// SessionHandler manages dispatcher sessions and their stop registries.
type SessionHandler struct {
	Sessions ports.SessionStore
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := h.Sessions.Create(r.Context())
	if err != nil {
		writeServiceError(w, r, "create session", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.CreateSessionResponse{SessionID: id})
}

func (h *SessionHandler) ListStops(w http.ResponseWriter, r *http.Request) {
	stops, err := h.Sessions.Stops(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, "list stops", err)
		return
	}
	writeJSON(w, r, http.StatusOK, toListStopsResponse(stops))
}

// AddStop parses the dispatcher's coordinate text and appends the stop.
// Malformed input is a 400 and leaves the registry unchanged.
func (h *SessionHandler) AddStop(w http.ResponseWriter, r *http.Request) {
	var req dto.AddStopRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	var added domain.Stop
	_, err := h.Sessions.Update(r.Context(), r.PathValue("id"), func(reg *domain.StopRegistry) error {
		var err error
		added, err = reg.Add(req.Identifier, req.Coordinates, req.Urgent)
		return err
	})
	if err != nil {
		writeServiceError(w, r, "add stop", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toStopResponse(added))
}

func (h *SessionHandler) ClearStops(w http.ResponseWriter, r *http.Request) {
	_, err := h.Sessions.Update(r.Context(), r.PathValue("id"), func(reg *domain.StopRegistry) error {
		reg.Clear()
		return nil
	})
	if err != nil {
		writeServiceError(w, r, "clear stops", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toStopResponse(s domain.Stop) dto.StopResponse {
	return dto.StopResponse{
		Identifier: s.Identifier,
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
		Priority:   s.Priority.String(),
		Urgent:     s.Priority == domain.PriorityUrgent,
	}
}

func toListStopsResponse(stops []domain.Stop) dto.ListStopsResponse {
	res := dto.ListStopsResponse{Stops: make([]dto.StopResponse, 0, len(stops))}
	for _, s := range stops {
		res.Stops = append(res.Stops, toStopResponse(s))
	}
	return res
}
