package handlers

import (
	"depot-route-service/internal/api/dto"
	"depot-route-service/internal/domain"
	"depot-route-service/internal/platform/obs"
	"depot-route-service/internal/ports"
	"depot-route-service/internal/services"
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// RouteHandler computes and exports routes over the loaded road network.
type RouteHandler struct {
	Sessions ports.SessionStore
	Network  ports.RoadNetwork
	Depot    domain.Depot
}

// Compute builds the route for a session's current stops.
// An empty registry is rejected with 409 before any graph query.
func (h *RouteHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	mode, err := domain.ParseMode(req.Mode)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "mode must be \"standard\" or \"urgency_first\"")
		return
	}

	result, err := h.plan(w, r, mode)
	if err != nil {
		writeServiceError(w, r, "compute route", err)
		return
	}

	rows := services.RouteTable(result)
	res := dto.RouteResponse{
		Mode:                string(result.Mode),
		TotalDistanceMeters: result.TotalDistanceMeters,
		TotalKm:             result.TotalKilometers(),
		Summary:             services.Summary(result),
		Rows:                make([]dto.RouteRowResponse, 0, len(rows)),
	}
	for _, row := range rows {
		res.Rows = append(res.Rows, dto.RouteRowResponse{
			Ordine:  row.Ordine,
			Tipo:    row.Tipo,
			Cliente: row.Cliente,
			Lat:     row.Lat,
			Lon:     row.Lon,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Export recomputes the route and returns it as a plain text download.
func (h *RouteHandler) Export(w http.ResponseWriter, r *http.Request) {
	mode, err := domain.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "mode must be \"standard\" or \"urgency_first\"")
		return
	}

	result, err := h.plan(w, r, mode)
	if err != nil {
		writeServiceError(w, r, "export route", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": services.ExportFileName}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(services.ExportText(result)))
}

// Route planning runs for as long as the request context allows, so the
// server-wide write timeout is lifted for these responses.
func (h *RouteHandler) plan(w http.ResponseWriter, r *http.Request, mode domain.Mode) (*domain.RouteResult, error) {
	err := http.NewResponseController(w).SetWriteDeadline(time.Time{})
	if err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Warn().Err(err).Str("req_id", obs.RequestID(r.Context())).Msg("cannot clear write deadline")
	}

	return services.PlanRoute(r.Context(), services.PlanRouteRequest{
		SessionID: r.PathValue("id"),
		Mode:      mode,
		Depot:     h.Depot,
	}, h.Sessions, h.Network)
}
