package handlers

import (
	"net/http"
)

// GraphStats is the part of the road graph reported by the health check.
type GraphStats interface {
	NodeCount() int
	EdgeCount() int
}

type HealthHandler struct {
	Graph GraphStats
}

// Health reports liveness and the size of the loaded road graph.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	res := map[string]any{"status": "ok"}
	if h.Graph != nil {
		res["graph_nodes"] = h.Graph.NodeCount()
		res["graph_edges"] = h.Graph.EdgeCount()
	}
	writeJSON(w, r, http.StatusOK, res)
}
