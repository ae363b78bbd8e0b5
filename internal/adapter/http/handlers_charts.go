package adapthttp

import (
	"net/http"
)

func (s *Server) handleChartsDaily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	metricType := r.URL.Query().Get("type")
	days := intQuery(r, "days", 90)
	unit := r.URL.Query().Get("unit")

	points, err := s.charts.GetDaily(r.Context(), currentOwner(r), metricType, days, unit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"type":  metricType,
		"days":  days,
		"items": points,
	})
}
