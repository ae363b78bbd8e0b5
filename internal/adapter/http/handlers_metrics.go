package adapthttp

import (
	"net/http"
	"time"
)

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := currentOwner(r)

	switch r.Method {
	case http.MethodGet:
		metricType := r.URL.Query().Get("type")
		if metricType != "" {
			days := intQuery(r, "days", 30)
			to := time.Now().UTC()
			from := to.AddDate(0, 0, -days)
			items, err := s.metricSvc.ListByType(ctx, owner, metricType, from, to)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"items": items})
			return
		}

		limit := intQuery(r, "limit", 50)
		items, err := s.metricSvc.ListRecent(ctx, owner, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})

	case http.MethodPost:
		var body struct {
			MetricType string    `json:"metricType"`
			Value      float64   `json:"value"`
			Unit       string    `json:"unit"`
			MeasuredAt time.Time `json:"measuredAt"`
			Notes      string    `json:"notes"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		m, err := s.metricSvc.RecordManual(ctx, owner, body.MetricType, body.Value, body.Unit, body.MeasuredAt, body.Notes)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleMetricDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		ID int64 `json:"id"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	deleted, err := s.metricSvc.Delete(r.Context(), currentOwner(r), body.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": deleted})
}
