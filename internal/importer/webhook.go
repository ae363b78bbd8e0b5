package importer

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"healthvault/internal/domain"
)

// ErrNoMetrics indicates a webhook payload with neither a data wrapper
// nor a top-level metrics list.
var ErrNoMetrics = errors.New("no metrics data in payload")

// WebhookPayload is the Health Auto Export request body. The app sends
// either {"data": {"metrics": [...]}} or {"metrics": [...]}.
type WebhookPayload struct {
	Data    *WebhookData    `json:"data,omitempty"`
	Metrics []WebhookMetric `json:"metrics,omitempty"`
}

// WebhookData is the optional outer wrapper around the metrics list.
type WebhookData struct {
	Metrics []WebhookMetric `json:"metrics"`
}

// WebhookMetric is one named metric with its data points.
type WebhookMetric struct {
	Name  string         `json:"name"`
	Units string         `json:"units"`
	Data  []WebhookPoint `json:"data"`
}

// WebhookPoint is a single sample. Qty and Value stay untyped because the
// app has shipped both numbers and numeric strings for them.
type WebhookPoint struct {
	Qty   any    `json:"qty"`
	Value any    `json:"value"`
	Date  string `json:"date"`
}

// DecodeWebhook converts a Health Auto Export payload into metric
// candidates tagged automated_webhook. Metrics with unknown names are
// skipped entirely; data points missing a usable value or date are
// skipped individually. Returns ErrNoMetrics when the payload carries no
// metrics container at all.
func DecodeWebhook(payload WebhookPayload, owner string) ([]domain.MetricCandidate, error) {
	var metrics []WebhookMetric
	switch {
	case payload.Data != nil:
		metrics = payload.Data.Metrics
	case payload.Metrics != nil:
		metrics = payload.Metrics
	default:
		return nil, ErrNoMetrics
	}

	var out []domain.MetricCandidate
	for _, m := range metrics {
		out = append(out, decodeWebhookMetric(m, owner)...)
	}
	return out, nil
}

func decodeWebhookMetric(m WebhookMetric, owner string) []domain.MetricCandidate {
	mapping, ok := webhookTypes[webhookKey(m.Name)]
	if !ok {
		return nil
	}

	unit := m.Units
	if unit == "" {
		unit = mapping.Unit
	}

	var out []domain.MetricCandidate
	for _, p := range m.Data {
		value, ok := pointValue(p)
		if !ok {
			continue
		}

		measuredAt, ok := parseISODate(p.Date)
		if !ok {
			continue
		}

		v, u := domain.ConvertUnit(value, unit, mapping.Unit)
		out = append(out, domain.MetricCandidate{
			Owner:      owner,
			MetricType: mapping.Type,
			Value:      v,
			Unit:       u,
			MeasuredAt: measuredAt,
			Source:     domain.SourceWebhook,
		})
	}
	return out
}

// pointValue reads a sample's magnitude, preferring qty over value.
func pointValue(p WebhookPoint) (float64, bool) {
	if v, ok := toFloat(p.Qty); ok {
		return v, true
	}
	return toFloat(p.Value)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Health Auto Export dates are ISO-8601, usually "2024-01-15 10:00:00
// +0000" or RFC 3339 with a literal Z for UTC.
var isoDateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseISODate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	s = strings.Replace(s, "Z", "+00:00", 1)
	for _, layout := range isoDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
