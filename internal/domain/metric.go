package domain

import (
	"context"
	"time"
)

// Provenance values recorded on each metric. Reconciliation uses these to
// decide overwrite eligibility: manual entries are authoritative and are
// never replaced by automated data.
const (
	SourceManual  = "manual"
	SourceImport  = "automated_import"
	SourceWebhook = "automated_webhook"
)

// Metric is a single persisted health measurement. Uniqueness for
// deduplication is the triple (Owner, MetricType, MeasuredAt), not ID.
type Metric struct {
	ID         int64     `json:"id"`
	Owner      string    `json:"owner"`
	MetricType string    `json:"metricType"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	MeasuredAt time.Time `json:"measuredAt"`
	Source     string    `json:"source"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// MetricCandidate is a decoded measurement that has not been persisted yet.
// Candidates are produced by the importer and consumed by reconciliation
// within a single import call.
type MetricCandidate struct {
	Owner      string    `json:"owner"`
	MetricType string    `json:"metricType"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	MeasuredAt time.Time `json:"measuredAt"`
	Source     string    `json:"source"`
	Notes      string    `json:"notes,omitempty"`
}

// ImportResult summarizes one reconciliation batch.
type ImportResult struct {
	Total    int `json:"total"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

// MetricRepository is the port for metric persistence.
type MetricRepository interface {
	FindByOwnerTypeTime(ctx context.Context, owner, metricType string, measuredAt time.Time) (*Metric, error)
	Insert(ctx context.Context, c MetricCandidate) (*Metric, error)
	UpdateValues(ctx context.Context, id int64, value float64, unit, source string) error
	ListRecent(ctx context.Context, owner string, limit int) ([]Metric, error)
	ListByTypeRange(ctx context.Context, owner, metricType string, from, to time.Time) ([]Metric, error)
	Delete(ctx context.Context, owner string, id int64) (bool, error)
}
