package app

import (
	"context"
	"errors"
	"math"
	"time"

	"healthvault/internal/domain"
)

// MetricService encapsulates manual metric CRUD use cases. Records created
// here carry source "manual", which shields them from being overwritten by
// later automated imports.
type MetricService struct {
	repo domain.MetricRepository
}

// NewMetricService creates a MetricService backed by the given repository.
func NewMetricService(repo domain.MetricRepository) *MetricService {
	return &MetricService{repo: repo}
}

// RecordManual validates and stores a hand-entered measurement.
func (s *MetricService) RecordManual(ctx context.Context, owner, metricType string, value float64, unit string, measuredAt time.Time, notes string) (*domain.Metric, error) {
	if metricType == "" {
		return nil, errors.New("metricType is required")
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, errors.New("value must be a finite number")
	}
	if measuredAt.IsZero() {
		measuredAt = time.Now()
	}

	return s.repo.Insert(ctx, domain.MetricCandidate{
		Owner:      owner,
		MetricType: metricType,
		Value:      value,
		Unit:       unit,
		MeasuredAt: measuredAt,
		Source:     domain.SourceManual,
		Notes:      notes,
	})
}

// ListRecent returns the most recent metrics for owner up to limit.
func (s *MetricService) ListRecent(ctx context.Context, owner string, limit int) ([]domain.Metric, error) {
	return s.repo.ListRecent(ctx, owner, limit)
}

// ListByType returns owner's metrics of one type within [from, to).
func (s *MetricService) ListByType(ctx context.Context, owner, metricType string, from, to time.Time) ([]domain.Metric, error) {
	if metricType == "" {
		return nil, errors.New("metricType is required")
	}
	return s.repo.ListByTypeRange(ctx, owner, metricType, from, to)
}

// Delete removes one of owner's metrics by ID, reporting whether a record
// was deleted.
func (s *MetricService) Delete(ctx context.Context, owner string, id int64) (bool, error) {
	return s.repo.Delete(ctx, owner, id)
}
