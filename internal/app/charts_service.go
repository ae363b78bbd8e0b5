package app

import (
	"context"
	"errors"
	"math"
	"time"

	"healthvault/internal/domain"
	"healthvault/internal/importer"
)

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	repo domain.MetricRepository
}

// NewChartsService creates a ChartsService backed by the given repository.
func NewChartsService(repo domain.MetricRepository) *ChartsService {
	return &ChartsService{repo: repo}
}

// DayPoint is a single data point returned by GetDaily.
type DayPoint struct {
	Day   string   `json:"day"`
	Value *float64 `json:"value"`
	Unit  string   `json:"unit,omitempty"`
	Count int      `json:"count"`
}

// GetDaily returns one point per calendar day (UTC) for the trailing days
// window: the sum of that day's values for per-day-summed types (steps),
// the mean otherwise. When unit is non-empty, values are converted to it
// where a conversion exists.
func (s *ChartsService) GetDaily(ctx context.Context, owner, metricType string, days int, unit string) ([]DayPoint, error) {
	if metricType == "" {
		return nil, errors.New("metricType is required")
	}
	if days <= 0 {
		return nil, errors.New("days must be > 0")
	}
	if days > 366 {
		days = 366
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	points := make([]DayPoint, 0, days)

	for i := days - 1; i >= 0; i-- {
		dayStart := today.AddDate(0, 0, -i)
		dayEnd := dayStart.Add(24 * time.Hour)

		items, err := s.repo.ListByTypeRange(ctx, owner, metricType, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}

		point := DayPoint{Day: dayStart.Format("2006-01-02"), Count: len(items)}
		if len(items) > 0 {
			var total float64
			for _, m := range items {
				v := m.Value
				if unit != "" && m.Unit != unit {
					v, _ = domain.ConvertUnit(v, m.Unit, unit)
				}
				total += v
			}
			if !importer.SumsDaily(metricType) {
				total /= float64(len(items))
			}
			total = math.Round(total*100) / 100
			point.Value = &total
			point.Unit = unit
			if unit == "" {
				point.Unit = items[0].Unit
			}
		}
		points = append(points, point)
	}
	return points, nil
}
