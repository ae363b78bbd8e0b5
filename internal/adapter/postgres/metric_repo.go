package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"healthvault/internal/domain"
)

const metricColumns = "id, owner, metric_type, value, unit, measured_at, source, notes, created_at, updated_at"

// FindByOwnerTypeTime returns the metric with the exact (owner, type,
// measured_at) triple, or nil when none exists.
func (d *DB) FindByOwnerTypeTime(ctx context.Context, owner, metricType string, measuredAt time.Time) (*domain.Metric, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+metricColumns+" FROM health_metrics WHERE owner = $1 AND metric_type = $2 AND measured_at = $3;",
		owner, metricType, measuredAt.UTC(),
	)
	m, err := scanMetric(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Insert stores a new metric and returns the persisted row.
func (d *DB) Insert(ctx context.Context, c domain.MetricCandidate) (*domain.Metric, error) {
	now := time.Now().UTC()
	row := d.sql.QueryRowContext(ctx,
		"INSERT INTO health_metrics(owner, metric_type, value, unit, measured_at, source, notes, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING "+metricColumns+";",
		c.Owner, c.MetricType, c.Value, c.Unit, c.MeasuredAt.UTC(), c.Source, c.Notes, now,
	)
	return scanMetric(row)
}

// UpdateValues overwrites a metric's value, unit and source in place.
func (d *DB) UpdateValues(ctx context.Context, id int64, value float64, unit, source string) error {
	_, err := d.sql.ExecContext(ctx,
		"UPDATE health_metrics SET value = $2, unit = $3, source = $4, updated_at = $5 WHERE id = $1;",
		id, value, unit, source, time.Now().UTC(),
	)
	return err
}

// ListRecent returns owner's most recent metrics up to limit.
func (d *DB) ListRecent(ctx context.Context, owner string, limit int) ([]domain.Metric, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+metricColumns+" FROM health_metrics WHERE owner = $1 ORDER BY measured_at DESC LIMIT $2;",
		owner, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMetrics(rows, limit)
}

// ListByTypeRange returns owner's metrics of one type with measured_at in
// [from, to), ordered ascending.
func (d *DB) ListByTypeRange(ctx context.Context, owner, metricType string, from, to time.Time) ([]domain.Metric, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+metricColumns+" FROM health_metrics WHERE owner = $1 AND metric_type = $2 AND measured_at >= $3 AND measured_at < $4 ORDER BY measured_at ASC;",
		owner, metricType, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMetrics(rows, 0)
}

// Delete removes owner's metric by ID, reporting whether a row was deleted.
func (d *DB) Delete(ctx context.Context, owner string, id int64) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM health_metrics WHERE owner = $1 AND id = $2;", owner, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMetric(row rowScanner) (*domain.Metric, error) {
	var m domain.Metric
	err := row.Scan(&m.ID, &m.Owner, &m.MetricType, &m.Value, &m.Unit, &m.MeasuredAt, &m.Source, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMetrics(rows *sql.Rows, capacity int) ([]domain.Metric, error) {
	out := make([]domain.Metric, 0, capacity)
	for rows.Next() {
		m, err := scanMetric(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}
