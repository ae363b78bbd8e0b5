// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"healthvault/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	metrics  []domain.Metric
	users    []*domain.User
	sessions map[string]*domain.Session

	metricIDCounter int64
	userIDCounter   int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var _ domain.MetricRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- MetricRepository ---

// FindByOwnerTypeTime returns the metric with the exact (owner, type,
// measured_at) triple, or nil when none exists.
func (db *DB) FindByOwnerTypeTime(ctx context.Context, owner, metricType string, measuredAt time.Time) (*domain.Metric, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.metrics {
		m := &db.metrics[i]
		if m.Owner == owner && m.MetricType == metricType && m.MeasuredAt.Equal(measuredAt.UTC()) {
			ret := *m
			return &ret, nil
		}
	}
	return nil, nil
}

// Insert stores a new metric.
func (db *DB) Insert(ctx context.Context, c domain.MetricCandidate) (*domain.Metric, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.metricIDCounter++
	now := time.Now().UTC()
	m := domain.Metric{
		ID:         db.metricIDCounter,
		Owner:      c.Owner,
		MetricType: c.MetricType,
		Value:      c.Value,
		Unit:       c.Unit,
		MeasuredAt: c.MeasuredAt.UTC(),
		Source:     c.Source,
		Notes:      c.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	db.metrics = append(db.metrics, m)
	ret := m
	return &ret, nil
}

// UpdateValues overwrites a metric's value, unit and source in place.
func (db *DB) UpdateValues(ctx context.Context, id int64, value float64, unit, source string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.metrics {
		if db.metrics[i].ID == id {
			db.metrics[i].Value = value
			db.metrics[i].Unit = unit
			db.metrics[i].Source = source
			db.metrics[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return errors.New("metric not found")
}

// ListRecent lists the owner's most recent metrics.
func (db *DB) ListRecent(ctx context.Context, owner string, limit int) ([]domain.Metric, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var result []domain.Metric
	for _, m := range db.metrics {
		if m.Owner == owner {
			result = append(result, m)
		}
	}

	// sort desc
	sort.Slice(result, func(i, j int) bool {
		return result[i].MeasuredAt.After(result[j].MeasuredAt)
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ListByTypeRange lists the owner's metrics of one type within [from, to),
// ordered ascending.
func (db *DB) ListByTypeRange(ctx context.Context, owner, metricType string, from, to time.Time) ([]domain.Metric, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var result []domain.Metric
	for _, m := range db.metrics {
		if m.Owner != owner || m.MetricType != metricType {
			continue
		}
		if !m.MeasuredAt.Before(from.UTC()) && m.MeasuredAt.Before(to.UTC()) {
			result = append(result, m)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].MeasuredAt.Before(result[j].MeasuredAt)
	})
	return result, nil
}

// Delete removes the owner's metric by ID.
func (db *DB) Delete(ctx context.Context, owner string, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, m := range db.metrics {
		if m.ID == id && m.Owner == owner {
			db.metrics = append(db.metrics[:i], db.metrics[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	// Return nil if not found
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		if time.Now().After(s.ExpiresAt) {
			delete(r.db.sessions, token)
			return nil, nil
		}
		return s, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
