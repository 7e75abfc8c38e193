package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrMetricNotFound  = errors.New("metric not found")
	ErrMetricNameEmpty = errors.New("metric name cannot be empty")
)

// Metric is a named series of measured values (weight, sleep hours, spend).
type Metric struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Unit      string    `json:"unit" db:"unit"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MetricSample is one measurement. Values are decimals, not floats: a weight
// of 72.3 must round-trip through the database exactly.
type MetricSample struct {
	ID         string          `json:"id" db:"id"`
	MetricID   string          `json:"metric_id" db:"metric_id"`
	UserID     string          `json:"user_id" db:"user_id"`
	Value      decimal.Decimal `json:"value" db:"value"`
	RecordedAt time.Time       `json:"recorded_at" db:"recorded_at"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

func NewMetric(userID, name, unit string) (*Metric, error) {
	if userID == "" {
		return nil, ErrHabitInvalidUserID
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrMetricNameEmpty
	}

	now := time.Now().UTC()

	return &Metric{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		Unit:      unit,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func NewMetricSample(metricID, userID string, value decimal.Decimal, recordedAt time.Time) (*MetricSample, error) {
	if recordedAt.IsZero() {
		return nil, ErrNaiveInstant
	}

	return &MetricSample{
		ID:         uuid.NewString(),
		MetricID:   metricID,
		UserID:     userID,
		Value:      value,
		RecordedAt: recordedAt.UTC(),
		CreatedAt:  time.Now().UTC(),
	}, nil
}
