package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/daybook-app/daybook/internal/core/domain"
)

var _ domain.MetricRepository = (*PostgresMetricRepository)(nil)

type PostgresMetricRepository struct {
	db *sqlx.DB
}

func NewPostgresMetricRepository(db *sqlx.DB) *PostgresMetricRepository {
	return &PostgresMetricRepository{db: db}
}

func (r *PostgresMetricRepository) CreateMetric(ctx context.Context, metric *domain.Metric) error {
	query := `
		INSERT INTO metrics (id, user_id, name, unit, created_at, updated_at)
		VALUES (:id, :user_id, :name, :unit, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, metric)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return errors.New("referenced user does not exist")
		}
		return err
	}
	return nil
}

func (r *PostgresMetricRepository) GetMetricByID(ctx context.Context, id string) (*domain.Metric, error) {
	var metric domain.Metric
	query := `SELECT * FROM metrics WHERE id = $1`

	err := r.db.GetContext(ctx, &metric, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMetricNotFound
		}
		return nil, err
	}
	return &metric, nil
}

func (r *PostgresMetricRepository) ListMetricsByUserID(ctx context.Context, userID string) ([]*domain.Metric, error) {
	metrics := []*domain.Metric{}

	query := `SELECT * FROM metrics WHERE user_id = $1 ORDER BY name ASC`

	err := r.db.SelectContext(ctx, &metrics, query, userID)
	if err != nil {
		return nil, err
	}
	return metrics, nil
}

func (r *PostgresMetricRepository) DeleteMetric(ctx context.Context, id string, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM metrics WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMetricNotFound
	}
	return nil
}

func (r *PostgresMetricRepository) AddSample(ctx context.Context, sample *domain.MetricSample) error {
	query := `
		INSERT INTO metric_samples (id, metric_id, user_id, value, recorded_at, created_at)
		VALUES (:id, :metric_id, :user_id, :value, :recorded_at, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, sample)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return domain.ErrMetricNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresMetricRepository) ListSamplesInWindow(ctx context.Context, metricID string, w domain.Window) ([]*domain.MetricSample, error) {
	samples := []*domain.MetricSample{}

	query := `
		SELECT * FROM metric_samples
		WHERE metric_id = $1
		  AND recorded_at >= $2
		  AND recorded_at < $3
		ORDER BY recorded_at DESC`

	err := r.db.SelectContext(ctx, &samples, query, metricID, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	return samples, nil
}
