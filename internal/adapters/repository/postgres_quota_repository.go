package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/daybook-app/daybook/internal/core/domain"
)

var _ domain.QuotaRepository = (*PostgresQuotaRepository)(nil)

type PostgresQuotaRepository struct {
	db *sqlx.DB
}

func NewPostgresQuotaRepository(db *sqlx.DB) *PostgresQuotaRepository {
	return &PostgresQuotaRepository{db: db}
}

// Reserve is a single conditional upsert: the limit check and the increment
// are evaluated atomically by Postgres, so two callers racing at count =
// limit-1 cannot both be granted. No row comes back when the counter is
// already full, which maps to "no slot" rather than an error.
func (r *PostgresQuotaRepository) Reserve(ctx context.Context, resource string, day time.Time, limit int) (int, bool, error) {
	query := `
		INSERT INTO quota_counters (resource_name, day, count, created_at, updated_at)
		VALUES ($1, $2, 1, now(), now())
		ON CONFLICT (resource_name, day) DO UPDATE
		SET count = quota_counters.count + 1,
		    updated_at = now()
		WHERE quota_counters.count < $3
		RETURNING count`

	var count int
	err := r.db.GetContext(ctx, &count, query, resource, day, limit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return count, true, nil
}

// Release floors at zero inside the statement itself, so double-release from
// a retried failure handler can never drive the counter negative. A missing
// row is a no-op; rows are never deleted, they only grow and shrink.
func (r *PostgresQuotaRepository) Release(ctx context.Context, resource string, day time.Time) error {
	query := `
		UPDATE quota_counters
		SET count = GREATEST(count - 1, 0),
		    updated_at = now()
		WHERE resource_name = $1 AND day = $2`

	_, err := r.db.ExecContext(ctx, query, resource, day)
	return err
}

func (r *PostgresQuotaRepository) Get(ctx context.Context, resource string, day time.Time) (*domain.QuotaCounter, error) {
	var counter domain.QuotaCounter
	query := `SELECT * FROM quota_counters WHERE resource_name = $1 AND day = $2`

	err := r.db.GetContext(ctx, &counter, query, resource, day)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrQuotaCounterNotFound
		}
		return nil, err
	}
	return &counter, nil
}
