package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/daybook-app/daybook/internal/core/domain"
)

var _ domain.CompletionRepository = (*PostgresCompletionRepository)(nil)

type PostgresCompletionRepository struct {
	db *sqlx.DB
}

func NewPostgresCompletionRepository(db *sqlx.DB) *PostgresCompletionRepository {
	return &PostgresCompletionRepository{db: db}
}

func (r *PostgresCompletionRepository) Create(ctx context.Context, completion *domain.Completion) error {
	if completion.ID == "" {
		completion.ID = uuid.NewString()
	}

	query := `
		INSERT INTO completions (
			id, habit_id, user_id,
			occurred_at, value, notes,
			version, created_at, updated_at, deleted_at
		) VALUES (
			:id, :habit_id, :user_id,
			:occurred_at, :value, :notes,
			:version, :created_at, :updated_at, :deleted_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, completion)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" {
				return errors.New("referenced habit or user does not exist")
			}
			if pqErr.Code == "23505" {
				return domain.ErrCompletionConflict
			}
		}
		return err
	}
	return nil
}

func (r *PostgresCompletionRepository) GetByID(ctx context.Context, id string) (*domain.Completion, error) {
	var completion domain.Completion
	query := `SELECT * FROM completions WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &completion, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompletionNotFound
		}
		return nil, err
	}
	return &completion, nil
}

func (r *PostgresCompletionRepository) Update(ctx context.Context, completion *domain.Completion) error {
	completion.Version++
	completion.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE completions
		SET value = :value,
		    notes = :notes,
		    version = :version,
		    updated_at = :updated_at
		WHERE id = :id
		  AND version = :version - 1  -- Optimistic lock check
		  AND deleted_at IS NULL`

	result, err := r.db.NamedExecContext(ctx, query, completion)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		exists, _ := r.exists(ctx, completion.ID)
		if !exists {
			return domain.ErrCompletionNotFound
		}
		return domain.ErrCompletionConflict
	}

	return nil
}

func (r *PostgresCompletionRepository) Delete(ctx context.Context, id string, userID string) error {
	now := time.Now().UTC()

	query := `
		UPDATE completions
		SET deleted_at = $1,
		    updated_at = $1,
		    version = version + 1
		WHERE id = $2
		  AND user_id = $3 -- Security check
		  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrCompletionNotFound
	}

	return nil
}

func (r *PostgresCompletionRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.Completion, error) {
	completions := []*domain.Completion{}

	query := `
		SELECT * FROM completions
		WHERE habit_id = $1
		  AND deleted_at IS NULL
		ORDER BY occurred_at DESC`

	err := r.db.SelectContext(ctx, &completions, query, habitID)
	if err != nil {
		return nil, err
	}
	return completions, nil
}

// ListByHabitIDInWindow uses half-open bounds: >= start AND < end, so an
// event at exactly local midnight lands on the new day only.
func (r *PostgresCompletionRepository) ListByHabitIDInWindow(ctx context.Context, habitID string, w domain.Window) ([]*domain.Completion, error) {
	completions := []*domain.Completion{}

	query := `
		SELECT * FROM completions
		WHERE habit_id = $1
		  AND occurred_at >= $2
		  AND occurred_at < $3
		  AND deleted_at IS NULL
		ORDER BY occurred_at DESC`

	err := r.db.SelectContext(ctx, &completions, query, habitID, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *PostgresCompletionRepository) ListByUserIDInWindow(ctx context.Context, userID string, w domain.Window) ([]domain.Completion, error) {
	completions := []domain.Completion{}

	query := `
		SELECT * FROM completions
		WHERE user_id = $1
		  AND occurred_at >= $2
		  AND occurred_at < $3
		  AND deleted_at IS NULL
		ORDER BY occurred_at DESC`

	err := r.db.SelectContext(ctx, &completions, query, userID, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *PostgresCompletionRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM completions WHERE id = $1", id)
	return count > 0, err
}
