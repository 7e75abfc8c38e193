package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/daybook-app/daybook/internal/core/domain"
)

var _ domain.TaskRepository = (*PostgresTaskRepository)(nil)

type PostgresTaskRepository struct {
	db *sqlx.DB
}

func NewPostgresTaskRepository(db *sqlx.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (
			id, user_id, title, notes, priority,
			due_date, completed_at, created_at, updated_at
		) VALUES (
			:id, :user_id, :title, :notes, :priority,
			:due_date, :completed_at, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, task)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return errors.New("referenced user does not exist")
		}
		return err
	}
	return nil
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	query := `SELECT * FROM tasks WHERE id = $1`

	err := r.db.GetContext(ctx, &task, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *PostgresTaskRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Task, error) {
	tasks := []*domain.Task{}

	query := `
		SELECT * FROM tasks
		WHERE user_id = $1
		ORDER BY due_date ASC NULLS LAST, priority DESC, created_at ASC`

	err := r.db.SelectContext(ctx, &tasks, query, userID)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = :title,
		    notes = :notes,
		    priority = :priority,
		    due_date = :due_date,
		    completed_at = :completed_at,
		    updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, task)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id string, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
