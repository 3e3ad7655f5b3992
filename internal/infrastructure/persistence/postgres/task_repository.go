package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rezkam/taskmarket/internal/domain"
)

// === Task Repository Implementation ===

// CreateTask inserts the task and its initial history in one transaction.
func (s *Store) CreateTask(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	var created *domain.Task
	err := s.executeInTransaction(ctx, "create_task", func(tx *Store) error {
		pickup, err := locationToJSON(t.PickupLocation)
		if err != nil {
			return err
		}
		drop, err := locationToJSON(t.DropLocation)
		if err != nil {
			return err
		}
		customerScore, customerReview := reviewToDB(t.CustomerRating)
		helperScore, helperReview := reviewToDB(t.HelperRating)

		_, err = tx.db.Exec(ctx, `
			INSERT INTO tasks (id, customer_id, helper_id, category, title, description, scheduled_time,
				pickup_location, drop_location, estimated_price, final_price, status, payment_status,
				customer_rating, customer_review, helper_rating, helper_review, cancellation_reason,
				created_at, updated_at, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, 1)`,
			t.ID, t.CustomerID, t.HelperID, string(t.Category), t.Title, t.Description, t.ScheduledTime,
			pickup, drop, t.EstimatedPrice, t.FinalPrice, string(t.Status), string(t.PaymentStatus),
			customerScore, customerReview, helperScore, helperReview, t.CancellationReason,
			t.CreatedAt, t.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}

		for _, change := range t.StatusHistory {
			if err := tx.insertStatusChange(ctx, t.ID, change); err != nil {
				return err
			}
		}

		created, err = tx.FindTaskByID(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// FindTaskByID retrieves a task with its history.
func (s *Store) FindTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	t, err := scanTask(s.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if err := s.attachHistory(ctx, []*domain.Task{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTask writes the mutable task fields when the stored version matches and appends
// the new history entry. The version is bumped by one.
func (s *Store) UpdateTask(ctx context.Context, params domain.UpdateTaskParams) (*domain.Task, error) {
	var updated *domain.Task
	err := s.executeInTransaction(ctx, "update_task", func(tx *Store) error {
		t := params.Task
		customerScore, customerReview := reviewToDB(t.CustomerRating)
		helperScore, helperReview := reviewToDB(t.HelperRating)

		tag, err := tx.db.Exec(ctx, `
			UPDATE tasks SET
				helper_id = $2,
				status = $3,
				payment_status = $4,
				final_price = $5,
				customer_rating = $6,
				customer_review = $7,
				helper_rating = $8,
				helper_review = $9,
				cancellation_reason = $10,
				updated_at = $11,
				version = version + 1
			WHERE id = $1 AND version = $12`,
			t.ID, t.HelperID, string(t.Status), string(t.PaymentStatus), t.FinalPrice,
			customerScore, customerReview, helperScore, helperReview, t.CancellationReason,
			t.UpdatedAt, params.ExpectedVersion,
		)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		if tag.RowsAffected() == 0 {
			var exists bool
			if err := tx.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, t.ID).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check task existence: %w", err)
			}
			if !exists {
				return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, t.ID)
			}
			return fmt.Errorf("%w: expected version %d", domain.ErrVersionConflict, params.ExpectedVersion)
		}

		if params.AppendChange != nil {
			if err := tx.insertStatusChange(ctx, t.ID, *params.AppendChange); err != nil {
				return err
			}
		}

		updated, err = tx.FindTaskByID(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// FindTasks lists tasks newest first with a total count for pagination.
func (s *Store) FindTasks(ctx context.Context, params domain.ListTasksParams) (*domain.PagedTasks, error) {
	where, args := taskFilter(params)

	var total int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM tasks`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks` + where + ` ORDER BY created_at DESC, id DESC`
	if params.Limit > 0 {
		args = append(args, params.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if params.Offset > 0 {
		args = append(args, params.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	if err := s.attachHistory(ctx, tasks); err != nil {
		return nil, err
	}

	return &domain.PagedTasks{
		Tasks:      tasks,
		TotalCount: total,
		HasMore:    max(params.Offset, 0)+len(tasks) < total,
	}, nil
}

// taskFilter builds the WHERE clause for params. Empty filters are omitted.
func taskFilter(params domain.ListTasksParams) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if params.CustomerID != "" {
		add("customer_id = $%d", params.CustomerID)
	}
	if params.HelperID != "" {
		add("helper_id = $%d", params.HelperID)
	}
	if len(params.Statuses) > 0 {
		add("status = ANY($%d)", statusesToStrings(params.Statuses))
	}
	if len(params.Categories) > 0 {
		add("category = ANY($%d)", categoriesToStrings(params.Categories))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) insertStatusChange(ctx context.Context, taskID string, change domain.StatusChange) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO task_status_history (task_id, status, note, changed_at) VALUES ($1, $2, $3, $4)`,
		taskID, string(change.Status), change.Note, change.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert status history: %w", err)
	}
	return nil
}

// attachHistory loads history for all tasks with one query, oldest entry first.
func (s *Store) attachHistory(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Task, len(tasks))
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
		ids = append(ids, t.ID)
		t.StatusHistory = make([]domain.StatusChange, 0, 4)
	}

	rows, err := s.db.Query(ctx, `
		SELECT task_id::text, status, note, changed_at
		FROM task_status_history
		WHERE task_id = ANY($1::uuid[])
		ORDER BY task_id, id`, ids)
	if err != nil {
		return fmt.Errorf("failed to load status history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			taskID, status string
			change         domain.StatusChange
		)
		if err := rows.Scan(&taskID, &status, &change.Note, &change.Timestamp); err != nil {
			return fmt.Errorf("failed to scan status history: %w", err)
		}
		change.Status = domain.TaskStatus(status)
		change.Timestamp = change.Timestamp.UTC()
		if t, ok := byID[taskID]; ok {
			t.StatusHistory = append(t.StatusHistory, change)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate status history: %w", err)
	}
	return nil
}

// RecordHelperEvent inserts into the idempotency ledger. Returns false for a duplicate.
func (s *Store) RecordHelperEvent(ctx context.Context, event domain.HelperEvent) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		INSERT INTO helper_aggregate_events (task_id, kind, helper_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (task_id, kind) DO NOTHING`,
		event.TaskID, string(event.Kind), event.HelperID)
	if err != nil {
		return false, fmt.Errorf("failed to record helper event: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
