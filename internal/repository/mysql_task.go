package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nexaboard/nexaboard-go/internal/model"
)

const taskColumns = `id, project_id, title, description, status, priority, assignee_id, assignee_name, due_date, created_at`

// MySQLTaskRepository handles task persistence on MySQL.
type MySQLTaskRepository struct {
	db *sql.DB
}

// NewMySQLTaskRepository creates a new MySQLTaskRepository.
func NewMySQLTaskRepository(db *sql.DB) *MySQLTaskRepository {
	return &MySQLTaskRepository{db: db}
}

func (r *MySQLTaskRepository) Create(ctx context.Context, task *model.Task) error {
	id := uuid.NewString()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, task.ProjectID, task.Title, task.Description, string(task.Status), string(task.Priority),
		nullString(task.AssigneeID), task.AssigneeName, nullTime(task.DueDate), task.CreatedAt,
	)
	if err != nil {
		return err
	}

	task.ID = id
	return nil
}

func (r *MySQLTaskRepository) GetByID(ctx context.Context, id string) (*model.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// Update overwrites every mutable column. MySQL reports zero affected rows
// for an unchanged row, so a miss is confirmed with an existence check.
func (r *MySQLTaskRepository) Update(ctx context.Context, task *model.Task) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET project_id = ?, title = ?, description = ?, status = ?, priority = ?, assignee_id = ?, assignee_name = ?, due_date = ? WHERE id = ?`,
		task.ProjectID, task.Title, task.Description, string(task.Status), string(task.Priority),
		nullString(task.AssigneeID), task.AssigneeName, nullTime(task.DueDate), task.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = ?)`, task.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrTaskNotFound
	}
	return nil
}

func (r *MySQLTaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *MySQLTaskRepository) ListByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY created_at`, projectID)
}

func (r *MySQLTaskRepository) ListByAssignee(ctx context.Context, userID string) ([]model.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE assignee_id = ? ORDER BY created_at`, userID)
}

func (r *MySQLTaskRepository) list(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row rowScanner) (*model.Task, error) {
	t := &model.Task{}
	var (
		status, priority string
		assignee         sql.NullString
		due              sql.NullTime
	)
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &status, &priority,
		&assignee, &t.AssigneeName, &due, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Status = model.TaskStatus(status)
	t.Priority = model.TaskPriority(priority)
	t.AssigneeID = assignee.String
	if due.Valid {
		d := due.Time.UTC()
		t.DueDate = &d
	}
	return t, nil
}
