package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nexaboard/nexaboard-go/internal/model"
)

const projectSelect = `SELECT p.id, p.name, p.description, p.total_progress, p.status, p.manager_id, p.manager_name, p.deadline, p.created_at,
	GROUP_CONCAT(pm.user_id ORDER BY pm.user_id SEPARATOR ',')
FROM projects p
LEFT JOIN project_members pm ON pm.project_id = p.id`

// MySQLProjectRepository stores projects and their team membership on MySQL.
type MySQLProjectRepository struct {
	db *sql.DB
}

// NewMySQLProjectRepository creates a new MySQLProjectRepository.
func NewMySQLProjectRepository(db *sql.DB) *MySQLProjectRepository {
	return &MySQLProjectRepository{db: db}
}

func (r *MySQLProjectRepository) Create(ctx context.Context, project *model.Project) error {
	id := uuid.NewString()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO projects (id, name, description, total_progress, status, manager_id, manager_name, deadline, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, project.Name, project.Description, project.TotalProgress, project.Status,
			project.ManagerID, project.ManagerName, nullTime(&project.Deadline), project.CreatedAt,
		)
		if err != nil {
			return err
		}
		return insertMembers(ctx, tx, id, project.TeamIDs)
	})
	if err != nil {
		return err
	}

	project.ID = id
	return nil
}

func (r *MySQLProjectRepository) GetByID(ctx context.Context, id string) (*model.Project, error) {
	project, err := scanProject(r.db.QueryRowContext(ctx, projectSelect+` WHERE p.id = ? GROUP BY p.id`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

func (r *MySQLProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	return r.list(ctx, projectSelect+` GROUP BY p.id ORDER BY p.created_at`)
}

func (r *MySQLProjectRepository) ListByMember(ctx context.Context, userID string) ([]model.Project, error) {
	return r.list(ctx, projectSelect+`
WHERE p.manager_id = ? OR p.id IN (SELECT project_id FROM project_members WHERE user_id = ?)
GROUP BY p.id ORDER BY p.created_at`, userID, userID)
}

func (r *MySQLProjectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var id string
		err := tx.QueryRowContext(ctx, `SELECT id FROM projects WHERE id = ? FOR UPDATE`, project.ID).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProjectNotFound
			}
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE projects SET name = ?, description = ?, total_progress = ?, status = ?, manager_id = ?, manager_name = ?, deadline = ? WHERE id = ?`,
			project.Name, project.Description, project.TotalProgress, project.Status,
			project.ManagerID, project.ManagerName, nullTime(&project.Deadline), project.ID,
		)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM project_members WHERE project_id = ?`, project.ID); err != nil {
			return err
		}
		return insertMembers(ctx, tx, project.ID, project.TeamIDs)
	})
}

// Delete removes the project; membership rows cascade.
func (r *MySQLProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *MySQLProjectRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n)
	return n, err
}

func (r *MySQLProjectRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (r *MySQLProjectRepository) list(ctx context.Context, query string, args ...any) ([]model.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

func insertMembers(ctx context.Context, tx *sql.Tx, projectID string, userIDs []string) error {
	for _, userID := range userIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT IGNORE INTO project_members (project_id, user_id) VALUES (?, ?)`, projectID, userID,
		); err != nil {
			return err
		}
	}
	return nil
}

func scanProject(row rowScanner) (*model.Project, error) {
	p := &model.Project{}
	var (
		deadline sql.NullTime
		members  sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.TotalProgress, &p.Status,
		&p.ManagerID, &p.ManagerName, &deadline, &p.CreatedAt, &members)
	if err != nil {
		return nil, err
	}
	if deadline.Valid {
		p.Deadline = deadline.Time.UTC()
	}
	p.TeamIDs = []string{}
	if members.Valid && members.String != "" {
		p.TeamIDs = strings.Split(members.String, ",")
	}
	return p, nil
}
