package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/nexaboard/nexaboard-go/internal/model"
)

const messageColumns = `id, sender_id, sender_name, sender_role, content, type, project_id, project_name, created_at`

// MySQLMessageRepository handles message persistence on MySQL.
type MySQLMessageRepository struct {
	db *sql.DB
}

// NewMySQLMessageRepository creates a new MySQLMessageRepository.
func NewMySQLMessageRepository(db *sql.DB) *MySQLMessageRepository {
	return &MySQLMessageRepository{db: db}
}

func (r *MySQLMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	id := uuid.NewString()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (`+messageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, msg.SenderID, msg.SenderName, msg.SenderRole, msg.Content, msg.Type,
		msg.ProjectID, msg.ProjectName, msg.CreatedAt,
	)
	if err != nil {
		return err
	}

	msg.ID = id
	return nil
}

func (r *MySQLMessageRepository) List(ctx context.Context) ([]model.Message, error) {
	return r.list(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC`)
}

func (r *MySQLMessageRepository) ListByProject(ctx context.Context, projectID string) ([]model.Message, error) {
	return r.list(ctx, `SELECT `+messageColumns+` FROM messages WHERE project_id = ? ORDER BY created_at DESC`, projectID)
}

func (r *MySQLMessageRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n)
	return n, err
}

func (r *MySQLMessageRepository) list(ctx context.Context, query string, args ...any) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.SenderRole, &m.Content, &m.Type,
			&m.ProjectID, &m.ProjectName, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
