package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/messagely/messaging-system/internal/core/domain"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `id, from_username, to_username, body, sent_at, read_at`

func scanMessage(row rowScanner) (*domain.Message, error) {
	var (
		m      domain.Message
		readAt sql.NullTime
	)
	if err := row.Scan(&m.ID, &m.FromUsername, &m.ToUsername, &m.Body, &m.SentAt, &readAt); err != nil {
		return nil, err
	}
	m.SentAt = m.SentAt.UTC()
	if readAt.Valid {
		at := readAt.Time.UTC()
		m.ReadAt = &at
	}
	return &m, nil
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	query :=
		`INSERT INTO messages (from_username, to_username, body, sent_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	created := *msg
	created.ReadAt = nil
	err := r.db.QueryRowContext(ctx, query,
		msg.FromUsername, msg.ToUsername, msg.Body, msg.SentAt).Scan(&created.ID)
	if err != nil {
		if pgCode(err) == codeForeignKeyViolation {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &created, nil
}

func (r *MessageRepository) FindByID(ctx context.Context, id int64) (*domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`

	m, err := scanMessage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// MarkRead keeps the first read_at ever written.
func (r *MessageRepository) MarkRead(ctx context.Context, id int64, at time.Time) (*domain.MessageRead, error) {
	query :=
		`UPDATE messages SET read_at = COALESCE(read_at, $2)
		 WHERE id = $1
		 RETURNING id, read_at`

	var (
		read   domain.MessageRead
		readAt time.Time
	)
	if err := r.db.QueryRowContext(ctx, query, id, at).Scan(&read.ID, &readAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	readAt = readAt.UTC()
	read.ReadAt = &readAt
	return &read, nil
}

func (r *MessageRepository) ListTo(ctx context.Context, username string) ([]*domain.Message, error) {
	return r.list(ctx, `SELECT `+messageColumns+` FROM messages WHERE to_username = $1 ORDER BY id`, username)
}

func (r *MessageRepository) ListFrom(ctx context.Context, username string) ([]*domain.Message, error) {
	return r.list(ctx, `SELECT `+messageColumns+` FROM messages WHERE from_username = $1 ORDER BY id`, username)
}

func (r *MessageRepository) list(ctx context.Context, query, username string) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []*domain.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}
