package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"message_board/internal/domain/model"
)

type MessageRepository interface {
	Create(ctx context.Context, userID int64, text string) (int64, error)
	ListAll(ctx context.Context, limit int, since int64) ([]model.Message, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Message, error)
	ListTagged(ctx context.Context, username string) ([]model.Message, error)
	PurgeAll(ctx context.Context) error
}

type pgMessageRepository struct {
	db *sql.DB
}

func NewPgMessageRepository(db *sql.DB) MessageRepository {
	return &pgMessageRepository{db: db}
}

// Create inserts a message for the user and returns the generated ID.
// BIGSERIAL assignment keeps IDs strictly increasing under concurrent
// inserts.
func (r *pgMessageRepository) Create(ctx context.Context, userID int64, text string) (int64, error) {
	query := `INSERT INTO messages (user_id, message)
	          VALUES ($1, $2)
	          RETURNING id`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, userID, text).Scan(&id); err != nil {
		return 0, fmt.Errorf("pgMessageRepository.Create: %w", err)
	}
	return id, nil
}

// ListAll returns up to limit messages with id > since, in creation order.
// IDs start at 1, so since=0 means no lower bound.
func (r *pgMessageRepository) ListAll(ctx context.Context, limit int, since int64) ([]model.Message, error) {
	query := `SELECT m.id, u.username, m.message, m.created_at
	          FROM messages m
	          JOIN users u ON u.id = m.user_id
	          WHERE m.id > $1
	          ORDER BY m.id ASC
	          LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("pgMessageRepository.ListAll: %w", err)
	}
	return scanMessages(rows)
}

func (r *pgMessageRepository) ListByUser(ctx context.Context, userID int64) ([]model.Message, error) {
	query := `SELECT m.id, u.username, m.message, m.created_at
	          FROM messages m
	          JOIN users u ON u.id = m.user_id
	          WHERE m.user_id = $1
	          ORDER BY m.id ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgMessageRepository.ListByUser: %w", err)
	}
	return scanMessages(rows)
}

// likeEscaper quotes the characters that are special inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListTagged returns messages whose text contains "@<username>",
// case-insensitively. Matching is substring-based, so a tag query for
// "bob" also matches "@bobby".
func (r *pgMessageRepository) ListTagged(ctx context.Context, username string) ([]model.Message, error) {
	query := `SELECT m.id, u.username, m.message, m.created_at
	          FROM messages m
	          JOIN users u ON u.id = m.user_id
	          WHERE m.message ILIKE $1 ESCAPE '\'
	          ORDER BY m.id ASC`
	pattern := "%@" + likeEscaper.Replace(username) + "%"
	rows, err := r.db.QueryContext(ctx, query, pattern)
	if err != nil {
		return nil, fmt.Errorf("pgMessageRepository.ListTagged: %w", err)
	}
	return scanMessages(rows)
}

func (r *pgMessageRepository) PurgeAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("pgMessageRepository.PurgeAll: %w", err)
	}
	return nil
}

func scanMessages(rows *sql.Rows) ([]model.Message, error) {
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.Username, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanMessages: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanMessages: %w", err)
	}
	return messages, nil
}
