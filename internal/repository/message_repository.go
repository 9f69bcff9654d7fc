package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"helpdesk/api/internal/models"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Create persists the message and returns it with the server-assigned
// timestamp.
func (r *MessageRepository) Create(ctx context.Context, message models.Message) (models.Message, error) {
	const query = `
		INSERT INTO messages (id, sender_id, category_id, content, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		message.ID,
		message.SenderID,
		message.CategoryID,
		message.Content,
	).Scan(&message.CreatedAt)
	if err != nil {
		return models.Message{}, err
	}
	return message, nil
}

// ListByCategory returns messages newest-first.
func (r *MessageRepository) ListByCategory(ctx context.Context, categoryID string) ([]models.Message, error) {
	const query = `
		SELECT id, sender_id, category_id, content, created_at
		FROM messages
		WHERE category_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var message models.Message
		if err := rows.Scan(
			&message.ID,
			&message.SenderID,
			&message.CategoryID,
			&message.Content,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}
