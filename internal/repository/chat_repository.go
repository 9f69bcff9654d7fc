package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"helpdesk/api/internal/models"
)

var ErrChatNotFound = errors.New("chat not found")

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// EnsureForCategory returns the chat bound to the category, creating it on
// first use. The unique constraint on category_id makes concurrent creation
// converge on a single row.
func (r *ChatRepository) EnsureForCategory(ctx context.Context, chatID string, categoryID string) (models.Chat, error) {
	const query = `
		INSERT INTO chats (id, category_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (category_id) DO UPDATE SET category_id = EXCLUDED.category_id
		RETURNING id, category_id, created_at
	`

	var chat models.Chat
	err := r.pool.QueryRow(ctx, query, chatID, categoryID).Scan(&chat.ID, &chat.CategoryID, &chat.CreatedAt)
	if err != nil {
		return models.Chat{}, err
	}
	return chat, nil
}

func (r *ChatRepository) GetByCategory(ctx context.Context, categoryID string) (models.Chat, error) {
	const query = `SELECT id, category_id, created_at FROM chats WHERE category_id = $1`

	var chat models.Chat
	err := r.pool.QueryRow(ctx, query, categoryID).Scan(&chat.ID, &chat.CategoryID, &chat.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Chat{}, ErrChatNotFound
		}
		return models.Chat{}, err
	}
	return chat, nil
}

// AddParticipant is idempotent: re-joining a room is not an error.
func (r *ChatRepository) AddParticipant(ctx context.Context, chatID string, accountID string) error {
	const query = `
		INSERT INTO chat_participants (chat_id, account_id, joined_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (chat_id, account_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, chatID, accountID)
	return err
}

func (r *ChatRepository) IsParticipant(ctx context.Context, chatID string, accountID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM chat_participants WHERE chat_id = $1 AND account_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, chatID, accountID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
