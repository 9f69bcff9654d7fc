package service

import (
	"context"
	"time"

	"helpdesk/api/internal/models"
)

// Store interfaces mirror the repository types; services depend on them so
// unit tests can substitute in-memory fakes.

type AccountStore interface {
	Create(ctx context.Context, account models.Account) error
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	GetByID(ctx context.Context, id string) (models.Account, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.Account, error)
	UpdateProfile(ctx context.Context, account models.Account) error
}

type CategoryStore interface {
	Create(ctx context.Context, category models.Category) error
	Update(ctx context.Context, category models.Category) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (models.Category, error)
	ListAll(ctx context.Context) ([]models.Category, error)
	ListParents(ctx context.Context) ([]models.Category, error)
	ListLeaves(ctx context.Context) ([]models.Category, error)
}

type ChatStore interface {
	EnsureForCategory(ctx context.Context, chatID string, categoryID string) (models.Chat, error)
	AddParticipant(ctx context.Context, chatID string, accountID string) error
	IsParticipant(ctx context.Context, chatID string, accountID string) (bool, error)
}

type MessageStore interface {
	Create(ctx context.Context, message models.Message) (models.Message, error)
	ListByCategory(ctx context.Context, categoryID string) ([]models.Message, error)
}

type TokenBlacklist interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// Broadcaster delivers a persisted message to the live subscribers of a
// category room.
type Broadcaster interface {
	Broadcast(categoryID string, message models.Message)
}
