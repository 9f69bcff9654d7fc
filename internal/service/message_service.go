package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"helpdesk/api/internal/ids"
	"helpdesk/api/internal/models"
)

var ErrContentRequired = errors.New("message content is required")

type MessageService struct {
	messages    MessageStore
	chats       ChatStore
	categories  CategoryStore
	broadcaster Broadcaster
	log         zerolog.Logger
}

func NewMessageService(
	messages MessageStore,
	chats ChatStore,
	categories CategoryStore,
	broadcaster Broadcaster,
	log zerolog.Logger,
) *MessageService {
	return &MessageService{
		messages:    messages,
		chats:       chats,
		categories:  categories,
		broadcaster: broadcaster,
		log:         log,
	}
}

// Post persists the message and then fans it out to live subscribers of the
// category room. Persist comes first; delivery is best-effort and can never
// fail the post.
func (s *MessageService) Post(ctx context.Context, senderID string, categoryID string, content string) (models.Message, error) {
	if content == "" {
		return models.Message{}, ErrContentRequired
	}
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return models.Message{}, err
	}

	if err := s.Join(ctx, senderID, categoryID); err != nil {
		return models.Message{}, err
	}

	message, err := s.messages.Create(ctx, models.Message{
		ID:         ids.New(),
		SenderID:   senderID,
		CategoryID: categoryID,
		Content:    content,
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("persist message: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(categoryID, message)
	}
	return message, nil
}

// ListByCategory returns the room's history, newest-first.
func (s *MessageService) ListByCategory(ctx context.Context, categoryID string) ([]models.Message, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.messages.ListByCategory(ctx, categoryID)
}

// Join ensures the category's chat exists and records the account as a
// participant. Idempotent; called on both HTTP posts and websocket joins.
func (s *MessageService) Join(ctx context.Context, accountID string, categoryID string) error {
	chat, err := s.chats.EnsureForCategory(ctx, ids.New(), categoryID)
	if err != nil {
		return fmt.Errorf("ensure chat: %w", err)
	}

	member, err := s.chats.IsParticipant(ctx, chat.ID, accountID)
	if err != nil {
		return fmt.Errorf("participant lookup: %w", err)
	}
	if member {
		return nil
	}

	if err := s.chats.AddParticipant(ctx, chat.ID, accountID); err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	return nil
}
