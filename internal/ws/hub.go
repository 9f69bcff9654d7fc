// Package ws carries live message delivery. A single hub goroutine owns the
// room membership maps; clients interact with it only through channels, so
// no lock is shared with the request path.
package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"helpdesk/api/internal/models"
)

type messageEvent struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type event struct {
	room    string
	payload []byte
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan event
	rooms      map[string]map[*Client]struct{}
	// done is closed when Run returns; clients select on it so lifecycle
	// sends cannot block once the hub has stopped receiving.
	done chan struct{}
	log  zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan event, 64),
		rooms:      make(map[string]map[*Client]struct{}),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the room state until ctx is cancelled. Meant to be started once
// from main.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
			}
			return

		case client := <-h.register:
			clients, ok := h.rooms[client.room]
			if !ok {
				clients = make(map[*Client]struct{})
				h.rooms[client.room] = clients
			}
			clients[client] = struct{}{}
			h.log.Debug().
				Str("room", client.room).
				Str("account_id", client.accountID).
				Int("subscribers", len(clients)).
				Msg("client joined room")

		case client := <-h.unregister:
			if clients, ok := h.rooms[client.room]; ok {
				if _, present := clients[client]; present {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}

		case ev := <-h.broadcast:
			for client := range h.rooms[ev.room] {
				select {
				case client.send <- ev.payload:
				default:
					// Slow or dead subscriber: drop it rather than
					// block delivery to the rest of the room.
					delete(h.rooms[ev.room], client)
					close(client.send)
				}
			}
		}
	}
}

// Broadcast fans a persisted message out to the category room. Best-effort:
// a room with no subscribers is a no-op, and delivery never blocks the
// caller beyond the hub's buffer.
func (h *Hub) Broadcast(categoryID string, message models.Message) {
	payload, err := json.Marshal(messageEvent{
		ID:        message.ID,
		Sender:    message.SenderID,
		Category:  message.CategoryID,
		Content:   message.Content,
		Timestamp: message.CreatedAt,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("marshal broadcast payload")
		return
	}

	select {
	case h.broadcast <- event{room: categoryID, payload: payload}:
	default:
		h.log.Warn().Str("room", categoryID).Msg("broadcast buffer full, dropping event")
	}
}
