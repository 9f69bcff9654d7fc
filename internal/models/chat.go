package models

import "time"

// Chat scopes a set of participant accounts to a category acting as a room.
// One chat per category.
type Chat struct {
	ID         string
	CategoryID string
	CreatedAt  time.Time
}

type Message struct {
	ID         string
	SenderID   string
	CategoryID string
	Content    string
	CreatedAt  time.Time
}
