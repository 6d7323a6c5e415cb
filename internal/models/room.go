package models

import (
	"time"

	"github.com/google/uuid"
)

// Room is a named conversation thread owned by exactly one user. Titles
// are immutable after creation; only last_message_at changes, touched on
// every completed chat turn.
type Room struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"created_at"`
	LastMessageAt time.Time `json:"last_message_at"`
}

type CreateRoomRequest struct {
	Title string `json:"title"`
}
