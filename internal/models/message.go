package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one persisted utterance in a room. Only "user" and
// "assistant" roles are ever stored; "system" turns may appear in a
// request as completion context but are never written. AuthorID is nil
// for assistant messages.
type Message struct {
	ID        uuid.UUID  `json:"id"`
	RoomID    uuid.UUID  `json:"room_id"`
	AuthorID  *uuid.UUID `json:"author_id,omitempty"`
	Role      string     `json:"role"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
}

// Turn is one role-tagged entry of a send-turn request. Turns are not
// persisted as-is; the most recent user turn becomes the new stored
// message and the rest only feed the completion context.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type SendTurnRequest struct {
	Turns []Turn `json:"turns"`
}

type SendTurnResponse struct {
	UserMessage      *Message `json:"user_message"`
	AssistantMessage *Message `json:"assistant_message"`
}
