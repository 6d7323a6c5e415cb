package models

// ErrorResponse is the JSON envelope for every failed request.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WSEvent is the payload pushed to a user's open sockets via pub/sub.
type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// MessageCreated notifies other sessions of the same user that a chat
// turn completed in one of their rooms.
type MessageCreated struct {
	RoomID           string   `json:"room_id"`
	UserMessage      *Message `json:"user_message"`
	AssistantMessage *Message `json:"assistant_message"`
}
