package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"roomchat-backend/internal/models"
)

// contextWindow caps how many turns are forwarded to the completion
// service on a single chat turn.
const contextWindow = 40

type roomStore interface {
	GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.Room, error)
	TouchLastMessage(ctx context.Context, id uuid.UUID) error
}

type messageStore interface {
	Create(ctx context.Context, msg *models.Message) error
}

// Completer is the completion-service contract: ordered turns in, one
// reply text out.
type Completer interface {
	Complete(ctx context.Context, turns []models.Turn) (string, error)
}

// ChatService turns one inbound user message into a persisted exchange.
type ChatService struct {
	rooms     roomStore
	messages  messageStore
	completer Completer
}

func NewChatService(rooms roomStore, messages messageStore, completer Completer) *ChatService {
	return &ChatService{
		rooms:     rooms,
		messages:  messages,
		completer: completer,
	}
}

// SendTurn persists the newest user turn, calls the completion service
// with the bounded context, persists the reply and touches the room's
// recency stamp. The user message is written before the upstream call
// and is kept even when that call fails; a crash mid-sequence can leave
// a user message without a reply, which is the accepted durability bar.
// No per-room serialization exists: concurrent calls on one room may
// interleave their writes.
func (s *ChatService) SendTurn(ctx context.Context, ownerID, roomID uuid.UUID, turns []models.Turn) (*models.SendTurnResponse, error) {
	window, latestUser := assembleContext(turns)
	if latestUser == nil {
		return nil, &ValidationError{Fields: map[string]string{
			"turns": "At least one user turn with non-empty text is required",
		}}
	}

	room, err := s.rooms.GetOwned(ctx, roomID, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Room not found or access denied"}
		}
		return nil, err
	}

	userMsg := &models.Message{
		RoomID:   room.ID,
		AuthorID: &ownerID,
		Role:     models.RoleUser,
		Text:     latestUser.Text,
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return nil, err
	}

	reply, err := s.completer.Complete(ctx, window)
	if err != nil {
		return nil, &UpstreamError{Message: "Completion service failed", Err: err}
	}

	assistantMsg := &models.Message{
		RoomID: room.ID,
		Role:   models.RoleAssistant,
		Text:   reply,
	}
	if err := s.messages.Create(ctx, assistantMsg); err != nil {
		return nil, err
	}

	if err := s.rooms.TouchLastMessage(ctx, room.ID); err != nil {
		return nil, err
	}

	return &models.SendTurnResponse{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}

// assembleContext trims and drops empty turns, keeps at most the last
// contextWindow entries (oldest of that window first) and picks the most
// recent user turn. All supplied turns feed the context, but only that
// latest user turn becomes a stored message.
func assembleContext(turns []models.Turn) ([]models.Turn, *models.Turn) {
	usable := make([]models.Turn, 0, len(turns))
	for _, t := range turns {
		text := strings.TrimSpace(t.Text)
		if text == "" {
			continue
		}
		usable = append(usable, models.Turn{Role: t.Role, Text: text})
	}

	var latestUser *models.Turn
	for i := len(usable) - 1; i >= 0; i-- {
		if usable[i].Role == models.RoleUser {
			latestUser = &usable[i]
			break
		}
	}
	if latestUser == nil {
		return nil, nil
	}

	if len(usable) > contextWindow {
		usable = usable[len(usable)-contextWindow:]
	}

	return usable, latestUser
}
