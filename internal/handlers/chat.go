package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"roomchat-backend/internal/middleware"
	"roomchat-backend/internal/models"
	"roomchat-backend/internal/services"
)

type messageRepository interface {
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*models.Message, error)
}

type turnSender interface {
	SendTurn(ctx context.Context, ownerID, roomID uuid.UUID, turns []models.Turn) (*models.SendTurnResponse, error)
}

type ChatHandler struct {
	roomRepo    roomRepository
	messageRepo messageRepository
	chatService turnSender
	events      *redis.Client
}

func NewChatHandler(roomRepo roomRepository, messageRepo messageRepository, chatService *services.ChatService, eventsClient *redis.Client) *ChatHandler {
	return &ChatHandler{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		chatService: chatService,
		events:      eventsClient,
	}
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid room ID", r))
		return
	}

	ownerID := middleware.GetUserID(r.Context())

	// Ownership gate before the history query; missing and not-owned
	// are indistinguishable to the caller.
	if _, err := h.roomRepo.GetOwned(r.Context(), roomID, ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Room not found or access denied", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch room", r))
		return
	}

	messages, err := h.messageRepo.ListByRoom(r.Context(), roomID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch messages", r))
		return
	}

	if messages == nil {
		messages = []*models.Message{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}

func (h *ChatHandler) SendTurn(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid room ID", r))
		return
	}

	var req models.SendTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	ownerID := middleware.GetUserID(r.Context())

	resp, err := h.chatService.SendTurn(r.Context(), ownerID, roomID, req.Turns)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	h.publishMessageCreated(r.Context(), ownerID, roomID, resp)

	writeJSON(w, http.StatusOK, resp)
}

// publishMessageCreated fans the completed turn out to the owner's other
// sessions. Best effort; a pub/sub failure never fails the request.
func (h *ChatHandler) publishMessageCreated(ctx context.Context, ownerID, roomID uuid.UUID, resp *models.SendTurnResponse) {
	if h.events == nil {
		return
	}

	data, err := json.Marshal(models.WSEvent{
		Type: "message_created",
		Payload: models.MessageCreated{
			RoomID:           roomID.String(),
			UserMessage:      resp.UserMessage,
			AssistantMessage: resp.AssistantMessage,
		},
	})
	if err != nil {
		return
	}

	h.events.Publish(ctx, fmt.Sprintf("room_events:%s", ownerID.String()), string(data))
}
