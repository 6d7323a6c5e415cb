package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"roomchat-backend/internal/middleware"
	"roomchat-backend/internal/models"
)

type roomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Room, error)
	GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.Room, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}

type RoomHandler struct {
	roomRepo roomRepository
}

func NewRoomHandler(roomRepo roomRepository) *RoomHandler {
	return &RoomHandler{roomRepo: roomRepo}
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetUserID(r.Context())

	rooms, err := h.roomRepo.ListByOwner(r.Context(), ownerID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch rooms", r))
		return
	}

	if rooms == nil {
		rooms = []*models.Room{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rooms": rooms,
	})
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Title is required", r))
		return
	}

	room := &models.Room{
		OwnerID: middleware.GetUserID(r.Context()),
		Title:   title,
	}

	if err := h.roomRepo.Create(r.Context(), room); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create room", r))
		return
	}

	writeJSON(w, http.StatusCreated, room)
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid room ID", r))
		return
	}

	ownerID := middleware.GetUserID(r.Context())

	if err := h.roomRepo.Delete(r.Context(), roomID, ownerID); err != nil {
		// Missing and not-owned look the same on purpose.
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Room not found or access denied", r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete room", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Room deleted"})
}
