package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"roomchat-backend/internal/middleware"
	"roomchat-backend/internal/models"
)

type stubRoomRepo struct {
	rooms   []*models.Room
	created *models.Room
	deleted bool
}

func (s *stubRoomRepo) Create(ctx context.Context, room *models.Room) error {
	room.ID = uuid.New()
	room.CreatedAt = time.Now()
	room.LastMessageAt = room.CreatedAt
	s.created = room
	return nil
}

func (s *stubRoomRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Room, error) {
	var owned []*models.Room
	for _, room := range s.rooms {
		if room.OwnerID == ownerID {
			owned = append(owned, room)
		}
	}
	return owned, nil
}

func (s *stubRoomRepo) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.Room, error) {
	for _, room := range s.rooms {
		if room.ID == id && room.OwnerID == ownerID {
			return room, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubRoomRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	for _, room := range s.rooms {
		if room.ID == id && room.OwnerID == ownerID {
			s.deleted = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func authedRequest(method, target string, body []byte, userID uuid.UUID, urlID string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	if urlID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", urlID)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
}

func TestRoomHandler_Create(t *testing.T) {
	ownerID := uuid.New()
	repo := &stubRoomRepo{}
	h := &RoomHandler{roomRepo: repo}

	body, _ := json.Marshal(models.CreateRoomRequest{Title: "Trip planning"})
	req := authedRequest(http.MethodPost, "/api/v1/rooms", body, ownerID, "")

	rr := httptest.NewRecorder()
	h.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}

	var room models.Room
	if err := json.NewDecoder(rr.Body).Decode(&room); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if room.Title != "Trip planning" || room.OwnerID != ownerID {
		t.Errorf("unexpected room: %+v", room)
	}
	if !room.LastMessageAt.Equal(room.CreatedAt) {
		t.Errorf("a fresh room must have last_message_at == created_at")
	}
}

func TestRoomHandler_Create_EmptyTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubRoomRepo{}
			h := &RoomHandler{roomRepo: repo}

			body, _ := json.Marshal(models.CreateRoomRequest{Title: tc.title})
			req := authedRequest(http.MethodPost, "/api/v1/rooms", body, uuid.New(), "")

			rr := httptest.NewRecorder()
			h.Create(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
			}
			if repo.created != nil {
				t.Error("no room should be created for an empty title")
			}
		})
	}
}

func TestRoomHandler_List_OnlyOwnRooms(t *testing.T) {
	ownerID := uuid.New()
	otherID := uuid.New()
	repo := &stubRoomRepo{rooms: []*models.Room{
		{ID: uuid.New(), OwnerID: ownerID, Title: "mine"},
		{ID: uuid.New(), OwnerID: otherID, Title: "theirs"},
	}}
	h := &RoomHandler{roomRepo: repo}

	req := authedRequest(http.MethodGet, "/api/v1/rooms", nil, ownerID, "")

	rr := httptest.NewRecorder()
	h.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var payload struct {
		Rooms []*models.Room `json:"rooms"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Rooms) != 1 || payload.Rooms[0].Title != "mine" {
		t.Errorf("expected only the caller's rooms, got %+v", payload.Rooms)
	}
}

func TestRoomHandler_Delete_NonOwner(t *testing.T) {
	ownerID := uuid.New()
	room := &models.Room{ID: uuid.New(), OwnerID: ownerID, Title: "mine"}
	repo := &stubRoomRepo{rooms: []*models.Room{room}}
	h := &RoomHandler{roomRepo: repo}

	req := authedRequest(http.MethodDelete, "/api/v1/rooms/"+room.ID.String(), nil, uuid.New(), room.ID.String())

	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d for non-owner, got %d", http.StatusNotFound, rr.Code)
	}
	if repo.deleted {
		t.Error("delete must not run for a non-owner")
	}
}

func TestRoomHandler_Delete_Owner(t *testing.T) {
	ownerID := uuid.New()
	room := &models.Room{ID: uuid.New(), OwnerID: ownerID, Title: "mine"}
	repo := &stubRoomRepo{rooms: []*models.Room{room}}
	h := &RoomHandler{roomRepo: repo}

	req := authedRequest(http.MethodDelete, "/api/v1/rooms/"+room.ID.String(), nil, ownerID, room.ID.String())

	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !repo.deleted {
		t.Error("expected delete to run for the owner")
	}
}

func TestRoomHandler_Delete_BadID(t *testing.T) {
	h := &RoomHandler{roomRepo: &stubRoomRepo{}}

	req := authedRequest(http.MethodDelete, "/api/v1/rooms/not-a-uuid", nil, uuid.New(), "not-a-uuid")

	rr := httptest.NewRecorder()
	h.Delete(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}
