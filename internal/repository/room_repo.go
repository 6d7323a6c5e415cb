package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roomchat-backend/internal/models"
)

// A user's room list is capped; the UI never pages past this.
const roomListLimit = 200

type RoomRepo struct {
	pool *pgxpool.Pool
}

func NewRoomRepo(pool *pgxpool.Pool) *RoomRepo {
	return &RoomRepo{pool: pool}
}

// Create inserts a new room. created_at and last_message_at come from
// the same now() so a fresh room always has them equal.
func (r *RoomRepo) Create(ctx context.Context, room *models.Room) error {
	room.ID = uuid.New()

	query := `INSERT INTO rooms (id, owner_id, title, created_at, last_message_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING created_at, last_message_at`

	return r.pool.QueryRow(ctx, query, room.ID, room.OwnerID, room.Title).
		Scan(&room.CreatedAt, &room.LastMessageAt)
}

func (r *RoomRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Room, error) {
	query := `SELECT id, owner_id, title, created_at, last_message_at
		FROM rooms WHERE owner_id = $1
		ORDER BY last_message_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, ownerID, roomListLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.ID, &room.OwnerID, &room.Title, &room.CreatedAt, &room.LastMessageAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

// GetOwned returns the room only when it exists AND belongs to ownerID.
// Both failure modes surface as pgx.ErrNoRows so callers cannot tell a
// missing room from someone else's.
func (r *RoomRepo) GetOwned(ctx context.Context, id, ownerID uuid.UUID) (*models.Room, error) {
	room := &models.Room{}
	query := `SELECT id, owner_id, title, created_at, last_message_at
		FROM rooms WHERE id = $1 AND owner_id = $2`

	err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(
		&room.ID, &room.OwnerID, &room.Title, &room.CreatedAt, &room.LastMessageAt,
	)
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *RoomRepo) TouchLastMessage(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE rooms SET last_message_at = NOW() WHERE id = $1", id)
	return err
}

// Delete removes an owned room and all of its messages in a single
// transaction. Returns pgx.ErrNoRows when no owned room matches.
func (r *RoomRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Ownership gate first; nothing is touched for a missing or
	// foreign room.
	var exists bool
	err = tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM rooms WHERE id = $1 AND owner_id = $2)", id, ownerID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return pgx.ErrNoRows
	}

	// Children before parent, the FK points messages -> rooms.
	if _, err := tx.Exec(ctx, "DELETE FROM messages WHERE room_id = $1", id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM rooms WHERE id = $1", id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
