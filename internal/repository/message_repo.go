package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"roomchat-backend/internal/models"
)

// History responses are bounded; older messages are simply not returned.
const messageListLimit = 500

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

// Create appends one immutable message. There is no update path;
// messages only disappear through the room cascade delete.
func (r *MessageRepo) Create(ctx context.Context, msg *models.Message) error {
	msg.ID = uuid.New()

	query := `INSERT INTO messages (id, room_id, author_id, role, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		msg.ID, msg.RoomID, msg.AuthorID, msg.Role, msg.Text,
	).Scan(&msg.CreatedAt)
}

// ListByRoom returns the room's messages newest-first. Ownership of the
// room is the caller's responsibility (checked via RoomRepo.GetOwned
// before this query, matching the two-step lookup of the chat routes).
func (r *MessageRepo) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*models.Message, error) {
	query := `SELECT id, room_id, author_id, role, body, created_at
		FROM messages WHERE room_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, roomID, messageListLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(&msg.ID, &msg.RoomID, &msg.AuthorID, &msg.Role, &msg.Text, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
