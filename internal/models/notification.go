package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is persisted as a side effect of another user's action
// (comment, reply, follow). Never self-addressed.
type Notification struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	ActorID   uuid.UUID `json:"actorId" db:"actor_id"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
