package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is identified by its unordered participant pair. LastUpdated
// advances whenever a message lands in it.
type Conversation struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	Participants []uuid.UUID `json:"participants"`
	LastUpdated  time.Time   `json:"lastUpdated" db:"last_updated"`
}

type Message struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ConversationID uuid.UUID `json:"conversationId" db:"conversation_id"`
	SenderID       uuid.UUID `json:"senderId" db:"sender_id"`
	SenderUsername string    `json:"senderUsername" db:"sender_username"`
	Content        string    `json:"content" db:"content"`
	MediaURL       *string   `json:"mediaUrl,omitempty" db:"media_url"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
