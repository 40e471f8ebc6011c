package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Username          string    `json:"username" db:"username"`
	Email             string    `json:"email" db:"email"`
	HashedPassword    string    `json:"-" db:"password_hash"`
	IsCitizen         bool      `json:"isCitizen" db:"is_citizen"`
	IsGovernmentAdmin bool      `json:"isGovernmentAdmin" db:"is_government_admin"`
	EngagementScore   int       `json:"engagementScore" db:"engagement_score"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// Profile is the social identity attached to a user. Follow edges connect
// profiles, not users.
type Profile struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Username  string    `json:"username" db:"username"`
	Bio       string    `json:"bio" db:"bio"`
	AvatarURL *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	Followers int       `json:"followers" db:"followers"`
	Following int       `json:"following" db:"following"`
}
