package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Content         string    `json:"content" db:"content"`
	MediaURL        *string   `json:"mediaUrl,omitempty" db:"media_url"`
	AuthorID        uuid.UUID `json:"authorId" db:"author_id"`
	AuthorUsername  string    `json:"authorUsername" db:"author_username"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
	Upvotes         int       `json:"upvotes" db:"upvotes"`
	Downvotes       int       `json:"downvotes" db:"downvotes"`
	ShareCount      int       `json:"shareCount" db:"share_count"`
	CommentCount    int       `json:"commentCount" db:"comment_count"`
	CurrentUserVote *string   `json:"currentUserVote,omitempty" db:"current_user_vote"`
}

// VoteCount is |upvoters| - |downvoters|.
func (p *Post) VoteCount() int {
	return p.Upvotes - p.Downvotes
}
