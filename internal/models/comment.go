package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a node in the comment forest under a post. Depth is stamped at
// creation time: 0 for top-level comments, parent.Depth+1 for replies.
type Comment struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Content         string     `json:"content" db:"content"`
	MediaURL        *string    `json:"mediaUrl,omitempty" db:"media_url"`
	AuthorID        uuid.UUID  `json:"authorId" db:"author_id"`
	AuthorUsername  string     `json:"authorUsername" db:"author_username"`
	PostID          uuid.UUID  `json:"postId" db:"post_id"`
	ParentID        *uuid.UUID `json:"parentId,omitempty" db:"parent_id"`
	Depth           int        `json:"depth" db:"depth"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
	Upvotes         int        `json:"upvotes" db:"upvotes"`
	Downvotes       int        `json:"downvotes" db:"downvotes"`
	CurrentUserVote *string    `json:"currentUserVote,omitempty" db:"current_user_vote"`
}

func (c *Comment) VoteCount() int {
	return c.Upvotes - c.Downvotes
}

// IsParent reports whether the comment is a top-level comment.
func (c *Comment) IsParent() bool {
	return c.ParentID == nil
}
