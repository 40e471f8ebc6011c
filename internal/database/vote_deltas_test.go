package database

import (
	"testing"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestVoteDeltas(t *testing.T) {
	cases := []struct {
		name      string
		previous  models.VoteDirection
		direction models.VoteDirection
		score     int
		up        int
		down      int
	}{
		{"first upvote", "", models.VoteUp, 1, 1, 0},
		{"first downvote", "", models.VoteDown, -1, 0, 1},
		{"repeat upvote is a no-op", models.VoteUp, models.VoteUp, 0, 0, 0},
		{"repeat downvote is a no-op", models.VoteDown, models.VoteDown, 0, 0, 0},
		{"swap up to down", models.VoteUp, models.VoteDown, -2, -1, 1},
		{"swap down to up", models.VoteDown, models.VoteUp, 2, 1, -1},
		{"clear upvote", models.VoteUp, models.VoteNone, -1, -1, 0},
		{"clear downvote", models.VoteDown, models.VoteNone, 1, 0, -1},
		{"clear without prior vote", "", models.VoteNone, 0, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, up, down := voteDeltas(tc.previous, tc.direction)
			assert.Equal(t, tc.score, score, "score delta")
			assert.Equal(t, tc.up, up, "upvote delta")
			assert.Equal(t, tc.down, down, "downvote delta")
		})
	}
}
