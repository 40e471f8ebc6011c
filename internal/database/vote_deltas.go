package database

import "github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"

// voteDeltas computes the changes to apply to the author's engagement score
// and the content's upvote/downvote tallies when a user moves from their
// previous vote state to a new direction. previous is the empty string when
// the user had no prior vote on the content.
//
// Re-voting in the same direction yields all-zero deltas, meaning the
// operation is a no-op on the tallies.
func voteDeltas(previous, direction models.VoteDirection) (scoreDelta, upvoteDelta, downvoteDelta int) {
	if previous == direction {
		return 0, 0, 0
	}

	switch previous {
	case models.VoteUp:
		upvoteDelta--
		scoreDelta--
	case models.VoteDown:
		downvoteDelta--
		scoreDelta++
	}

	switch direction {
	case models.VoteUp:
		upvoteDelta++
		scoreDelta++
	case models.VoteDown:
		downvoteDelta++
		scoreDelta--
	}

	return scoreDelta, upvoteDelta, downvoteDelta
}
