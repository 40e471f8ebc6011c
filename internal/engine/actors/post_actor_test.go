package actors

import (
	stdctx "context"
	"testing"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) createPost(t *testing.T, author *models.User, title string) *models.Post {
	t.Helper()
	result := e.ask(t, e.post, &CreatePostMsg{Title: title, Content: "content of " + title, AuthorID: author.ID})
	post, ok := result.(*models.Post)
	require.Truef(t, ok, "expected *models.Post, got %v", result)
	return post
}

func TestCreateAndDeletePost(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)
	bruno := env.seedUser(t, "bruno", false)

	post := env.createPost(t, asha, "Pothole on 5th")
	assert.Equal(t, "asha", post.AuthorUsername)
	assert.Equal(t, 0, post.VoteCount())

	// Only the author can delete.
	result := env.ask(t, env.post, &DeletePostMsg{PostID: post.ID, UserID: bruno.ID})
	assertAppError(t, result, utils.ErrForbidden)

	result = env.ask(t, env.post, &DeletePostMsg{PostID: post.ID, UserID: asha.ID})
	status, ok := result.(*models.StatusResponse)
	require.True(t, ok, "got %T", result)
	assert.True(t, status.Success)

	result = env.ask(t, env.post, &GetPostMsg{PostID: post.ID, RequestingUserID: asha.ID})
	assertAppError(t, result, utils.ErrNotFound)
}

func TestEditPost(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)
	bruno := env.seedUser(t, "bruno", false)

	post := env.createPost(t, asha, "Pothole on 5th")

	result := env.ask(t, env.post, &EditPostMsg{PostID: post.ID, AuthorID: bruno.ID, Title: "hijacked", Content: "nope"})
	assertAppError(t, result, utils.ErrForbidden)

	result = env.ask(t, env.post, &EditPostMsg{PostID: post.ID, AuthorID: asha.ID, Title: "Pothole on 5th Ave", Content: "now with cross street"})
	edited, ok := result.(*models.Post)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, "Pothole on 5th Ave", edited.Title)
	assert.Equal(t, "now with cross street", edited.Content)

	result = env.ask(t, env.post, &EditPostMsg{PostID: post.ID, AuthorID: asha.ID, Title: "", Content: "missing title"})
	assertAppError(t, result, utils.ErrInvalidInput)
}

func TestVotePost(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author", false)
	voter := env.seedUser(t, "voter", false)

	post := env.createPost(t, author, "Streetlight out")

	result := env.ask(t, env.post, &VotePostMsg{PostID: post.ID, UserID: voter.ID, Direction: models.VoteUp})
	voted, ok := result.(*models.Post)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, 1, voted.Upvotes)
	assert.Equal(t, 0, voted.Downvotes)

	ctx := stdctx.Background()
	authorUser, err := env.db.GetUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, authorUser.EngagementScore)

	// Voting the same direction again is a no-op.
	result = env.ask(t, env.post, &VotePostMsg{PostID: post.ID, UserID: voter.ID, Direction: models.VoteUp})
	voted = result.(*models.Post)
	assert.Equal(t, 1, voted.Upvotes)

	// Switching direction swaps both tallies atomically.
	result = env.ask(t, env.post, &VotePostMsg{PostID: post.ID, UserID: voter.ID, Direction: models.VoteDown})
	voted = result.(*models.Post)
	assert.Equal(t, 0, voted.Upvotes)
	assert.Equal(t, 1, voted.Downvotes)
	assert.Equal(t, -1, voted.VoteCount())

	authorUser, err = env.db.GetUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, authorUser.EngagementScore)

	// Clearing the vote restores the tallies.
	result = env.ask(t, env.post, &VotePostMsg{PostID: post.ID, UserID: voter.ID, Direction: models.VoteNone})
	voted = result.(*models.Post)
	assert.Equal(t, 0, voted.Upvotes)
	assert.Equal(t, 0, voted.Downvotes)

	authorUser, err = env.db.GetUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, authorUser.EngagementScore)
}

func TestSharePostIdempotent(t *testing.T) {
	env := newTestEnv(t)
	author := env.seedUser(t, "author", false)
	sharer := env.seedUser(t, "sharer", false)

	post := env.createPost(t, author, "Community garden")

	result := env.ask(t, env.post, &SharePostMsg{PostID: post.ID, UserID: sharer.ID})
	shared, ok := result.(*models.Post)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, 1, shared.ShareCount)

	// Sharing twice doesn't double count.
	result = env.ask(t, env.post, &SharePostMsg{PostID: post.ID, UserID: sharer.ID})
	shared = result.(*models.Post)
	assert.Equal(t, 1, shared.ShareCount)
}

func TestGetUserPosts(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)
	bruno := env.seedUser(t, "bruno", false)

	env.createPost(t, asha, "first")
	env.createPost(t, asha, "second")
	env.createPost(t, bruno, "other")

	result := env.ask(t, env.post, &GetUserPostsMsg{AuthorID: asha.ID})
	posts, ok := result.([]*models.Post)
	require.True(t, ok, "got %T", result)
	assert.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, asha.ID, p.AuthorID)
	}
}
