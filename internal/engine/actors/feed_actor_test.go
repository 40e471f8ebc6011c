package actors

import (
	"testing"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) getFeed(t *testing.T, user *models.User) *models.Feed {
	t.Helper()
	result := e.ask(t, e.feed, &GetFeedMsg{UserID: user.ID})
	feed, ok := result.(*models.Feed)
	require.Truef(t, ok, "expected *models.Feed, got %v", result)
	return feed
}

func TestFeedColdStart(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.seedUser(t, "viewer", false)
	author := env.seedUser(t, "author", false)

	env.createPost(t, author, "visible site-wide")

	feed := env.getFeed(t, viewer)
	assert.True(t, feed.ColdStart)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "visible site-wide", feed.Posts[0].Title)
}

func TestFeedFollowedAuthorsOnly(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.seedUser(t, "viewer", false)
	followed := env.seedUser(t, "followed", false)
	stranger := env.seedUser(t, "stranger", false)

	env.createPost(t, followed, "older from followed")
	time.Sleep(5 * time.Millisecond)
	env.createPost(t, stranger, "from stranger")
	time.Sleep(5 * time.Millisecond)
	env.createPost(t, followed, "newer from followed")

	env.ask(t, env.user, &FollowUserMsg{FollowerUserID: viewer.ID, TargetUserID: followed.ID})

	feed := env.getFeed(t, viewer)
	assert.False(t, feed.ColdStart)
	require.Len(t, feed.Posts, 2)
	assert.Equal(t, "newer from followed", feed.Posts[0].Title)
	assert.Equal(t, "older from followed", feed.Posts[1].Title)
}

func TestFeedSuggestedUsers(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.seedUser(t, "viewer", false)
	followed := env.seedUser(t, "followed", false)
	for i := 0; i < 7; i++ {
		env.seedUser(t, "candidate"+string(rune('a'+i)), false)
	}

	env.ask(t, env.user, &FollowUserMsg{FollowerUserID: viewer.ID, TargetUserID: followed.ID})

	feed := env.getFeed(t, viewer)
	assert.LessOrEqual(t, len(feed.SuggestedUsers), 5)
	for _, suggested := range feed.SuggestedUsers {
		assert.NotEqual(t, viewer.ID, suggested.ID, "never suggest the viewer")
		assert.NotEqual(t, followed.ID, suggested.ID, "never suggest someone already followed")
	}
}
