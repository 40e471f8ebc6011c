package actors

import (
	stdctx "context"
	"testing"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) createComment(t *testing.T, author *models.User, postID uuid.UUID, parentID *uuid.UUID, content string) *models.Comment {
	t.Helper()
	result := e.ask(t, e.comment, &CreateCommentMsg{
		Content:  content,
		AuthorID: author.ID,
		PostID:   postID,
		ParentID: parentID,
	})
	comment, ok := result.(*models.Comment)
	require.Truef(t, ok, "expected *models.Comment, got %v", result)
	return comment
}

func TestCommentThreadDepth(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)
	bruno := env.seedUser(t, "bruno", false)
	post := env.createPost(t, asha, "Pothole on 5th")

	top := env.createComment(t, bruno, post.ID, nil, "same here")
	assert.Equal(t, 0, top.Depth)
	assert.True(t, top.IsParent())

	reply := env.createComment(t, asha, post.ID, &top.ID, "which block?")
	assert.Equal(t, 1, reply.Depth)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, top.ID, *reply.ParentID)

	replyToReply := env.createComment(t, bruno, post.ID, &reply.ID, "between oak and elm")
	assert.Equal(t, 2, replyToReply.Depth)

	// The comment count on the post tracks the whole forest.
	result := env.ask(t, env.post, &GetPostMsg{PostID: post.ID, RequestingUserID: asha.ID})
	fresh, ok := result.(*models.Post)
	require.True(t, ok)
	assert.Equal(t, 3, fresh.CommentCount)
}

func TestCommentParentMustMatchPost(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)
	postA := env.createPost(t, asha, "post A")
	postB := env.createPost(t, asha, "post B")

	parent := env.createComment(t, asha, postA.ID, nil, "on A")

	result := env.ask(t, env.comment, &CreateCommentMsg{
		Content:  "wrong thread",
		AuthorID: asha.ID,
		PostID:   postB.ID,
		ParentID: &parent.ID,
	})
	assertAppError(t, result, utils.ErrInvalidOperation)

	// Unknown parent.
	ghost := uuid.New()
	result = env.ask(t, env.comment, &CreateCommentMsg{
		Content:  "orphan",
		AuthorID: asha.ID,
		PostID:   postA.ID,
		ParentID: &ghost,
	})
	assertAppError(t, result, utils.ErrNotFound)
}

func TestCommentOrdering(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)
	bruno := env.seedUser(t, "bruno", false)
	post := env.createPost(t, asha, "ordering")

	first := env.createComment(t, bruno, post.ID, nil, "first")
	time.Sleep(5 * time.Millisecond)
	second := env.createComment(t, bruno, post.ID, nil, "second")

	time.Sleep(5 * time.Millisecond)
	replyOld := env.createComment(t, asha, post.ID, &first.ID, "older reply")
	time.Sleep(5 * time.Millisecond)
	replyNew := env.createComment(t, asha, post.ID, &first.ID, "newer reply")
	// A reply to the reply must not show up among first's direct replies.
	env.createComment(t, bruno, post.ID, &replyOld.ID, "nested")

	// Top-level comments come newest first and exclude replies.
	result := env.ask(t, env.comment, &GetPostCommentsMsg{PostID: post.ID, RequestingUserID: asha.ID})
	topLevel, ok := result.([]*models.Comment)
	require.Truef(t, ok, "got %v", result)
	require.Len(t, topLevel, 2)
	assert.Equal(t, second.ID, topLevel[0].ID)
	assert.Equal(t, first.ID, topLevel[1].ID)

	// Direct replies come oldest first.
	result = env.ask(t, env.comment, &GetRepliesMsg{CommentID: first.ID, RequestingUserID: asha.ID})
	replies, ok := result.([]*models.Comment)
	require.True(t, ok)
	require.Len(t, replies, 2)
	assert.Equal(t, replyOld.ID, replies[0].ID)
	assert.Equal(t, replyNew.ID, replies[1].ID)
}

func TestCommentNotificationFanout(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)
	bruno := env.seedUser(t, "bruno", false)
	post := env.createPost(t, asha, "fanout")

	// Bruno commenting on asha's post notifies asha.
	top := env.createComment(t, bruno, post.ID, nil, "hello")
	assert.Eventually(t, func() bool {
		n, err := env.db.CountUnreadNotifications(stdctx.Background(), asha.ID)
		return err == nil && n == 1
	}, 2*time.Second, 20*time.Millisecond)

	// Asha replying to her own post's comment notifies bruno.
	env.createComment(t, asha, post.ID, &top.ID, "thanks")
	assert.Eventually(t, func() bool {
		n, err := env.db.CountUnreadNotifications(stdctx.Background(), bruno.ID)
		return err == nil && n == 1
	}, 2*time.Second, 20*time.Millisecond)

	// Commenting on your own post stays silent.
	env.createComment(t, asha, post.ID, nil, "bump")
	time.Sleep(100 * time.Millisecond)
	n, err := env.db.CountUnreadNotifications(stdctx.Background(), asha.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEditAndDeleteComment(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)
	bruno := env.seedUser(t, "bruno", false)
	post := env.createPost(t, asha, "editable")

	comment := env.createComment(t, bruno, post.ID, nil, "tpyo")

	// Only the author can edit.
	result := env.ask(t, env.comment, &EditCommentMsg{CommentID: comment.ID, AuthorID: asha.ID, Content: "hijack"})
	assertAppError(t, result, utils.ErrForbidden)

	result = env.ask(t, env.comment, &EditCommentMsg{CommentID: comment.ID, AuthorID: bruno.ID, Content: "typo"})
	edited, ok := result.(*models.Comment)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, "typo", edited.Content)

	// Deleting removes the whole subtree and fixes the post count.
	env.createComment(t, asha, post.ID, &comment.ID, "reply")
	result = env.ask(t, env.comment, &DeleteCommentMsg{CommentID: comment.ID, AuthorID: bruno.ID})
	status, ok := result.(*models.StatusResponse)
	require.True(t, ok, "got %T", result)
	assert.True(t, status.Success)

	result = env.ask(t, env.comment, &GetCommentMsg{CommentID: comment.ID})
	assertAppError(t, result, utils.ErrNotFound)
}

func TestVoteComment(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)
	bruno := env.seedUser(t, "bruno", false)
	post := env.createPost(t, asha, "votable")
	comment := env.createComment(t, asha, post.ID, nil, "vote on me")

	result := env.ask(t, env.comment, &VoteCommentMsg{CommentID: comment.ID, UserID: bruno.ID, Direction: models.VoteUp})
	voted, ok := result.(*models.Comment)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, 1, voted.Upvotes)
	assert.Equal(t, 1, voted.VoteCount())
}
