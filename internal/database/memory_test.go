package database

import (
	"context"
	"testing"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMemoryUser(t *testing.T, db *MemoryDB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "hash",
		IsCitizen:      true,
	}
	require.NoError(t, db.SaveUser(context.Background(), user))
	return user
}

func TestSaveUserCreatesProfile(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()

	user := seedMemoryUser(t, db, "asha")

	profile, err := db.GetProfileByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "asha", profile.Username)
	assert.NotEqual(t, user.ID, profile.ID, "profile gets its own identity")

	// Email uniqueness is case-insensitive.
	dup := &models.User{ID: uuid.New(), Username: "asha2", Email: "ASHA@example.com", HashedPassword: "hash"}
	err = db.SaveUser(ctx, dup)
	assert.True(t, utils.IsErrorCode(err, utils.ErrDuplicate), "got %v", err)

	// Usernames are unique as well, even with a fresh email.
	dup = &models.User{ID: uuid.New(), Username: "asha", Email: "asha.k@example.com", HashedPassword: "hash"}
	err = db.SaveUser(ctx, dup)
	assert.True(t, utils.IsErrorCode(err, utils.ErrDuplicate), "got %v", err)

	// Re-saving the same user is not a conflict.
	assert.NoError(t, db.SaveUser(ctx, user))
}

func TestFollowEdges(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()

	asha := seedMemoryUser(t, db, "asha")
	bruno := seedMemoryUser(t, db, "bruno")

	ashaProfile, err := db.GetProfileByUserID(ctx, asha.ID)
	require.NoError(t, err)
	brunoProfile, err := db.GetProfileByUserID(ctx, bruno.ID)
	require.NoError(t, err)

	require.NoError(t, db.CreateFollow(ctx, ashaProfile.ID, brunoProfile.ID))

	err = db.CreateFollow(ctx, ashaProfile.ID, brunoProfile.ID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrDuplicate), "got %v", err)

	following, err := db.IsFollowing(ctx, ashaProfile.ID, brunoProfile.ID)
	require.NoError(t, err)
	assert.True(t, following)

	reverse, err := db.IsFollowing(ctx, brunoProfile.ID, ashaProfile.ID)
	require.NoError(t, err)
	assert.False(t, reverse, "edges are directed")

	require.NoError(t, db.DeleteFollow(ctx, ashaProfile.ID, brunoProfile.ID))
	following, err = db.IsFollowing(ctx, ashaProfile.ID, brunoProfile.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestDeleteCommentRemovesSubtree(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()

	author := seedMemoryUser(t, db, "author")
	post := &models.Post{ID: uuid.New(), Title: "t", Content: "c", AuthorID: author.ID}
	require.NoError(t, db.SavePost(ctx, post))

	top := &models.Comment{ID: uuid.New(), Content: "top", AuthorID: author.ID, PostID: post.ID}
	require.NoError(t, db.SaveComment(ctx, top))
	reply := &models.Comment{ID: uuid.New(), Content: "reply", AuthorID: author.ID, PostID: post.ID, ParentID: &top.ID, Depth: 1}
	require.NoError(t, db.SaveComment(ctx, reply))
	nested := &models.Comment{ID: uuid.New(), Content: "nested", AuthorID: author.ID, PostID: post.ID, ParentID: &reply.ID, Depth: 2}
	require.NoError(t, db.SaveComment(ctx, nested))

	fresh, err := db.GetPost(ctx, post.ID, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.CommentCount)

	require.NoError(t, db.DeleteCommentAndDecrementCount(ctx, top.ID))

	for _, id := range []uuid.UUID{top.ID, reply.ID, nested.ID} {
		_, err := db.GetComment(ctx, id)
		assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound), "comment %s should be gone", id)
	}
}

func TestRecentPostsLimit(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()

	author := seedMemoryUser(t, db, "author")
	for i := 0; i < 5; i++ {
		post := &models.Post{ID: uuid.New(), Title: "t", Content: "c", AuthorID: author.ID}
		require.NoError(t, db.SavePost(ctx, post))
		time.Sleep(time.Millisecond)
	}

	posts, err := db.GetRecentPosts(ctx, 3, uuid.Nil)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt), "posts must be newest first")
	}
}

func TestReportAnalytics(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()

	citizen := seedMemoryUser(t, db, "citizen")
	admin := seedMemoryUser(t, db, "admin")

	roads := &models.Department{ID: uuid.New(), UserID: admin.ID, Name: "Roads", IsActive: true}
	require.NoError(t, db.SaveDepartment(ctx, roads))
	parks := &models.Department{ID: uuid.New(), UserID: admin.ID, Name: "Parks", IsActive: true}
	require.NoError(t, db.SaveDepartment(ctx, parks))

	for i := 0; i < 3; i++ {
		report := &models.Report{
			ID:          uuid.New(),
			UserID:      citizen.ID,
			Title:       "r",
			Description: "d",
			Status:      models.ReportPending,
			Priority:    models.PriorityLow,
			Category:    models.CategoryService,
		}
		require.NoError(t, db.SaveReport(ctx, report))
		if i < 2 {
			require.NoError(t, db.AssignReport(ctx, report.ID, roads.ID))
		}
	}

	counts, err := db.CountReportsByStatus(ctx)
	require.NoError(t, err)
	byStatus := map[models.ReportStatus]int{}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	assert.Equal(t, 1, byStatus[models.ReportPending])
	assert.Equal(t, 2, byStatus[models.ReportUnderReview])

	activity, err := db.GetDepartmentActivity(ctx)
	require.NoError(t, err)
	require.Len(t, activity, 2)
	assert.Equal(t, "Roads", activity[0].Name, "busiest department first")
	assert.Equal(t, 2, activity[0].ReportCount)
	assert.Equal(t, "Parks", activity[1].Name)
	assert.Equal(t, 0, activity[1].ReportCount)
}

func TestConversationLastUpdatedAdvances(t *testing.T) {
	db := NewMemoryDB()
	ctx := context.Background()

	asha := seedMemoryUser(t, db, "asha")
	bruno := seedMemoryUser(t, db, "bruno")

	conv, err := db.CreateConversation(ctx, asha.ID, bruno.ID)
	require.NoError(t, err)

	before := conv.LastUpdated
	time.Sleep(2 * time.Millisecond)

	msg := &models.Message{ID: uuid.New(), ConversationID: conv.ID, SenderID: asha.ID, Content: "hi"}
	require.NoError(t, db.SaveMessage(ctx, msg))

	// Lookup works regardless of participant order.
	found, err := db.GetConversationByParticipants(ctx, bruno.ID, asha.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, found.ID)
	assert.True(t, found.LastUpdated.After(before))

	// A user paired with themselves never resolves to an existing
	// conversation, even when they participate in one.
	_, err = db.GetConversationByParticipants(ctx, asha.ID, asha.ID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound), "got %v", err)
}
