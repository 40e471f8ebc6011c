package actors

import (
	stdctx "context"
	"log"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/database"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for Post operations
type (
	CreatePostMsg struct {
		Title    string    `json:"title"`
		Content  string    `json:"content"`
		MediaURL *string   `json:"mediaUrl,omitempty"`
		AuthorID uuid.UUID `json:"authorId"`
	}

	EditPostMsg struct {
		PostID   uuid.UUID `json:"postId"`
		AuthorID uuid.UUID `json:"authorId"`
		Title    string    `json:"title"`
		Content  string    `json:"content"`
		MediaURL *string   `json:"mediaUrl,omitempty"`
	}

	GetPostMsg struct {
		PostID           uuid.UUID `json:"postId"`
		RequestingUserID uuid.UUID `json:"requestingUserId,omitempty"`
	}

	DeletePostMsg struct {
		PostID uuid.UUID `json:"postId"`
		UserID uuid.UUID `json:"userId"`
	}

	GetUserPostsMsg struct {
		AuthorID uuid.UUID `json:"authorId"`
	}

	VotePostMsg struct {
		PostID    uuid.UUID            `json:"postId"`
		UserID    uuid.UUID            `json:"userId"`
		Direction models.VoteDirection `json:"direction"`
	}

	SharePostMsg struct {
		PostID uuid.UUID `json:"postId"`
		UserID uuid.UUID `json:"userId"`
	}

	GetPostCountMsg struct{}
)

// PostActor owns the post lifecycle: creation, retrieval, deletion, voting
// and share tracking. All persistence goes through the DBAdapter.
type PostActor struct {
	db      database.DBAdapter
	metrics *utils.MetricsCollector
}

func NewPostActor(db database.DBAdapter, metrics *utils.MetricsCollector) actor.Actor {
	return &PostActor{db: db, metrics: metrics}
}

func (a *PostActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("PostActor started with PID: %v", context.Self())
	case *actor.Stopping:
		log.Printf("PostActor stopping")
	case *CreatePostMsg:
		a.handleCreatePost(context, msg)
	case *EditPostMsg:
		a.handleEditPost(context, msg)
	case *GetPostMsg:
		a.handleGetPost(context, msg)
	case *DeletePostMsg:
		a.handleDeletePost(context, msg)
	case *GetUserPostsMsg:
		a.handleGetUserPosts(context, msg)
	case *VotePostMsg:
		a.handleVotePost(context, msg)
	case *SharePostMsg:
		a.handleSharePost(context, msg)
	case *GetPostCountMsg:
		ctx := stdctx.Background()
		posts, err := a.db.GetAllPosts(ctx)
		if err != nil {
			context.Respond(err)
			return
		}
		context.Respond(len(posts))
	default:
		log.Printf("PostActor: Unknown message type %T", msg)
	}
}

func (a *PostActor) handleCreatePost(context actor.Context, msg *CreatePostMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Title == "" || msg.Content == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "title and content are required", nil))
		return
	}

	author, err := a.db.GetUser(ctx, msg.AuthorID)
	if err != nil {
		context.Respond(err)
		return
	}

	newPost := &models.Post{
		ID:       uuid.New(),
		Title:    msg.Title,
		Content:  msg.Content,
		MediaURL: msg.MediaURL,
		AuthorID: author.ID,
	}

	if err := a.db.SavePost(ctx, newPost); err != nil {
		context.Respond(err)
		return
	}
	newPost.AuthorUsername = author.Username

	a.metrics.AddOperationLatency("create_post", time.Since(startTime))
	context.Respond(newPost)
}

func (a *PostActor) handleEditPost(context actor.Context, msg *EditPostMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Title == "" || msg.Content == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "title and content are required", nil))
		return
	}

	post, err := a.db.GetPost(ctx, msg.PostID, uuid.Nil)
	if err != nil {
		context.Respond(err)
		return
	}
	if post.AuthorID != msg.AuthorID {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "only the author can edit this post", nil))
		return
	}

	post.Title = msg.Title
	post.Content = msg.Content
	post.MediaURL = msg.MediaURL
	if err := a.db.SavePost(ctx, post); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("edit_post", time.Since(startTime))
	context.Respond(post)
}

func (a *PostActor) handleGetPost(context actor.Context, msg *GetPostMsg) {
	ctx := stdctx.Background()
	post, err := a.db.GetPost(ctx, msg.PostID, msg.RequestingUserID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(post)
}

func (a *PostActor) handleDeletePost(context actor.Context, msg *DeletePostMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	post, err := a.db.GetPost(ctx, msg.PostID, uuid.Nil)
	if err != nil {
		context.Respond(err)
		return
	}

	// Only the author may delete their post
	if post.AuthorID != msg.UserID {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "only the author can delete this post", nil))
		return
	}

	if err := a.db.DeletePost(ctx, msg.PostID); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("delete_post", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true, Message: "post deleted"})
}

func (a *PostActor) handleGetUserPosts(context actor.Context, msg *GetUserPostsMsg) {
	ctx := stdctx.Background()
	posts, err := a.db.GetPostsByAuthor(ctx, msg.AuthorID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(posts)
}

func (a *PostActor) handleVotePost(context actor.Context, msg *VotePostMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	err := a.db.RecordVote(ctx, msg.UserID, msg.PostID, models.PostVote, msg.Direction)
	if err != nil {
		context.Respond(err)
		return
	}

	// Respond with the refreshed post so clients see new tallies immediately
	post, err := a.db.GetPost(ctx, msg.PostID, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("vote_post", time.Since(startTime))
	context.Respond(post)
}

func (a *PostActor) handleSharePost(context actor.Context, msg *SharePostMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if err := a.db.RecordShare(ctx, msg.PostID, msg.UserID); err != nil {
		context.Respond(err)
		return
	}

	post, err := a.db.GetPost(ctx, msg.PostID, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("share_post", time.Since(startTime))
	context.Respond(post)
}
