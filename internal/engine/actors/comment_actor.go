package actors

import (
	stdctx "context"
	"fmt"
	"log"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/database"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for Comment operations
type (
	CreateCommentMsg struct {
		Content  string     `json:"content"`
		MediaURL *string    `json:"mediaUrl,omitempty"`
		AuthorID uuid.UUID  `json:"authorId"`
		PostID   uuid.UUID  `json:"postId"`
		ParentID *uuid.UUID `json:"parentId,omitempty"`
	}

	EditCommentMsg struct {
		CommentID uuid.UUID `json:"commentId"`
		AuthorID  uuid.UUID `json:"authorId"`
		Content   string    `json:"content"`
	}

	DeleteCommentMsg struct {
		CommentID uuid.UUID `json:"commentId"`
		AuthorID  uuid.UUID `json:"authorId"`
	}

	GetCommentMsg struct {
		CommentID uuid.UUID `json:"commentId"`
	}

	GetPostCommentsMsg struct {
		PostID           uuid.UUID `json:"postId"`
		RequestingUserID uuid.UUID `json:"requestingUserId,omitempty"`
	}

	GetRepliesMsg struct {
		CommentID        uuid.UUID `json:"commentId"`
		RequestingUserID uuid.UUID `json:"requestingUserId,omitempty"`
	}

	VoteCommentMsg struct {
		CommentID uuid.UUID            `json:"commentId"`
		UserID    uuid.UUID            `json:"userId"`
		Direction models.VoteDirection `json:"direction"`
	}
)

// CommentActor manages the comment forest under posts. Creating a comment
// also fans a notification out to the author being responded to.
type CommentActor struct {
	db              database.DBAdapter
	metrics         *utils.MetricsCollector
	notificationPID *actor.PID
}

func NewCommentActor(db database.DBAdapter, metrics *utils.MetricsCollector, notificationPID *actor.PID) actor.Actor {
	return &CommentActor{db: db, metrics: metrics, notificationPID: notificationPID}
}

func (a *CommentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("CommentActor started with PID: %v", context.Self())
	case *CreateCommentMsg:
		a.handleCreateComment(context, msg)
	case *EditCommentMsg:
		a.handleEditComment(context, msg)
	case *DeleteCommentMsg:
		a.handleDeleteComment(context, msg)
	case *GetCommentMsg:
		a.handleGetComment(context, msg)
	case *GetPostCommentsMsg:
		a.handleGetPostComments(context, msg)
	case *GetRepliesMsg:
		a.handleGetReplies(context, msg)
	case *VoteCommentMsg:
		a.handleVoteComment(context, msg)
	default:
		log.Printf("CommentActor: Unknown message type %T", msg)
	}
}

func (a *CommentActor) handleCreateComment(context actor.Context, msg *CreateCommentMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Content == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "comment content is required", nil))
		return
	}

	author, err := a.db.GetUser(ctx, msg.AuthorID)
	if err != nil {
		context.Respond(err)
		return
	}

	post, err := a.db.GetPost(ctx, msg.PostID, uuid.Nil)
	if err != nil {
		context.Respond(err)
		return
	}

	// Depth is stamped at creation: 0 for a top-level comment, parent
	// depth + 1 for a reply. The recipient of the fanout is whoever
	// authored the thing being responded to.
	depth := 0
	recipientID := post.AuthorID
	if msg.ParentID != nil {
		parent, err := a.db.GetComment(ctx, *msg.ParentID)
		if err != nil {
			context.Respond(err)
			return
		}
		if parent.PostID != msg.PostID {
			context.Respond(utils.NewAppError(utils.ErrInvalidOperation, "parent comment belongs to a different post", nil))
			return
		}
		depth = parent.Depth + 1
		recipientID = parent.AuthorID
	}

	newComment := &models.Comment{
		ID:       uuid.New(),
		Content:  msg.Content,
		MediaURL: msg.MediaURL,
		AuthorID: author.ID,
		PostID:   msg.PostID,
		ParentID: msg.ParentID,
		Depth:    depth,
	}

	if err := a.db.SaveComment(ctx, newComment); err != nil {
		context.Respond(err)
		return
	}
	newComment.AuthorUsername = author.Username

	// Users never get notified about their own activity.
	if recipientID != author.ID && a.notificationPID != nil {
		var message string
		if msg.ParentID != nil {
			message = fmt.Sprintf("%s replied to your comment", author.Username)
		} else {
			message = fmt.Sprintf("%s commented on your post \"%s\"", author.Username, post.Title)
		}
		context.Send(a.notificationPID, &NotifyMsg{
			RecipientID: recipientID,
			ActorID:     author.ID,
			Message:     message,
		})
	}

	a.metrics.AddOperationLatency("create_comment", time.Since(startTime))
	context.Respond(newComment)
}

func (a *CommentActor) handleEditComment(context actor.Context, msg *EditCommentMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Content == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "comment content is required", nil))
		return
	}

	comment, err := a.db.GetComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(err)
		return
	}
	if comment.AuthorID != msg.AuthorID {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "only the author can edit this comment", nil))
		return
	}

	comment.Content = msg.Content
	if err := a.db.SaveComment(ctx, comment); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("edit_comment", time.Since(startTime))
	context.Respond(comment)
}

func (a *CommentActor) handleDeleteComment(context actor.Context, msg *DeleteCommentMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	comment, err := a.db.GetComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(err)
		return
	}
	if comment.AuthorID != msg.AuthorID {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "only the author can delete this comment", nil))
		return
	}

	if err := a.db.DeleteCommentAndDecrementCount(ctx, msg.CommentID); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("delete_comment", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true, Message: "comment deleted"})
}

func (a *CommentActor) handleGetComment(context actor.Context, msg *GetCommentMsg) {
	ctx := stdctx.Background()
	comment, err := a.db.GetComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(comment)
}

func (a *CommentActor) handleGetPostComments(context actor.Context, msg *GetPostCommentsMsg) {
	ctx := stdctx.Background()

	if _, err := a.db.GetPost(ctx, msg.PostID, uuid.Nil); err != nil {
		context.Respond(err)
		return
	}

	comments, err := a.db.GetTopLevelComments(ctx, msg.PostID, msg.RequestingUserID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(comments)
}

func (a *CommentActor) handleGetReplies(context actor.Context, msg *GetRepliesMsg) {
	ctx := stdctx.Background()

	if _, err := a.db.GetComment(ctx, msg.CommentID); err != nil {
		context.Respond(err)
		return
	}

	replies, err := a.db.GetReplies(ctx, msg.CommentID, msg.RequestingUserID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(replies)
}

func (a *CommentActor) handleVoteComment(context actor.Context, msg *VoteCommentMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if err := a.db.RecordVote(ctx, msg.UserID, msg.CommentID, models.CommentVote, msg.Direction); err != nil {
		context.Respond(err)
		return
	}

	comment, err := a.db.GetComment(ctx, msg.CommentID)
	if err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("vote_comment", time.Since(startTime))
	context.Respond(comment)
}
