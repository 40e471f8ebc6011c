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

const (
	// How many global posts a brand-new user sees before they follow anyone.
	coldStartPostLimit = 20

	// How many follow suggestions ride along with every feed.
	suggestedUserLimit = 5
)

// Message types for Feed operations
type (
	GetFeedMsg struct {
		UserID uuid.UUID `json:"userId"`
	}
)

// FeedActor composes the home feed: posts from followed authors, newest
// first, or a global cold-start slice when the user follows nobody yet.
type FeedActor struct {
	db      database.DBAdapter
	metrics *utils.MetricsCollector
}

func NewFeedActor(db database.DBAdapter, metrics *utils.MetricsCollector) actor.Actor {
	return &FeedActor{db: db, metrics: metrics}
}

func (a *FeedActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("FeedActor started with PID: %v", context.Self())
	case *GetFeedMsg:
		a.handleGetFeed(context, msg)
	default:
		log.Printf("FeedActor: Unknown message type %T", msg)
	}
}

func (a *FeedActor) handleGetFeed(context actor.Context, msg *GetFeedMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	profile, err := a.db.GetProfileByUserID(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	following, err := a.db.GetFollowing(ctx, profile.ID)
	if err != nil {
		context.Respond(err)
		return
	}

	feed := &models.Feed{Posts: []*models.Post{}}

	if len(following) > 0 {
		authorIDs := make([]uuid.UUID, 0, len(following))
		for _, followed := range following {
			authorIDs = append(authorIDs, followed.UserID)
		}
		posts, err := a.db.GetPostsByAuthors(ctx, authorIDs, msg.UserID)
		if err != nil {
			context.Respond(err)
			return
		}
		feed.Posts = posts
	} else {
		// Cold start: nothing followed yet, show recent activity site-wide.
		posts, err := a.db.GetRecentPosts(ctx, coldStartPostLimit, msg.UserID)
		if err != nil {
			context.Respond(err)
			return
		}
		feed.Posts = posts
		feed.ColdStart = true
	}

	suggested, err := a.db.GetSuggestedUsers(ctx, msg.UserID, suggestedUserLimit)
	if err != nil {
		log.Printf("FeedActor: failed to get suggested users for %s: %v", msg.UserID, err)
	} else {
		feed.SuggestedUsers = suggested
	}

	a.metrics.AddOperationLatency("get_feed", time.Since(startTime))
	context.Respond(feed)
}
