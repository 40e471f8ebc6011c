package actors

import (
	stdctx "context"
	"encoding/json"
	"log"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/database"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for Notification operations
type (
	// NotifyMsg is sent by other actors when a user's action should surface
	// on someone else's notifications. Self-addressed notifications are
	// silently dropped here, so senders don't have to guard for it.
	NotifyMsg struct {
		RecipientID uuid.UUID `json:"recipientId"`
		ActorID     uuid.UUID `json:"actorId"`
		Message     string    `json:"message"`
	}

	GetUnreadNotificationsMsg struct {
		UserID uuid.UUID `json:"userId"`
	}

	MarkNotificationReadMsg struct {
		NotificationID uuid.UUID `json:"notificationId"`
		RequesterID    uuid.UUID `json:"requesterId"`
	}

	CountUnreadNotificationsMsg struct {
		UserID uuid.UUID `json:"userId"`
	}
)

// NotificationActor persists notification records and pushes them to
// connected clients over the websocket hub, best effort.
type NotificationActor struct {
	db      database.DBAdapter
	metrics *utils.MetricsCollector
	hub     *websocket.Hub
}

func NewNotificationActor(db database.DBAdapter, metrics *utils.MetricsCollector, hub *websocket.Hub) actor.Actor {
	return &NotificationActor{db: db, metrics: metrics, hub: hub}
}

func (a *NotificationActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("NotificationActor started with PID: %v", context.Self())
	case *NotifyMsg:
		a.handleNotify(context, msg)
	case *GetUnreadNotificationsMsg:
		a.handleGetUnread(context, msg)
	case *MarkNotificationReadMsg:
		a.handleMarkRead(context, msg)
	case *CountUnreadNotificationsMsg:
		a.handleCountUnread(context, msg)
	default:
		log.Printf("NotificationActor: Unknown message type %T", msg)
	}
}

func (a *NotificationActor) handleNotify(context actor.Context, msg *NotifyMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	// Never notify a user about their own action.
	if msg.RecipientID == msg.ActorID {
		return
	}

	notification := &models.Notification{
		ID:      uuid.New(),
		UserID:  msg.RecipientID,
		ActorID: msg.ActorID,
		Message: msg.Message,
	}

	if err := a.db.SaveNotification(ctx, notification); err != nil {
		log.Printf("NotificationActor: failed to save notification for user %s: %v", msg.RecipientID, err)
		return
	}

	// Live push is best effort; the persisted record is the source of truth.
	if a.hub != nil {
		payload, err := json.Marshal(map[string]interface{}{
			"type":         "notification",
			"notification": notification,
		})
		if err == nil {
			a.hub.SendToUser(msg.RecipientID, payload)
		}
	}

	a.metrics.AddOperationLatency("notify", time.Since(startTime))
}

func (a *NotificationActor) handleGetUnread(context actor.Context, msg *GetUnreadNotificationsMsg) {
	ctx := stdctx.Background()
	notifications, err := a.db.GetUnreadNotifications(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(notifications)
}

func (a *NotificationActor) handleMarkRead(context actor.Context, msg *MarkNotificationReadMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	notification, err := a.db.GetNotification(ctx, msg.NotificationID)
	if err != nil {
		context.Respond(err)
		return
	}

	// Only the recipient may mark their notification read.
	if notification.UserID != msg.RequesterID {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "notification belongs to another user", nil))
		return
	}

	if err := a.db.MarkNotificationRead(ctx, msg.NotificationID); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("mark_notification_read", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true, Message: "notification marked read"})
}

func (a *NotificationActor) handleCountUnread(context actor.Context, msg *CountUnreadNotificationsMsg) {
	ctx := stdctx.Background()
	count, err := a.db.CountUnreadNotifications(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(count)
}
