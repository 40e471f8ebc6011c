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

// Message types for direct messaging
type (
	SendMessageMsg struct {
		SenderID    uuid.UUID `json:"senderId"`
		RecipientID uuid.UUID `json:"recipientId"`
		Content     string    `json:"content"`
		MediaURL    *string   `json:"mediaUrl,omitempty"`
	}

	GetConversationMsg struct {
		UserID      uuid.UUID `json:"userId"`
		OtherUserID uuid.UUID `json:"otherUserId"`
	}

	GetInboxMsg struct {
		UserID uuid.UUID `json:"userId"`
	}
)

// MessageActor owns direct messaging. A conversation is identified by its
// unordered participant pair; sending to someone you've never talked to
// creates the conversation on the fly.
type MessageActor struct {
	db      database.DBAdapter
	metrics *utils.MetricsCollector
	hub     *websocket.Hub
}

func NewMessageActor(db database.DBAdapter, metrics *utils.MetricsCollector, hub *websocket.Hub) actor.Actor {
	return &MessageActor{db: db, metrics: metrics, hub: hub}
}

func (a *MessageActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("MessageActor started with PID: %v", context.Self())
	case *SendMessageMsg:
		a.handleSendMessage(context, msg)
	case *GetConversationMsg:
		a.handleGetConversation(context, msg)
	case *GetInboxMsg:
		a.handleGetInbox(context, msg)
	default:
		log.Printf("MessageActor: Unknown message type %T", msg)
	}
}

func (a *MessageActor) handleSendMessage(context actor.Context, msg *SendMessageMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Content == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "message content is required", nil))
		return
	}
	if msg.SenderID == msg.RecipientID {
		context.Respond(utils.NewAppError(utils.ErrInvalidOperation, "users cannot message themselves", nil))
		return
	}

	sender, err := a.db.GetUser(ctx, msg.SenderID)
	if err != nil {
		context.Respond(err)
		return
	}
	if _, err := a.db.GetUser(ctx, msg.RecipientID); err != nil {
		context.Respond(err)
		return
	}

	conv, err := a.db.GetConversationByParticipants(ctx, msg.SenderID, msg.RecipientID)
	if err != nil {
		if !utils.IsErrorCode(err, utils.ErrNotFound) {
			context.Respond(err)
			return
		}
		conv, err = a.db.CreateConversation(ctx, msg.SenderID, msg.RecipientID)
		if err != nil {
			context.Respond(err)
			return
		}
	}

	message := &models.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       msg.SenderID,
		SenderUsername: sender.Username,
		Content:        msg.Content,
		MediaURL:       msg.MediaURL,
	}

	if err := a.db.SaveMessage(ctx, message); err != nil {
		context.Respond(err)
		return
	}

	// Push to the recipient if they have a live connection.
	if a.hub != nil {
		payload, err := json.Marshal(map[string]interface{}{
			"type":    "direct_message",
			"message": message,
		})
		if err == nil {
			a.hub.SendToUser(msg.RecipientID, payload)
		}
	}

	a.metrics.AddOperationLatency("send_message", time.Since(startTime))
	context.Respond(message)
}

func (a *MessageActor) handleGetConversation(context actor.Context, msg *GetConversationMsg) {
	ctx := stdctx.Background()

	conv, err := a.db.GetConversationByParticipants(ctx, msg.UserID, msg.OtherUserID)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			// No conversation yet is an empty history, not an error.
			context.Respond([]*models.Message{})
			return
		}
		context.Respond(err)
		return
	}

	messages, err := a.db.GetConversationMessages(ctx, conv.ID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(messages)
}

func (a *MessageActor) handleGetInbox(context actor.Context, msg *GetInboxMsg) {
	ctx := stdctx.Background()
	conversations, err := a.db.GetUserConversations(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(conversations)
}
