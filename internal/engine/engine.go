// Package engine wires up the actor system. Each domain area gets one actor;
// HTTP handlers talk to them through RequestFuture so requests stay
// synchronous while per-domain state transitions serialize inside the actor.
package engine

import (
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/database"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/engine/actors"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine coordinates communication between actors.
type Engine struct {
	userActor         *actor.PID
	postActor         *actor.PID
	commentActor      *actor.PID
	notificationActor *actor.PID
	feedActor         *actor.PID
	messageActor      *actor.PID
	reportActor       *actor.PID
	departmentActor   *actor.PID
}

// NewEngine spawns every domain actor. The notification actor is spawned
// first so the actors that fan out to it can hold its PID.
func NewEngine(system *actor.ActorSystem, db database.DBAdapter, metrics *utils.MetricsCollector, hub *websocket.Hub) *Engine {
	context := system.Root

	notificationPID := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewNotificationActor(db, metrics, hub)
	}))

	userPID := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewUserActor(db, metrics, notificationPID)
	}))

	postPID := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewPostActor(db, metrics)
	}))

	commentPID := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewCommentActor(db, metrics, notificationPID)
	}))

	feedPID := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewFeedActor(db, metrics)
	}))

	messagePID := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewMessageActor(db, metrics, hub)
	}))

	reportPID := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewReportActor(db, metrics)
	}))

	departmentPID := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return actors.NewDepartmentActor(db, metrics)
	}))

	return &Engine{
		userActor:         userPID,
		postActor:         postPID,
		commentActor:      commentPID,
		notificationActor: notificationPID,
		feedActor:         feedPID,
		messageActor:      messagePID,
		reportActor:       reportPID,
		departmentActor:   departmentPID,
	}
}

func (e *Engine) GetUserActor() *actor.PID         { return e.userActor }
func (e *Engine) GetPostActor() *actor.PID         { return e.postActor }
func (e *Engine) GetCommentActor() *actor.PID      { return e.commentActor }
func (e *Engine) GetNotificationActor() *actor.PID { return e.notificationActor }
func (e *Engine) GetFeedActor() *actor.PID         { return e.feedActor }
func (e *Engine) GetMessageActor() *actor.PID      { return e.messageActor }
func (e *Engine) GetReportActor() *actor.PID       { return e.reportActor }
func (e *Engine) GetDepartmentActor() *actor.PID   { return e.departmentActor }
