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

// Message types for Department operations
type (
	CreateDepartmentMsg struct {
		UserID uuid.UUID `json:"userId"`
		Name   string    `json:"name"`
	}

	SetDepartmentActiveMsg struct {
		DepartmentID uuid.UUID `json:"departmentId"`
		Active       bool      `json:"active"`
	}

	GetDepartmentMsg struct {
		DepartmentID uuid.UUID `json:"departmentId"`
	}

	GetDepartmentsMsg struct{}

	PublishProjectUpdateMsg struct {
		DepartmentID uuid.UUID                  `json:"departmentId"`
		AuthorID     uuid.UUID                  `json:"authorId"`
		Title        string                     `json:"title"`
		Description  string                     `json:"description"`
		Milestone    *string                    `json:"milestone,omitempty"`
		Status       models.ProjectUpdateStatus `json:"status"`
		MediaURL     *string                    `json:"mediaUrl,omitempty"`
	}

	GetProjectUpdatesMsg struct {
		DepartmentID uuid.UUID `json:"departmentId"`
	}

	CreatePollMsg struct {
		DepartmentID uuid.UUID `json:"departmentId"`
		CreatedBy    uuid.UUID `json:"createdBy"`
		Title        string    `json:"title"`
		Question     string    `json:"question"`
		Options      []string  `json:"options"`
		MediaURL     *string   `json:"mediaUrl,omitempty"`
	}

	GetPollsMsg struct{}

	VotePollMsg struct {
		UserID   uuid.UUID `json:"userId"`
		OptionID uuid.UUID `json:"optionId"`
	}

	PublishGovNotificationMsg struct {
		DepartmentID   uuid.UUID `json:"departmentId"`
		Message        string    `json:"message"`
		TargetAudience *string   `json:"targetAudience,omitempty"`
		IsBroadcast    bool      `json:"isBroadcast"`
		MediaURL       *string   `json:"mediaUrl,omitempty"`
	}

	GetGovNotificationsMsg struct{}

	PublishDepartmentPostMsg struct {
		DepartmentID uuid.UUID                     `json:"departmentId"`
		AuthorID     uuid.UUID                     `json:"authorId"`
		Title        string                        `json:"title"`
		Content      string                        `json:"content"`
		Category     models.DepartmentPostCategory `json:"category"`
		MediaURL     *string                       `json:"mediaUrl,omitempty"`
	}

	GetDepartmentPostsMsg struct {
		DepartmentID uuid.UUID `json:"departmentId"`
	}

	SubmitFeedbackMsg struct {
		UserID          uuid.UUID  `json:"userId"`
		DepartmentID    uuid.UUID  `json:"departmentId"`
		ProjectUpdateID *uuid.UUID `json:"projectUpdateId,omitempty"`
		Content         string     `json:"content"`
		MediaURL        *string    `json:"mediaUrl,omitempty"`
	}

	GetDepartmentFeedbackMsg struct {
		DepartmentID uuid.UUID `json:"departmentId"`
	}
)

// DepartmentActor owns government departments and everything they publish:
// project updates, polls, broadcast notifications and announcement posts.
// Publishing is gated on the department's active flag.
type DepartmentActor struct {
	db      database.DBAdapter
	metrics *utils.MetricsCollector
}

func NewDepartmentActor(db database.DBAdapter, metrics *utils.MetricsCollector) actor.Actor {
	return &DepartmentActor{db: db, metrics: metrics}
}

func (a *DepartmentActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("DepartmentActor started with PID: %v", context.Self())
	case *CreateDepartmentMsg:
		a.handleCreateDepartment(context, msg)
	case *SetDepartmentActiveMsg:
		a.handleSetActive(context, msg)
	case *GetDepartmentMsg:
		a.handleGetDepartment(context, msg)
	case *GetDepartmentsMsg:
		a.handleGetDepartments(context)
	case *PublishProjectUpdateMsg:
		a.handlePublishProjectUpdate(context, msg)
	case *GetProjectUpdatesMsg:
		a.handleGetProjectUpdates(context, msg)
	case *CreatePollMsg:
		a.handleCreatePoll(context, msg)
	case *GetPollsMsg:
		a.handleGetPolls(context)
	case *VotePollMsg:
		a.handleVotePoll(context, msg)
	case *PublishGovNotificationMsg:
		a.handlePublishGovNotification(context, msg)
	case *GetGovNotificationsMsg:
		a.handleGetGovNotifications(context)
	case *PublishDepartmentPostMsg:
		a.handlePublishDepartmentPost(context, msg)
	case *GetDepartmentPostsMsg:
		a.handleGetDepartmentPosts(context, msg)
	case *SubmitFeedbackMsg:
		a.handleSubmitFeedback(context, msg)
	case *GetDepartmentFeedbackMsg:
		a.handleGetDepartmentFeedback(context, msg)
	default:
		log.Printf("DepartmentActor: Unknown message type %T", msg)
	}
}

// requireActiveDepartment loads a department and rejects publishing when the
// department has been deactivated.
func (a *DepartmentActor) requireActiveDepartment(ctx stdctx.Context, departmentID uuid.UUID) (*models.Department, error) {
	dept, err := a.db.GetDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if !dept.IsActive {
		return nil, utils.NewDepartmentInactiveError(dept.Name)
	}
	return dept, nil
}

func (a *DepartmentActor) handleCreateDepartment(context actor.Context, msg *CreateDepartmentMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Name == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "department name is required", nil))
		return
	}

	user, err := a.db.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	if !user.IsGovernmentAdmin {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "only government admins can create departments", nil))
		return
	}

	dept := &models.Department{
		ID:       uuid.New(),
		UserID:   msg.UserID,
		Name:     msg.Name,
		IsActive: true,
	}

	if err := a.db.SaveDepartment(ctx, dept); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("create_department", time.Since(startTime))
	context.Respond(dept)
}

func (a *DepartmentActor) handleSetActive(context actor.Context, msg *SetDepartmentActiveMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if err := a.db.SetDepartmentActive(ctx, msg.DepartmentID, msg.Active); err != nil {
		context.Respond(err)
		return
	}

	dept, err := a.db.GetDepartment(ctx, msg.DepartmentID)
	if err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("set_department_active", time.Since(startTime))
	context.Respond(dept)
}

func (a *DepartmentActor) handleGetDepartment(context actor.Context, msg *GetDepartmentMsg) {
	ctx := stdctx.Background()
	dept, err := a.db.GetDepartment(ctx, msg.DepartmentID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(dept)
}

func (a *DepartmentActor) handleGetDepartments(context actor.Context) {
	ctx := stdctx.Background()
	departments, err := a.db.GetAllDepartments(ctx)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(departments)
}

func (a *DepartmentActor) handlePublishProjectUpdate(context actor.Context, msg *PublishProjectUpdateMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Title == "" || msg.Description == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "title and description are required", nil))
		return
	}

	status := msg.Status
	if status == "" {
		status = models.UpdatePending
	}
	if status != models.UpdatePending && status != models.UpdateInProgress && status != models.UpdateCompleted {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "invalid project update status", nil))
		return
	}

	if _, err := a.requireActiveDepartment(ctx, msg.DepartmentID); err != nil {
		context.Respond(err)
		return
	}

	update := &models.ProjectUpdate{
		ID:           uuid.New(),
		Title:        msg.Title,
		Description:  msg.Description,
		AuthorID:     msg.AuthorID,
		DepartmentID: msg.DepartmentID,
		Milestone:    msg.Milestone,
		Status:       status,
		MediaURL:     msg.MediaURL,
	}

	if err := a.db.SaveProjectUpdate(ctx, update); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("publish_project_update", time.Since(startTime))
	context.Respond(update)
}

func (a *DepartmentActor) handleGetProjectUpdates(context actor.Context, msg *GetProjectUpdatesMsg) {
	ctx := stdctx.Background()
	updates, err := a.db.GetProjectUpdates(ctx, msg.DepartmentID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(updates)
}

func (a *DepartmentActor) handleCreatePoll(context actor.Context, msg *CreatePollMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Question == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "poll question is required", nil))
		return
	}
	if len(msg.Options) < 2 {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "a poll needs at least two options", nil))
		return
	}

	if _, err := a.requireActiveDepartment(ctx, msg.DepartmentID); err != nil {
		context.Respond(err)
		return
	}

	poll := &models.Poll{
		ID:           uuid.New(),
		Title:        msg.Title,
		Question:     msg.Question,
		CreatedBy:    msg.CreatedBy,
		DepartmentID: msg.DepartmentID,
		MediaURL:     msg.MediaURL,
	}
	for _, text := range msg.Options {
		poll.Options = append(poll.Options, models.PollOption{
			ID:     uuid.New(),
			PollID: poll.ID,
			Text:   text,
		})
	}

	if err := a.db.SavePoll(ctx, poll); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("create_poll", time.Since(startTime))
	context.Respond(poll)
}

func (a *DepartmentActor) handleGetPolls(context actor.Context) {
	ctx := stdctx.Background()
	polls, err := a.db.GetAllPolls(ctx)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(polls)
}

func (a *DepartmentActor) handleVotePoll(context actor.Context, msg *VotePollMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if err := a.db.VotePollOption(ctx, msg.UserID, msg.OptionID); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("vote_poll", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true, Message: "vote recorded"})
}

func (a *DepartmentActor) handlePublishGovNotification(context actor.Context, msg *PublishGovNotificationMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Message == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "notification message is required", nil))
		return
	}

	if _, err := a.requireActiveDepartment(ctx, msg.DepartmentID); err != nil {
		context.Respond(err)
		return
	}

	notification := &models.GovernmentNotification{
		ID:             uuid.New(),
		DepartmentID:   msg.DepartmentID,
		TargetAudience: msg.TargetAudience,
		Message:        msg.Message,
		IsBroadcast:    msg.IsBroadcast,
		MediaURL:       msg.MediaURL,
	}

	if err := a.db.SaveGovernmentNotification(ctx, notification); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("publish_gov_notification", time.Since(startTime))
	context.Respond(notification)
}

func (a *DepartmentActor) handleGetGovNotifications(context actor.Context) {
	ctx := stdctx.Background()
	notifications, err := a.db.GetGovernmentNotifications(ctx)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(notifications)
}

func (a *DepartmentActor) handlePublishDepartmentPost(context actor.Context, msg *PublishDepartmentPostMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Title == "" || msg.Content == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "title and content are required", nil))
		return
	}

	category := msg.Category
	if category == "" {
		category = models.DeptPostGeneral
	}

	if _, err := a.requireActiveDepartment(ctx, msg.DepartmentID); err != nil {
		context.Respond(err)
		return
	}

	post := &models.DepartmentPost{
		ID:           uuid.New(),
		Title:        msg.Title,
		Content:      msg.Content,
		AuthorID:     msg.AuthorID,
		DepartmentID: msg.DepartmentID,
		Category:     category,
		MediaURL:     msg.MediaURL,
	}

	if err := a.db.SaveDepartmentPost(ctx, post); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("publish_department_post", time.Since(startTime))
	context.Respond(post)
}

func (a *DepartmentActor) handleGetDepartmentPosts(context actor.Context, msg *GetDepartmentPostsMsg) {
	ctx := stdctx.Background()
	posts, err := a.db.GetDepartmentPosts(ctx, msg.DepartmentID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(posts)
}

func (a *DepartmentActor) handleSubmitFeedback(context actor.Context, msg *SubmitFeedbackMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Content == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "feedback content is required", nil))
		return
	}

	// Feedback is accepted even when the department is inactive.
	if _, err := a.db.GetDepartment(ctx, msg.DepartmentID); err != nil {
		context.Respond(err)
		return
	}

	fb := &models.Feedback{
		ID:              uuid.New(),
		UserID:          msg.UserID,
		DepartmentID:    msg.DepartmentID,
		ProjectUpdateID: msg.ProjectUpdateID,
		Content:         msg.Content,
		MediaURL:        msg.MediaURL,
	}

	if err := a.db.SaveFeedback(ctx, fb); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("submit_feedback", time.Since(startTime))
	context.Respond(fb)
}

func (a *DepartmentActor) handleGetDepartmentFeedback(context actor.Context, msg *GetDepartmentFeedbackMsg) {
	ctx := stdctx.Background()
	feedback, err := a.db.GetFeedbackForDepartment(ctx, msg.DepartmentID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(feedback)
}
