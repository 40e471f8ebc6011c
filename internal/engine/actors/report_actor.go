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

// Message types for Report operations
type (
	SubmitReportMsg struct {
		UserID      uuid.UUID             `json:"userId"`
		Title       string                `json:"title"`
		Description string                `json:"description"`
		Priority    models.ReportPriority `json:"priority"`
		Category    models.ReportCategory `json:"category"`
	}

	SubmitAnonymousReportMsg struct {
		Category    models.ReportCategory `json:"category"`
		Description string                `json:"description"`
	}

	GetReportMsg struct {
		ReportID    uuid.UUID `json:"reportId"`
		RequesterID uuid.UUID `json:"requesterId"`
		IsAdmin     bool      `json:"isAdmin"`
	}

	GetUserReportsMsg struct {
		UserID uuid.UUID `json:"userId"`
	}

	GetAllReportsMsg struct{}

	GetAnonymousReportsMsg struct{}

	AssignReportMsg struct {
		ReportID     uuid.UUID `json:"reportId"`
		DepartmentID uuid.UUID `json:"departmentId"`
	}

	UpdateReportStatusMsg struct {
		ReportID uuid.UUID           `json:"reportId"`
		Status   models.ReportStatus `json:"status"`
	}
)

// ReportActor owns the report lifecycle:
// pending -> under_review -> {resolved, rejected}.
// Assignment routes a report to a department and always moves it to
// under_review, even when it was previously closed; this is how staff reopen
// a mis-closed case.
type ReportActor struct {
	db      database.DBAdapter
	metrics *utils.MetricsCollector
}

func NewReportActor(db database.DBAdapter, metrics *utils.MetricsCollector) actor.Actor {
	return &ReportActor{db: db, metrics: metrics}
}

func (a *ReportActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("ReportActor started with PID: %v", context.Self())
	case *SubmitReportMsg:
		a.handleSubmit(context, msg)
	case *SubmitAnonymousReportMsg:
		a.handleSubmitAnonymous(context, msg)
	case *GetReportMsg:
		a.handleGetReport(context, msg)
	case *GetUserReportsMsg:
		a.handleGetUserReports(context, msg)
	case *GetAllReportsMsg:
		a.handleGetAllReports(context)
	case *GetAnonymousReportsMsg:
		a.handleGetAnonymousReports(context)
	case *AssignReportMsg:
		a.handleAssign(context, msg)
	case *UpdateReportStatusMsg:
		a.handleUpdateStatus(context, msg)
	default:
		log.Printf("ReportActor: Unknown message type %T", msg)
	}
}

func validPriority(p models.ReportPriority) bool {
	return p == models.PriorityLow || p == models.PriorityMedium || p == models.PriorityHigh
}

func validCategory(c models.ReportCategory) bool {
	return c == models.CategoryCorruption || c == models.CategoryService || c == models.CategoryOther
}

func (a *ReportActor) handleSubmit(context actor.Context, msg *SubmitReportMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Title == "" || msg.Description == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "title and description are required", nil))
		return
	}
	priority := msg.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !validPriority(priority) {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "invalid report priority", nil))
		return
	}
	if !validCategory(msg.Category) {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "invalid report category", nil))
		return
	}

	if _, err := a.db.GetUser(ctx, msg.UserID); err != nil {
		context.Respond(err)
		return
	}

	report := &models.Report{
		ID:          uuid.New(),
		UserID:      msg.UserID,
		Title:       msg.Title,
		Description: msg.Description,
		Status:      models.ReportPending,
		Priority:    priority,
		Category:    msg.Category,
	}

	if err := a.db.SaveReport(ctx, report); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("submit_report", time.Since(startTime))
	context.Respond(report)
}

func (a *ReportActor) handleSubmitAnonymous(context actor.Context, msg *SubmitAnonymousReportMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Description == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "description is required", nil))
		return
	}
	if !validCategory(msg.Category) {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "invalid report category", nil))
		return
	}

	report := &models.AnonymousReport{
		ID:          uuid.New(),
		Category:    msg.Category,
		Description: msg.Description,
	}

	if err := a.db.SaveAnonymousReport(ctx, report); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("submit_anonymous_report", time.Since(startTime))
	context.Respond(report)
}

func (a *ReportActor) handleGetReport(context actor.Context, msg *GetReportMsg) {
	ctx := stdctx.Background()

	report, err := a.db.GetReport(ctx, msg.ReportID)
	if err != nil {
		context.Respond(err)
		return
	}

	// Citizens only see their own reports; staff see everything.
	if !msg.IsAdmin && report.UserID != msg.RequesterID {
		context.Respond(utils.NewAppError(utils.ErrForbidden, "report belongs to another user", nil))
		return
	}
	context.Respond(report)
}

func (a *ReportActor) handleGetUserReports(context actor.Context, msg *GetUserReportsMsg) {
	ctx := stdctx.Background()
	reports, err := a.db.GetReportsByUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(reports)
}

func (a *ReportActor) handleGetAllReports(context actor.Context) {
	ctx := stdctx.Background()
	reports, err := a.db.GetAllReports(ctx)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(reports)
}

func (a *ReportActor) handleGetAnonymousReports(context actor.Context) {
	ctx := stdctx.Background()
	reports, err := a.db.GetAllAnonymousReports(ctx)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(reports)
}

func (a *ReportActor) handleAssign(context actor.Context, msg *AssignReportMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if _, err := a.db.GetReport(ctx, msg.ReportID); err != nil {
		context.Respond(err)
		return
	}

	dept, err := a.db.GetDepartment(ctx, msg.DepartmentID)
	if err != nil {
		context.Respond(err)
		return
	}
	if !dept.IsActive {
		context.Respond(utils.NewDepartmentInactiveError(dept.Name))
		return
	}

	if err := a.db.AssignReport(ctx, msg.ReportID, msg.DepartmentID); err != nil {
		context.Respond(err)
		return
	}

	report, err := a.db.GetReport(ctx, msg.ReportID)
	if err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("assign_report", time.Since(startTime))
	context.Respond(report)
}

func (a *ReportActor) handleUpdateStatus(context actor.Context, msg *UpdateReportStatusMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Status != models.ReportResolved && msg.Status != models.ReportRejected {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "status must be resolved or rejected", nil))
		return
	}

	report, err := a.db.GetReport(ctx, msg.ReportID)
	if err != nil {
		context.Respond(err)
		return
	}

	// Closing a report requires it to be under review first.
	if report.Status != models.ReportUnderReview {
		context.Respond(utils.NewAppError(utils.ErrInvalidOperation,
			"report can only be closed while under review", nil))
		return
	}

	if err := a.db.UpdateReportStatus(ctx, msg.ReportID, msg.Status); err != nil {
		context.Respond(err)
		return
	}

	report.Status = msg.Status

	a.metrics.AddOperationLatency("update_report_status", time.Since(startTime))
	context.Respond(report)
}
