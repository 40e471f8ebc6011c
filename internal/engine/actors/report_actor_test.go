package actors

import (
	"testing"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) submitReport(t *testing.T, reporter *models.User, title string) *models.Report {
	t.Helper()
	result := e.ask(t, e.report, &SubmitReportMsg{
		UserID:      reporter.ID,
		Title:       title,
		Description: "details for " + title,
		Category:    models.CategoryService,
	})
	report, ok := result.(*models.Report)
	require.Truef(t, ok, "expected *models.Report, got %v", result)
	return report
}

func (e *testEnv) createDepartment(t *testing.T, admin *models.User, name string) *models.Department {
	t.Helper()
	result := e.ask(t, e.department, &CreateDepartmentMsg{UserID: admin.ID, Name: name})
	dept, ok := result.(*models.Department)
	require.Truef(t, ok, "expected *models.Department, got %v", result)
	return dept
}

func TestSubmitReportDefaults(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.seedUser(t, "citizen", false)

	report := env.submitReport(t, citizen, "Broken swing")
	assert.Equal(t, models.ReportPending, report.Status)
	assert.Equal(t, models.PriorityMedium, report.Priority, "priority defaults to medium")
	assert.Nil(t, report.AssignedDepartmentID)

	// Unknown category is rejected.
	result := env.ask(t, env.report, &SubmitReportMsg{
		UserID:      citizen.ID,
		Title:       "t",
		Description: "d",
		Category:    "gossip",
	})
	assertAppError(t, result, utils.ErrInvalidInput)

	// Unknown reporter is rejected.
	result = env.ask(t, env.report, &SubmitReportMsg{
		UserID:      uuid.New(),
		Title:       "t",
		Description: "d",
		Category:    models.CategoryOther,
	})
	assertAppError(t, result, utils.ErrUserNotFound)
}

func TestReportVisibility(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, "owner", false)
	other := env.seedUser(t, "other", false)

	report := env.submitReport(t, owner, "Collapsed drain")

	// The owner can read their own report.
	result := env.ask(t, env.report, &GetReportMsg{ReportID: report.ID, RequesterID: owner.ID})
	fetched, ok := result.(*models.Report)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, report.ID, fetched.ID)

	// Another citizen cannot.
	result = env.ask(t, env.report, &GetReportMsg{ReportID: report.ID, RequesterID: other.ID})
	assertAppError(t, result, utils.ErrForbidden)

	// An admin can.
	result = env.ask(t, env.report, &GetReportMsg{ReportID: report.ID, RequesterID: other.ID, IsAdmin: true})
	_, ok = result.(*models.Report)
	assert.True(t, ok)
}

func TestReportLifecycle(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.seedUser(t, "citizen", false)
	admin := env.seedUser(t, "admin", true)
	dept := env.createDepartment(t, admin, "Roads")

	report := env.submitReport(t, citizen, "Pothole cluster")

	// Closing straight from pending is illegal.
	result := env.ask(t, env.report, &UpdateReportStatusMsg{ReportID: report.ID, Status: models.ReportResolved})
	assertAppError(t, result, utils.ErrInvalidOperation)

	// Assigning moves it to under_review.
	result = env.ask(t, env.report, &AssignReportMsg{ReportID: report.ID, DepartmentID: dept.ID})
	assigned, ok := result.(*models.Report)
	require.Truef(t, ok, "got %v", result)
	assert.Equal(t, models.ReportUnderReview, assigned.Status)
	require.NotNil(t, assigned.AssignedDepartmentID)
	assert.Equal(t, dept.ID, *assigned.AssignedDepartmentID)

	// Only resolved and rejected are accepted as closing states.
	result = env.ask(t, env.report, &UpdateReportStatusMsg{ReportID: report.ID, Status: models.ReportPending})
	assertAppError(t, result, utils.ErrInvalidInput)

	result = env.ask(t, env.report, &UpdateReportStatusMsg{ReportID: report.ID, Status: models.ReportResolved})
	closed, ok := result.(*models.Report)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, models.ReportResolved, closed.Status)
	assert.True(t, closed.Status.IsTerminal())

	// Closing twice fails, but re-assignment reopens a terminal report.
	result = env.ask(t, env.report, &UpdateReportStatusMsg{ReportID: report.ID, Status: models.ReportRejected})
	assertAppError(t, result, utils.ErrInvalidOperation)

	result = env.ask(t, env.report, &AssignReportMsg{ReportID: report.ID, DepartmentID: dept.ID})
	reopened, ok := result.(*models.Report)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, models.ReportUnderReview, reopened.Status)
}

func TestAssignReportDepartmentChecks(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.seedUser(t, "citizen", false)
	admin := env.seedUser(t, "admin", true)
	report := env.submitReport(t, citizen, "Dark corner")

	// Unknown department.
	result := env.ask(t, env.report, &AssignReportMsg{ReportID: report.ID, DepartmentID: uuid.New()})
	assertAppError(t, result, utils.ErrDepartmentNotFound)

	// Deactivated department.
	dept := env.createDepartment(t, admin, "Parks")
	env.ask(t, env.department, &SetDepartmentActiveMsg{DepartmentID: dept.ID, Active: false})

	result = env.ask(t, env.report, &AssignReportMsg{ReportID: report.ID, DepartmentID: dept.ID})
	assertAppError(t, result, utils.ErrDepartmentInactive)
}

func TestAnonymousReports(t *testing.T) {
	env := newTestEnv(t)

	result := env.ask(t, env.report, &SubmitAnonymousReportMsg{
		Category:    models.CategoryCorruption,
		Description: "expedite fees on the east side",
	})
	report, ok := result.(*models.AnonymousReport)
	require.Truef(t, ok, "got %v", result)
	assert.Equal(t, models.CategoryCorruption, report.Category)

	result = env.ask(t, env.report, &GetAnonymousReportsMsg{})
	reports, ok := result.([]*models.AnonymousReport)
	require.True(t, ok, "got %T", result)
	require.Len(t, reports, 1)
	assert.Equal(t, report.ID, reports[0].ID)
}
