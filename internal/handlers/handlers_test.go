package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/api"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/database"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/engine"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/middleware"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db := database.NewMemoryDB()
	metrics := utils.NewMetricsCollector()
	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, db, metrics, nil)
	return NewServer(system, system.Root, eng, metrics, db, nil)
}

// call runs one request through the JWT middleware the way the router does.
func call(t *testing.T, handler http.HandlerFunc, path, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	middleware.ApplyJWTMiddleware(handler, path)(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestCivicFlow(t *testing.T) {
	server := newTestServer(t)

	// Register a citizen and an admin through the open endpoints.
	w := call(t, server.HandleRegister(), "/user/register", http.MethodPost, "/user/register", "", RegisterUserRequest{
		Username: "asha", Email: "asha@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var asha models.User
	decode(t, w, &asha)

	w = call(t, server.HandleRegister(), "/user/register", http.MethodPost, "/user/register", "", RegisterUserRequest{
		Username: "cityhall", Email: "admin@example.gov", Password: "password123", IsGovernmentAdmin: true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var admin models.User
	decode(t, w, &admin)

	w = call(t, server.HandleLogin(), "/user/login", http.MethodPost, "/user/login", "", LoginRequest{
		Email: "asha@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var ashaLogin api.LoginResponse
	decode(t, w, &ashaLogin)
	require.True(t, ashaLogin.Success)

	w = call(t, server.HandleLogin(), "/user/login", http.MethodPost, "/user/login", "", LoginRequest{
		Email: "admin@example.gov", Password: "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var adminLogin api.LoginResponse
	decode(t, w, &adminLogin)
	require.True(t, adminLogin.Success)

	// A token is required past the open routes.
	w = call(t, server.HandlePosts(), "/posts", http.MethodPost, "/posts", "", CreatePostRequest{Title: "x", Content: "y"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Asha posts; identity comes from the token, not the body.
	w = call(t, server.HandlePosts(), "/posts", http.MethodPost, "/posts", ashaLogin.Token, CreatePostRequest{
		Title: "Pothole on 5th", Content: "deep one",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var post models.Post
	decode(t, w, &post)
	assert.Equal(t, asha.ID, post.AuthorID)

	// Report lifecycle: citizen submits, admin routes and resolves.
	w = call(t, server.HandleReports(), "/reports", http.MethodPost, "/reports", ashaLogin.Token, SubmitReportRequest{
		Title: "Collapsed drain", Description: "floods after rain", Category: "service",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report models.Report
	decode(t, w, &report)
	assert.Equal(t, models.ReportPending, report.Status)

	// Admin-only surfaces reject citizens.
	w = call(t, server.HandleAllReports(), "/reports/all", http.MethodGet, "/reports/all", ashaLogin.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(t, server.HandleDepartments(), "/departments", http.MethodPost, "/departments", adminLogin.Token, CreateDepartmentRequest{Name: "Roads"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var dept models.Department
	decode(t, w, &dept)

	w = call(t, server.HandleAssignReport(), "/reports/assign", http.MethodPost, "/reports/assign", adminLogin.Token, AssignReportRequest{
		ReportID: report.ID.String(), DepartmentID: dept.ID.String(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var assigned models.Report
	decode(t, w, &assigned)
	assert.Equal(t, models.ReportUnderReview, assigned.Status)

	w = call(t, server.HandleUpdateReportStatus(), "/reports/status", http.MethodPost, "/reports/status", adminLogin.Token, UpdateReportStatusRequest{
		ReportID: report.ID.String(), Status: "resolved",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Application errors map to HTTP statuses through their codes.
	w = call(t, server.HandleUpdateReportStatus(), "/reports/status", http.MethodPost, "/reports/status", adminLogin.Token, UpdateReportStatusRequest{
		ReportID: report.ID.String(), Status: "rejected",
	})
	assert.Equal(t, utils.AppErrorToHTTPStatus(utils.ErrInvalidOperation), w.Code)
	var errResp errorBody
	decode(t, w, &errResp)
	assert.Equal(t, utils.ErrInvalidOperation, errResp.Code)

	// The dashboard reflects the lifecycle.
	w = call(t, server.HandleDashboard(), "/admin/dashboard", http.MethodGet, "/admin/dashboard", adminLogin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var overview DashboardOverview
	decode(t, w, &overview)
	assert.Equal(t, 2, overview.TotalUsers)
	assert.Equal(t, 1, overview.ActiveDepartments)
	assert.Equal(t, 1, overview.TotalReports)
	assert.Equal(t, 1, overview.ReportsByStatus["resolved"])
}

func TestAnonymousReportNeedsNoToken(t *testing.T) {
	server := newTestServer(t)

	w := call(t, server.HandleAnonymousReport(), "/reports/anonymous", http.MethodPost, "/reports/anonymous", "", AnonymousReportRequest{
		Category: "corruption", Description: "expedite fees",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report models.AnonymousReport
	decode(t, w, &report)
	assert.Equal(t, models.CategoryCorruption, report.Category)
}

func TestUserDashboard(t *testing.T) {
	server := newTestServer(t)

	w := call(t, server.HandleRegister(), "/user/register", http.MethodPost, "/user/register", "", RegisterUserRequest{
		Username: "asha", Email: "asha@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = call(t, server.HandleRegister(), "/user/register", http.MethodPost, "/user/register", "", RegisterUserRequest{
		Username: "bruno", Email: "bruno@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var bruno models.User
	decode(t, w, &bruno)

	w = call(t, server.HandleLogin(), "/user/login", http.MethodPost, "/user/login", "", LoginRequest{
		Email: "asha@example.com", Password: "password123",
	})
	var login api.LoginResponse
	decode(t, w, &login)
	require.True(t, login.Success)

	w = call(t, server.HandlePosts(), "/posts", http.MethodPost, "/posts", login.Token, CreatePostRequest{
		Title: "Crosswalk repainted", Content: "Main and 5th looks great now.",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = call(t, server.HandleReports(), "/reports", http.MethodPost, "/reports", login.Token, SubmitReportRequest{
		Title: "Pothole", Description: "deep one on Oak Ave", Category: "service",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(t, server.HandleUserDashboard(), "/dashboard", http.MethodGet, "/dashboard", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var dash UserDashboard
	decode(t, w, &dash)

	assert.Equal(t, 1, dash.PostCount)
	assert.Equal(t, 0, dash.CommentCount)
	assert.Equal(t, map[string]int{"pending": 1}, dash.ReportsByStatus)
	assert.Empty(t, dash.RecentConversations)
	require.Len(t, dash.SuggestedUsers, 1)
	assert.Equal(t, bruno.ID, dash.SuggestedUsers[0].ID)

	// Requires a token like every other personal view.
	w = call(t, server.HandleUserDashboard(), "/dashboard", http.MethodGet, "/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportExportCSV(t *testing.T) {
	server := newTestServer(t)

	w := call(t, server.HandleRegister(), "/user/register", http.MethodPost, "/user/register", "", RegisterUserRequest{
		Username: "cityhall", Email: "admin@example.gov", Password: "password123", IsGovernmentAdmin: true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = call(t, server.HandleLogin(), "/user/login", http.MethodPost, "/user/login", "", LoginRequest{
		Email: "admin@example.gov", Password: "password123",
	})
	var login api.LoginResponse
	decode(t, w, &login)
	require.True(t, login.Success)

	w = call(t, server.HandleReports(), "/reports", http.MethodPost, "/reports", login.Token, SubmitReportRequest{
		Title: "Dark corner", Description: "no streetlight", Category: "service", Priority: "high",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(t, server.HandleReportExport(), "/admin/reports/export", http.MethodGet, "/admin/reports/export", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one report")
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "cityhall", rows[1][1])
	assert.Equal(t, "Dark corner", rows[1][2])
	assert.Equal(t, "pending", rows[1][3])
	assert.Equal(t, "high", rows[1][4])
}
