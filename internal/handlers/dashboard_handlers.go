package handlers

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/middleware"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"

	"github.com/google/uuid"
)

// DashboardOverview aggregates the numbers shown on the admin landing page.
type DashboardOverview struct {
	TotalUsers        int            `json:"totalUsers"`
	ActiveDepartments int            `json:"activeDepartments"`
	TotalReports      int            `json:"totalReports"`
	ReportsByStatus   map[string]int `json:"reportsByStatus"`
}

// HandleDashboard handles GET /admin/dashboard. Admin only. The counts come
// straight from the adapter; there is no actor state to consult.
func (s *Server) HandleDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()
		if !s.requireAdmin(w, r) {
			return
		}
		ctx := r.Context()

		totalUsers, err := s.DB.CountUsers(ctx)
		if err != nil {
			s.respondError(w, err)
			return
		}
		activeDepartments, err := s.DB.CountActiveDepartments(ctx)
		if err != nil {
			s.respondError(w, err)
			return
		}
		statusCounts, err := s.DB.CountReportsByStatus(ctx)
		if err != nil {
			s.respondError(w, err)
			return
		}

		totalReports := 0
		byStatus := make(map[string]int, len(statusCounts))
		for _, sc := range statusCounts {
			byStatus[string(sc.Status)] = sc.Count
			totalReports += sc.Count
		}

		s.respondJSON(w, http.StatusOK, &DashboardOverview{
			TotalUsers:        totalUsers,
			ActiveDepartments: activeDepartments,
			TotalReports:      totalReports,
			ReportsByStatus:   byStatus,
		})
	}
}

// UserDashboard summarizes a citizen's own activity for their landing page.
type UserDashboard struct {
	ReportsByStatus     map[string]int         `json:"reportsByStatus"`
	PostCount           int                    `json:"postCount"`
	CommentCount        int                    `json:"commentCount"`
	UnreadNotifications int                    `json:"unreadNotifications"`
	RecentConversations []*models.Conversation `json:"recentConversations"`
	SuggestedUsers      []*models.User         `json:"suggestedUsers"`
}

// HandleUserDashboard handles GET /dashboard for the authenticated user.
func (s *Server) HandleUserDashboard() http.HandlerFunc {
	const recentConversationLimit = 5
	const suggestedUserLimit = 5

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := r.Context()

		reports, err := s.DB.GetReportsByUser(ctx, userID)
		if err != nil {
			s.respondError(w, err)
			return
		}
		byStatus := make(map[string]int)
		for _, report := range reports {
			byStatus[string(report.Status)]++
		}

		postCount, err := s.DB.CountPostsByAuthor(ctx, userID)
		if err != nil {
			s.respondError(w, err)
			return
		}
		commentCount, err := s.DB.CountCommentsByAuthor(ctx, userID)
		if err != nil {
			s.respondError(w, err)
			return
		}
		unread, err := s.DB.CountUnreadNotifications(ctx, userID)
		if err != nil {
			s.respondError(w, err)
			return
		}
		conversations, err := s.DB.GetUserConversations(ctx, userID)
		if err != nil {
			s.respondError(w, err)
			return
		}
		if len(conversations) > recentConversationLimit {
			conversations = conversations[:recentConversationLimit]
		}
		suggested, err := s.DB.GetSuggestedUsers(ctx, userID, suggestedUserLimit)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, &UserDashboard{
			ReportsByStatus:     byStatus,
			PostCount:           postCount,
			CommentCount:        commentCount,
			UnreadNotifications: unread,
			RecentConversations: conversations,
			SuggestedUsers:      suggested,
		})
	}
}

// HandleDepartmentActivity handles GET /admin/departments/activity. Admin
// only. Departments sorted by how many reports have been routed to them.
func (s *Server) HandleDepartmentActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()
		if !s.requireAdmin(w, r) {
			return
		}

		activity, err := s.DB.GetDepartmentActivity(r.Context())
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, activity)
	}
}

// HandleReportExport handles GET /admin/reports/export. Admin only. Streams
// every report as a CSV download.
func (s *Server) HandleReportExport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()
		if !s.requireAdmin(w, r) {
			return
		}

		reports, err := s.DB.GetAllReports(r.Context())
		if err != nil {
			s.respondError(w, err)
			return
		}
		users, err := s.DB.GetAllUsers(r.Context())
		if err != nil {
			s.respondError(w, err)
			return
		}
		usernames := make(map[uuid.UUID]string, len(users))
		for _, u := range users {
			usernames[u.ID] = u.Username
		}

		filename := fmt.Sprintf("reports-%s.csv", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"id", "submitter", "title", "status", "priority", "category", "assigned_department_id", "created_at", "updated_at"})
		for _, report := range reports {
			assigned := ""
			if report.AssignedDepartmentID != nil {
				assigned = report.AssignedDepartmentID.String()
			}
			submitter := usernames[report.UserID]
			if submitter == "" {
				submitter = "Anonymous"
			}
			_ = cw.Write([]string{
				report.ID.String(),
				submitter,
				report.Title,
				string(report.Status),
				string(report.Priority),
				string(report.Category),
				assigned,
				report.CreatedAt.Format(time.RFC3339),
				report.UpdatedAt.Format(time.RFC3339),
			})
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			log.Printf("Error streaming report export: %v", err)
		}
	}
}
