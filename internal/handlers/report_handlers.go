package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/engine/actors"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/middleware"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"

	"github.com/google/uuid"
)

// SubmitReportRequest represents a citizen filing a report
type SubmitReportRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
	Category    string `json:"category"`
}

// AnonymousReportRequest has no identity attached
type AnonymousReportRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// AssignReportRequest routes a report to a department
type AssignReportRequest struct {
	ReportID     string `json:"reportId"`
	DepartmentID string `json:"departmentId"`
}

// UpdateReportStatusRequest closes a report as resolved or rejected
type UpdateReportStatusRequest struct {
	ReportID string `json:"reportId"`
	Status   string `json:"status"`
}

// HandleReports handles POST /reports (submit) and GET /reports
// (?id= one report, otherwise the requester's own reports).
func (s *Server) HandleReports() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()
		requesterID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		isAdmin := middleware.GetIsAdminFromContext(r.Context())

		switch r.Method {
		case http.MethodPost:
			var req SubmitReportRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetReportActor(), &actors.SubmitReportMsg{
				UserID:      requesterID,
				Title:       req.Title,
				Description: req.Description,
				Priority:    models.ReportPriority(req.Priority),
				Category:    models.ReportCategory(req.Category),
			})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodGet:
			if rawID := r.URL.Query().Get("id"); rawID != "" {
				reportID, err := uuid.Parse(rawID)
				if err != nil {
					http.Error(w, "Invalid report ID", http.StatusBadRequest)
					return
				}
				result, err := s.request(s.Engine.GetReportActor(), &actors.GetReportMsg{
					ReportID:    reportID,
					RequesterID: requesterID,
					IsAdmin:     isAdmin,
				})
				if err != nil {
					s.respondError(w, err)
					return
				}
				s.respond(w, result)
				return
			}

			result, err := s.request(s.Engine.GetReportActor(), &actors.GetUserReportsMsg{UserID: requesterID})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleAnonymousReport handles POST /reports/anonymous. This route is
// deliberately unauthenticated; nothing ties the submission to a user.
func (s *Server) HandleAnonymousReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		var req AnonymousReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.request(s.Engine.GetReportActor(), &actors.SubmitAnonymousReportMsg{
			Category:    models.ReportCategory(req.Category),
			Description: req.Description,
		})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}

// requireAdmin guards staff-only endpoints.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !middleware.GetIsAdminFromContext(r.Context()) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

// HandleAllReports handles GET /reports/all. Admin only.
func (s *Server) HandleAllReports() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()
		if !s.requireAdmin(w, r) {
			return
		}

		result, err := s.request(s.Engine.GetReportActor(), &actors.GetAllReportsMsg{})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}

// HandleAllAnonymousReports handles GET /reports/anonymous/all. Admin only.
func (s *Server) HandleAllAnonymousReports() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()
		if !s.requireAdmin(w, r) {
			return
		}

		result, err := s.request(s.Engine.GetReportActor(), &actors.GetAnonymousReportsMsg{})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}

// HandleAssignReport handles POST /reports/assign. Admin only.
func (s *Server) HandleAssignReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()
		if !s.requireAdmin(w, r) {
			return
		}

		var req AssignReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		reportID, err := uuid.Parse(req.ReportID)
		if err != nil {
			http.Error(w, "Invalid report ID", http.StatusBadRequest)
			return
		}
		departmentID, err := uuid.Parse(req.DepartmentID)
		if err != nil {
			http.Error(w, "Invalid department ID", http.StatusBadRequest)
			return
		}

		result, err := s.request(s.Engine.GetReportActor(), &actors.AssignReportMsg{
			ReportID:     reportID,
			DepartmentID: departmentID,
		})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}

// HandleUpdateReportStatus handles POST /reports/status. Admin only.
func (s *Server) HandleUpdateReportStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()
		if !s.requireAdmin(w, r) {
			return
		}

		var req UpdateReportStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		reportID, err := uuid.Parse(req.ReportID)
		if err != nil {
			http.Error(w, "Invalid report ID", http.StatusBadRequest)
			return
		}

		result, err := s.request(s.Engine.GetReportActor(), &actors.UpdateReportStatusMsg{
			ReportID: reportID,
			Status:   models.ReportStatus(req.Status),
		})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}
