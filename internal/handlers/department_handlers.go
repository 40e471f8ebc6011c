package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/engine/actors"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/middleware"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"

	"github.com/google/uuid"
)

// CreateDepartmentRequest creates a government department
type CreateDepartmentRequest struct {
	Name string `json:"name"`
}

// SetDepartmentActiveRequest toggles a department's active flag
type SetDepartmentActiveRequest struct {
	DepartmentID string `json:"departmentId"`
	Active       bool   `json:"active"`
}

// ProjectUpdateRequest publishes a project update for a department
type ProjectUpdateRequest struct {
	DepartmentID string  `json:"departmentId"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Milestone    *string `json:"milestone,omitempty"`
	Status       string  `json:"status,omitempty"`
	MediaURL     *string `json:"mediaUrl,omitempty"`
}

// CreatePollRequest creates a poll with at least two options
type CreatePollRequest struct {
	DepartmentID string   `json:"departmentId"`
	Title        string   `json:"title"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	MediaURL     *string  `json:"mediaUrl,omitempty"`
}

// VotePollRequest casts a vote on one poll option
type VotePollRequest struct {
	OptionID string `json:"optionId"`
}

// GovNotificationRequest publishes a government notification
type GovNotificationRequest struct {
	DepartmentID   string  `json:"departmentId"`
	Message        string  `json:"message"`
	TargetAudience *string `json:"targetAudience,omitempty"`
	IsBroadcast    bool    `json:"isBroadcast"`
	MediaURL       *string `json:"mediaUrl,omitempty"`
}

// DepartmentPostRequest publishes an announcement post for a department
type DepartmentPostRequest struct {
	DepartmentID string  `json:"departmentId"`
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	Category     string  `json:"category,omitempty"`
	MediaURL     *string `json:"mediaUrl,omitempty"`
}

// FeedbackRequest submits citizen feedback to a department
type FeedbackRequest struct {
	DepartmentID    string  `json:"departmentId"`
	ProjectUpdateID *string `json:"projectUpdateId,omitempty"`
	Content         string  `json:"content"`
	MediaURL        *string `json:"mediaUrl,omitempty"`
}

// HandleDepartments handles POST /departments (create, admin only) and
// GET /departments (?id= single, otherwise all).
func (s *Server) HandleDepartments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		switch r.Method {
		case http.MethodPost:
			userID, ok := middleware.GetUserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			var req CreateDepartmentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetDepartmentActor(), &actors.CreateDepartmentMsg{
				UserID: userID,
				Name:   req.Name,
			})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodGet:
			if rawID := r.URL.Query().Get("id"); rawID != "" {
				departmentID, err := uuid.Parse(rawID)
				if err != nil {
					http.Error(w, "Invalid department ID", http.StatusBadRequest)
					return
				}
				result, err := s.request(s.Engine.GetDepartmentActor(), &actors.GetDepartmentMsg{DepartmentID: departmentID})
				if err != nil {
					s.respondError(w, err)
					return
				}
				s.respond(w, result)
				return
			}

			result, err := s.request(s.Engine.GetDepartmentActor(), &actors.GetDepartmentsMsg{})
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

// HandleDepartmentActive handles POST /departments/active. Admin only.
func (s *Server) HandleDepartmentActive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()
		if !s.requireAdmin(w, r) {
			return
		}

		var req SetDepartmentActiveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		departmentID, err := uuid.Parse(req.DepartmentID)
		if err != nil {
			http.Error(w, "Invalid department ID", http.StatusBadRequest)
			return
		}

		result, err := s.request(s.Engine.GetDepartmentActor(), &actors.SetDepartmentActiveMsg{
			DepartmentID: departmentID,
			Active:       req.Active,
		})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}

// HandleProjectUpdates handles POST /departments/updates (publish, admin only)
// and GET /departments/updates?departmentId=.
func (s *Server) HandleProjectUpdates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		switch r.Method {
		case http.MethodPost:
			userID, ok := middleware.GetUserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !s.requireAdmin(w, r) {
				return
			}
			var req ProjectUpdateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			departmentID, err := uuid.Parse(req.DepartmentID)
			if err != nil {
				http.Error(w, "Invalid department ID", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetDepartmentActor(), &actors.PublishProjectUpdateMsg{
				DepartmentID: departmentID,
				AuthorID:     userID,
				Title:        req.Title,
				Description:  req.Description,
				Milestone:    req.Milestone,
				Status:       models.ProjectUpdateStatus(req.Status),
				MediaURL:     req.MediaURL,
			})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodGet:
			departmentID, err := uuid.Parse(r.URL.Query().Get("departmentId"))
			if err != nil {
				http.Error(w, "Invalid department ID", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetDepartmentActor(), &actors.GetProjectUpdatesMsg{DepartmentID: departmentID})
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

// HandlePolls handles POST /polls (create, admin only) and GET /polls.
func (s *Server) HandlePolls() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		switch r.Method {
		case http.MethodPost:
			userID, ok := middleware.GetUserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !s.requireAdmin(w, r) {
				return
			}
			var req CreatePollRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			departmentID, err := uuid.Parse(req.DepartmentID)
			if err != nil {
				http.Error(w, "Invalid department ID", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetDepartmentActor(), &actors.CreatePollMsg{
				DepartmentID: departmentID,
				CreatedBy:    userID,
				Title:        req.Title,
				Question:     req.Question,
				Options:      req.Options,
				MediaURL:     req.MediaURL,
			})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodGet:
			result, err := s.request(s.Engine.GetDepartmentActor(), &actors.GetPollsMsg{})
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

// HandleVotePoll handles POST /polls/vote.
func (s *Server) HandleVotePoll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req VotePollRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		optionID, err := uuid.Parse(req.OptionID)
		if err != nil {
			http.Error(w, "Invalid option ID", http.StatusBadRequest)
			return
		}

		result, err := s.request(s.Engine.GetDepartmentActor(), &actors.VotePollMsg{
			UserID:   userID,
			OptionID: optionID,
		})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}

// HandleGovNotifications handles POST /gov/notifications (publish, admin only)
// and GET /gov/notifications.
func (s *Server) HandleGovNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		switch r.Method {
		case http.MethodPost:
			if !s.requireAdmin(w, r) {
				return
			}
			var req GovNotificationRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			departmentID, err := uuid.Parse(req.DepartmentID)
			if err != nil {
				http.Error(w, "Invalid department ID", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetDepartmentActor(), &actors.PublishGovNotificationMsg{
				DepartmentID:   departmentID,
				Message:        req.Message,
				TargetAudience: req.TargetAudience,
				IsBroadcast:    req.IsBroadcast,
				MediaURL:       req.MediaURL,
			})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodGet:
			result, err := s.request(s.Engine.GetDepartmentActor(), &actors.GetGovNotificationsMsg{})
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

// HandleDepartmentPosts handles POST /departments/posts (publish, admin only)
// and GET /departments/posts?departmentId=.
func (s *Server) HandleDepartmentPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		switch r.Method {
		case http.MethodPost:
			userID, ok := middleware.GetUserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !s.requireAdmin(w, r) {
				return
			}
			var req DepartmentPostRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			departmentID, err := uuid.Parse(req.DepartmentID)
			if err != nil {
				http.Error(w, "Invalid department ID", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetDepartmentActor(), &actors.PublishDepartmentPostMsg{
				DepartmentID: departmentID,
				AuthorID:     userID,
				Title:        req.Title,
				Content:      req.Content,
				Category:     models.DepartmentPostCategory(req.Category),
				MediaURL:     req.MediaURL,
			})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodGet:
			departmentID, err := uuid.Parse(r.URL.Query().Get("departmentId"))
			if err != nil {
				http.Error(w, "Invalid department ID", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetDepartmentActor(), &actors.GetDepartmentPostsMsg{DepartmentID: departmentID})
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

// HandleFeedback handles POST /feedback (submit) and GET
// /feedback?departmentId= (list, admin only).
func (s *Server) HandleFeedback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		switch r.Method {
		case http.MethodPost:
			userID, ok := middleware.GetUserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			var req FeedbackRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			departmentID, err := uuid.Parse(req.DepartmentID)
			if err != nil {
				http.Error(w, "Invalid department ID", http.StatusBadRequest)
				return
			}
			var projectUpdateID *uuid.UUID
			if req.ProjectUpdateID != nil {
				id, err := uuid.Parse(*req.ProjectUpdateID)
				if err != nil {
					http.Error(w, "Invalid project update ID", http.StatusBadRequest)
					return
				}
				projectUpdateID = &id
			}
			result, err := s.request(s.Engine.GetDepartmentActor(), &actors.SubmitFeedbackMsg{
				UserID:          userID,
				DepartmentID:    departmentID,
				ProjectUpdateID: projectUpdateID,
				Content:         req.Content,
				MediaURL:        req.MediaURL,
			})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodGet:
			if !s.requireAdmin(w, r) {
				return
			}
			departmentID, err := uuid.Parse(r.URL.Query().Get("departmentId"))
			if err != nil {
				http.Error(w, "Invalid department ID", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetDepartmentActor(), &actors.GetDepartmentFeedbackMsg{DepartmentID: departmentID})
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
