package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/engine/actors"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/middleware"

	"github.com/google/uuid"
)

// MarkReadRequest names the notification to mark as read
type MarkReadRequest struct {
	NotificationID string `json:"notificationId"`
}

// HandleNotifications handles GET /notifications (unread list) and
// POST /notifications (mark one read).
func (s *Server) HandleNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()
		requesterID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		switch r.Method {
		case http.MethodGet:
			result, err := s.request(s.Engine.GetNotificationActor(),
				&actors.GetUnreadNotificationsMsg{UserID: requesterID})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodPost:
			var req MarkReadRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			notificationID, err := uuid.Parse(req.NotificationID)
			if err != nil {
				http.Error(w, "Invalid notification ID", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetNotificationActor(), &actors.MarkNotificationReadMsg{
				NotificationID: notificationID,
				RequesterID:    requesterID,
			})
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

// HandleNotificationCount handles GET /notifications/count.
func (s *Server) HandleNotificationCount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		requesterID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		result, err := s.request(s.Engine.GetNotificationActor(),
			&actors.CountUnreadNotificationsMsg{UserID: requesterID})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, map[string]interface{}{"unread": result})
	}
}
