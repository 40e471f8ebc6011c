package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/engine/actors"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/middleware"

	"github.com/google/uuid"
)

// SendMessageRequest represents a direct message to another user
type SendMessageRequest struct {
	RecipientID string  `json:"recipientId"`
	Content     string  `json:"content"`
	MediaURL    *string `json:"mediaUrl,omitempty"`
}

// HandleMessages handles POST /messages (send) and GET /messages?userId=
// (full history with that user).
func (s *Server) HandleMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()
		requesterID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		switch r.Method {
		case http.MethodPost:
			var req SendMessageRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			recipientID, err := uuid.Parse(req.RecipientID)
			if err != nil {
				http.Error(w, "Invalid recipient ID", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetMessageActor(), &actors.SendMessageMsg{
				SenderID:    requesterID,
				RecipientID: recipientID,
				Content:     req.Content,
				MediaURL:    req.MediaURL,
			})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodGet:
			otherID, err := uuid.Parse(r.URL.Query().Get("userId"))
			if err != nil {
				http.Error(w, "Invalid user ID", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetMessageActor(), &actors.GetConversationMsg{
				UserID:      requesterID,
				OtherUserID: otherID,
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

// HandleInbox handles GET /messages/inbox: the user's conversations, most
// recently active first.
func (s *Server) HandleInbox() http.HandlerFunc {
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

		result, err := s.request(s.Engine.GetMessageActor(), &actors.GetInboxMsg{UserID: requesterID})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}
