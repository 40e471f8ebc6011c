package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/engine/actors"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/middleware"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"

	"github.com/google/uuid"
)

// CreateCommentRequest represents a request to create a new comment
type CreateCommentRequest struct {
	Content  string  `json:"content"`
	MediaURL *string `json:"mediaUrl,omitempty"`
	PostID   string  `json:"postId"`
	ParentID string  `json:"parentId,omitempty"` // Optional, for replies
}

// EditCommentRequest represents a request to edit an existing comment
type EditCommentRequest struct {
	CommentID string `json:"commentId"`
	Content   string `json:"content"`
}

// HandleComment handles comment operations:
// POST create, PUT edit, DELETE ?id=, GET ?postId= for top-level comments.
func (s *Server) HandleComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()
		requesterID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		switch r.Method {
		case http.MethodPost:
			var req CreateCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			postID, err := uuid.Parse(req.PostID)
			if err != nil {
				http.Error(w, "Invalid post ID", http.StatusBadRequest)
				return
			}

			var parentID *uuid.UUID
			if req.ParentID != "" {
				parsed, err := uuid.Parse(req.ParentID)
				if err != nil {
					http.Error(w, "Invalid parent comment ID", http.StatusBadRequest)
					return
				}
				parentID = &parsed
			}

			result, err := s.request(s.Engine.GetCommentActor(), &actors.CreateCommentMsg{
				Content:  req.Content,
				MediaURL: req.MediaURL,
				AuthorID: requesterID,
				PostID:   postID,
				ParentID: parentID,
			})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodPut:
			var req EditCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			commentID, err := uuid.Parse(req.CommentID)
			if err != nil {
				http.Error(w, "Invalid comment ID", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetCommentActor(), &actors.EditCommentMsg{
				CommentID: commentID,
				AuthorID:  requesterID,
				Content:   req.Content,
			})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodDelete:
			commentID, err := uuid.Parse(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid comment ID", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetCommentActor(), &actors.DeleteCommentMsg{
				CommentID: commentID,
				AuthorID:  requesterID,
			})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodGet:
			postID, err := uuid.Parse(r.URL.Query().Get("postId"))
			if err != nil {
				http.Error(w, "Invalid post ID", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetCommentActor(), &actors.GetPostCommentsMsg{
				PostID:           postID,
				RequestingUserID: requesterID,
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

// HandleCommentReplies handles GET /comments/replies?commentId= and returns
// the direct children of one comment, oldest first.
func (s *Server) HandleCommentReplies() http.HandlerFunc {
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

		commentID, err := uuid.Parse(r.URL.Query().Get("commentId"))
		if err != nil {
			http.Error(w, "Invalid comment ID", http.StatusBadRequest)
			return
		}

		result, err := s.request(s.Engine.GetCommentActor(), &actors.GetRepliesMsg{
			CommentID:        commentID,
			RequestingUserID: requesterID,
		})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}

// HandleVoteComment handles POST /comments/vote.
func (s *Server) HandleVoteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		requesterID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req VoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		commentID, err := uuid.Parse(req.TargetID)
		if err != nil {
			http.Error(w, "Invalid comment ID", http.StatusBadRequest)
			return
		}

		result, err := s.request(s.Engine.GetCommentActor(), &actors.VoteCommentMsg{
			CommentID: commentID,
			UserID:    requesterID,
			Direction: models.VoteDirection(req.Direction),
		})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}
