package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/engine/actors"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/middleware"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"

	"github.com/google/uuid"
)

// CreatePostRequest represents a request to create a new post
type CreatePostRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	MediaURL *string `json:"mediaUrl,omitempty"`
}

// EditPostRequest carries the editable fields of a post
type EditPostRequest struct {
	PostID   string  `json:"postId"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	MediaURL *string `json:"mediaUrl,omitempty"`
}

// VoteRequest carries a vote direction: "up", "down" or "none" to clear.
type VoteRequest struct {
	TargetID  string `json:"targetId"`
	Direction string `json:"direction"`
}

// HandlePosts handles POST (create), PUT (edit), GET (?id= single,
// ?authorId= list) and DELETE (?id=) on /posts.
func (s *Server) HandlePosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()
		requesterID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		switch r.Method {
		case http.MethodPost:
			var req CreatePostRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetPostActor(), &actors.CreatePostMsg{
				Title:    req.Title,
				Content:  req.Content,
				MediaURL: req.MediaURL,
				AuthorID: requesterID,
			})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodPut:
			var req EditPostRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			postID, err := uuid.Parse(req.PostID)
			if err != nil {
				http.Error(w, "Invalid post ID", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetPostActor(), &actors.EditPostMsg{
				PostID:   postID,
				AuthorID: requesterID,
				Title:    req.Title,
				Content:  req.Content,
				MediaURL: req.MediaURL,
			})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodGet:
			if rawID := r.URL.Query().Get("id"); rawID != "" {
				postID, err := uuid.Parse(rawID)
				if err != nil {
					http.Error(w, "Invalid post ID", http.StatusBadRequest)
					return
				}
				result, err := s.request(s.Engine.GetPostActor(), &actors.GetPostMsg{
					PostID:           postID,
					RequestingUserID: requesterID,
				})
				if err != nil {
					s.respondError(w, err)
					return
				}
				s.respond(w, result)
				return
			}

			authorID := requesterID
			if raw := r.URL.Query().Get("authorId"); raw != "" {
				parsed, err := uuid.Parse(raw)
				if err != nil {
					http.Error(w, "Invalid author ID", http.StatusBadRequest)
					return
				}
				authorID = parsed
			}
			result, err := s.request(s.Engine.GetPostActor(), &actors.GetUserPostsMsg{AuthorID: authorID})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodDelete:
			postID, err := uuid.Parse(r.URL.Query().Get("id"))
			if err != nil {
				http.Error(w, "Invalid post ID", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetPostActor(), &actors.DeletePostMsg{
				PostID: postID,
				UserID: requesterID,
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

// HandleVotePost handles POST /posts/vote.
func (s *Server) HandleVotePost() http.HandlerFunc {
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
		postID, err := uuid.Parse(req.TargetID)
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		result, err := s.request(s.Engine.GetPostActor(), &actors.VotePostMsg{
			PostID:    postID,
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

// HandleSharePost handles POST /posts/share?id=.
func (s *Server) HandleSharePost() http.HandlerFunc {
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

		postID, err := uuid.Parse(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "Invalid post ID", http.StatusBadRequest)
			return
		}

		result, err := s.request(s.Engine.GetPostActor(), &actors.SharePostMsg{
			PostID: postID,
			UserID: requesterID,
		})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}

// HandleFeed handles GET /feed for the authenticated user.
func (s *Server) HandleFeed() http.HandlerFunc {
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

		result, err := s.request(s.Engine.GetFeedActor(), &actors.GetFeedMsg{UserID: requesterID})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}
