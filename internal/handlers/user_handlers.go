package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/engine/actors"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/middleware"

	"github.com/google/uuid"
)

// RegisterUserRequest represents a request to create a new account
type RegisterUserRequest struct {
	Username          string `json:"username"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	IsGovernmentAdmin bool   `json:"isGovernmentAdmin"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the editable profile fields
type UpdateProfileRequest struct {
	Bio       string  `json:"bio"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// FollowRequest names the user to follow or unfollow
type FollowRequest struct {
	TargetUserID string `json:"targetUserId"`
}

// HandleRegister handles POST /user/register.
func (s *Server) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		var req RegisterUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := s.request(s.Engine.GetUserActor(), &actors.RegisterUserMsg{
			Username:          req.Username,
			Email:             req.Email,
			Password:          req.Password,
			IsGovernmentAdmin: req.IsGovernmentAdmin,
		})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}

// HandleLogin handles POST /user/login.
func (s *Server) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		log.Printf("Processing login request for email: %s", req.Email)
		result, err := s.request(s.Engine.GetUserActor(), &actors.LoginMsg{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}

// HandleProfile handles GET and PUT /user/profile.
// GET takes an optional ?userId= to view someone else's profile.
func (s *Server) HandleProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()
		requesterID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		switch r.Method {
		case http.MethodGet:
			targetID := requesterID
			if raw := r.URL.Query().Get("userId"); raw != "" {
				parsed, err := uuid.Parse(raw)
				if err != nil {
					http.Error(w, "Invalid user ID", http.StatusBadRequest)
					return
				}
				targetID = parsed
			}
			result, err := s.request(s.Engine.GetUserActor(), &actors.GetProfileMsg{UserID: targetID})
			if err != nil {
				s.respondError(w, err)
				return
			}
			s.respond(w, result)

		case http.MethodPut:
			var req UpdateProfileRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			result, err := s.request(s.Engine.GetUserActor(), &actors.UpdateProfileMsg{
				UserID:    requesterID,
				Bio:       req.Bio,
				AvatarURL: req.AvatarURL,
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

// HandleFollow handles POST (follow) and DELETE (unfollow) /user/follow.
func (s *Server) HandleFollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()
		requesterID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var targetID uuid.UUID
		switch r.Method {
		case http.MethodPost, http.MethodDelete:
			var req FollowRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			parsed, err := uuid.Parse(req.TargetUserID)
			if err != nil {
				http.Error(w, "Invalid target user ID", http.StatusBadRequest)
				return
			}
			targetID = parsed
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var msg interface{}
		if r.Method == http.MethodPost {
			msg = &actors.FollowUserMsg{FollowerUserID: requesterID, TargetUserID: targetID}
		} else {
			msg = &actors.UnfollowUserMsg{FollowerUserID: requesterID, TargetUserID: targetID}
		}

		result, err := s.request(s.Engine.GetUserActor(), msg)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}

// HandleFollowers handles GET /user/followers?userId=.
func (s *Server) HandleFollowers() http.HandlerFunc {
	return s.handleFollowList(func(userID uuid.UUID) interface{} {
		return &actors.GetFollowersMsg{UserID: userID}
	})
}

// HandleFollowing handles GET /user/following?userId=.
func (s *Server) HandleFollowing() http.HandlerFunc {
	return s.handleFollowList(func(userID uuid.UUID) interface{} {
		return &actors.GetFollowingMsg{UserID: userID}
	})
}

func (s *Server) handleFollowList(makeMsg func(uuid.UUID) interface{}) http.HandlerFunc {
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

		userID := requesterID
		if raw := r.URL.Query().Get("userId"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				http.Error(w, "Invalid user ID", http.StatusBadRequest)
				return
			}
			userID = parsed
		}

		result, err := s.request(s.Engine.GetUserActor(), makeMsg(userID))
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respond(w, result)
	}
}
