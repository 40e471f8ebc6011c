package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/database"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/engine"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds all server dependencies, including the actor system and engine.
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	DB             database.DBAdapter
	Hub            *websocket.Hub
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components.
func NewServer(
	system *actor.ActorSystem,
	context *actor.RootContext,
	eng *engine.Engine,
	metrics *utils.MetricsCollector,
	db database.DBAdapter,
	hub *websocket.Hub,
) *Server {
	return &Server{
		System:         system,
		Context:        context,
		Engine:         eng,
		Metrics:        metrics,
		DB:             db,
		Hub:            hub,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// errorBody is the JSON error payload shape every failing endpoint returns.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// request sends a message to an actor and waits for its reply.
func (s *Server) request(pid *actor.PID, msg interface{}) (interface{}, error) {
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		return nil, utils.NewActorTimeoutError(pid.String())
	}
	return result, nil
}

// respond writes an actor result as JSON. Actors reply with either a payload
// or a *utils.AppError; the error code picks the HTTP status.
func (s *Server) respond(w http.ResponseWriter, result interface{}) {
	if appErr, ok := result.(*utils.AppError); ok {
		s.respondError(w, appErr)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*utils.AppError); ok {
		s.Metrics.IncrementErrors()
		s.respondJSON(w, utils.AppErrorToHTTPStatus(appErr.Code), errorBody{Error: appErr.Message, Code: appErr.Code})
		return
	}
	s.Metrics.IncrementErrors()
	s.respondJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// HandleHealth reports server liveness plus a metrics snapshot.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"metrics": s.Metrics.Snapshot(),
		})
	}
}
