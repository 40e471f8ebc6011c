package handlers

import (
	"log"
	"net/http"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/middleware"
	ws "github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/websocket"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The CORS layer already restricts origins for the REST surface; the
	// websocket endpoint accepts the same clients.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades GET /ws to a websocket connection and registers it
// with the hub. Browsers cannot set an Authorization header on the upgrade
// request, so the JWT is carried in the token query parameter instead.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "token query parameter required", http.StatusUnauthorized)
			return
		}
		claims, err := middleware.ValidateToken(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for user %s: %v", claims.UserID, err)
			return
		}

		client := &ws.Client{
			Hub:    s.Hub,
			UserID: claims.UserID,
			Conn:   conn,
			Send:   make(chan []byte, 32),
		}
		client.Hub.Register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
