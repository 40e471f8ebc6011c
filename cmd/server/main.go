package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/config"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/database"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/engine"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/handlers"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/middleware"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	db, err := openDatabase(cfg)
	if err != nil {
		slog.Error("database init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close(context.Background())

	metrics := utils.NewMetricsCollector()
	hub := websocket.NewHub()
	go hub.Run()

	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, db, metrics, hub)
	server := handlers.NewServer(system, system.Root, eng, metrics, db, hub)

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	mux := http.NewServeMux()
	register := func(path string, h http.HandlerFunc) {
		mux.HandleFunc(path, middleware.ApplyCORS(middleware.ApplyJWTMiddleware(h, path), corsConfig))
	}

	register("/health", server.HandleHealth())

	register("/user/register", server.HandleRegister())
	register("/user/login", server.HandleLogin())
	register("/user/profile", server.HandleProfile())
	register("/user/follow", server.HandleFollow())
	register("/user/followers", server.HandleFollowers())
	register("/user/following", server.HandleFollowing())

	register("/posts", server.HandlePosts())
	register("/posts/vote", server.HandleVotePost())
	register("/posts/share", server.HandleSharePost())
	register("/feed", server.HandleFeed())

	register("/comment", server.HandleComment())
	register("/comment/replies", server.HandleCommentReplies())
	register("/comment/vote", server.HandleVoteComment())

	register("/notifications", server.HandleNotifications())
	register("/notifications/count", server.HandleNotificationCount())

	register("/messages", server.HandleMessages())
	register("/messages/inbox", server.HandleInbox())

	register("/reports", server.HandleReports())
	register("/reports/anonymous", server.HandleAnonymousReport())
	register("/reports/anonymous/all", server.HandleAllAnonymousReports())
	register("/reports/all", server.HandleAllReports())
	register("/reports/assign", server.HandleAssignReport())
	register("/reports/status", server.HandleUpdateReportStatus())

	register("/departments", server.HandleDepartments())
	register("/departments/active", server.HandleDepartmentActive())
	register("/departments/updates", server.HandleProjectUpdates())
	register("/departments/posts", server.HandleDepartmentPosts())
	register("/polls", server.HandlePolls())
	register("/polls/vote", server.HandleVotePoll())
	register("/gov/notifications", server.HandleGovNotifications())
	register("/feedback", server.HandleFeedback())

	register("/dashboard", server.HandleUserDashboard())
	register("/admin/dashboard", server.HandleDashboard())
	register("/admin/departments/activity", server.HandleDepartmentActivity())
	register("/admin/reports/export", server.HandleReportExport())

	// The websocket upgrade authenticates through a query parameter, so it
	// bypasses the header-based JWT middleware.
	mux.HandleFunc("/ws", middleware.ApplyCORS(server.HandleWebSocket(), corsConfig))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("starting server", "addr", addr, "db", cfg.Database.Type)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// openDatabase picks the backend from config. Postgres creates its schema on
// startup; the in-memory adapter is for local development.
func openDatabase(cfg *config.Config) (database.DBAdapter, error) {
	switch cfg.Database.Type {
	case "memory":
		return database.NewMemoryDB(), nil
	default:
		db, err := database.NewPostgresDB(cfg.Database.URI)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := db.InitializeTables(ctx); err != nil {
			return nil, err
		}
		return db, nil
	}
}
