package actors

import (
	stdctx "context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/api"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/database"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/middleware"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Message types for User operations
type (
	RegisterUserMsg struct {
		Username          string `json:"username"`
		Email             string `json:"email"`
		Password          string `json:"password"`
		IsGovernmentAdmin bool   `json:"isGovernmentAdmin"`
	}

	LoginMsg struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	GetUserMsg struct {
		UserID uuid.UUID `json:"userId"`
	}

	GetProfileMsg struct {
		UserID uuid.UUID `json:"userId"`
	}

	UpdateProfileMsg struct {
		UserID    uuid.UUID `json:"userId"`
		Bio       string    `json:"bio"`
		AvatarURL *string   `json:"avatarUrl,omitempty"`
	}

	FollowUserMsg struct {
		FollowerUserID uuid.UUID `json:"followerUserId"`
		TargetUserID   uuid.UUID `json:"targetUserId"`
	}

	UnfollowUserMsg struct {
		FollowerUserID uuid.UUID `json:"followerUserId"`
		TargetUserID   uuid.UUID `json:"targetUserId"`
	}

	GetFollowersMsg struct {
		UserID uuid.UUID `json:"userId"`
	}

	GetFollowingMsg struct {
		UserID uuid.UUID `json:"userId"`
	}

	GetUserCountMsg struct{}
)

// UserActor owns identity and the follow graph. Passwords are bcrypt-hashed
// here before they ever reach the storage layer.
type UserActor struct {
	db              database.DBAdapter
	metrics         *utils.MetricsCollector
	notificationPID *actor.PID
}

func NewUserActor(db database.DBAdapter, metrics *utils.MetricsCollector, notificationPID *actor.PID) actor.Actor {
	return &UserActor{db: db, metrics: metrics, notificationPID: notificationPID}
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func (a *UserActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *actor.Started:
		log.Printf("UserActor started with PID: %v", context.Self())
	case *RegisterUserMsg:
		a.handleRegister(context, msg)
	case *LoginMsg:
		a.handleLogin(context, msg)
	case *GetUserMsg:
		a.handleGetUser(context, msg)
	case *GetProfileMsg:
		a.handleGetProfile(context, msg)
	case *UpdateProfileMsg:
		a.handleUpdateProfile(context, msg)
	case *FollowUserMsg:
		a.handleFollow(context, msg)
	case *UnfollowUserMsg:
		a.handleUnfollow(context, msg)
	case *GetFollowersMsg:
		a.handleGetFollowers(context, msg)
	case *GetFollowingMsg:
		a.handleGetFollowing(context, msg)
	case *GetUserCountMsg:
		ctx := stdctx.Background()
		count, err := a.db.CountUsers(ctx)
		if err != nil {
			context.Respond(err)
			return
		}
		context.Respond(count)
	default:
		log.Printf("UserActor: Unknown message type %T", msg)
	}
}

func (a *UserActor) handleRegister(context actor.Context, msg *RegisterUserMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.Username == "" || msg.Email == "" || msg.Password == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "username, email and password are required", nil))
		return
	}

	email := strings.ToLower(msg.Email)
	if _, err := a.db.GetUserByEmail(ctx, email); err == nil {
		context.Respond(utils.NewAppError(utils.ErrUserAlreadyExists, "email already registered", nil))
		return
	} else if !utils.IsErrorCode(err, utils.ErrUserNotFound) {
		context.Respond(err)
		return
	}

	hashedPassword, err := hashPassword(msg.Password)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "failed to hash password", err))
		return
	}

	user := &models.User{
		ID:                uuid.New(),
		Username:          msg.Username,
		Email:             email,
		HashedPassword:    hashedPassword,
		IsCitizen:         !msg.IsGovernmentAdmin,
		IsGovernmentAdmin: msg.IsGovernmentAdmin,
	}

	if err := a.db.SaveUser(ctx, user); err != nil {
		context.Respond(err)
		return
	}

	log.Printf("UserActor: registered user %s (%s)", user.Username, user.ID)
	a.metrics.AddOperationLatency("register_user", time.Since(startTime))
	context.Respond(user)
}

func (a *UserActor) handleLogin(context actor.Context, msg *LoginMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	user, err := a.db.GetUserByEmail(ctx, strings.ToLower(msg.Email))
	if err != nil {
		log.Printf("Login failed for %s: %v", msg.Email, err)
		context.Respond(&api.LoginResponse{Success: false, Error: "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.Password)); err != nil {
		context.Respond(&api.LoginResponse{Success: false, Error: "Invalid credentials"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.IsGovernmentAdmin)
	if err != nil {
		log.Printf("Failed to generate auth token: %v", err)
		context.Respond(&api.LoginResponse{Success: false, Error: "Authentication error"})
		return
	}

	a.metrics.AddOperationLatency("login", time.Since(startTime))
	context.Respond(&api.LoginResponse{
		Success:           true,
		Token:             token,
		UserID:            user.ID.String(),
		IsGovernmentAdmin: user.IsGovernmentAdmin,
	})
}

func (a *UserActor) handleGetUser(context actor.Context, msg *GetUserMsg) {
	ctx := stdctx.Background()
	user, err := a.db.GetUser(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(user)
}

func (a *UserActor) handleGetProfile(context actor.Context, msg *GetProfileMsg) {
	ctx := stdctx.Background()
	profile, err := a.db.GetProfileByUserID(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(profile)
}

func (a *UserActor) handleUpdateProfile(context actor.Context, msg *UpdateProfileMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if err := a.db.UpdateProfile(ctx, msg.UserID, msg.Bio, msg.AvatarURL); err != nil {
		context.Respond(err)
		return
	}

	profile, err := a.db.GetProfileByUserID(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("update_profile", time.Since(startTime))
	context.Respond(profile)
}

func (a *UserActor) handleFollow(context actor.Context, msg *FollowUserMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	if msg.FollowerUserID == msg.TargetUserID {
		context.Respond(utils.NewAppError(utils.ErrInvalidOperation, "users cannot follow themselves", nil))
		return
	}

	follower, err := a.db.GetProfileByUserID(ctx, msg.FollowerUserID)
	if err != nil {
		context.Respond(err)
		return
	}
	target, err := a.db.GetProfileByUserID(ctx, msg.TargetUserID)
	if err != nil {
		context.Respond(err)
		return
	}

	if err := a.db.CreateFollow(ctx, follower.ID, target.ID); err != nil {
		context.Respond(err)
		return
	}

	if a.notificationPID != nil {
		context.Send(a.notificationPID, &NotifyMsg{
			RecipientID: msg.TargetUserID,
			ActorID:     msg.FollowerUserID,
			Message:     fmt.Sprintf("%s started following you", follower.Username),
		})
	}

	a.metrics.AddOperationLatency("follow_user", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true, Message: "now following " + target.Username})
}

func (a *UserActor) handleUnfollow(context actor.Context, msg *UnfollowUserMsg) {
	startTime := time.Now()
	ctx := stdctx.Background()

	follower, err := a.db.GetProfileByUserID(ctx, msg.FollowerUserID)
	if err != nil {
		context.Respond(err)
		return
	}
	target, err := a.db.GetProfileByUserID(ctx, msg.TargetUserID)
	if err != nil {
		context.Respond(err)
		return
	}

	if err := a.db.DeleteFollow(ctx, follower.ID, target.ID); err != nil {
		context.Respond(err)
		return
	}

	a.metrics.AddOperationLatency("unfollow_user", time.Since(startTime))
	context.Respond(&models.StatusResponse{Success: true, Message: "unfollowed " + target.Username})
}

func (a *UserActor) handleGetFollowers(context actor.Context, msg *GetFollowersMsg) {
	ctx := stdctx.Background()

	profile, err := a.db.GetProfileByUserID(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	followers, err := a.db.GetFollowers(ctx, profile.ID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(followers)
}

func (a *UserActor) handleGetFollowing(context actor.Context, msg *GetFollowingMsg) {
	ctx := stdctx.Background()

	profile, err := a.db.GetProfileByUserID(ctx, msg.UserID)
	if err != nil {
		context.Respond(err)
		return
	}

	following, err := a.db.GetFollowing(ctx, profile.ID)
	if err != nil {
		context.Respond(err)
		return
	}
	context.Respond(following)
}
