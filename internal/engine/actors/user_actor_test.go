package actors

import (
	stdctx "context"
	"testing"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/api"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/middleware"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	result := env.ask(t, env.user, &RegisterUserMsg{
		Username: "asha",
		Email:    "Asha@Example.com",
		Password: "hunter2hunter2",
	})
	user, ok := result.(*models.User)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, "asha", user.Username)
	assert.Equal(t, "asha@example.com", user.Email, "email should be lowercased")
	assert.True(t, user.IsCitizen)
	assert.False(t, user.IsGovernmentAdmin)
	assert.NotEqual(t, "hunter2hunter2", user.HashedPassword)

	// Same email again, different casing.
	result = env.ask(t, env.user, &RegisterUserMsg{
		Username: "asha2",
		Email:    "ASHA@example.com",
		Password: "hunter2hunter2",
	})
	assertAppError(t, result, utils.ErrUserAlreadyExists)

	// Wrong password.
	result = env.ask(t, env.user, &LoginMsg{Email: "asha@example.com", Password: "wrong"})
	login, ok := result.(*api.LoginResponse)
	require.True(t, ok)
	assert.False(t, login.Success)
	assert.Empty(t, login.Token)

	// Correct password yields a token carrying the user's identity.
	result = env.ask(t, env.user, &LoginMsg{Email: "asha@example.com", Password: "hunter2hunter2"})
	login, ok = result.(*api.LoginResponse)
	require.True(t, ok)
	assert.True(t, login.Success)
	assert.Equal(t, user.ID.String(), login.UserID)
	assert.False(t, login.IsGovernmentAdmin)

	claims, err := middleware.ValidateToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.False(t, claims.IsAdmin)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	result := env.ask(t, env.user, &RegisterUserMsg{Username: "", Email: "a@b.com", Password: "pw"})
	assertAppError(t, result, utils.ErrInvalidInput)
}

func TestFollowUnfollow(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)
	bruno := env.seedUser(t, "bruno", false)

	// Self-follow is rejected.
	result := env.ask(t, env.user, &FollowUserMsg{FollowerUserID: asha.ID, TargetUserID: asha.ID})
	assertAppError(t, result, utils.ErrInvalidOperation)

	result = env.ask(t, env.user, &FollowUserMsg{FollowerUserID: asha.ID, TargetUserID: bruno.ID})
	status, ok := result.(*models.StatusResponse)
	require.True(t, ok, "got %T", result)
	assert.True(t, status.Success)

	// Duplicate edge.
	result = env.ask(t, env.user, &FollowUserMsg{FollowerUserID: asha.ID, TargetUserID: bruno.ID})
	assertAppError(t, result, utils.ErrDuplicate)

	// Follow counts surface on the profiles.
	result = env.ask(t, env.user, &GetProfileMsg{UserID: bruno.ID})
	profile, ok := result.(*models.Profile)
	require.True(t, ok)
	assert.Equal(t, 1, profile.Followers)
	assert.Equal(t, 0, profile.Following)

	result = env.ask(t, env.user, &GetFollowingMsg{UserID: asha.ID})
	following, ok := result.([]*models.Profile)
	require.True(t, ok)
	require.Len(t, following, 1)
	assert.Equal(t, "bruno", following[0].Username)

	result = env.ask(t, env.user, &GetFollowersMsg{UserID: bruno.ID})
	followers, ok := result.([]*models.Profile)
	require.True(t, ok)
	require.Len(t, followers, 1)
	assert.Equal(t, "asha", followers[0].Username)

	// The follow lands in bruno's notifications. Fanout is async.
	assert.Eventually(t, func() bool {
		n, err := env.db.CountUnreadNotifications(stdctx.Background(), bruno.ID)
		return err == nil && n == 1
	}, 2*time.Second, 20*time.Millisecond)

	result = env.ask(t, env.user, &UnfollowUserMsg{FollowerUserID: asha.ID, TargetUserID: bruno.ID})
	status, ok = result.(*models.StatusResponse)
	require.True(t, ok)
	assert.True(t, status.Success)

	result = env.ask(t, env.user, &GetFollowingMsg{UserID: asha.ID})
	following, ok = result.([]*models.Profile)
	require.True(t, ok)
	assert.Empty(t, following)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)

	avatar := "https://example.com/asha.png"
	result := env.ask(t, env.user, &UpdateProfileMsg{UserID: asha.ID, Bio: "neighborhood watch", AvatarURL: &avatar})
	profile, ok := result.(*models.Profile)
	require.True(t, ok, "got %T", result)
	assert.Equal(t, "neighborhood watch", profile.Bio)
	require.NotNil(t, profile.AvatarURL)
	assert.Equal(t, avatar, *profile.AvatarURL)
}
