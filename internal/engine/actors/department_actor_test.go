package actors

import (
	"testing"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDepartmentRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.seedUser(t, "citizen", false)
	admin := env.seedUser(t, "admin", true)

	result := env.ask(t, env.department, &CreateDepartmentMsg{UserID: citizen.ID, Name: "Roads"})
	assertAppError(t, result, utils.ErrForbidden)

	dept := env.createDepartment(t, admin, "Roads")
	assert.True(t, dept.IsActive, "new departments start active")

	// Duplicate name.
	result = env.ask(t, env.department, &CreateDepartmentMsg{UserID: admin.ID, Name: "Roads"})
	assertAppError(t, result, utils.ErrDuplicate)
}

func TestPublishingGatedOnActiveDepartment(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", true)
	dept := env.createDepartment(t, admin, "Parks")

	result := env.ask(t, env.department, &PublishProjectUpdateMsg{
		DepartmentID: dept.ID,
		AuthorID:     admin.ID,
		Title:        "Mill Road lot",
		Description:  "survey scheduled",
	})
	update, ok := result.(*models.ProjectUpdate)
	require.Truef(t, ok, "got %v", result)
	assert.Equal(t, models.UpdatePending, update.Status, "status defaults to pending")

	env.ask(t, env.department, &SetDepartmentActiveMsg{DepartmentID: dept.ID, Active: false})

	result = env.ask(t, env.department, &PublishProjectUpdateMsg{
		DepartmentID: dept.ID,
		AuthorID:     admin.ID,
		Title:        "blocked",
		Description:  "should not publish",
	})
	assertAppError(t, result, utils.ErrDepartmentInactive)

	result = env.ask(t, env.department, &PublishDepartmentPostMsg{
		DepartmentID: dept.ID,
		AuthorID:     admin.ID,
		Title:        "blocked",
		Content:      "should not publish",
	})
	assertAppError(t, result, utils.ErrDepartmentInactive)

	result = env.ask(t, env.department, &PublishGovNotificationMsg{
		DepartmentID: dept.ID,
		Message:      "should not publish",
	})
	assertAppError(t, result, utils.ErrDepartmentInactive)

	// Feedback still goes through for an inactive department.
	citizen := env.seedUser(t, "citizen", false)
	result = env.ask(t, env.department, &SubmitFeedbackMsg{
		UserID:       citizen.ID,
		DepartmentID: dept.ID,
		Content:      "please reopen the park office",
	})
	fb, ok := result.(*models.Feedback)
	require.Truef(t, ok, "got %v", result)
	assert.Equal(t, dept.ID, fb.DepartmentID)
}

func TestPolls(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin", true)
	voter := env.seedUser(t, "voter", false)
	dept := env.createDepartment(t, admin, "Parks")

	// A poll needs at least two options.
	result := env.ask(t, env.department, &CreatePollMsg{
		DepartmentID: dept.ID,
		CreatedBy:    admin.ID,
		Title:        "lot",
		Question:     "what should it become?",
		Options:      []string{"garden"},
	})
	assertAppError(t, result, utils.ErrInvalidInput)

	result = env.ask(t, env.department, &CreatePollMsg{
		DepartmentID: dept.ID,
		CreatedBy:    admin.ID,
		Title:        "lot",
		Question:     "what should it become?",
		Options:      []string{"garden", "playground", "parking"},
	})
	poll, ok := result.(*models.Poll)
	require.Truef(t, ok, "got %v", result)
	require.Len(t, poll.Options, 3)

	result = env.ask(t, env.department, &VotePollMsg{UserID: voter.ID, OptionID: poll.Options[0].ID})
	status, ok := result.(*models.StatusResponse)
	require.True(t, ok, "got %T", result)
	assert.True(t, status.Success)

	// One vote per user per poll, even on a different option.
	result = env.ask(t, env.department, &VotePollMsg{UserID: voter.ID, OptionID: poll.Options[1].ID})
	assertAppError(t, result, utils.ErrDuplicate)

	result = env.ask(t, env.department, &GetPollsMsg{})
	polls, ok := result.([]*models.Poll)
	require.True(t, ok, "got %T", result)
	require.Len(t, polls, 1)
	assert.Equal(t, 1, polls[0].Options[0].Votes)
}
