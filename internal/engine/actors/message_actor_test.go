package actors

import (
	"testing"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) sendMessage(t *testing.T, sender, recipient *models.User, content string) *models.Message {
	t.Helper()
	result := e.ask(t, e.message, &SendMessageMsg{
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Content:     content,
	})
	message, ok := result.(*models.Message)
	require.Truef(t, ok, "expected *models.Message, got %v", result)
	return message
}

func TestSendMessageValidation(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)

	result := env.ask(t, env.message, &SendMessageMsg{SenderID: asha.ID, RecipientID: asha.ID, Content: "hi me"})
	assertAppError(t, result, utils.ErrInvalidOperation)

	result = env.ask(t, env.message, &SendMessageMsg{SenderID: asha.ID, RecipientID: uuid.New(), Content: "hi"})
	assertAppError(t, result, utils.ErrUserNotFound)

	result = env.ask(t, env.message, &SendMessageMsg{SenderID: asha.ID, RecipientID: uuid.New(), Content: ""})
	assertAppError(t, result, utils.ErrInvalidInput)
}

func TestConversationReusedBothDirections(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)
	bruno := env.seedUser(t, "bruno", false)

	first := env.sendMessage(t, asha, bruno, "town hall on thursday?")
	time.Sleep(5 * time.Millisecond)
	second := env.sendMessage(t, bruno, asha, "wouldn't miss it")

	// Replying lands in the same conversation, not a new one.
	assert.Equal(t, first.ConversationID, second.ConversationID)

	// History comes back oldest first regardless of who asks.
	result := env.ask(t, env.message, &GetConversationMsg{UserID: bruno.ID, OtherUserID: asha.ID})
	messages, ok := result.([]*models.Message)
	require.Truef(t, ok, "got %v", result)
	require.Len(t, messages, 2)
	assert.Equal(t, "town hall on thursday?", messages[0].Content)
	assert.Equal(t, "asha", messages[0].SenderUsername)
	assert.Equal(t, "wouldn't miss it", messages[1].Content)

	// Both participants see it in their inbox.
	for _, u := range []*models.User{asha, bruno} {
		result = env.ask(t, env.message, &GetInboxMsg{UserID: u.ID})
		inbox, ok := result.([]*models.Conversation)
		require.True(t, ok, "got %T", result)
		require.Len(t, inbox, 1)
		assert.Equal(t, first.ConversationID, inbox[0].ID)
		assert.Len(t, inbox[0].Participants, 2)
	}
}

func TestConversationEmptyForStrangers(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)
	bruno := env.seedUser(t, "bruno", false)

	result := env.ask(t, env.message, &GetConversationMsg{UserID: asha.ID, OtherUserID: bruno.ID})
	messages, ok := result.([]*models.Message)
	require.Truef(t, ok, "got %v", result)
	assert.Empty(t, messages)
}
