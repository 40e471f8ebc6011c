package actors

import (
	"testing"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyAndMarkRead(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)
	bruno := env.seedUser(t, "bruno", false)

	env.system.Root.Send(env.notification, &NotifyMsg{
		RecipientID: asha.ID,
		ActorID:     bruno.ID,
		Message:     "bruno started following you",
	})

	var unread []*models.Notification
	assert.Eventually(t, func() bool {
		result := env.ask(t, env.notification, &GetUnreadNotificationsMsg{UserID: asha.ID})
		var ok bool
		unread, ok = result.([]*models.Notification)
		return ok && len(unread) == 1
	}, 2*time.Second, 20*time.Millisecond)

	notification := unread[0]
	assert.Equal(t, asha.ID, notification.UserID)
	assert.Equal(t, bruno.ID, notification.ActorID)
	assert.False(t, notification.IsRead)

	// Someone else cannot mark it read.
	result := env.ask(t, env.notification, &MarkNotificationReadMsg{NotificationID: notification.ID, RequesterID: bruno.ID})
	assertAppError(t, result, utils.ErrForbidden)

	result = env.ask(t, env.notification, &MarkNotificationReadMsg{NotificationID: notification.ID, RequesterID: asha.ID})
	status, ok := result.(*models.StatusResponse)
	require.True(t, ok, "got %T", result)
	assert.True(t, status.Success)

	result = env.ask(t, env.notification, &CountUnreadNotificationsMsg{UserID: asha.ID})
	assert.Equal(t, 0, result.(int))
}

func TestSelfNotificationDropped(t *testing.T) {
	env := newTestEnv(t)
	asha := env.seedUser(t, "asha", false)

	env.system.Root.Send(env.notification, &NotifyMsg{
		RecipientID: asha.ID,
		ActorID:     asha.ID,
		Message:     "you did a thing",
	})

	time.Sleep(100 * time.Millisecond)
	result := env.ask(t, env.notification, &CountUnreadNotificationsMsg{UserID: asha.ID})
	assert.Equal(t, 0, result.(int))
}
