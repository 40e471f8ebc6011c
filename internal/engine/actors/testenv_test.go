package actors

import (
	stdctx "context"
	"testing"
	"time"

	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/database"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/models"
	"github.com/karthi101/residential-issue-reporting-portal-public-bridge/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv spawns the full actor set against an in-memory adapter.
type testEnv struct {
	system       *actor.ActorSystem
	db           *database.MemoryDB
	user         *actor.PID
	post         *actor.PID
	comment      *actor.PID
	notification *actor.PID
	feed         *actor.PID
	message      *actor.PID
	report       *actor.PID
	department   *actor.PID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	system := actor.NewActorSystem()
	db := database.NewMemoryDB()
	metrics := utils.NewMetricsCollector()
	root := system.Root

	notificationPID := root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewNotificationActor(db, metrics, nil)
	}))

	env := &testEnv{
		system:       system,
		db:           db,
		notification: notificationPID,
	}
	env.user = root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewUserActor(db, metrics, notificationPID)
	}))
	env.post = root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewPostActor(db, metrics)
	}))
	env.comment = root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewCommentActor(db, metrics, notificationPID)
	}))
	env.feed = root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewFeedActor(db, metrics)
	}))
	env.message = root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewMessageActor(db, metrics, nil)
	}))
	env.report = root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewReportActor(db, metrics)
	}))
	env.department = root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewDepartmentActor(db, metrics)
	}))
	return env
}

// ask sends a request to an actor and waits for the reply.
func (e *testEnv) ask(t *testing.T, pid *actor.PID, msg interface{}) interface{} {
	t.Helper()
	future := e.system.Root.RequestFuture(pid, msg, 5*time.Second)
	result, err := future.Result()
	require.NoError(t, err)
	return result
}

// seedUser writes a user straight into the adapter, skipping the bcrypt work
// registration does. Login tests go through RegisterUserMsg instead.
func (e *testEnv) seedUser(t *testing.T, username string, admin bool) *models.User {
	t.Helper()
	user := &models.User{
		ID:                uuid.New(),
		Username:          username,
		Email:             username + "@example.com",
		HashedPassword:    "not-a-real-hash",
		IsCitizen:         !admin,
		IsGovernmentAdmin: admin,
	}
	require.NoError(t, e.db.SaveUser(stdctx.Background(), user))
	return user
}

func assertAppError(t *testing.T, result interface{}, code string) *utils.AppError {
	t.Helper()
	appErr, ok := result.(*utils.AppError)
	require.Truef(t, ok, "expected *utils.AppError, got %T", result)
	assert.Equal(t, code, appErr.Code)
	return appErr
}
