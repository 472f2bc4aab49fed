package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/infrastructure/logger"
	"github.com/railis/core/internal/ports"
)

func newTestNotificationService(tasks *fakeTaskRepo) (*NotificationService, *fakeNotificationRepo, *fakeCache) {
	repo := &fakeNotificationRepo{}
	cache := newFakeCache()
	return NewNotificationService(repo, tasks, cache, logger.NewNop()), repo, cache
}

func TestDispatchMessages(t *testing.T) {
	leaderID := uuid.New()
	workerID := uuid.New()
	task := &entities.Task{ID: uuid.New(), Title: "Audit", LeaderID: leaderID, WorkerID: workerID}

	tests := []struct {
		name        string
		event       entities.Event
		wantUser    uuid.UUID
		wantType    entities.NotificationType
		wantMessage string
		wantRelated bool
	}{
		{
			name:        "task assigned notifies worker",
			event:       entities.TaskAssigned{Task: task},
			wantUser:    workerID,
			wantType:    entities.NotificationTaskAssigned,
			wantMessage: "You have been assigned a new task: Audit",
			wantRelated: true,
		},
		{
			name:        "worker completion notifies leader",
			event:       entities.TaskCompleted{Task: task, ActorID: workerID},
			wantUser:    leaderID,
			wantType:    entities.NotificationTaskCompleted,
			wantMessage: `Your task "Audit" has been marked as completed`,
			wantRelated: true,
		},
		{
			name:        "leader completion notifies worker",
			event:       entities.TaskCompleted{Task: task, ActorID: leaderID},
			wantUser:    workerID,
			wantType:    entities.NotificationTaskCompleted,
			wantMessage: `The task "Audit" has been marked as completed`,
			wantRelated: true,
		},
		{
			name:        "evidence notifies leader",
			event:       entities.EvidenceUploaded{Task: task},
			wantUser:    leaderID,
			wantType:    entities.NotificationEvidenceUploaded,
			wantMessage: `Evidence has been uploaded for the task "Audit"`,
			wantRelated: true,
		},
		{
			name:        "comment notifies counterpart",
			event:       entities.CommentAdded{Task: task, ActorID: leaderID},
			wantUser:    workerID,
			wantType:    entities.NotificationCommentAdded,
			wantMessage: `New comment on the task "Audit"`,
			wantRelated: true,
		},
		{
			name:        "message notifies receiver",
			event:       entities.MessageReceived{ReceiverID: workerID, SenderName: "Lina"},
			wantUser:    workerID,
			wantType:    entities.NotificationMessageReceived,
			wantMessage: "New message from Lina",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestNotificationService(newFakeTaskRepo())

			require.NoError(t, svc.Dispatch(context.Background(), tt.event))
			require.Len(t, repo.notifications, 1)

			n := repo.notifications[0]
			assert.Equal(t, tt.wantUser, n.UserID)
			assert.Equal(t, tt.wantType, n.Type)
			assert.Equal(t, tt.wantMessage, n.Message)
			assert.False(t, n.Read)

			if tt.wantRelated {
				require.NotNil(t, n.RelatedID)
				assert.Equal(t, task.ID, *n.RelatedID)
			} else {
				assert.Nil(t, n.RelatedID)
			}
		})
	}
}

func TestMarkReadOwnerOnly(t *testing.T) {
	svc, repo, _ := newTestNotificationService(newFakeTaskRepo())

	ownerID := uuid.New()
	require.NoError(t, repo.Create(context.Background(), &entities.Notification{
		UserID:  ownerID,
		Message: "hello",
		Type:    entities.NotificationMessageReceived,
	}))
	id := repo.notifications[0].ID

	owner := ports.Actor{ID: ownerID, Role: entities.UserRoleWorker}
	updated, err := svc.MarkRead(context.Background(), owner, id, true)
	require.NoError(t, err)
	assert.True(t, updated.Read)

	stranger := ports.Actor{ID: uuid.New(), Role: entities.UserRoleWorker}
	_, err = svc.MarkRead(context.Background(), stranger, id, false)
	assert.ErrorIs(t, err, entities.ErrNotificationNotFound)
}

func TestUnreadCountCaching(t *testing.T) {
	svc, repo, cache := newTestNotificationService(newFakeTaskRepo())

	userID := uuid.New()
	actor := ports.Actor{ID: userID, Role: entities.UserRoleWorker}

	require.NoError(t, repo.Create(context.Background(), &entities.Notification{
		UserID: userID, Message: "one", Type: entities.NotificationMessageReceived,
	}))

	count, err := svc.UnreadCount(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Contains(t, cache.values, countKey(userID))

	// A new notification through Dispatch invalidates the cached count.
	require.NoError(t, svc.Dispatch(context.Background(), entities.MessageReceived{ReceiverID: userID, SenderName: "Omid"}))
	assert.NotContains(t, cache.values, countKey(userID))

	count, err = svc.UnreadCount(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRecentActivityIncludesLeaderTasks(t *testing.T) {
	leaderID := uuid.New()
	workerID := uuid.New()
	task := &entities.Task{ID: uuid.New(), Title: "Audit", LeaderID: leaderID, WorkerID: workerID}
	tasks := newFakeTaskRepo(task)

	svc, repo, _ := newTestNotificationService(tasks)

	// Addressed to the worker but related to the leader's task.
	require.NoError(t, repo.Create(context.Background(), &entities.Notification{
		UserID: workerID, Message: "assigned", Type: entities.NotificationTaskAssigned, RelatedID: &task.ID,
	}))
	// Addressed to the leader directly.
	require.NoError(t, repo.Create(context.Background(), &entities.Notification{
		UserID: leaderID, Message: "completed", Type: entities.NotificationTaskCompleted, RelatedID: &task.ID,
	}))

	leader := ports.Actor{ID: leaderID, Role: entities.UserRoleLeader}
	activity, err := svc.RecentActivity(context.Background(), leader)
	require.NoError(t, err)
	assert.Len(t, activity, 2)

	// The worker only sees their own.
	worker := ports.Actor{ID: workerID, Role: entities.UserRoleWorker}
	activity, err = svc.RecentActivity(context.Background(), worker)
	require.NoError(t, err)
	assert.Len(t, activity, 1)
}
