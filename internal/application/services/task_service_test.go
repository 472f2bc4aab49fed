package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/infrastructure/logger"
	"github.com/railis/core/internal/ports"
)

func newTaskFixture() (leader, worker ports.Actor, users *fakeUserRepo) {
	leaderUser := &entities.User{ID: uuid.New(), Name: "Lina", Email: "lina@example.com", Role: entities.UserRoleLeader}
	workerUser := &entities.User{ID: uuid.New(), Name: "Wes", Email: "wes@example.com", Role: entities.UserRoleWorker}

	leader = ports.Actor{ID: leaderUser.ID, Name: leaderUser.Name, Email: leaderUser.Email, Role: leaderUser.Role}
	worker = ports.Actor{ID: workerUser.ID, Name: workerUser.Name, Email: workerUser.Email, Role: workerUser.Role}

	return leader, worker, newFakeUserRepo(leaderUser, workerUser)
}

func newTestTaskService(tasks *fakeTaskRepo, users *fakeUserRepo) (*TaskService, *eventRecorder, *fakeStorage) {
	recorder := &eventRecorder{}
	store := newFakeStorage()
	svc := NewTaskService(tasks, users, store, recorder, logger.NewNop())
	return svc, recorder, store
}

func TestCreateTask(t *testing.T) {
	leader, worker, users := newTaskFixture()
	tasks := newFakeTaskRepo()
	svc, recorder, _ := newTestTaskService(tasks, users)

	req := ports.CreateTaskRequest{
		Title:       "Prepare report",
		Description: "Quarterly numbers",
		Deadline:    time.Now().AddDate(0, 0, 7),
		WorkerID:    worker.ID,
	}

	task, err := svc.CreateTask(context.Background(), leader, req)
	require.NoError(t, err)

	assert.Equal(t, entities.TaskStatusPending, task.Status)
	assert.Equal(t, leader.ID, task.LeaderID)
	assert.Equal(t, worker.ID, task.WorkerID)

	require.Len(t, recorder.events, 1)
	assigned, ok := recorder.events[0].(entities.TaskAssigned)
	require.True(t, ok)
	assert.Equal(t, task.ID, assigned.Task.ID)
}

func TestCreateTaskRequiresLeader(t *testing.T) {
	_, worker, users := newTaskFixture()
	svc, _, _ := newTestTaskService(newFakeTaskRepo(), users)

	_, err := svc.CreateTask(context.Background(), worker, ports.CreateTaskRequest{
		Title:       "Nope",
		Description: "Workers cannot create tasks",
		Deadline:    time.Now().AddDate(0, 0, 1),
		WorkerID:    worker.ID,
	})

	assert.ErrorIs(t, err, entities.ErrForbidden)
}

func TestCreateTaskUnknownWorker(t *testing.T) {
	leader, _, users := newTaskFixture()
	svc, _, _ := newTestTaskService(newFakeTaskRepo(), users)

	_, err := svc.CreateTask(context.Background(), leader, ports.CreateTaskRequest{
		Title:       "Orphan",
		Description: "Assignee does not exist",
		Deadline:    time.Now().AddDate(0, 0, 1),
		WorkerID:    uuid.New(),
	})

	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}

func TestCreateTaskAssigneeMustBeWorker(t *testing.T) {
	leader, _, users := newTaskFixture()

	otherLeader := &entities.User{ID: uuid.New(), Name: "Omid", Email: "omid@example.com", Role: entities.UserRoleLeader}
	users.users[otherLeader.ID] = otherLeader

	svc, _, _ := newTestTaskService(newFakeTaskRepo(), users)

	_, err := svc.CreateTask(context.Background(), leader, ports.CreateTaskRequest{
		Title:       "Misassigned",
		Description: "Leaders cannot be assignees",
		Deadline:    time.Now().AddDate(0, 0, 1),
		WorkerID:    otherLeader.ID,
	})

	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}

func TestUpdateTaskReassignToLeaderRejected(t *testing.T) {
	leader, worker, users := newTaskFixture()

	otherLeader := &entities.User{ID: uuid.New(), Name: "Omid", Email: "omid@example.com", Role: entities.UserRoleLeader}
	users.users[otherLeader.ID] = otherLeader

	task := &entities.Task{Title: "Reassign", Status: entities.TaskStatusPending, LeaderID: leader.ID, WorkerID: worker.ID}
	tasks := newFakeTaskRepo(task)
	svc, _, _ := newTestTaskService(tasks, users)

	_, err := svc.UpdateTask(context.Background(), leader, task.ID, ports.UpdateTaskRequest{WorkerID: &otherLeader.ID})
	assert.ErrorIs(t, err, entities.ErrUserNotFound)

	assert.Equal(t, worker.ID, tasks.tasks[task.ID].WorkerID)
}

func TestWorkerStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		status  entities.TaskStatus
		wantErr error
	}{
		{"worker may start work", entities.TaskStatusInProgress, nil},
		{"worker may complete", entities.TaskStatusCompleted, nil},
		{"worker may not reset to pending", entities.TaskStatusPending, entities.ErrInvalidStatus},
		{"worker may not reject", entities.TaskStatusRejected, entities.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leader, worker, users := newTaskFixture()
			tasks := newFakeTaskRepo(&entities.Task{
				Title:    "Assigned",
				Status:   entities.TaskStatusPending,
				LeaderID: leader.ID,
				WorkerID: worker.ID,
			})
			svc, _, _ := newTestTaskService(tasks, users)

			var taskID uuid.UUID
			for id := range tasks.tasks {
				taskID = id
			}

			status := tt.status
			_, err := svc.UpdateTask(context.Background(), worker, taskID, ports.UpdateTaskRequest{Status: &status})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.status, tasks.tasks[taskID].Status)
			}
		})
	}
}

func TestWorkerCannotEditFields(t *testing.T) {
	leader, worker, users := newTaskFixture()
	task := &entities.Task{Title: "Locked", Status: entities.TaskStatusPending, LeaderID: leader.ID, WorkerID: worker.ID}
	tasks := newFakeTaskRepo(task)
	svc, _, _ := newTestTaskService(tasks, users)

	title := "Hijacked"
	_, err := svc.UpdateTask(context.Background(), worker, task.ID, ports.UpdateTaskRequest{Title: &title})

	assert.ErrorIs(t, err, entities.ErrForbidden)
}

func TestCompletionNotifiesOnce(t *testing.T) {
	leader, worker, users := newTaskFixture()
	task := &entities.Task{Title: "Finish me", Status: entities.TaskStatusInProgress, LeaderID: leader.ID, WorkerID: worker.ID}
	tasks := newFakeTaskRepo(task)
	svc, recorder, _ := newTestTaskService(tasks, users)

	completed := entities.TaskStatusCompleted

	_, err := svc.UpdateTask(context.Background(), worker, task.ID, ports.UpdateTaskRequest{Status: &completed})
	require.NoError(t, err)
	require.Len(t, recorder.events, 1)

	event, ok := recorder.events[0].(entities.TaskCompleted)
	require.True(t, ok)
	assert.Equal(t, worker.ID, event.ActorID)

	// Updating an already completed task must not notify again.
	_, err = svc.UpdateTask(context.Background(), worker, task.ID, ports.UpdateTaskRequest{Status: &completed})
	require.NoError(t, err)
	assert.Len(t, recorder.events, 1)
}

func TestGetTaskHiddenFromOutsiders(t *testing.T) {
	leader, worker, users := newTaskFixture()
	task := &entities.Task{Title: "Private", Status: entities.TaskStatusPending, LeaderID: leader.ID, WorkerID: worker.ID}
	tasks := newFakeTaskRepo(task)
	svc, _, _ := newTestTaskService(tasks, users)

	outsider := ports.Actor{ID: uuid.New(), Role: entities.UserRoleWorker}
	_, err := svc.GetTask(context.Background(), outsider, task.ID)

	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestDeleteTaskNotOwner(t *testing.T) {
	leader, worker, users := newTaskFixture()
	task := &entities.Task{Title: "Keep", Status: entities.TaskStatusPending, LeaderID: leader.ID, WorkerID: worker.ID}
	tasks := newFakeTaskRepo(task)
	svc, _, _ := newTestTaskService(tasks, users)

	otherLeader := ports.Actor{ID: uuid.New(), Role: entities.UserRoleLeader}
	err := svc.DeleteTask(context.Background(), otherLeader, task.ID)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)

	// The assigned worker cannot delete either.
	err = svc.DeleteTask(context.Background(), worker, task.ID)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)

	require.NoError(t, svc.DeleteTask(context.Background(), leader, task.ID))
	assert.Empty(t, tasks.tasks)
}

func TestUploadEvidenceCompletesTask(t *testing.T) {
	leader, worker, users := newTaskFixture()
	task := &entities.Task{Title: "Prove it", Status: entities.TaskStatusInProgress, LeaderID: leader.ID, WorkerID: worker.ID}
	tasks := newFakeTaskRepo(task)
	svc, recorder, store := newTestTaskService(tasks, users)

	ev, err := svc.UploadEvidence(context.Background(), worker, ports.UploadEvidenceRequest{
		TaskID:      task.ID,
		Description: "Signed delivery note",
		Filename:    "note.pdf",
		ContentType: "application/pdf",
		Data:        []byte("pdf-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "http://files.local/evidence/note.pdf", ev.FileURL)
	assert.Equal(t, entities.TaskStatusCompleted, tasks.tasks[task.ID].Status)
	assert.Contains(t, store.saved, "evidence/note.pdf")

	require.Len(t, recorder.events, 1)
	_, ok := recorder.events[0].(entities.EvidenceUploaded)
	assert.True(t, ok)
}

func TestUploadEvidenceWorkerOnly(t *testing.T) {
	leader, worker, users := newTaskFixture()
	task := &entities.Task{Title: "Prove it", Status: entities.TaskStatusInProgress, LeaderID: leader.ID, WorkerID: worker.ID}
	tasks := newFakeTaskRepo(task)
	svc, _, _ := newTestTaskService(tasks, users)

	_, err := svc.UploadEvidence(context.Background(), leader, ports.UploadEvidenceRequest{
		TaskID:   task.ID,
		Filename: "note.pdf",
		Data:     []byte("pdf-bytes"),
	})

	assert.ErrorIs(t, err, entities.ErrForbidden)
}

func TestUploadEvidenceHiddenFromOutsiders(t *testing.T) {
	leader, worker, users := newTaskFixture()
	task := &entities.Task{Title: "Prove it", Status: entities.TaskStatusInProgress, LeaderID: leader.ID, WorkerID: worker.ID}
	tasks := newFakeTaskRepo(task)
	svc, _, store := newTestTaskService(tasks, users)

	outsider := ports.Actor{ID: uuid.New(), Role: entities.UserRoleWorker}
	_, err := svc.UploadEvidence(context.Background(), outsider, ports.UploadEvidenceRequest{
		TaskID:   task.ID,
		Filename: "note.pdf",
		Data:     []byte("pdf-bytes"),
	})

	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
	assert.Empty(t, store.saved)
}

func TestAddCommentNotifiesCounterpart(t *testing.T) {
	leader, worker, users := newTaskFixture()
	task := &entities.Task{Title: "Discuss", Status: entities.TaskStatusPending, LeaderID: leader.ID, WorkerID: worker.ID}
	tasks := newFakeTaskRepo(task)
	svc, recorder, _ := newTestTaskService(tasks, users)

	comment, err := svc.AddComment(context.Background(), leader, ports.CreateCommentRequest{
		TaskID:  task.ID,
		Content: "How is it going?",
	})
	require.NoError(t, err)
	assert.Equal(t, leader.ID, comment.UserID)

	require.Len(t, recorder.events, 1)
	event, ok := recorder.events[0].(entities.CommentAdded)
	require.True(t, ok)
	assert.Equal(t, leader.ID, event.ActorID)

	_, err = svc.AddComment(context.Background(), ports.Actor{ID: uuid.New(), Role: entities.UserRoleWorker}, ports.CreateCommentRequest{
		TaskID:  task.ID,
		Content: "I should not see this task",
	})
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
}

func TestListTasksScopedByRole(t *testing.T) {
	leader, worker, users := newTaskFixture()
	otherLeader := uuid.New()
	tasks := newFakeTaskRepo(
		&entities.Task{Title: "Mine", Status: entities.TaskStatusPending, LeaderID: leader.ID, WorkerID: worker.ID},
		&entities.Task{Title: "Theirs", Status: entities.TaskStatusPending, LeaderID: otherLeader, WorkerID: uuid.New()},
	)
	svc, _, _ := newTestTaskService(tasks, users)

	leaderTasks, err := svc.ListTasks(context.Background(), leader, nil)
	require.NoError(t, err)
	require.Len(t, leaderTasks, 1)
	assert.Equal(t, "Mine", leaderTasks[0].Title)

	workerTasks, err := svc.ListTasks(context.Background(), worker, nil)
	require.NoError(t, err)
	require.Len(t, workerTasks, 1)
	assert.Equal(t, "Mine", workerTasks[0].Title)
}
