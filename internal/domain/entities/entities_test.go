package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTaskAccessFor(t *testing.T) {
	leaderID := uuid.New()
	workerID := uuid.New()
	strangerID := uuid.New()

	task := &Task{LeaderID: leaderID, WorkerID: workerID}

	tests := []struct {
		name   string
		userID uuid.UUID
		role   UserRole
		want   TaskAccess
	}{
		{
			name:   "owning leader gets full rights",
			userID: leaderID,
			role:   UserRoleLeader,
			want:   TaskAccess{Read: true, WriteStatus: true, WriteAll: true, Delete: true},
		},
		{
			name:   "assigned worker gets read and status writes",
			userID: workerID,
			role:   UserRoleWorker,
			want:   TaskAccess{Read: true, WriteStatus: true},
		},
		{
			name:   "other leader gets nothing",
			userID: strangerID,
			role:   UserRoleLeader,
			want:   TaskAccess{},
		},
		{
			name:   "other worker gets nothing",
			userID: strangerID,
			role:   UserRoleWorker,
			want:   TaskAccess{},
		},
		{
			name:   "leader id with worker role is treated as worker",
			userID: leaderID,
			role:   UserRoleWorker,
			want:   TaskAccess{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, task.AccessFor(tt.userID, tt.role))
		})
	}
}

func TestWorkerAssignable(t *testing.T) {
	assert.True(t, TaskStatusInProgress.WorkerAssignable())
	assert.True(t, TaskStatusCompleted.WorkerAssignable())
	assert.False(t, TaskStatusPending.WorkerAssignable())
	assert.False(t, TaskStatusRejected.WorkerAssignable())
}

func TestCompletedOnTime(t *testing.T) {
	deadline := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		status    TaskStatus
		updatedAt time.Time
		want      bool
	}{
		{"completed before deadline", TaskStatusCompleted, deadline.Add(-time.Hour), true},
		{"completed exactly at deadline", TaskStatusCompleted, deadline, true},
		{"completed after deadline", TaskStatusCompleted, deadline.Add(time.Minute), false},
		{"not completed", TaskStatusInProgress, deadline.Add(-time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{Status: tt.status, Deadline: deadline, UpdatedAt: tt.updatedAt}
			assert.Equal(t, tt.want, task.CompletedOnTime())
		})
	}
}

func TestCompletionDays(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		updatedAt time.Time
		want      int
	}{
		{"same instant", created, 0},
		{"under a day rounds up", created.Add(2 * time.Hour), 1},
		{"exactly three days", created.AddDate(0, 0, 3), 3},
		{"three days and an hour rounds up", created.AddDate(0, 0, 3).Add(time.Hour), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{CreatedAt: created, UpdatedAt: tt.updatedAt}
			assert.Equal(t, tt.want, task.CompletionDays())
		})
	}
}

func TestCounterpart(t *testing.T) {
	leaderID := uuid.New()
	workerID := uuid.New()
	task := &Task{LeaderID: leaderID, WorkerID: workerID}

	assert.Equal(t, workerID, task.Counterpart(leaderID))
	assert.Equal(t, leaderID, task.Counterpart(workerID))
}

func TestIsParty(t *testing.T) {
	leaderID := uuid.New()
	workerID := uuid.New()
	task := &Task{LeaderID: leaderID, WorkerID: workerID}

	assert.True(t, task.IsParty(leaderID))
	assert.True(t, task.IsParty(workerID))
	assert.False(t, task.IsParty(uuid.New()))
}
