package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrMissingFields        = errors.New("missing required fields")
	ErrWrongPassword        = errors.New("current password is incorrect")
)

// Enums and types
type UserRole string

const (
	UserRoleLeader UserRole = "leader"
	UserRoleWorker UserRole = "worker"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusRejected   TaskStatus = "rejected"
)

type NotificationType string

const (
	NotificationTaskAssigned     NotificationType = "task_assigned"
	NotificationTaskCompleted    NotificationType = "task_completed"
	NotificationMessageReceived  NotificationType = "message_received"
	NotificationEvidenceUploaded NotificationType = "evidence_uploaded"
	NotificationCommentAdded     NotificationType = "comment_added"
)

// User represents a registered account. Leaders create and assign tasks,
// workers execute them.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserSummary is the reduced user shape embedded in task and message payloads.
type UserSummary struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	Email string    `json:"email" db:"email"`
}

// Task is the unit of assigned work. A task is visible only to its leader
// and its worker.
type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Deadline    time.Time  `json:"deadline" db:"deadline"`
	Status      TaskStatus `json:"status" db:"status"`
	LeaderID    uuid.UUID  `json:"leader_id" db:"leader_id"`
	WorkerID    uuid.UUID  `json:"worker_id" db:"worker_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`

	Leader   *UserSummary  `json:"leader,omitempty"`
	Worker   *UserSummary  `json:"worker,omitempty"`
	Evidence []Evidence    `json:"evidence,omitempty"`
	Comments []TaskComment `json:"comments,omitempty"`
}

// Evidence is an uploaded artifact proving task completion. Created only by
// the assigned worker; its creation forces the task to completed.
type Evidence struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TaskID      uuid.UUID `json:"task_id" db:"task_id"`
	FileURL     string    `json:"file_url" db:"file_url"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TaskComment is a comment on a task by one of its two parties.
type TaskComment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TaskID    uuid.UUID `json:"task_id" db:"task_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Author *UserSummary `json:"user,omitempty"`
}

// Message is a directed user-to-user message.
type Message struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SenderID   uuid.UUID `json:"sender_id" db:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id" db:"receiver_id"`
	Content    string    `json:"content" db:"content"`
	Read       bool      `json:"read" db:"read"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	Sender   *UserSummary `json:"sender,omitempty"`
	Receiver *UserSummary `json:"receiver,omitempty"`
}

// Notification is a system-generated, per-user, typed message referencing an
// originating task where applicable.
type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Message   string           `json:"message" db:"message"`
	Type      NotificationType `json:"type" db:"type"`
	RelatedID *uuid.UUID       `json:"related_id" db:"related_id"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// TaskAccess describes what a given user may do with a given task.
type TaskAccess struct {
	Read        bool
	WriteStatus bool
	WriteAll    bool
	Delete      bool
}

// AccessFor is the single authorization policy for task operations. The
// owning leader gets full rights, the assigned worker gets read plus
// status-only writes, everyone else gets nothing.
func (t *Task) AccessFor(userID uuid.UUID, role UserRole) TaskAccess {
	switch {
	case role == UserRoleLeader && t.LeaderID == userID:
		return TaskAccess{Read: true, WriteStatus: true, WriteAll: true, Delete: true}
	case t.WorkerID == userID:
		return TaskAccess{Read: true, WriteStatus: true}
	default:
		return TaskAccess{}
	}
}

// IsParty reports whether the user is the task's leader or worker.
func (t *Task) IsParty(userID uuid.UUID) bool {
	return t.LeaderID == userID || t.WorkerID == userID
}

// Counterpart returns the other party relative to the actor.
func (t *Task) Counterpart(actorID uuid.UUID) uuid.UUID {
	if actorID == t.LeaderID {
		return t.WorkerID
	}
	return t.LeaderID
}

// CompletedOnTime reports whether the task was completed at or before its
// deadline. Completion time is approximated by the last update, which is the
// moment the status flipped to completed.
func (t *Task) CompletedOnTime() bool {
	return t.Status == TaskStatusCompleted && !t.UpdatedAt.After(t.Deadline)
}

// CompletionDays returns the whole days between creation and the completing
// update, rounded up.
func (t *Task) CompletionDays() int {
	d := t.UpdatedAt.Sub(t.CreatedAt)
	if d < 0 {
		d = -d
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// IsOverdue reports whether an unfinished task is past its deadline.
func (t *Task) IsOverdue() bool {
	return t.Status != TaskStatusCompleted && time.Now().After(t.Deadline)
}

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleLeader, UserRoleWorker:
		return true
	default:
		return false
	}
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusRejected:
		return true
	default:
		return false
	}
}

// WorkerAssignable reports whether a worker may move a task to this status.
// Workers can start or finish work but cannot reset or reject a task.
func (s TaskStatus) WorkerAssignable() bool {
	return s == TaskStatusInProgress || s == TaskStatusCompleted
}

func (n NotificationType) IsValid() bool {
	switch n {
	case NotificationTaskAssigned, NotificationTaskCompleted, NotificationMessageReceived,
		NotificationEvidenceUploaded, NotificationCommentAdded:
		return true
	default:
		return false
	}
}
