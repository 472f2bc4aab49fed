package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/railis/core/internal/domain/entities"
)

// Actor identifies the authenticated caller of a service operation. It is
// passed explicitly instead of being read from ambient request state.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  entities.UserRole
}

// IsLeader reports whether the actor holds the leader role.
func (a Actor) IsLeader() bool {
	return a.Role == entities.UserRoleLeader
}

// AuthService interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*entities.User, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ValidateToken(tokenString string) (*Claims, error)
}

// UserService interface for user management operations
type UserService interface {
	CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*entities.User, error)
	ListUsers(ctx context.Context, actor Actor) ([]*entities.User, error)
	UpdateProfile(ctx context.Context, actor Actor, req UpdateProfileRequest) (*entities.User, error)
}

// TaskService interface for task lifecycle operations
type TaskService interface {
	CreateTask(ctx context.Context, actor Actor, req CreateTaskRequest) (*entities.Task, error)
	GetTask(ctx context.Context, actor Actor, id uuid.UUID) (*entities.Task, error)
	ListTasks(ctx context.Context, actor Actor, status *entities.TaskStatus) ([]*entities.Task, error)
	RecentTasks(ctx context.Context, actor Actor) ([]*entities.Task, error)
	UpdateTask(ctx context.Context, actor Actor, id uuid.UUID, req UpdateTaskRequest) (*entities.Task, error)
	DeleteTask(ctx context.Context, actor Actor, id uuid.UUID) error
	UploadEvidence(ctx context.Context, actor Actor, req UploadEvidenceRequest) (*entities.Evidence, error)
	AddComment(ctx context.Context, actor Actor, req CreateCommentRequest) (*entities.TaskComment, error)
}

// NotificationService interface for notification fan-out and reads
type NotificationService interface {
	EventDispatcher
	List(ctx context.Context, actor Actor, read *bool) ([]*entities.Notification, error)
	MarkRead(ctx context.Context, actor Actor, id uuid.UUID, read bool) (*entities.Notification, error)
	UnreadCount(ctx context.Context, actor Actor) (int64, error)
	RecentActivity(ctx context.Context, actor Actor) ([]*entities.Notification, error)
}

// MessageService interface for direct messaging
type MessageService interface {
	Conversation(ctx context.Context, actor Actor, peerID uuid.UUID) ([]*entities.Message, error)
	Send(ctx context.Context, actor Actor, req SendMessageRequest) (*entities.Message, error)
}

// ReportService interface for aggregate statistics
type ReportService interface {
	Stats(ctx context.Context, actor Actor) (*TaskStats, error)
	WorkerReports(ctx context.Context, actor Actor) ([]*WorkerReport, error)
	MonthlyReport(ctx context.Context, actor Actor) ([]MonthlyBucket, error)
}

// Request/Response Types

// Auth related types
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *entities.User `json:"user"`
}

type Claims struct {
	UserID uuid.UUID         `json:"user_id"`
	Name   string            `json:"name"`
	Email  string            `json:"email"`
	Role   entities.UserRole `json:"role"`
}

// Actor converts validated claims into a service actor.
func (c *Claims) Actor() Actor {
	return Actor{ID: c.UserID, Name: c.Name, Email: c.Email, Role: c.Role}
}

// User related types
type CreateUserRequest struct {
	Name     string            `json:"name" validate:"required,max=100"`
	Email    string            `json:"email" validate:"required,email"`
	Password string            `json:"password" validate:"required,min=6"`
	Role     entities.UserRole `json:"role" validate:"required,oneof=leader worker"`
}

type UpdateProfileRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"omitempty,min=6"`
}

// Task related types
type CreateTaskRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required,max=2000"`
	Deadline    time.Time `json:"deadline" validate:"required"`
	WorkerID    uuid.UUID `json:"worker_id" validate:"required"`
}

type UpdateTaskRequest struct {
	Title       *string              `json:"title" validate:"omitempty,max=200"`
	Description *string              `json:"description" validate:"omitempty,max=2000"`
	Deadline    *time.Time           `json:"deadline"`
	Status      *entities.TaskStatus `json:"status"`
	WorkerID    *uuid.UUID           `json:"worker_id"`
}

type CreateCommentRequest struct {
	TaskID  uuid.UUID `json:"task_id" validate:"required"`
	Content string    `json:"content" validate:"required,max=2000"`
}

// UploadEvidenceRequest carries the already-read multipart payload.
type UploadEvidenceRequest struct {
	TaskID      uuid.UUID
	Description string
	Filename    string
	ContentType string
	Data        []byte
}

// Message related types
type SendMessageRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" validate:"required"`
	Content    string    `json:"content" validate:"required,max=4000"`
}

// Report types

// TaskStats is the role-scoped dashboard aggregate. Rates are whole
// percentages in [0,100]; AvgCompletionTime is whole days.
type TaskStats struct {
	TotalTasks        int `json:"total_tasks"`
	CompletedTasks    int `json:"completed_tasks"`
	PendingTasks      int `json:"pending_tasks"`
	TasksThisMonth    int `json:"tasks_this_month"`
	CompletionRate    int `json:"completion_rate"`
	AvgCompletionTime int `json:"avg_completion_time"`
	CompletedOnTime   int `json:"completed_on_time"`
	OverallEfficiency int `json:"overall_efficiency"`
}

// WorkerReport is the per-worker performance row, scoped to tasks the
// reporting leader assigned to that worker.
type WorkerReport struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	TotalTasks        int       `json:"total_tasks"`
	CompletedTasks    int       `json:"completed_tasks"`
	CompletionRate    int       `json:"completion_rate"`
	OnTimeRate        int       `json:"on_time_rate"`
	AvgCompletionTime int       `json:"avg_completion_time"`
}

// MonthlyBucket is one calendar month of the trailing six-month chart.
type MonthlyBucket struct {
	Month     string `json:"month"`
	Completed int    `json:"completed"`
	Created   int    `json:"created"`
}

// Response types for common structures
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}
