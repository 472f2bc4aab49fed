package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/railis/core/internal/domain/entities"
)

// ErrCacheMiss is returned by CacheRepository.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	List(ctx context.Context) ([]*entities.User, error)
	ListByRole(ctx context.Context, role entities.UserRole) ([]*entities.User, error)
}

// TaskRepository defines the interface for task, evidence and comment data
// operations. Evidence and comments live here because they share the task's
// lifetime: deleting a task cascades to both.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error)
	// GetDetail loads the task with leader/worker summaries, evidence and
	// comments (comments oldest first).
	GetDetail(ctx context.Context, id uuid.UUID) (*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns tasks newest first. The filter must carry the caller's
	// role-derived scope; an unscoped filter is a programming error.
	List(ctx context.Context, filter TaskFilter) ([]*entities.Task, error)
	AddEvidence(ctx context.Context, ev *entities.Evidence) error
	AddComment(ctx context.Context, comment *entities.TaskComment) error
}

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, n *entities.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, read *bool) ([]*entities.Notification, error)
	SetRead(ctx context.Context, id uuid.UUID, read bool) (*entities.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	// ListActivity returns the newest notifications addressed to the user or
	// related to any of the given tasks.
	ListActivity(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID, limit int) ([]*entities.Notification, error)
}

// MessageRepository defines the interface for direct message data operations
type MessageRepository interface {
	Create(ctx context.Context, m *entities.Message) error
	// Conversation returns all messages between the two users, oldest first,
	// with sender and receiver summaries attached.
	Conversation(ctx context.Context, a, b uuid.UUID) ([]*entities.Message, error)
	// MarkRead flags every unread message from sender to receiver as read.
	MarkRead(ctx context.Context, senderID, receiverID uuid.UUID) error
}

// AuthRepository defines the interface for refresh token operations
type AuthRepository interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
	CleanupExpiredTokens(ctx context.Context) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
}

// ObjectStorage defines the interface for evidence file storage
type ObjectStorage interface {
	Save(ctx context.Context, filename, contentType string, data []byte) (objectKey string, err error)
	Delete(ctx context.Context, objectKey string) error
	// PublicURL returns the externally reachable URL for a stored object.
	PublicURL(objectKey string) string
}

// EventDispatcher turns domain events into notification rows. Dispatch is
// best effort: callers log failures and keep the primary effect.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event entities.Event) error
}

// TaskFilter narrows task listings. LeaderID/WorkerID carry the caller's
// access scope.
type TaskFilter struct {
	LeaderID *uuid.UUID
	WorkerID *uuid.UUID
	Status   *entities.TaskStatus
	Limit    int
}

// TaskScope derives the role-based visibility filter applied to every task
// read: leaders see tasks they own, workers see tasks assigned to them.
func TaskScope(userID uuid.UUID, role entities.UserRole) TaskFilter {
	if role == entities.UserRoleLeader {
		return TaskFilter{LeaderID: &userID}
	}
	return TaskFilter{WorkerID: &userID}
}

// RefreshToken represents a refresh token record
type RefreshToken struct {
	ID        int        `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	TokenHash string     `json:"token_hash" db:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	RevokedAt *time.Time `json:"revoked_at" db:"revoked_at"`
}

// IsExpired checks if the refresh token is expired
func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// IsRevoked checks if the refresh token is revoked
func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

// IsValid checks if the refresh token is valid
func (rt *RefreshToken) IsValid() bool {
	return !rt.IsExpired() && !rt.IsRevoked()
}
