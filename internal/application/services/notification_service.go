package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/infrastructure/logger"
	"github.com/railis/core/internal/ports"
)

const (
	recentActivityLimit = 10

	// Matches the clients' 60s notification poll interval.
	unreadCountTTL = time.Minute
)

// NotificationService turns domain events into notification rows and serves
// per-user notification reads.
type NotificationService struct {
	notificationRepo ports.NotificationRepository
	taskRepo         ports.TaskRepository
	cache            ports.CacheRepository
	logger           *logger.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo ports.NotificationRepository,
	taskRepo ports.TaskRepository,
	cache ports.CacheRepository,
	logger *logger.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		taskRepo:         taskRepo,
		cache:            cache,
		logger:           logger,
	}
}

// Dispatch fans a domain event out to the affected user. Unknown event types
// are an error so new events can't be silently dropped.
func (s *NotificationService) Dispatch(ctx context.Context, event entities.Event) error {
	switch e := event.(type) {
	case entities.TaskAssigned:
		return s.create(ctx, &entities.Notification{
			UserID:    e.Task.WorkerID,
			Message:   fmt.Sprintf("You have been assigned a new task: %s", e.Task.Title),
			Type:      entities.NotificationTaskAssigned,
			RelatedID: relatedTask(e.Task),
		})

	case entities.TaskCompleted:
		// The counterpart of whoever completed the task is told about it.
		message := fmt.Sprintf("Your task %q has been marked as completed", e.Task.Title)
		if e.ActorID == e.Task.LeaderID {
			message = fmt.Sprintf("The task %q has been marked as completed", e.Task.Title)
		}
		return s.create(ctx, &entities.Notification{
			UserID:    e.Task.Counterpart(e.ActorID),
			Message:   message,
			Type:      entities.NotificationTaskCompleted,
			RelatedID: relatedTask(e.Task),
		})

	case entities.EvidenceUploaded:
		return s.create(ctx, &entities.Notification{
			UserID:    e.Task.LeaderID,
			Message:   fmt.Sprintf("Evidence has been uploaded for the task %q", e.Task.Title),
			Type:      entities.NotificationEvidenceUploaded,
			RelatedID: relatedTask(e.Task),
		})

	case entities.CommentAdded:
		return s.create(ctx, &entities.Notification{
			UserID:    e.Task.Counterpart(e.ActorID),
			Message:   fmt.Sprintf("New comment on the task %q", e.Task.Title),
			Type:      entities.NotificationCommentAdded,
			RelatedID: relatedTask(e.Task),
		})

	case entities.MessageReceived:
		return s.create(ctx, &entities.Notification{
			UserID:  e.ReceiverID,
			Message: fmt.Sprintf("New message from %s", e.SenderName),
			Type:    entities.NotificationMessageReceived,
		})

	default:
		return fmt.Errorf("unknown event type %T", event)
	}
}

// List returns the actor's notifications, newest first, optionally filtered
// by read state.
func (s *NotificationService) List(ctx context.Context, actor ports.Actor, read *bool) ([]*entities.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, actor.ID, read)
}

// MarkRead flips a notification's read flag. Only the notification's owner
// may do so; others get a not-found error.
func (s *NotificationService) MarkRead(ctx context.Context, actor ports.Actor, id uuid.UUID, read bool) (*entities.Notification, error) {
	n, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != actor.ID {
		return nil, entities.ErrNotificationNotFound
	}

	updated, err := s.notificationRepo.SetRead(ctx, id, read)
	if err != nil {
		return nil, err
	}

	s.invalidateCount(ctx, actor.ID)

	return updated, nil
}

// UnreadCount returns the actor's unread notification count. The count is
// cached briefly since clients poll it.
func (s *NotificationService) UnreadCount(ctx context.Context, actor ports.Actor) (int64, error) {
	key := countKey(actor.ID)

	var cached int64
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, ports.ErrCacheMiss) {
		s.logger.Warn("Unread count cache read failed", "error", err, "user_id", actor.ID)
	}

	count, err := s.notificationRepo.CountUnread(ctx, actor.ID)
	if err != nil {
		return 0, err
	}

	if err := s.cache.Set(ctx, key, count, unreadCountTTL); err != nil {
		s.logger.Warn("Unread count cache write failed", "error", err, "user_id", actor.ID)
	}

	return count, nil
}

// RecentActivity returns the newest notifications relevant to the actor. For
// leaders that includes notifications attached to their tasks, so they see
// worker-side activity too.
func (s *NotificationService) RecentActivity(ctx context.Context, actor ports.Actor) ([]*entities.Notification, error) {
	var taskIDs []uuid.UUID
	if actor.IsLeader() {
		tasks, err := s.taskRepo.List(ctx, ports.TaskScope(actor.ID, actor.Role))
		if err != nil {
			return nil, err
		}
		for _, t := range tasks {
			taskIDs = append(taskIDs, t.ID)
		}
	}

	return s.notificationRepo.ListActivity(ctx, actor.ID, taskIDs, recentActivityLimit)
}

func (s *NotificationService) create(ctx context.Context, n *entities.Notification) error {
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}

	s.invalidateCount(ctx, n.UserID)
	return nil
}

func (s *NotificationService) invalidateCount(ctx context.Context, userID uuid.UUID) {
	if err := s.cache.Delete(ctx, countKey(userID)); err != nil {
		s.logger.Warn("Unread count cache invalidation failed", "error", err, "user_id", userID)
	}
}

func countKey(userID uuid.UUID) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

func relatedTask(t *entities.Task) *uuid.UUID {
	id := t.ID
	return &id
}
