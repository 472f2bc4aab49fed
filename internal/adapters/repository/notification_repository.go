package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/ports"
)

// NotificationRepositoryImpl implements the NotificationRepository interface
type NotificationRepositoryImpl struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sqlx.DB) ports.NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, n *entities.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, message, type, related_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		n.ID, n.UserID, n.Message, n.Type, n.RelatedID,
	).Scan(&n.CreatedAt)

	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

func (r *NotificationRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Notification, error) {
	query := `
		SELECT id, user_id, message, type, related_id, read, created_at
		FROM notifications
		WHERE id = $1`

	var n entities.Notification
	err := r.db.GetContext(ctx, &n, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("get notification by id: %w", err)
	}

	return &n, nil
}

func (r *NotificationRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, read *bool) ([]*entities.Notification, error) {
	query := `
		SELECT id, user_id, message, type, related_id, read, created_at
		FROM notifications
		WHERE user_id = $1`

	args := []interface{}{userID}
	if read != nil {
		args = append(args, *read)
		query += fmt.Sprintf(" AND read = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	var notifications []*entities.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, nil
}

func (r *NotificationRepositoryImpl) SetRead(ctx context.Context, id uuid.UUID, read bool) (*entities.Notification, error) {
	query := `
		UPDATE notifications
		SET read = $2
		WHERE id = $1
		RETURNING id, user_id, message, type, related_id, read, created_at`

	var n entities.Notification
	err := r.db.GetContext(ctx, &n, query, id, read)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("set notification read: %w", err)
	}

	return &n, nil
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`

	var count int64
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return count, nil
}

func (r *NotificationRepositoryImpl) ListActivity(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID, limit int) ([]*entities.Notification, error) {
	query := `
		SELECT id, user_id, message, type, related_id, read, created_at
		FROM notifications
		WHERE user_id = $1 OR related_id = ANY($2)
		ORDER BY created_at DESC
		LIMIT $3`

	ids := make([]string, len(taskIDs))
	for i, id := range taskIDs {
		ids[i] = id.String()
	}

	var notifications []*entities.Notification
	if err := r.db.SelectContext(ctx, &notifications, query, userID, pq.Array(ids), limit); err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	return notifications, nil
}
