package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/ports"
)

// MessageRepositoryImpl implements the MessageRepository interface
type MessageRepositoryImpl struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *sqlx.DB) ports.MessageRepository {
	return &MessageRepositoryImpl{db: db}
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, m *entities.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		m.ID, m.SenderID, m.ReceiverID, m.Content,
	).Scan(&m.CreatedAt)

	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

func (r *MessageRepositoryImpl) Conversation(ctx context.Context, a, b uuid.UUID) ([]*entities.Message, error) {
	query := `
		SELECT m.id, m.sender_id, m.receiver_id, m.content, m.read, m.created_at,
			su.name AS sender_name, ru.name AS receiver_name
		FROM messages m
		JOIN users su ON su.id = m.sender_id
		JOIN users ru ON ru.id = m.receiver_id
		WHERE (m.sender_id = $1 AND m.receiver_id = $2)
			OR (m.sender_id = $2 AND m.receiver_id = $1)
		ORDER BY m.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, a, b)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	defer rows.Close()

	var messages []*entities.Message
	for rows.Next() {
		var m entities.Message
		var senderName, receiverName string
		err := rows.Scan(
			&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt,
			&senderName, &receiverName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Sender = &entities.UserSummary{ID: m.SenderID, Name: senderName}
		m.Receiver = &entities.UserSummary{ID: m.ReceiverID, Name: receiverName}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

func (r *MessageRepositoryImpl) MarkRead(ctx context.Context, senderID, receiverID uuid.UUID) error {
	query := `
		UPDATE messages
		SET read = TRUE
		WHERE sender_id = $1 AND receiver_id = $2 AND read = FALSE`

	if _, err := r.db.ExecContext(ctx, query, senderID, receiverID); err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}

	return nil
}
