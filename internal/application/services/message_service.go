package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/infrastructure/logger"
	"github.com/railis/core/internal/ports"
)

// MessageService handles direct user-to-user messaging.
type MessageService struct {
	messageRepo ports.MessageRepository
	userRepo    ports.UserRepository
	dispatcher  ports.EventDispatcher
	logger      *logger.Logger
}

// NewMessageService creates a new message service
func NewMessageService(
	messageRepo ports.MessageRepository,
	userRepo ports.UserRepository,
	dispatcher ports.EventDispatcher,
	logger *logger.Logger,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Conversation returns the full message history between the actor and the
// peer, oldest first. Reading a conversation marks the peer's messages to
// the actor as read.
func (s *MessageService) Conversation(ctx context.Context, actor ports.Actor, peerID uuid.UUID) ([]*entities.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, peerID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.Conversation(ctx, actor.ID, peerID)
	if err != nil {
		return nil, err
	}

	if err := s.messageRepo.MarkRead(ctx, peerID, actor.ID); err != nil {
		s.logger.Warn("Failed to mark conversation read", "error", err, "user_id", actor.ID, "peer_id", peerID)
	}

	return messages, nil
}

// Send delivers a message to the receiver and notifies them.
func (s *MessageService) Send(ctx context.Context, actor ports.Actor, req ports.SendMessageRequest) (*entities.Message, error) {
	receiver, err := s.userRepo.GetByID(ctx, req.ReceiverID)
	if err != nil {
		return nil, err
	}

	message := &entities.Message{
		SenderID:   actor.ID,
		ReceiverID: receiver.ID,
		Content:    req.Content,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	if err := s.dispatcher.Dispatch(ctx, entities.MessageReceived{
		ReceiverID: receiver.ID,
		SenderName: actor.Name,
	}); err != nil {
		s.logger.Warn("Failed to dispatch message notification", "error", err, "message_id", message.ID)
	}

	message.Sender = &entities.UserSummary{ID: actor.ID, Name: actor.Name, Email: actor.Email}
	message.Receiver = &entities.UserSummary{ID: receiver.ID, Name: receiver.Name, Email: receiver.Email}

	return message, nil
}
