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

func newTestMessageService(users *fakeUserRepo) (*MessageService, *fakeMessageRepo, *eventRecorder) {
	repo := &fakeMessageRepo{}
	recorder := &eventRecorder{}
	return NewMessageService(repo, users, recorder, logger.NewNop()), repo, recorder
}

func TestSendMessage(t *testing.T) {
	sender := &entities.User{ID: uuid.New(), Name: "Lina", Email: "lina@example.com", Role: entities.UserRoleLeader}
	receiver := &entities.User{ID: uuid.New(), Name: "Wes", Email: "wes@example.com", Role: entities.UserRoleWorker}
	svc, repo, recorder := newTestMessageService(newFakeUserRepo(sender, receiver))

	actor := ports.Actor{ID: sender.ID, Name: sender.Name, Email: sender.Email, Role: sender.Role}
	message, err := svc.Send(context.Background(), actor, ports.SendMessageRequest{
		ReceiverID: receiver.ID,
		Content:    "Status update please",
	})
	require.NoError(t, err)

	assert.Equal(t, sender.ID, message.SenderID)
	assert.Equal(t, receiver.ID, message.ReceiverID)
	assert.False(t, message.Read)
	require.Len(t, repo.messages, 1)

	require.Len(t, recorder.events, 1)
	event, ok := recorder.events[0].(entities.MessageReceived)
	require.True(t, ok)
	assert.Equal(t, receiver.ID, event.ReceiverID)
	assert.Equal(t, "Lina", event.SenderName)
}

func TestSendMessageUnknownReceiver(t *testing.T) {
	sender := &entities.User{ID: uuid.New(), Name: "Lina", Role: entities.UserRoleLeader}
	svc, _, recorder := newTestMessageService(newFakeUserRepo(sender))

	actor := ports.Actor{ID: sender.ID, Name: sender.Name, Role: sender.Role}
	_, err := svc.Send(context.Background(), actor, ports.SendMessageRequest{
		ReceiverID: uuid.New(),
		Content:    "Hello?",
	})

	assert.ErrorIs(t, err, entities.ErrUserNotFound)
	assert.Empty(t, recorder.events)
}

func TestConversationMarksPeerMessagesRead(t *testing.T) {
	a := &entities.User{ID: uuid.New(), Name: "A", Role: entities.UserRoleLeader}
	b := &entities.User{ID: uuid.New(), Name: "B", Role: entities.UserRoleWorker}
	svc, repo, _ := newTestMessageService(newFakeUserRepo(a, b))

	require.NoError(t, repo.Create(context.Background(), &entities.Message{SenderID: b.ID, ReceiverID: a.ID, Content: "hi"}))
	require.NoError(t, repo.Create(context.Background(), &entities.Message{SenderID: a.ID, ReceiverID: b.ID, Content: "hello"}))

	actor := ports.Actor{ID: a.ID, Name: a.Name, Role: a.Role}
	messages, err := svc.Conversation(context.Background(), actor, b.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 2)

	// B's message to A is now read; A's message to B stays unread.
	for _, m := range repo.messages {
		if m.SenderID == b.ID {
			assert.True(t, m.Read)
		} else {
			assert.False(t, m.Read)
		}
	}
}

func TestConversationUnknownPeer(t *testing.T) {
	a := &entities.User{ID: uuid.New(), Name: "A", Role: entities.UserRoleLeader}
	svc, _, _ := newTestMessageService(newFakeUserRepo(a))

	actor := ports.Actor{ID: a.ID, Name: a.Name, Role: a.Role}
	_, err := svc.Conversation(context.Background(), actor, uuid.New())

	assert.ErrorIs(t, err, entities.ErrUserNotFound)
}
