package entities

import "github.com/google/uuid"

// Event is a domain event consumed by the notification dispatcher. Each
// mutation that must notify the "other party" emits one of these instead of
// constructing notification rows inline.
type Event interface {
	isEvent()
}

// TaskAssigned fires when a leader creates a task; the worker is notified.
type TaskAssigned struct {
	Task *Task
}

// TaskCompleted fires on a transition into completed from any other status.
// The actor determines the recipient: the counterpart is notified.
type TaskCompleted struct {
	Task    *Task
	ActorID uuid.UUID
}

// EvidenceUploaded fires when the worker uploads completion evidence; the
// leader is notified.
type EvidenceUploaded struct {
	Task *Task
}

// CommentAdded fires when either party comments on a task; the counterpart
// is notified.
type CommentAdded struct {
	Task    *Task
	ActorID uuid.UUID
}

// MessageReceived fires when a direct message is sent; the receiver is
// notified. It carries no related task.
type MessageReceived struct {
	ReceiverID uuid.UUID
	SenderName string
}

func (TaskAssigned) isEvent()     {}
func (TaskCompleted) isEvent()    {}
func (EvidenceUploaded) isEvent() {}
func (CommentAdded) isEvent()     {}
func (MessageReceived) isEvent()  {}
