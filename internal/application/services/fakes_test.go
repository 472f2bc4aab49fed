package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/ports"
)

// In-memory fakes for the repository and storage ports.

type fakeUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newFakeUserRepo(users ...*entities.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*entities.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *entities.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return entities.ErrEmailTaken
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *entities.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return entities.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*entities.User, error) {
	var users []*entities.User
	for _, u := range r.users {
		copied := *u
		users = append(users, &copied)
	}
	return users, nil
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role entities.UserRole) ([]*entities.User, error) {
	var users []*entities.User
	for _, u := range r.users {
		if u.Role == role {
			copied := *u
			users = append(users, &copied)
		}
	}
	return users, nil
}

type fakeTaskRepo struct {
	tasks    map[uuid.UUID]*entities.Task
	evidence []*entities.Evidence
	comments []*entities.TaskComment
}

func newFakeTaskRepo(tasks ...*entities.Task) *fakeTaskRepo {
	r := &fakeTaskRepo{tasks: make(map[uuid.UUID]*entities.Task)}
	for _, t := range tasks {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		r.tasks[t.ID] = t
	}
	return r
}

func (r *fakeTaskRepo) Create(_ context.Context, task *entities.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTaskRepo) GetDetail(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	task, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, ev := range r.evidence {
		if ev.TaskID == id {
			task.Evidence = append(task.Evidence, *ev)
		}
	}
	for _, c := range r.comments {
		if c.TaskID == id {
			task.Comments = append(task.Comments, *c)
		}
	}
	return task, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *entities.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return entities.ErrTaskNotFound
	}
	task.UpdatedAt = time.Now()
	stored := *task
	r.tasks[task.ID] = &stored
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.tasks[id]; !ok {
		return entities.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) List(_ context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	var tasks []*entities.Task
	for _, t := range r.tasks {
		if filter.LeaderID != nil && t.LeaderID != *filter.LeaderID {
			continue
		}
		if filter.WorkerID != nil && t.WorkerID != *filter.WorkerID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		copied := *t
		tasks = append(tasks, &copied)
	}
	if filter.Limit > 0 && len(tasks) > filter.Limit {
		tasks = tasks[:filter.Limit]
	}
	return tasks, nil
}

func (r *fakeTaskRepo) AddEvidence(_ context.Context, ev *entities.Evidence) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	ev.CreatedAt = time.Now()
	stored := *ev
	r.evidence = append(r.evidence, &stored)
	return nil
}

func (r *fakeTaskRepo) AddComment(_ context.Context, comment *entities.TaskComment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	comment.CreatedAt = time.Now()
	stored := *comment
	r.comments = append(r.comments, &stored)
	return nil
}

type fakeNotificationRepo struct {
	notifications []*entities.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *entities.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()
	stored := *n
	r.notifications = append(r.notifications, &stored)
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Notification, error) {
	for _, n := range r.notifications {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, entities.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, read *bool) ([]*entities.Notification, error) {
	var out []*entities.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if read != nil && n.Read != *read {
			continue
		}
		copied := *n
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeNotificationRepo) SetRead(_ context.Context, id uuid.UUID, read bool) (*entities.Notification, error) {
	for _, n := range r.notifications {
		if n.ID == id {
			n.Read = read
			copied := *n
			return &copied, nil
		}
	}
	return nil, entities.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) ListActivity(_ context.Context, userID uuid.UUID, taskIDs []uuid.UUID, limit int) ([]*entities.Notification, error) {
	related := make(map[uuid.UUID]bool, len(taskIDs))
	for _, id := range taskIDs {
		related[id] = true
	}

	var out []*entities.Notification
	for _, n := range r.notifications {
		if n.UserID == userID || (n.RelatedID != nil && related[*n.RelatedID]) {
			copied := *n
			out = append(out, &copied)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeMessageRepo struct {
	messages []*entities.Message
}

func (r *fakeMessageRepo) Create(_ context.Context, m *entities.Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	stored := *m
	r.messages = append(r.messages, &stored)
	return nil
}

func (r *fakeMessageRepo) Conversation(_ context.Context, a, b uuid.UUID) ([]*entities.Message, error) {
	var out []*entities.Message
	for _, m := range r.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, senderID, receiverID uuid.UUID) error {
	for _, m := range r.messages {
		if m.SenderID == senderID && m.ReceiverID == receiverID {
			m.Read = true
		}
	}
	return nil
}

type fakeCache struct {
	values map[string]interface{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]interface{})}
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) error {
	value, ok := c.values[key]
	if !ok {
		return ports.ErrCacheMiss
	}
	if out, ok := dest.(*int64); ok {
		*out = value.(int64)
		return nil
	}
	return fmt.Errorf("unsupported destination type %T", dest)
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	delete(c.values, key)
	return nil
}

type fakeStorage struct {
	saved   map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: make(map[string][]byte)}
}

func (s *fakeStorage) Save(_ context.Context, filename, _ string, data []byte) (string, error) {
	key := "evidence/" + filename
	s.saved[key] = data
	return key, nil
}

func (s *fakeStorage) Delete(_ context.Context, objectKey string) error {
	delete(s.saved, objectKey)
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func (s *fakeStorage) PublicURL(objectKey string) string {
	return "http://files.local/" + objectKey
}

// eventRecorder captures dispatched events.
type eventRecorder struct {
	events []entities.Event
}

func (r *eventRecorder) Dispatch(_ context.Context, event entities.Event) error {
	r.events = append(r.events, event)
	return nil
}
