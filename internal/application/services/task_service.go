package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/infrastructure/logger"
	"github.com/railis/core/internal/ports"
)

const recentTasksLimit = 5

// TaskService handles the task lifecycle: creation, status transitions,
// evidence and comments.
type TaskService struct {
	taskRepo   ports.TaskRepository
	userRepo   ports.UserRepository
	storage    ports.ObjectStorage
	dispatcher ports.EventDispatcher
	logger     *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(
	taskRepo ports.TaskRepository,
	userRepo ports.UserRepository,
	storage ports.ObjectStorage,
	dispatcher ports.EventDispatcher,
	logger *logger.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		userRepo:   userRepo,
		storage:    storage,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CreateTask creates a task owned by the acting leader and assigned to the
// given worker. The worker is notified.
func (s *TaskService) CreateTask(ctx context.Context, actor ports.Actor, req ports.CreateTaskRequest) (*entities.Task, error) {
	if !actor.IsLeader() {
		return nil, entities.ErrForbidden
	}

	worker, err := s.userRepo.GetByID(ctx, req.WorkerID)
	if err != nil {
		return nil, err
	}
	if worker.Role != entities.UserRoleWorker {
		return nil, entities.ErrUserNotFound
	}

	task := &entities.Task{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Status:      entities.TaskStatusPending,
		LeaderID:    actor.ID,
		WorkerID:    worker.ID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("Task created", "task_id", task.ID, "leader_id", actor.ID, "worker_id", worker.ID)

	s.notify(ctx, entities.TaskAssigned{Task: task})

	task.Leader = &entities.UserSummary{ID: actor.ID, Name: actor.Name, Email: actor.Email}
	task.Worker = &entities.UserSummary{ID: worker.ID, Name: worker.Name, Email: worker.Email}

	return task, nil
}

// GetTask returns the full task detail. Callers outside the task's two
// parties get a not-found error rather than a forbidden one, so task IDs
// are not probeable.
func (s *TaskService) GetTask(ctx context.Context, actor ports.Actor, id uuid.UUID) (*entities.Task, error) {
	task, err := s.taskRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	if !task.AccessFor(actor.ID, actor.Role).Read {
		return nil, entities.ErrTaskNotFound
	}

	return task, nil
}

// ListTasks returns the actor's tasks, optionally filtered by status.
// Leaders see tasks they own, workers see tasks assigned to them.
func (s *TaskService) ListTasks(ctx context.Context, actor ports.Actor, status *entities.TaskStatus) ([]*entities.Task, error) {
	filter := ports.TaskScope(actor.ID, actor.Role)
	filter.Status = status

	return s.taskRepo.List(ctx, filter)
}

// RecentTasks returns the actor's newest tasks for the dashboard.
func (s *TaskService) RecentTasks(ctx context.Context, actor ports.Actor) ([]*entities.Task, error) {
	filter := ports.TaskScope(actor.ID, actor.Role)
	filter.Limit = recentTasksLimit

	return s.taskRepo.List(ctx, filter)
}

// UpdateTask applies a partial update. The owning leader may change any
// field; the assigned worker may only move the status to in_progress or
// completed. A transition into completed notifies the counterpart.
func (s *TaskService) UpdateTask(ctx context.Context, actor ports.Actor, id uuid.UUID, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	access := task.AccessFor(actor.ID, actor.Role)
	if !access.Read {
		return nil, entities.ErrTaskNotFound
	}

	if !access.WriteAll {
		if req.Title != nil || req.Description != nil || req.Deadline != nil || req.WorkerID != nil {
			return nil, entities.ErrForbidden
		}
		if req.Status != nil && !req.Status.WorkerAssignable() {
			return nil, entities.ErrInvalidStatus
		}
	}

	if req.Status != nil && !req.Status.IsValid() {
		return nil, entities.ErrInvalidStatus
	}
	if req.WorkerID != nil && *req.WorkerID != task.WorkerID {
		assignee, err := s.userRepo.GetByID(ctx, *req.WorkerID)
		if err != nil {
			return nil, err
		}
		if assignee.Role != entities.UserRoleWorker {
			return nil, entities.ErrUserNotFound
		}
	}

	wasCompleted := task.Status == entities.TaskStatusCompleted

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Deadline != nil {
		task.Deadline = *req.Deadline
	}
	if req.WorkerID != nil {
		task.WorkerID = *req.WorkerID
	}
	if req.Status != nil {
		task.Status = *req.Status
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("Task updated", "task_id", task.ID, "status", task.Status, "actor_id", actor.ID)

	// Notify only on the transition, not on repeated completed updates.
	if task.Status == entities.TaskStatusCompleted && !wasCompleted {
		s.notify(ctx, entities.TaskCompleted{Task: task, ActorID: actor.ID})
	}

	return s.taskRepo.GetDetail(ctx, task.ID)
}

// DeleteTask removes a task and its evidence and comments. Owning leader only.
func (s *TaskService) DeleteTask(ctx context.Context, actor ports.Actor, id uuid.UUID) error {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !task.AccessFor(actor.ID, actor.Role).Delete {
		return entities.ErrTaskNotFound
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Task deleted", "task_id", id, "actor_id", actor.ID)
	return nil
}

// UploadEvidence stores the uploaded file, records the evidence and forces
// the task to completed. Assigned worker only; the leader is notified.
func (s *TaskService) UploadEvidence(ctx context.Context, actor ports.Actor, req ports.UploadEvidenceRequest) (*entities.Evidence, error) {
	task, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	if !task.AccessFor(actor.ID, actor.Role).Read {
		return nil, entities.ErrTaskNotFound
	}
	if task.WorkerID != actor.ID {
		return nil, entities.ErrForbidden
	}

	objectKey, err := s.storage.Save(ctx, req.Filename, req.ContentType, req.Data)
	if err != nil {
		return nil, err
	}

	ev := &entities.Evidence{
		TaskID:      task.ID,
		FileURL:     s.storage.PublicURL(objectKey),
		Description: req.Description,
	}

	if err := s.taskRepo.AddEvidence(ctx, ev); err != nil {
		// Best effort: don't leave an orphaned object behind.
		if delErr := s.storage.Delete(ctx, objectKey); delErr != nil {
			s.logger.Warn("Failed to delete orphaned evidence object", "object_key", objectKey, "error", delErr)
		}
		return nil, err
	}

	// Evidence implies the work is done.
	if task.Status != entities.TaskStatusCompleted {
		task.Status = entities.TaskStatusCompleted
		if err := s.taskRepo.Update(ctx, task); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Evidence uploaded", "task_id", task.ID, "evidence_id", ev.ID, "worker_id", actor.ID)

	s.notify(ctx, entities.EvidenceUploaded{Task: task})

	return ev, nil
}

// AddComment records a comment by one of the task's parties and notifies the
// other.
func (s *TaskService) AddComment(ctx context.Context, actor ports.Actor, req ports.CreateCommentRequest) (*entities.TaskComment, error) {
	task, err := s.taskRepo.GetByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}

	if !task.AccessFor(actor.ID, actor.Role).Read {
		return nil, entities.ErrTaskNotFound
	}

	comment := &entities.TaskComment{
		TaskID:  task.ID,
		UserID:  actor.ID,
		Content: req.Content,
	}

	if err := s.taskRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	comment.Author = &entities.UserSummary{ID: actor.ID, Name: actor.Name, Email: actor.Email}

	s.notify(ctx, entities.CommentAdded{Task: task, ActorID: actor.ID})

	return comment, nil
}

// notify dispatches a domain event. Notification failures never fail the
// primary operation.
func (s *TaskService) notify(ctx context.Context, event entities.Event) {
	if err := s.dispatcher.Dispatch(ctx, event); err != nil {
		s.logger.Warn("Failed to dispatch notification", "error", err)
	}
}
