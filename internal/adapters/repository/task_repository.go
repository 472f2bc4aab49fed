package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/ports"
)

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, deadline, status, leader_id, worker_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Title, task.Description, task.Deadline,
		task.Status, task.LeaderID, task.WorkerID,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	query := `
		SELECT id, title, description, deadline, status, leader_id, worker_id, created_at, updated_at
		FROM tasks
		WHERE id = $1`

	var task entities.Task
	err := r.db.GetContext(ctx, &task, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	return &task, nil
}

func (r *TaskRepositoryImpl) GetDetail(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	task, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.Leader, err = r.userSummary(ctx, task.LeaderID)
	if err != nil {
		return nil, err
	}
	task.Worker, err = r.userSummary(ctx, task.WorkerID)
	if err != nil {
		return nil, err
	}

	evidenceQuery := `
		SELECT id, task_id, file_url, description, created_at
		FROM evidence
		WHERE task_id = $1
		ORDER BY created_at ASC`

	if err := r.db.SelectContext(ctx, &task.Evidence, evidenceQuery, id); err != nil {
		return nil, fmt.Errorf("get task evidence: %w", err)
	}

	commentQuery := `
		SELECT c.id, c.task_id, c.user_id, c.content, c.created_at, u.name AS author_name
		FROM task_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.task_id = $1
		ORDER BY c.created_at ASC`

	rows, err := r.db.QueryContext(ctx, commentQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get task comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c entities.TaskComment
		var authorName string
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt, &authorName); err != nil {
			return nil, fmt.Errorf("scan task comment: %w", err)
		}
		c.Author = &entities.UserSummary{ID: c.UserID, Name: authorName}
		task.Comments = append(task.Comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task comments: %w", err)
	}

	return task, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *entities.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, deadline = $4, status = $5, worker_id = $6,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Title, task.Description, task.Deadline, task.Status, task.WorkerID,
	).Scan(&task.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrTaskNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	// Evidence and comments go with the task via ON DELETE CASCADE.
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepositoryImpl) List(ctx context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.LeaderID != nil {
		args = append(args, *filter.LeaderID)
		conditions = append(conditions, fmt.Sprintf("t.leader_id = $%d", len(args)))
	}
	if filter.WorkerID != nil {
		args = append(args, *filter.WorkerID)
		conditions = append(conditions, fmt.Sprintf("t.worker_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", len(args)))
	}

	query := `
		SELECT t.id, t.title, t.description, t.deadline, t.status, t.leader_id, t.worker_id,
			t.created_at, t.updated_at,
			lu.name AS leader_name, lu.email AS leader_email,
			wu.name AS worker_name, wu.email AS worker_email
		FROM tasks t
		JOIN users lu ON lu.id = t.leader_id
		JOIN users wu ON wu.id = t.worker_id`

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*entities.Task
	for rows.Next() {
		var (
			t                       entities.Task
			leaderName, leaderEmail string
			workerName, workerEmail string
		)
		err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Deadline, &t.Status,
			&t.LeaderID, &t.WorkerID, &t.CreatedAt, &t.UpdatedAt,
			&leaderName, &leaderEmail, &workerName, &workerEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Leader = &entities.UserSummary{ID: t.LeaderID, Name: leaderName, Email: leaderEmail}
		t.Worker = &entities.UserSummary{ID: t.WorkerID, Name: workerName, Email: workerEmail}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepositoryImpl) AddEvidence(ctx context.Context, ev *entities.Evidence) error {
	query := `
		INSERT INTO evidence (id, task_id, file_url, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		ev.ID, ev.TaskID, ev.FileURL, ev.Description,
	).Scan(&ev.CreatedAt)

	if err != nil {
		return fmt.Errorf("add evidence: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) AddComment(ctx context.Context, comment *entities.TaskComment) error {
	query := `
		INSERT INTO task_comments (id, task_id, user_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		comment.ID, comment.TaskID, comment.UserID, comment.Content,
	).Scan(&comment.CreatedAt)

	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) userSummary(ctx context.Context, id uuid.UUID) (*entities.UserSummary, error) {
	query := `SELECT id, name, email FROM users WHERE id = $1`

	var summary entities.UserSummary
	err := r.db.GetContext(ctx, &summary, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user summary: %w", err)
	}

	return &summary, nil
}
