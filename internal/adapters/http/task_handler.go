package http

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/railis/core/internal/domain/entities"
	"github.com/railis/core/internal/infrastructure/logger"
	"github.com/railis/core/internal/ports"
)

// maxEvidenceSize caps evidence uploads at 10 MiB.
const maxEvidenceSize = 10 << 20

// TaskHandler handles task lifecycle requests: CRUD, evidence and comments.
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// CreateTask godoc
// @Summary Create a task
// @Description Create a task and assign it to a worker. Leaders only.
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.CreateTaskRequest true "Task data"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ports.ErrorResponse
// @Failure 403 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	actor := actorFromContext(c)

	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), actor, req)
	if err != nil {
		h.logger.Error("Create task failed", "error", err, "actor_id", actor.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// GetTask godoc
// @Summary Get task by ID
// @Description Get full task detail including evidence and comments
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	actor := actorFromContext(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	task, err := h.taskService.GetTask(c.Request().Context(), actor, taskID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// ListTasks godoc
// @Summary List tasks
// @Description List the caller's tasks, optionally filtered by status
// @Tags tasks
// @Produce json
// @Param status query string false "Task status filter"
// @Success 200 {array} entities.Task
// @Failure 400 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	actor := actorFromContext(c)

	var status *entities.TaskStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := entities.TaskStatus(raw)
		if !s.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status filter")
		}
		status = &s
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), actor, status)
	if err != nil {
		h.logger.Error("List tasks failed", "error", err, "actor_id", actor.ID)
		return httpError(err)
	}

	if tasks == nil {
		tasks = []*entities.Task{}
	}
	return c.JSON(http.StatusOK, tasks)
}

// RecentTasks returns the caller's newest tasks for the dashboard.
func (h *TaskHandler) RecentTasks(c echo.Context) error {
	actor := actorFromContext(c)

	tasks, err := h.taskService.RecentTasks(c.Request().Context(), actor)
	if err != nil {
		h.logger.Error("Recent tasks failed", "error", err, "actor_id", actor.ID)
		return httpError(err)
	}

	if tasks == nil {
		tasks = []*entities.Task{}
	}
	return c.JSON(http.StatusOK, tasks)
}

// UpdateTask godoc
// @Summary Update a task
// @Description Partially update a task. Workers may only change the status to in_progress or completed.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body ports.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} entities.Task
// @Failure 400 {object} ports.ErrorResponse
// @Failure 403 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	actor := actorFromContext(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), actor, taskID, req)
	if err != nil {
		h.logger.Error("Update task failed", "error", err, "task_id", taskID, "actor_id", actor.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete a task
// @Description Delete a task along with its evidence and comments. Owning leader only.
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} ports.MessageResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	actor := actorFromContext(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), actor, taskID); err != nil {
		h.logger.Error("Delete task failed", "error", err, "task_id", taskID, "actor_id", actor.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Task deleted successfully"})
}

// UploadEvidence godoc
// @Summary Upload completion evidence
// @Description Upload an evidence file for a task. Assigned worker only; forces the task to completed.
// @Tags tasks
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Task ID"
// @Param file formData file true "Evidence file"
// @Param description formData string false "Evidence description"
// @Success 201 {object} entities.Evidence
// @Failure 400 {object} ports.ErrorResponse
// @Failure 403 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/evidence [post]
func (h *TaskHandler) UploadEvidence(c echo.Context) error {
	actor := actorFromContext(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Evidence file is required")
	}
	if fileHeader.Size > maxEvidenceSize {
		return echo.NewHTTPError(http.StatusBadRequest, "Evidence file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read evidence file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxEvidenceSize))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read evidence file")
	}

	req := ports.UploadEvidenceRequest{
		TaskID:      taskID,
		Description: c.FormValue("description"),
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}

	ev, err := h.taskService.UploadEvidence(c.Request().Context(), actor, req)
	if err != nil {
		h.logger.Error("Upload evidence failed", "error", err, "task_id", taskID, "actor_id", actor.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, ev)
}

// AddComment godoc
// @Summary Comment on a task
// @Description Add a comment to a task. Task parties only; the other party is notified.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body ports.CreateCommentRequest true "Comment data"
// @Success 201 {object} entities.TaskComment
// @Failure 400 {object} ports.ErrorResponse
// @Failure 404 {object} ports.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/comments [post]
func (h *TaskHandler) AddComment(c echo.Context) error {
	actor := actorFromContext(c)

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	var req ports.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	req.TaskID = taskID

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.taskService.AddComment(c.Request().Context(), actor, req)
	if err != nil {
		h.logger.Error("Add comment failed", "error", err, "task_id", taskID, "actor_id", actor.ID)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, comment)
}
