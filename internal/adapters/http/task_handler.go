package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/homeskillhub/core/internal/application/services"
	"github.com/homeskillhub/core/internal/infrastructure/blob"
	"github.com/homeskillhub/core/internal/infrastructure/config"
	"github.com/homeskillhub/core/internal/infrastructure/logger"
	"github.com/homeskillhub/core/internal/ports"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService *services.TaskService
	blobStore   *blob.LocalStore
	uploads     config.UploadsConfig
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService, blobStore *blob.LocalStore, uploads config.UploadsConfig, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		blobStore:   blobStore,
		uploads:     uploads,
		logger:      logger,
	}
}

// ListTasks returns the open marketplace view. Expired tasks are filtered
// out, never deleted.
func (h *TaskHandler) ListTasks(c echo.Context) error {
	filter := ports.TaskFilter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		Urgency:  c.QueryParam("urgency"),
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}

// CreateTask creates a new task posted by the authenticated user
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), getUserIDFromContext(c), req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// GetTask returns a single task by ID
func (h *TaskHandler) GetTask(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// MyTasks returns tasks posted by the authenticated user, expired included.
func (h *TaskHandler) MyTasks(c echo.Context) error {
	tasks, err := h.taskService.ListTasksByPoster(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}

// AcceptedTasks returns tasks the authenticated user is assigned to.
func (h *TaskHandler) AcceptedTasks(c echo.Context) error {
	tasks, err := h.taskService.ListTasksByAssignee(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}

// AcceptTask records the authenticated user's offer to help on a task
func (h *TaskHandler) AcceptTask(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	task, err := h.taskService.AcceptTask(c.Request().Context(), id, getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

type assignRequest struct {
	UserID int `json:"userId" validate:"required"`
}

// AssignTask lets the poster pick one accepted helper as the assignee
func (h *TaskHandler) AssignTask(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}

	task, err := h.taskService.AssignTask(c.Request().Context(), id, getUserIDFromContext(c), req.UserID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// CompleteTask marks a task completed by its poster or assignee
func (h *TaskHandler) CompleteTask(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	task, err := h.taskService.CompleteTask(c.Request().Context(), id, getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

type patchStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PatchStatus force-sets a task's status without lifecycle checks
func (h *TaskHandler) PatchStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req patchStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}

	task, err := h.taskService.PatchTaskStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task. Only the poster or an admin may delete.
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.taskService.DeleteTask(c.Request().Context(), id, getUserIDFromContext(c)); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted"})
}

// UploadImages stores up to the configured number of task images and returns
// their public URLs.
func (h *TaskHandler) UploadImages(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form")
	}

	files := form.File["images"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No images uploaded")
	}
	if len(files) > h.uploads.MaxImageCount {
		return echo.NewHTTPError(http.StatusBadRequest, "Too many images")
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Unreadable upload")
		}
		url, err := h.blobStore.SaveImage("tasks", "task", fh.Filename, src, h.uploads.MaxImageBytes)
		src.Close()
		if err != nil {
			return uploadError(err)
		}
		urls = append(urls, url)
	}

	h.logger.Infow("Task images uploaded", "count", len(urls), "user_id", getUserIDFromContext(c))
	return c.JSON(http.StatusCreated, UploadImagesResponse{ImageURLs: urls})
}

func parseIDParam(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID format")
	}
	return id, nil
}

func uploadError(err error) error {
	switch err {
	case blob.ErrFileTooLarge:
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File too large")
	case blob.ErrUnsupportedType:
		return echo.NewHTTPError(http.StatusBadRequest, "Unsupported file type")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Upload failed")
	}
}
