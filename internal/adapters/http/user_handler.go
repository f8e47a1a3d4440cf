package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homeskillhub/core/internal/application/services"
	"github.com/homeskillhub/core/internal/infrastructure/blob"
	"github.com/homeskillhub/core/internal/infrastructure/config"
	"github.com/homeskillhub/core/internal/infrastructure/logger"
	"github.com/homeskillhub/core/internal/ports"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	userService *services.UserService
	blobStore   *blob.LocalStore
	uploads     config.UploadsConfig
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, blobStore *blob.LocalStore, uploads config.UploadsConfig, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		blobStore:   blobStore,
		uploads:     uploads,
		logger:      logger,
	}
}

// GetSummary returns a user's public profile with rating aggregates
func (h *UserHandler) GetSummary(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	summary, err := h.userService.GetSummary(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, summary)
}

// GetReviews returns the reviews written about a user
func (h *UserHandler) GetReviews(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	reviews, err := h.userService.GetReviews(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, reviews)
}

// UpdateProfile applies a partial profile update. Users may only edit their
// own profile.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if id != getUserIDFromContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own profile")
	}

	var req ports.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	summary, err := h.userService.UpdateProfile(c.Request().Context(), id, req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, summary)
}

// UploadPhoto stores a profile photo for the authenticated user and records
// its URL on the profile
func (h *UserHandler) UploadPhoto(c echo.Context) error {
	id := getUserIDFromContext(c)

	fh, err := c.FormFile("photo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No photo provided")
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unreadable upload")
	}
	defer src.Close()

	url, err := h.blobStore.SaveImage("profiles", "photo", fh.Filename, src, h.uploads.MaxImageBytes)
	if err != nil {
		return uploadError(err)
	}

	if err := h.userService.SetProfilePhoto(c.Request().Context(), id, url); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, UploadURLResponse{URL: url})
}

// AdminHandler handles administrative HTTP requests
type AdminHandler struct {
	userService *services.UserService
	taskService *services.TaskService
	logger      *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userService *services.UserService, taskService *services.TaskService, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		userService: userService,
		taskService: taskService,
		logger:      logger,
	}
}

// ListUsers returns all users without password hashes
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	out := make([]ports.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, ports.PublicUser{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
			Role:  u.Role,
		})
	}

	return c.JSON(http.StatusOK, out)
}

// DeleteUser removes a user account. Admins cannot delete themselves.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	actorID := getUserIDFromContext(c)
	if err := h.userService.DeleteUser(c.Request().Context(), id, actorID); err != nil {
		return httpError(err)
	}

	h.logger.Warnw("User deleted by admin", "user_id", id, "admin_id", actorID)
	return c.JSON(http.StatusOK, MessageResponse{Message: "User deleted"})
}

// ListTasks returns every task in the store, expired ones included
func (h *AdminHandler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.ListAllTasks(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}

// DeleteTask removes any task regardless of ownership
func (h *AdminHandler) DeleteTask(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	actorID := getUserIDFromContext(c)
	if _, err := h.taskService.DeleteTask(c.Request().Context(), id, actorID); err != nil {
		return httpError(err)
	}

	h.logger.Warnw("Task deleted by admin", "task_id", id, "admin_id", actorID)
	return c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted"})
}
