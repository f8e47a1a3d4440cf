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

// ChatHandler handles per-task chat HTTP requests
type ChatHandler struct {
	chatService *services.ChatService
	blobStore   *blob.LocalStore
	uploads     config.UploadsConfig
	logger      *logger.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *services.ChatService, blobStore *blob.LocalStore, uploads config.UploadsConfig, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		blobStore:   blobStore,
		uploads:     uploads,
		logger:      logger,
	}
}

// SendMessage posts a message to a task's chat
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req ports.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "taskId and toUserId are required")
	}

	msg, err := h.chatService.SendMessage(c.Request().Context(), getUserIDFromContext(c), req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, msg)
}

// GetMessages returns a task's chat history oldest first
func (h *ChatHandler) GetMessages(c echo.Context) error {
	taskID, err := parseIDParam(c, "taskId")
	if err != nil {
		return err
	}

	messages, err := h.chatService.GetMessagesForTask(c.Request().Context(), taskID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, messages)
}

// UploadMedia stores a chat attachment and returns its public URL
func (h *ChatHandler) UploadMedia(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unreadable upload")
	}
	defer src.Close()

	contentType := fh.Header.Get("Content-Type")
	url, err := h.blobStore.SaveMedia("chat", "media", fh.Filename, contentType, src, h.uploads.MaxMediaBytes)
	if err != nil {
		return uploadError(err)
	}

	h.logger.Infow("Chat media uploaded", "user_id", getUserIDFromContext(c), "content_type", contentType)
	return c.JSON(http.StatusCreated, UploadURLResponse{URL: url})
}
