package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/homeskillhub/core/internal/domain/entities"
	"github.com/homeskillhub/core/internal/infrastructure/logger"
	"github.com/homeskillhub/core/internal/ports"
)

// ChatService handles per-task messaging between poster and helper.
type ChatService struct {
	messageRepo ports.MessageRepository
	taskRepo    ports.TaskRepository
	userRepo    ports.UserRepository
	logger      *logger.Logger
}

var _ ports.ChatService = (*ChatService)(nil)

// NewChatService creates a new chat service
func NewChatService(messageRepo ports.MessageRepository, taskRepo ports.TaskRepository, userRepo ports.UserRepository, logger *logger.Logger) *ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// SendMessage appends a message to a task's thread. Either text or media
// must be present.
func (s *ChatService) SendMessage(ctx context.Context, fromUserID int, req ports.SendMessageRequest) (*ports.MessageWithSender, error) {
	text := strings.TrimSpace(req.Message)
	if text == "" && req.MediaURL == nil {
		return nil, entities.ErrEmptyMessage
	}
	if _, err := s.taskRepo.GetByID(ctx, req.TaskID); err != nil {
		return nil, err
	}

	message, err := s.messageRepo.Add(ctx, &entities.Message{
		TaskID:     req.TaskID,
		FromUserID: fromUserID,
		ToUserID:   req.ToUserID,
		Message:    text,
		MediaType:  req.MediaType,
		MediaURL:   req.MediaURL,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Message sent", "message_id", message.ID, "task_id", req.TaskID, "from", fromUserID, "to", req.ToUserID)
	return s.withSender(ctx, message), nil
}

// GetMessagesForTask returns the task's thread ordered by creation time
// ascending, each message annotated with the sender's display name.
func (s *ChatService) GetMessagesForTask(ctx context.Context, taskID int) ([]*ports.MessageWithSender, error) {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	annotated := make([]*ports.MessageWithSender, 0, len(messages))
	for _, m := range messages {
		annotated = append(annotated, s.withSender(ctx, m))
	}
	return annotated, nil
}

func (s *ChatService) withSender(ctx context.Context, m *entities.Message) *ports.MessageWithSender {
	name := fmt.Sprintf("User %d", m.FromUserID)
	if user, err := s.userRepo.GetByID(ctx, m.FromUserID); err == nil {
		name = user.Name
	} else if !errors.Is(err, entities.ErrUserNotFound) {
		s.logger.Warnw("Failed to resolve sender", "user_id", m.FromUserID, "error", err)
	}

	return &ports.MessageWithSender{Message: *m, FromUserName: name}
}
