package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeskillhub/core/internal/domain/entities"
	"github.com/homeskillhub/core/internal/infrastructure/logger"
	"github.com/homeskillhub/core/internal/ports"
)

func TestSendMessage(t *testing.T) {
	f := newFixture(t)
	svc := NewChatService(f.messageRepo, f.taskRepo, f.userRepo, logger.NewNop())
	taskSvc := NewTaskService(f.taskRepo, f.userRepo, logger.NewNop())
	ctx := context.Background()

	poster := f.user(t, "Ana", "ana@example.com")
	helper := f.user(t, "Bo", "bo@example.com")
	task, err := taskSvc.CreateTask(ctx, poster.ID, taskRequest())
	require.NoError(t, err)

	t.Run("text message", func(t *testing.T) {
		msg, err := svc.SendMessage(ctx, helper.ID, ports.SendMessageRequest{
			TaskID:   task.ID,
			ToUserID: poster.ID,
			Message:  "  I can come by on Saturday  ",
		})
		require.NoError(t, err)
		assert.Equal(t, "I can come by on Saturday", msg.Message.Message, "text is stored trimmed")
		assert.Equal(t, "Bo", msg.FromUserName)
	})

	t.Run("media-only message", func(t *testing.T) {
		url := "/uploads/chat/clip.mp4"
		kind := "video"
		msg, err := svc.SendMessage(ctx, poster.ID, ports.SendMessageRequest{
			TaskID:    task.ID,
			ToUserID:  helper.ID,
			MediaURL:  &url,
			MediaType: &kind,
		})
		require.NoError(t, err)
		assert.Empty(t, msg.Message.Message)
		require.NotNil(t, msg.Message.MediaURL)
	})

	t.Run("empty message rejected", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, helper.ID, ports.SendMessageRequest{
			TaskID:   task.ID,
			ToUserID: poster.ID,
			Message:  "   ",
		})
		assert.ErrorIs(t, err, entities.ErrEmptyMessage)
	})

	t.Run("unknown task rejected", func(t *testing.T) {
		_, err := svc.SendMessage(ctx, helper.ID, ports.SendMessageRequest{
			TaskID:   999,
			ToUserID: poster.ID,
			Message:  "hello?",
		})
		assert.ErrorIs(t, err, entities.ErrTaskNotFound)
	})
}

func TestGetMessagesForTask(t *testing.T) {
	f := newFixture(t)
	svc := NewChatService(f.messageRepo, f.taskRepo, f.userRepo, logger.NewNop())
	taskSvc := NewTaskService(f.taskRepo, f.userRepo, logger.NewNop())
	ctx := context.Background()

	poster := f.user(t, "Ana", "ana@example.com")
	helper := f.user(t, "Bo", "bo@example.com")
	task, err := taskSvc.CreateTask(ctx, poster.ID, taskRequest())
	require.NoError(t, err)

	for _, text := range []string{"first", "second", "third"} {
		_, err := svc.SendMessage(ctx, helper.ID, ports.SendMessageRequest{TaskID: task.ID, ToUserID: poster.ID, Message: text})
		require.NoError(t, err)
	}

	messages, err := svc.GetMessagesForTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Message.Message)
	assert.Equal(t, "third", messages[2].Message.Message)
	for _, m := range messages {
		assert.Equal(t, "Bo", m.FromUserName)
	}

	t.Run("sender name falls back when account is gone", func(t *testing.T) {
		_, err := f.userRepo.Delete(ctx, helper.ID)
		require.NoError(t, err)

		messages, err := svc.GetMessagesForTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "User 2", messages[0].FromUserName)
	})

	t.Run("unknown task", func(t *testing.T) {
		_, err := svc.GetMessagesForTask(ctx, 999)
		assert.ErrorIs(t, err, entities.ErrTaskNotFound)
	})
}
