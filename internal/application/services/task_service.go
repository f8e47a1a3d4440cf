package services

import (
	"context"
	"time"

	"github.com/homeskillhub/core/internal/domain/entities"
	"github.com/homeskillhub/core/internal/infrastructure/logger"
	"github.com/homeskillhub/core/internal/ports"
)

// TaskService is the task store: it owns the lifecycle state machine and
// enforces every acceptance/assignment invariant before anything is
// persisted. The transition checks themselves live on the Task entity; each
// mutation runs inside one repository transaction.
type TaskService struct {
	taskRepo ports.TaskRepository
	userRepo ports.UserRepository
	logger   *logger.Logger
	now      func() time.Time
}

var _ ports.TaskService = (*TaskService)(nil)

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, userRepo ports.UserRepository, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateTask creates a new task owned by posterID with status "open".
func (s *TaskService) CreateTask(ctx context.Context, posterID int, req ports.CreateTaskRequest) (*entities.Task, error) {
	urgency := entities.Urgency(req.Urgency)
	if !urgency.IsValid() {
		return nil, entities.ErrInvalidUrgency
	}
	if _, err := s.userRepo.GetByID(ctx, posterID); err != nil {
		return nil, err
	}

	task := &entities.Task{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Urgency:      urgency,
		Location:     req.Location,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Budget:       req.Budget,
		WomenSafe:    req.WomenSafe,
		VerifiedOnly: req.VerifiedOnly,
		Deadline:     req.Deadline,
		Images:       req.Images,
		Status:       entities.TaskStatusOpen,
		PosterID:     posterID,
	}

	created, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Task created", "task_id", created.ID, "poster_id", posterID, "title", created.Title)
	return created, nil
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(ctx context.Context, id int) (*entities.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}

// ListTasks returns non-expired tasks matching the filter.
func (s *TaskService) ListTasks(ctx context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	filter.IncludeExpired = false
	return s.taskRepo.List(ctx, filter)
}

// ListTasksByPoster returns the user's own non-expired tasks.
func (s *TaskService) ListTasksByPoster(ctx context.Context, userID int) ([]*entities.Task, error) {
	return s.taskRepo.ListByPoster(ctx, userID, ports.TaskFilter{})
}

// ListTasksByAssignee returns non-expired tasks assigned to the user.
func (s *TaskService) ListTasksByAssignee(ctx context.Context, userID int) ([]*entities.Task, error) {
	return s.taskRepo.ListByAssignee(ctx, userID, ports.TaskFilter{})
}

// AcceptTask records userID's interest in the task. The first acceptance
// moves the task to pending_approval.
func (s *TaskService) AcceptTask(ctx context.Context, taskID, userID int) (*entities.Task, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	now := s.now()
	task, err := s.taskRepo.Mutate(ctx, taskID, func(t *entities.Task) error {
		return t.Accept(userID, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Task accepted", "task_id", taskID, "user_id", userID, "acceptances", len(task.Acceptances))
	return task, nil
}

// AssignTask lets the poster pick one accepted helper.
func (s *TaskService) AssignTask(ctx context.Context, taskID, posterID, targetUserID int) (*entities.Task, error) {
	task, err := s.taskRepo.Mutate(ctx, taskID, func(t *entities.Task) error {
		return t.Assign(posterID, targetUserID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Task assigned", "task_id", taskID, "assignee_id", targetUserID)
	return task, nil
}

// CompleteTask marks the task completed on behalf of the poster or the
// assigned helper.
func (s *TaskService) CompleteTask(ctx context.Context, taskID, actorID int) (*entities.Task, error) {
	now := s.now()
	task, err := s.taskRepo.Mutate(ctx, taskID, func(t *entities.Task) error {
		return t.Complete(actorID, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Task completed", "task_id", taskID, "actor_id", actorID)
	return task, nil
}

// PatchTaskStatus overwrites the status with no ownership or transition
// check. Kept as an explicit manual-override escape hatch.
func (s *TaskService) PatchTaskStatus(ctx context.Context, taskID int, status string) (*entities.Task, error) {
	task, err := s.taskRepo.Mutate(ctx, taskID, func(t *entities.Task) error {
		return t.PatchStatus(entities.TaskStatus(status))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Warnw("Task status patched", "task_id", taskID, "status", status)
	return task, nil
}

// DeleteTask removes a task. Only the poster or an admin may delete it.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID int) (*entities.Task, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.PosterID != actorID && !actor.IsAdmin() {
		return nil, entities.ErrNotOwner
	}

	deleted, err := s.taskRepo.Delete(ctx, taskID)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Task deleted", "task_id", taskID, "actor_id", actorID)
	return deleted, nil
}

// ListAllTasks returns every task, expired included. Admin surface only.
func (s *TaskService) ListAllTasks(ctx context.Context) ([]*entities.Task, error) {
	return s.taskRepo.List(ctx, ports.TaskFilter{IncludeExpired: true})
}
