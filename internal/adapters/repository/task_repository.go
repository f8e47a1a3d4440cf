package repository

import (
	"context"
	"time"

	"github.com/homeskillhub/core/internal/domain/entities"
	"github.com/homeskillhub/core/internal/ports"
)

// TaskRepositoryImpl implements the TaskRepository interface on top of the
// document store. Every mutation runs inside a single store update so the
// lifecycle precondition checks and the resulting write are atomic.
type TaskRepositoryImpl struct {
	store ports.DocumentStore
	now   func() time.Time
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(store ports.DocumentStore) ports.TaskRepository {
	return &TaskRepositoryImpl{store: store, now: time.Now}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	var created *entities.Task
	err := r.store.Update(ctx, func(doc *entities.Document) error {
		t := *task.Clone()
		t.ID = doc.NextID(entities.CounterTask)
		t.CreatedAt = r.now()
		if t.Status == "" {
			t.Status = entities.TaskStatusOpen
		}
		if t.Images == nil {
			t.Images = []string{}
		}
		doc.Tasks = append(doc.Tasks, t)
		created = t.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.Task, error) {
	var task *entities.Task
	err := r.store.View(ctx, func(doc *entities.Document) error {
		idx := doc.TaskIndex(id)
		if idx == -1 {
			return entities.ErrTaskNotFound
		}
		task = doc.Tasks[idx].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepositoryImpl) Mutate(ctx context.Context, id int, fn func(task *entities.Task) error) (*entities.Task, error) {
	var mutated *entities.Task
	err := r.store.Update(ctx, func(doc *entities.Document) error {
		idx := doc.TaskIndex(id)
		if idx == -1 {
			return entities.ErrTaskNotFound
		}
		if err := fn(&doc.Tasks[idx]); err != nil {
			return err
		}
		mutated = doc.Tasks[idx].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mutated, nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id int) (*entities.Task, error) {
	var deleted *entities.Task
	err := r.store.Update(ctx, func(doc *entities.Document) error {
		idx := doc.TaskIndex(id)
		if idx == -1 {
			return entities.ErrTaskNotFound
		}
		deleted = doc.Tasks[idx].Clone()
		doc.Tasks = append(doc.Tasks[:idx], doc.Tasks[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *TaskRepositoryImpl) List(ctx context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	return r.collect(ctx, filter, func(*entities.Task) bool { return true })
}

func (r *TaskRepositoryImpl) ListByPoster(ctx context.Context, userID int, filter ports.TaskFilter) ([]*entities.Task, error) {
	return r.collect(ctx, filter, func(t *entities.Task) bool {
		return t.PosterID == userID
	})
}

func (r *TaskRepositoryImpl) ListByAssignee(ctx context.Context, userID int, filter ports.TaskFilter) ([]*entities.Task, error) {
	return r.collect(ctx, filter, func(t *entities.Task) bool {
		return t.AssignedToUserID != nil && *t.AssignedToUserID == userID
	})
}

func (r *TaskRepositoryImpl) collect(ctx context.Context, filter ports.TaskFilter, keep func(*entities.Task) bool) ([]*entities.Task, error) {
	now := r.now()
	tasks := []*entities.Task{}
	err := r.store.View(ctx, func(doc *entities.Document) error {
		for i := range doc.Tasks {
			t := &doc.Tasks[i]
			if !keep(t) {
				continue
			}
			if !filter.IncludeExpired && t.IsExpired(now) {
				continue
			}
			if !filter.Matches(t) {
				continue
			}
			tasks = append(tasks, t.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
