package repository

import (
	"context"
	"time"

	"github.com/homeskillhub/core/internal/domain/entities"
	"github.com/homeskillhub/core/internal/ports"
)

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	store ports.DocumentStore
	now   func() time.Time
}

// NewUserRepository creates a new user repository
func NewUserRepository(store ports.DocumentStore) ports.UserRepository {
	return &UserRepositoryImpl{store: store, now: time.Now}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	var created *entities.User
	err := r.store.Update(ctx, func(doc *entities.Document) error {
		if doc.UserByEmail(user.Email) != nil {
			return entities.ErrEmailTaken
		}
		u := *user
		u.ID = doc.NextID(entities.CounterUser)
		u.CreatedAt = r.now()
		if u.Role == "" {
			u.Role = entities.UserRoleUser
		}
		doc.Users = append(doc.Users, u)
		copied := u
		created = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id int) (*entities.User, error) {
	var user *entities.User
	err := r.store.View(ctx, func(doc *entities.Document) error {
		idx := doc.UserIndex(id)
		if idx == -1 {
			return entities.ErrUserNotFound
		}
		copied := doc.Users[idx]
		user = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user *entities.User
	err := r.store.View(ctx, func(doc *entities.Document) error {
		found := doc.UserByEmail(email)
		if found == nil {
			return entities.ErrUserNotFound
		}
		copied := *found
		user = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, id int, fn func(user *entities.User) error) (*entities.User, error) {
	var updated *entities.User
	err := r.store.Update(ctx, func(doc *entities.Document) error {
		idx := doc.UserIndex(id)
		if idx == -1 {
			return entities.ErrUserNotFound
		}
		if err := fn(&doc.Users[idx]); err != nil {
			return err
		}
		copied := doc.Users[idx]
		updated = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *UserRepositoryImpl) Delete(ctx context.Context, id int) (*entities.User, error) {
	var deleted *entities.User
	err := r.store.Update(ctx, func(doc *entities.Document) error {
		idx := doc.UserIndex(id)
		if idx == -1 {
			return entities.ErrUserNotFound
		}
		copied := doc.Users[idx]
		deleted = &copied
		doc.Users = append(doc.Users[:idx], doc.Users[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *UserRepositoryImpl) List(ctx context.Context) ([]*entities.User, error) {
	users := []*entities.User{}
	err := r.store.View(ctx, func(doc *entities.Document) error {
		for i := range doc.Users {
			copied := doc.Users[i]
			users = append(users, &copied)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
