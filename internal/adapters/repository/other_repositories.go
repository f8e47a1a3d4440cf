package repository

import (
	"context"
	"sort"
	"time"

	"github.com/homeskillhub/core/internal/domain/entities"
	"github.com/homeskillhub/core/internal/ports"
)

// ProfileRepositoryImpl implements the ProfileRepository interface
type ProfileRepositoryImpl struct {
	store ports.DocumentStore
	now   func() time.Time
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(store ports.DocumentStore) ports.ProfileRepository {
	return &ProfileRepositoryImpl{store: store, now: time.Now}
}

// Upsert merges fields into the user's profile, creating it when absent. An
// existing profile keeps its original id.
func (r *ProfileRepositoryImpl) Upsert(ctx context.Context, userID int, fields map[string]string) (*entities.Profile, error) {
	var result *entities.Profile
	err := r.store.Update(ctx, func(doc *entities.Document) error {
		idx := -1
		for i := range doc.Profiles {
			if doc.Profiles[i].UserID == userID {
				idx = i
				break
			}
		}

		if idx == -1 {
			p := entities.Profile{
				ID:        doc.NextID(entities.CounterProfile),
				UserID:    userID,
				Fields:    map[string]string{},
				UpdatedAt: r.now(),
			}
			doc.Profiles = append(doc.Profiles, p)
			idx = len(doc.Profiles) - 1
		}

		p := &doc.Profiles[idx]
		if p.Fields == nil {
			p.Fields = map[string]string{}
		}
		for k, v := range fields {
			p.Fields[k] = v
		}
		p.UpdatedAt = r.now()

		copied := *p
		copied.Fields = map[string]string{}
		for k, v := range p.Fields {
			copied.Fields[k] = v
		}
		result = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *ProfileRepositoryImpl) GetByUserID(ctx context.Context, userID int) (*entities.Profile, error) {
	var profile *entities.Profile
	err := r.store.View(ctx, func(doc *entities.Document) error {
		for i := range doc.Profiles {
			if doc.Profiles[i].UserID == userID {
				copied := doc.Profiles[i]
				profile = &copied
				return nil
			}
		}
		return entities.ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// RatingRepositoryImpl implements the RatingRepository interface
type RatingRepositoryImpl struct {
	store ports.DocumentStore
	now   func() time.Time
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(store ports.DocumentStore) ports.RatingRepository {
	return &RatingRepositoryImpl{store: store, now: time.Now}
}

func (r *RatingRepositoryImpl) AddRating(ctx context.Context, rating *entities.Rating) (*entities.Rating, error) {
	var created *entities.Rating
	err := r.store.Update(ctx, func(doc *entities.Document) error {
		rt := *rating
		rt.ID = doc.NextID(entities.CounterRating)
		rt.CreatedAt = r.now()
		doc.Ratings = append(doc.Ratings, rt)
		copied := rt
		created = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *RatingRepositoryImpl) AddReview(ctx context.Context, review *entities.Review) (*entities.Review, error) {
	var created *entities.Review
	err := r.store.Update(ctx, func(doc *entities.Document) error {
		rv := *review
		rv.ID = doc.NextID(entities.CounterReview)
		rv.CreatedAt = r.now()
		doc.Reviews = append(doc.Reviews, rv)
		copied := rv
		created = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *RatingRepositoryImpl) ListRatingsForUser(ctx context.Context, userID int) ([]*entities.Rating, error) {
	ratings := []*entities.Rating{}
	err := r.store.View(ctx, func(doc *entities.Document) error {
		for i := range doc.Ratings {
			if doc.Ratings[i].ToUserID == userID {
				copied := doc.Ratings[i]
				ratings = append(ratings, &copied)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *RatingRepositoryImpl) ListReviewsForUser(ctx context.Context, userID int) ([]*entities.Review, error) {
	reviews := []*entities.Review{}
	err := r.store.View(ctx, func(doc *entities.Document) error {
		for i := range doc.Reviews {
			if doc.Reviews[i].ToUserID == userID {
				copied := doc.Reviews[i]
				reviews = append(reviews, &copied)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// MessageRepositoryImpl implements the MessageRepository interface
type MessageRepositoryImpl struct {
	store ports.DocumentStore
	now   func() time.Time
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(store ports.DocumentStore) ports.MessageRepository {
	return &MessageRepositoryImpl{store: store, now: time.Now}
}

func (r *MessageRepositoryImpl) Add(ctx context.Context, message *entities.Message) (*entities.Message, error) {
	var created *entities.Message
	err := r.store.Update(ctx, func(doc *entities.Document) error {
		m := *message
		m.ID = doc.NextID(entities.CounterMessage)
		m.CreatedAt = r.now()
		doc.Messages = append(doc.Messages, m)
		copied := m
		created = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListByTask returns the task's messages ordered by creation time ascending.
func (r *MessageRepositoryImpl) ListByTask(ctx context.Context, taskID int) ([]*entities.Message, error) {
	messages := []*entities.Message{}
	err := r.store.View(ctx, func(doc *entities.Document) error {
		for i := range doc.Messages {
			if doc.Messages[i].TaskID == taskID {
				copied := doc.Messages[i]
				messages = append(messages, &copied)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}
