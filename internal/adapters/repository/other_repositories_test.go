package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeskillhub/core/internal/domain/entities"
)

func TestProfileRepositoryUpsert(t *testing.T) {
	repo := NewProfileRepository(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Upsert(ctx, 7, map[string]string{"gender": "female"})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, 7, created.UserID)

	// second upsert merges fields and keeps the original id
	merged, err := repo.Upsert(ctx, 7, map[string]string{"phoneNumber": "0211234567"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, merged.ID)
	assert.Equal(t, "female", merged.Fields["gender"])
	assert.Equal(t, "0211234567", merged.Fields["phoneNumber"])

	stored, err := repo.GetByUserID(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, stored.Fields, 2)
}

func TestRatingRepository(t *testing.T) {
	repo := NewRatingRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.AddRating(ctx, &entities.Rating{FromUserID: 1, ToUserID: 2, Score: 5})
	require.NoError(t, err)
	_, err = repo.AddRating(ctx, &entities.Rating{FromUserID: 3, ToUserID: 2, Score: 3})
	require.NoError(t, err)
	_, err = repo.AddRating(ctx, &entities.Rating{FromUserID: 1, ToUserID: 9, Score: 1})
	require.NoError(t, err)

	ratings, err := repo.ListRatingsForUser(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, ratings, 2)

	review, err := repo.AddReview(ctx, &entities.Review{FromUserID: 1, ToUserID: 2, Score: 5, Comment: "great work"})
	require.NoError(t, err)
	assert.Equal(t, 1, review.ID)

	reviews, err := repo.ListReviewsForUser(ctx, 2)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "great work", reviews[0].Comment)
}

func TestMessageRepositoryOrdering(t *testing.T) {
	store := newTestStore(t)
	repo := NewMessageRepository(store)
	ctx := context.Background()

	// seed out of order to prove ListByTask sorts by creation time
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	err := store.Update(ctx, func(doc *entities.Document) error {
		doc.Messages = append(doc.Messages,
			entities.Message{ID: doc.NextID(entities.CounterMessage), TaskID: 1, FromUserID: 2, Message: "second", CreatedAt: base.Add(time.Minute)},
			entities.Message{ID: doc.NextID(entities.CounterMessage), TaskID: 1, FromUserID: 1, Message: "first", CreatedAt: base},
			entities.Message{ID: doc.NextID(entities.CounterMessage), TaskID: 2, FromUserID: 1, Message: "other task", CreatedAt: base},
		)
		return nil
	})
	require.NoError(t, err)

	messages, err := repo.ListByTask(ctx, 1)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Message)
	assert.Equal(t, "second", messages[1].Message)

	added, err := repo.Add(ctx, &entities.Message{TaskID: 1, FromUserID: 1, Message: "third"})
	require.NoError(t, err)
	assert.Equal(t, 4, added.ID)
}
