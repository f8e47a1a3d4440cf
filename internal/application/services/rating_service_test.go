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

func TestAddRating(t *testing.T) {
	f := newFixture(t)
	svc := NewRatingService(f.ratingRepo, f.userRepo, logger.NewNop())
	ctx := context.Background()

	rater := f.user(t, "Ana", "ana@example.com")
	target := f.user(t, "Bo", "bo@example.com")

	t.Run("rating without comment creates no review", func(t *testing.T) {
		rating, err := svc.AddRating(ctx, rater.ID, ports.AddRatingRequest{ToUserID: target.ID, Score: 4})
		require.NoError(t, err)
		assert.Equal(t, 4, rating.Score)

		reviews, err := f.ratingRepo.ListReviewsForUser(ctx, target.ID)
		require.NoError(t, err)
		assert.Empty(t, reviews)
	})

	t.Run("whitespace comment creates no review", func(t *testing.T) {
		_, err := svc.AddRating(ctx, rater.ID, ports.AddRatingRequest{ToUserID: target.ID, Score: 3, Comment: "   "})
		require.NoError(t, err)

		reviews, err := f.ratingRepo.ListReviewsForUser(ctx, target.ID)
		require.NoError(t, err)
		assert.Empty(t, reviews)
	})

	t.Run("comment creates rating and review with matching score", func(t *testing.T) {
		taskID := 12
		rating, err := svc.AddRating(ctx, rater.ID, ports.AddRatingRequest{
			ToUserID: target.ID,
			Score:    5,
			Comment:  "  quick and tidy  ",
			TaskID:   &taskID,
		})
		require.NoError(t, err)

		reviews, err := f.ratingRepo.ListReviewsForUser(ctx, target.ID)
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, "quick and tidy", reviews[0].Comment, "comments are stored trimmed")
		assert.Equal(t, rating.Score, reviews[0].Score)
		require.NotNil(t, reviews[0].TaskID)
		assert.Equal(t, taskID, *reviews[0].TaskID)
	})

	t.Run("ratings accumulate", func(t *testing.T) {
		ratings, err := f.ratingRepo.ListRatingsForUser(ctx, target.ID)
		require.NoError(t, err)
		assert.Len(t, ratings, 3)
	})
}

func TestAddRatingValidation(t *testing.T) {
	f := newFixture(t)
	svc := NewRatingService(f.ratingRepo, f.userRepo, logger.NewNop())
	ctx := context.Background()

	rater := f.user(t, "Ana", "ana@example.com")
	target := f.user(t, "Bo", "bo@example.com")

	tests := []struct {
		name    string
		req     ports.AddRatingRequest
		wantErr error
	}{
		{"score too low", ports.AddRatingRequest{ToUserID: target.ID, Score: 0}, entities.ErrInvalidScore},
		{"score too high", ports.AddRatingRequest{ToUserID: target.ID, Score: 6}, entities.ErrInvalidScore},
		{"self rating", ports.AddRatingRequest{ToUserID: rater.ID, Score: 5}, entities.ErrSelfRating},
		{"unknown target", ports.AddRatingRequest{ToUserID: 999, Score: 5}, entities.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddRating(ctx, rater.ID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// nothing was persisted by the rejected requests
	ratings, err := f.ratingRepo.ListRatingsForUser(ctx, target.ID)
	require.NoError(t, err)
	assert.Empty(t, ratings)
}
