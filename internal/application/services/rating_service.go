package services

import (
	"context"
	"strings"

	"github.com/homeskillhub/core/internal/domain/entities"
	"github.com/homeskillhub/core/internal/infrastructure/logger"
	"github.com/homeskillhub/core/internal/ports"
)

// RatingService creates ratings and, when a non-empty comment accompanies
// the score, a review alongside. Both collections are append-only.
type RatingService struct {
	ratingRepo ports.RatingRepository
	userRepo   ports.UserRepository
	logger     *logger.Logger
}

var _ ports.RatingService = (*RatingService)(nil)

// NewRatingService creates a new rating service
func NewRatingService(ratingRepo ports.RatingRepository, userRepo ports.UserRepository, logger *logger.Logger) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// AddRating validates and stores a rating from fromUserID. A review is
// created only when the trimmed comment is non-empty; the rating is created
// either way.
func (s *RatingService) AddRating(ctx context.Context, fromUserID int, req ports.AddRatingRequest) (*entities.Rating, error) {
	if req.Score < 1 || req.Score > 5 {
		return nil, entities.ErrInvalidScore
	}
	if req.ToUserID == fromUserID {
		return nil, entities.ErrSelfRating
	}
	if _, err := s.userRepo.GetByID(ctx, req.ToUserID); err != nil {
		return nil, err
	}

	rating, err := s.ratingRepo.AddRating(ctx, &entities.Rating{
		FromUserID: fromUserID,
		ToUserID:   req.ToUserID,
		Score:      req.Score,
		TaskID:     req.TaskID,
	})
	if err != nil {
		return nil, err
	}

	if comment := strings.TrimSpace(req.Comment); comment != "" {
		_, err := s.ratingRepo.AddReview(ctx, &entities.Review{
			FromUserID: fromUserID,
			ToUserID:   req.ToUserID,
			Score:      req.Score,
			Comment:    comment,
			TaskID:     req.TaskID,
		})
		if err != nil {
			return nil, err
		}
	}

	s.logger.Infow("Rating added", "rating_id", rating.ID, "from", fromUserID, "to", req.ToUserID, "score", req.Score)
	return rating, nil
}
