package services

import (
	"context"

	"github.com/homeskillhub/core/internal/domain/entities"
	"github.com/homeskillhub/core/internal/infrastructure/logger"
	"github.com/homeskillhub/core/internal/ports"
)

// UserService handles user profile reads and updates, plus the admin user
// surface.
type UserService struct {
	userRepo    ports.UserRepository
	ratingRepo  ports.RatingRepository
	profileRepo ports.ProfileRepository
	logger      *logger.Logger
}

var _ ports.UserService = (*UserService)(nil)

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, ratingRepo ports.RatingRepository, profileRepo ports.ProfileRepository, logger *logger.Logger) *UserService {
	return &UserService{
		userRepo:    userRepo,
		ratingRepo:  ratingRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// GetSummary returns the public view of a user with rating aggregates.
func (s *UserService) GetSummary(ctx context.Context, userID int) (*ports.UserSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, user)
}

// GetReviews returns all reviews written about the user.
func (s *UserService) GetReviews(ctx context.Context, userID int) ([]*entities.Review, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.ratingRepo.ListReviewsForUser(ctx, userID)
}

// UpdateProfile applies partial profile updates. When the first or last name
// changes the display name is recomputed from the pair.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, req ports.UpdateProfileRequest) (*ports.UserSummary, error) {
	updated, err := s.userRepo.Update(ctx, userID, func(u *entities.User) error {
		if req.FirstName != nil {
			u.FirstName = req.FirstName
		}
		if req.LastName != nil {
			u.LastName = req.LastName
		}
		if req.Gender != nil {
			u.Gender = req.Gender
		}
		if req.PhoneNumber != nil {
			u.PhoneNumber = req.PhoneNumber
		}
		if req.ProfilePhoto != nil {
			u.ProfilePhoto = req.ProfilePhoto
		}
		if req.FirstName != nil || req.LastName != nil {
			u.Name = u.DisplayName()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Mirror the update into the profiles collection so the extended record
	// survives independently of the account row.
	fields := make(map[string]string)
	setField := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	setField("firstName", req.FirstName)
	setField("lastName", req.LastName)
	setField("gender", req.Gender)
	setField("phoneNumber", req.PhoneNumber)
	setField("profilePhoto", req.ProfilePhoto)
	if len(fields) > 0 {
		if _, err := s.profileRepo.Upsert(ctx, userID, fields); err != nil {
			s.logger.Warnw("Profile mirror update failed", "user_id", userID, "error", err)
		}
	}

	s.logger.Infow("Profile updated", "user_id", userID)
	return s.summarize(ctx, updated)
}

// SetProfilePhoto stores the uploaded photo URL on the user.
func (s *UserService) SetProfilePhoto(ctx context.Context, userID int, url string) error {
	_, err := s.userRepo.Update(ctx, userID, func(u *entities.User) error {
		u.ProfilePhoto = &url
		return nil
	})
	return err
}

// ListUsers returns every account. Admin surface only; password hashes are
// stripped at the handler layer.
func (s *UserService) ListUsers(ctx context.Context) ([]*entities.User, error) {
	return s.userRepo.List(ctx)
}

// DeleteUser removes an account. Admins cannot delete their own account.
func (s *UserService) DeleteUser(ctx context.Context, userID, actorID int) error {
	if userID == actorID {
		return entities.ErrSelfDeletion
	}
	if _, err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Infow("User deleted", "user_id", userID, "actor_id", actorID)
	return nil
}

func (s *UserService) summarize(ctx context.Context, user *entities.User) (*ports.UserSummary, error) {
	ratings, err := s.ratingRepo.ListRatingsForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var avg *float64
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Score
		}
		value := float64(sum) / float64(len(ratings))
		avg = &value
	}

	return &ports.UserSummary{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Gender:       user.Gender,
		PhoneNumber:  user.PhoneNumber,
		ProfilePhoto: user.ProfilePhoto,
		AvgRating:    avg,
		RatingCount:  len(ratings),
	}, nil
}
