package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homeskillhub/core/internal/application/services"
	"github.com/homeskillhub/core/internal/domain/entities"
	"github.com/homeskillhub/core/internal/infrastructure/logger"
	"github.com/homeskillhub/core/internal/ports"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Signup handles user registration
func (h *AuthHandler) Signup(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Name, email, and password are required")
	}

	response, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		h.logger.Errorw("Signup failed", "error", err, "email", req.Email)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, response)
}

// Login handles user login
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, response)
}

// Logout acknowledges logout. Tokens are stateless, so clients discard them.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	userID := getUserIDFromContext(c)

	user, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "User no longer exists")
		}
		return httpError(err)
	}

	return c.JSON(http.StatusOK, ports.PublicUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}

// RatingHandler handles rating submissions
type RatingHandler struct {
	ratingService *services.RatingService
	logger        *logger.Logger
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(ratingService *services.RatingService, logger *logger.Logger) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		logger:        logger,
	}
}

// AddRating creates a rating, and a review when a comment accompanies it.
func (h *RatingHandler) AddRating(c echo.Context) error {
	var req ports.AddRatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "toUserId and score are required")
	}

	rating, err := h.ratingService.AddRating(c.Request().Context(), getUserIDFromContext(c), req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, rating)
}

// Utility functions and helper types

func getUserIDFromContext(c echo.Context) int {
	if id, ok := c.Get("user").(int); ok {
		return id
	}
	return 0
}

// httpError translates domain errors into HTTP errors carrying the precise
// precondition message, so similar-looking failures stay distinguishable to
// clients.
func httpError(err error) error {
	switch {
	case errors.Is(err, entities.ErrTaskNotFound),
		errors.Is(err, entities.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, entities.ErrSelfAcceptance),
		errors.Is(err, entities.ErrNotPoster),
		errors.Is(err, entities.ErrNotParticipant),
		errors.Is(err, entities.ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, entities.ErrAlreadyAccepted),
		errors.Is(err, entities.ErrTaskAssigned),
		errors.Is(err, entities.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrHelperNotAccepted),
		errors.Is(err, entities.ErrInvalidStatus),
		errors.Is(err, entities.ErrInvalidUrgency),
		errors.Is(err, entities.ErrSelfRating),
		errors.Is(err, entities.ErrInvalidScore),
		errors.Is(err, entities.ErrEmptyMessage),
		errors.Is(err, entities.ErrSelfDeletion):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}

// Request/Response types

type MessageResponse struct {
	Message string `json:"message"`
}

type UploadImagesResponse struct {
	ImageURLs []string `json:"imageUrls"`
}

type UploadURLResponse struct {
	URL string `json:"url"`
}
