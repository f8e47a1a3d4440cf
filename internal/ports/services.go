package ports

import (
	"context"
	"time"

	"github.com/homeskillhub/core/internal/domain/entities"
)

// AuthService handles registration, login and token validation
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	ValidateToken(token string) (*Claims, error)
	CurrentUser(ctx context.Context, userID int) (*entities.User, error)
}

// TaskService is the task store: lifecycle operations plus role-scoped
// queries. All lifecycle invariants are enforced before persistence.
type TaskService interface {
	CreateTask(ctx context.Context, posterID int, req CreateTaskRequest) (*entities.Task, error)
	GetTask(ctx context.Context, id int) (*entities.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]*entities.Task, error)
	ListTasksByPoster(ctx context.Context, userID int) ([]*entities.Task, error)
	ListTasksByAssignee(ctx context.Context, userID int) ([]*entities.Task, error)
	AcceptTask(ctx context.Context, taskID, userID int) (*entities.Task, error)
	AssignTask(ctx context.Context, taskID, posterID, targetUserID int) (*entities.Task, error)
	CompleteTask(ctx context.Context, taskID, actorID int) (*entities.Task, error)
	PatchTaskStatus(ctx context.Context, taskID int, status string) (*entities.Task, error)
	DeleteTask(ctx context.Context, taskID, actorID int) (*entities.Task, error)
	ListAllTasks(ctx context.Context) ([]*entities.Task, error)
}

// UserService handles user profile reads and updates
type UserService interface {
	GetSummary(ctx context.Context, userID int) (*UserSummary, error)
	GetReviews(ctx context.Context, userID int) ([]*entities.Review, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*UserSummary, error)
	SetProfilePhoto(ctx context.Context, userID int, url string) error
	ListUsers(ctx context.Context) ([]*entities.User, error)
	DeleteUser(ctx context.Context, userID, actorID int) error
}

// RatingService creates ratings and, when a comment accompanies them, reviews
type RatingService interface {
	AddRating(ctx context.Context, fromUserID int, req AddRatingRequest) (*entities.Rating, error)
}

// ChatService handles per-task messaging
type ChatService interface {
	SendMessage(ctx context.Context, fromUserID int, req SendMessageRequest) (*MessageWithSender, error)
	GetMessagesForTask(ctx context.Context, taskID int) ([]*MessageWithSender, error)
}

// Claims carries the authenticated identity extracted from a token
type Claims struct {
	UserID int               `json:"userId"`
	Email  string            `json:"email"`
	Role   entities.UserRole `json:"role"`
}

// Request/response types

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType"`
	ExpiresIn   int64       `json:"expiresIn"`
	User        *PublicUser `json:"user"`
}

// PublicUser is the client-safe projection of a user (no password hash).
type PublicUser struct {
	ID    int               `json:"id"`
	Name  string            `json:"name"`
	Email string            `json:"email"`
	Role  entities.UserRole `json:"role,omitempty"`
}

type CreateTaskRequest struct {
	Title        string     `json:"title" validate:"required"`
	Description  string     `json:"description" validate:"required"`
	Category     string     `json:"category" validate:"required"`
	Urgency      string     `json:"urgency" validate:"required,oneof=low medium high"`
	Location     string     `json:"location" validate:"required"`
	Budget       *float64   `json:"budget"`
	WomenSafe    bool       `json:"womenSafe"`
	VerifiedOnly bool       `json:"verifiedOnly"`
	Deadline     *time.Time `json:"deadline" validate:"required"`
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	Images       []string   `json:"images"`
}

type UpdateProfileRequest struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Gender       *string `json:"gender"`
	PhoneNumber  *string `json:"phoneNumber"`
	ProfilePhoto *string `json:"profilePhoto"`
}

// UserSummary is the public view of a user including rating aggregates.
type UserSummary struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	FirstName    *string  `json:"firstName"`
	LastName     *string  `json:"lastName"`
	Gender       *string  `json:"gender"`
	PhoneNumber  *string  `json:"phoneNumber"`
	ProfilePhoto *string  `json:"profilePhoto"`
	AvgRating    *float64 `json:"avgRating"`
	RatingCount  int      `json:"ratingCount"`
}

type AddRatingRequest struct {
	ToUserID int    `json:"toUserId" validate:"required"`
	Score    int    `json:"score" validate:"required"`
	Comment  string `json:"comment"`
	TaskID   *int   `json:"taskId"`
}

type SendMessageRequest struct {
	TaskID    int     `json:"taskId" validate:"required"`
	ToUserID  int     `json:"toUserId" validate:"required"`
	Message   string  `json:"message"`
	MediaType *string `json:"mediaType"`
	MediaURL  *string `json:"mediaUrl"`
}

// MessageWithSender annotates a message with the sender's display name.
type MessageWithSender struct {
	entities.Message
	FromUserName string `json:"fromUserName"`
}
