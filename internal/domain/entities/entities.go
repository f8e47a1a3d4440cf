package entities

import (
	"errors"
	"strings"
	"time"
)

// Common errors
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrSelfAcceptance     = errors.New("you cannot accept your own task")
	ErrAlreadyAccepted    = errors.New("you have already accepted this task")
	ErrTaskAssigned       = errors.New("task is already assigned to someone")
	ErrNotPoster          = errors.New("only the task poster can assign helpers")
	ErrHelperNotAccepted  = errors.New("user has not accepted this task")
	ErrNotParticipant     = errors.New("only the helper or task poster can mark as completed")
	ErrNotOwner           = errors.New("you do not own this resource")
	ErrInvalidStatus      = errors.New("invalid task status")
	ErrInvalidUrgency     = errors.New("invalid urgency")
	ErrSelfRating         = errors.New("you cannot rate yourself")
	ErrInvalidScore       = errors.New("score must be between 1 and 5")
	ErrEmailTaken         = errors.New("a user with that email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmptyMessage       = errors.New("message or media is required")
	ErrSelfDeletion       = errors.New("cannot delete your own account")
)

// Enums and types
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// TaskStatus is the lifecycle state of a task. The normal progression is
// open -> pending_approval -> assigned -> completed; the status patch
// operation may override it out of band.
type TaskStatus string

const (
	TaskStatusOpen            TaskStatus = "open"
	TaskStatusPendingApproval TaskStatus = "pending_approval"
	TaskStatusAssigned        TaskStatus = "assigned"
	TaskStatusCompleted       TaskStatus = "completed"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// User represents a registered account.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Name         string    `json:"name"`
	Role         UserRole  `json:"role,omitempty"`
	FirstName    *string   `json:"firstName,omitempty"`
	LastName     *string   `json:"lastName,omitempty"`
	Gender       *string   `json:"gender,omitempty"`
	PhoneNumber  *string   `json:"phoneNumber,omitempty"`
	ProfilePhoto *string   `json:"profilePhoto,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// DisplayName recomputes the display name from first/last name when both are
// present, falling back to the current name.
func (u *User) DisplayName() string {
	if u.FirstName != nil && u.LastName != nil && *u.FirstName != "" && *u.LastName != "" {
		return *u.FirstName + " " + *u.LastName
	}
	return u.Name
}

// Acceptance records a helper's expression of interest in a task. Entries are
// appended in interest order and never removed individually.
type Acceptance struct {
	UserID     int       `json:"userId"`
	AcceptedAt time.Time `json:"acceptedAt"`
}

// Task is the central marketplace entity.
type Task struct {
	ID               int          `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Category         string       `json:"category"`
	Urgency          Urgency      `json:"urgency"`
	Location         string       `json:"location"`
	Latitude         *float64     `json:"latitude,omitempty"`
	Longitude        *float64     `json:"longitude,omitempty"`
	Budget           *float64     `json:"budget"`
	WomenSafe        bool         `json:"womenSafe"`
	VerifiedOnly     bool         `json:"verifiedOnly"`
	Deadline         *time.Time   `json:"deadline"`
	Images           []string     `json:"images"`
	Status           TaskStatus   `json:"status"`
	PosterID         int          `json:"posterId"`
	AssignedToUserID *int         `json:"assignedToUserId,omitempty"`
	Acceptances      []Acceptance `json:"acceptances,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	CompletedAt      *time.Time   `json:"completedAt,omitempty"`
}

// HasAcceptance reports whether the user already expressed interest.
func (t *Task) HasAcceptance(userID int) bool {
	for _, a := range t.Acceptances {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// IsExpired reports whether the deadline has passed. Expiry only hides the
// task from listings; it is not a stored lifecycle state.
func (t *Task) IsExpired(now time.Time) bool {
	return t.Deadline != nil && !t.Deadline.After(now)
}

// Accept appends an acceptance for userID. The first acceptance moves the
// task to pending_approval; later ones leave the status untouched.
func (t *Task) Accept(userID int, now time.Time) error {
	if userID == t.PosterID {
		return ErrSelfAcceptance
	}
	if t.Status == TaskStatusAssigned {
		return ErrTaskAssigned
	}
	if t.HasAcceptance(userID) {
		return ErrAlreadyAccepted
	}

	t.Acceptances = append(t.Acceptances, Acceptance{UserID: userID, AcceptedAt: now})
	if len(t.Acceptances) == 1 {
		t.Status = TaskStatusPendingApproval
	}
	return nil
}

// Assign lets the poster pick one accepted helper. Re-assigning an already
// assigned task is rejected.
func (t *Task) Assign(actorID, targetID int) error {
	if actorID != t.PosterID {
		return ErrNotPoster
	}
	if t.Status == TaskStatusAssigned {
		return ErrTaskAssigned
	}
	if !t.HasAcceptance(targetID) {
		return ErrHelperNotAccepted
	}

	t.AssignedToUserID = &targetID
	t.Status = TaskStatusAssigned
	return nil
}

// Complete marks the task done. Only the poster or the assigned helper may
// complete it.
func (t *Task) Complete(actorID int, now time.Time) error {
	assignee := t.AssignedToUserID != nil && *t.AssignedToUserID == actorID
	if !assignee && actorID != t.PosterID {
		return ErrNotParticipant
	}

	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	return nil
}

// PatchStatus overwrites the status without ownership or transition checks.
// This is a deliberate manual-override escape hatch; it can leave acceptances
// and assignedToUserId out of step with the stored status.
func (t *Task) PatchStatus(status TaskStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	t.Status = status
	return nil
}

// Clone returns a deep copy so callers can hand tasks out of the store
// without sharing slices.
func (t *Task) Clone() *Task {
	c := *t
	if t.Images != nil {
		c.Images = append([]string(nil), t.Images...)
	}
	if t.Acceptances != nil {
		c.Acceptances = append([]Acceptance(nil), t.Acceptances...)
	}
	if t.AssignedToUserID != nil {
		id := *t.AssignedToUserID
		c.AssignedToUserID = &id
	}
	return &c
}

// Profile holds free-form extended profile fields keyed by user.
type Profile struct {
	ID        int               `json:"id"`
	UserID    int               `json:"userId"`
	Fields    map[string]string `json:"fields,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Rating is an append-only 1-5 score from one user to another, optionally
// tied to a task. Ratings are never updated or deleted.
type Rating struct {
	ID         int       `json:"id"`
	FromUserID int       `json:"fromUserId"`
	ToUserID   int       `json:"toUserId"`
	Score      int       `json:"score"`
	TaskID     *int      `json:"taskId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Review is a rating accompanied by a non-empty comment. Created only when a
// comment is present; immutable like ratings.
type Review struct {
	ID         int       `json:"id"`
	FromUserID int       `json:"fromUserId"`
	ToUserID   int       `json:"toUserId"`
	Score      int       `json:"score"`
	Comment    string    `json:"comment"`
	TaskID     *int      `json:"taskId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Message is a per-task chat message, optionally carrying media.
type Message struct {
	ID         int       `json:"id"`
	TaskID     int       `json:"taskId"`
	FromUserID int       `json:"fromUserId"`
	ToUserID   int       `json:"toUserId"`
	Message    string    `json:"message"`
	MediaType  *string   `json:"mediaType"`
	MediaURL   *string   `json:"mediaUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Utility methods
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleUser, UserRoleAdmin:
		return true
	default:
		return false
	}
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusPendingApproval, TaskStatusAssigned, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	default:
		return false
	}
}

// NormalizeEmail canonicalizes emails for the case-insensitive uniqueness
// check.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
