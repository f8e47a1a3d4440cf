package ports

import (
	"context"
	"strings"

	"github.com/homeskillhub/core/internal/domain/entities"
)

// DocumentStore is the persistence engine contract: it owns the single
// persisted document and exposes transactional read-modify-write so
// multi-step lifecycle mutations are atomic with respect to each other.
// The engine itself enforces no business rules; it only maintains the
// counter invariant (counter > max id per collection).
type DocumentStore interface {
	// View runs fn with read access to the document. fn must not mutate it.
	View(ctx context.Context, fn func(doc *entities.Document) error) error
	// Update runs fn with exclusive access and persists the whole document
	// afterwards. If fn returns an error nothing is persisted.
	Update(ctx context.Context, fn func(doc *entities.Document) error) error
	Close() error
}

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) (*entities.Task, error)
	GetByID(ctx context.Context, id int) (*entities.Task, error)
	// Mutate applies fn to the stored task inside a single store update, so
	// precondition checks and the resulting write cannot interleave with
	// other mutations.
	Mutate(ctx context.Context, id int, fn func(task *entities.Task) error) (*entities.Task, error)
	Delete(ctx context.Context, id int) (*entities.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*entities.Task, error)
	ListByPoster(ctx context.Context, userID int, filter TaskFilter) ([]*entities.Task, error)
	ListByAssignee(ctx context.Context, userID int, filter TaskFilter) ([]*entities.Task, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	GetByID(ctx context.Context, id int) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, id int, fn func(user *entities.User) error) (*entities.User, error)
	Delete(ctx context.Context, id int) (*entities.User, error)
	List(ctx context.Context) ([]*entities.User, error)
}

// ProfileRepository defines the interface for extended profile records
type ProfileRepository interface {
	Upsert(ctx context.Context, userID int, fields map[string]string) (*entities.Profile, error)
	GetByUserID(ctx context.Context, userID int) (*entities.Profile, error)
}

// RatingRepository defines the interface for the append-only rating and
// review collections. There are deliberately no update or delete operations.
type RatingRepository interface {
	AddRating(ctx context.Context, rating *entities.Rating) (*entities.Rating, error)
	AddReview(ctx context.Context, review *entities.Review) (*entities.Review, error)
	ListRatingsForUser(ctx context.Context, userID int) ([]*entities.Rating, error)
	ListReviewsForUser(ctx context.Context, userID int) ([]*entities.Review, error)
}

// MessageRepository defines the interface for per-task chat messages
type MessageRepository interface {
	Add(ctx context.Context, message *entities.Message) (*entities.Message, error)
	ListByTask(ctx context.Context, taskID int) ([]*entities.Message, error)
}

// TaskFilter narrows task listings. Zero values (or "all") match everything.
// Expired tasks are excluded unless IncludeExpired is set; the admin surface
// is the only caller that sets it.
type TaskFilter struct {
	Search         string
	Category       string
	Urgency        string
	IncludeExpired bool
}

// Matches reports whether the task passes the search/category/urgency
// criteria. Expiry is checked separately because it depends on query time.
func (f TaskFilter) Matches(task *entities.Task) bool {
	if f.Search != "" {
		q := normalizeQuery(f.Search)
		if !containsFold(task.Title, q) && !containsFold(task.Description, q) {
			return false
		}
	}
	if f.Category != "" && f.Category != "all" && task.Category != f.Category {
		return false
	}
	if f.Urgency != "" && f.Urgency != "all" && string(task.Urgency) != f.Urgency {
		return false
	}
	return true
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
