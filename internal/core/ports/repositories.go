package ports

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/query"
)

// Repositories return domain.NotFound for missing documents and
// domain.ErrConflict for unique index violations.

type BootcampRepository interface {
	Create(ctx context.Context, b *domain.Bootcamp) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Bootcamp, error)
	FindPage(ctx context.Context, q query.Query) ([]*domain.Bootcamp, int64, error)
	// ExistsForUser reports whether userID already owns a bootcamp.
	ExistsForUser(ctx context.Context, userID primitive.ObjectID) (bool, error)
	Update(ctx context.Context, id primitive.ObjectID, set map[string]any) (*domain.Bootcamp, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// WithinRadius returns bootcamps whose location lies inside the spherical
	// cap centred on (lng, lat) with the given radius in radians.
	WithinRadius(ctx context.Context, lng, lat, radians float64) ([]*domain.Bootcamp, error)
	// SetAggregate writes field, or removes it when value is nil.
	SetAggregate(ctx context.Context, id primitive.ObjectID, field string, value *float64) error
}

type CourseRepository interface {
	Create(ctx context.Context, c *domain.Course) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error)
	FindPage(ctx context.Context, q query.Query) ([]*domain.Course, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set map[string]any) (*domain.Course, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AverageTuition returns the mean tuition of the bootcamp's courses. ok is
	// false when the bootcamp has no courses.
	AverageTuition(ctx context.Context, bootcampID primitive.ObjectID) (avg float64, ok bool, err error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Review, error)
	FindPage(ctx context.Context, q query.Query) ([]*domain.Review, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set map[string]any) (*domain.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AverageRating(ctx context.Context, bootcampID primitive.ObjectID) (avg float64, ok bool, err error)
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// FindByEmail loads the user including the password hash.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByResetToken returns the user holding the hashed reset token if it
	// has not expired at now.
	FindByResetToken(ctx context.Context, hashed string, now time.Time) (*domain.User, error)
	// FindCredentials loads the user by id including the password hash.
	FindCredentials(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	FindPage(ctx context.Context, q query.Query) ([]*domain.User, int64, error)
	// Update sets the given fields and removes the unset ones.
	Update(ctx context.Context, id primitive.ObjectID, set map[string]any, unset ...string) (*domain.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
