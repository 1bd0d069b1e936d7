package ports

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
)

// Geocoder resolves a free-text address or zipcode.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.Location, error)
}

// MailMessage is a plain-text email.
type MailMessage struct {
	To      string
	Subject string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// PhotoStore persists uploaded bootcamp photos and returns the stored
// reference (object name or public URL).
type PhotoStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// TokenManager issues and verifies session tokens carrying a user id.
type TokenManager interface {
	Issue(userID primitive.ObjectID) (string, error)
	Parse(token string) (primitive.ObjectID, error)
}

// Aggregate fields maintained on a bootcamp.
type Aggregate string

const (
	AggregateCost   Aggregate = "averageCost"
	AggregateRating Aggregate = "averageRating"
)

// AggregateRecalculator recomputes one aggregate of one bootcamp from its children.
type AggregateRecalculator interface {
	Recalculate(ctx context.Context, kind Aggregate, bootcampID primitive.ObjectID) error
}

// AggregateTrigger schedules a recompute after a child write has committed.
// It never reports failure to the caller.
type AggregateTrigger interface {
	Trigger(ctx context.Context, kind Aggregate, bootcampID primitive.ObjectID)
}
