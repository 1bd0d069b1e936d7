package domain

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error kinds. The HTTP layer maps each kind to one status code.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("not authorized to access this route")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("duplicate field value entered")
	ErrGeocode            = errors.New("could not geocode address")
	ErrUpstream           = errors.New("upstream service failed")
)

// Error pairs a kind with the message shown to the client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error { return e.Kind }

// Errorf builds an *Error of the given kind with a formatted message.
func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound is the error for a missing or malformed resource id.
func NotFound(id string) *Error {
	return Errorf(ErrNotFound, "Resource not found with id of %s", id)
}

// ParseID parses a hex ObjectID. A malformed id is reported as not found.
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, NotFound(raw)
	}
	return id, nil
}
