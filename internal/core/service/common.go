package service

import (
	"context"
	"net/url"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/ports"
	"github.com/devcamper/bootcamp-api/internal/core/query"
)

var errNoActor = &domain.Error{Kind: domain.ErrUnauthorized, Message: "Not authorized to access this route"}

// authorizeOwner lets the owner of a resource or an admin through. action
// completes the sentence "User <id> is not authorized to ...".
func authorizeOwner(actor *domain.User, owner primitive.ObjectID, action string) error {
	if actor == nil {
		return errNoActor
	}
	if domain.CanModify(actor, owner) {
		return nil
	}
	return domain.Errorf(domain.ErrForbidden, "User %s is not authorized to %s", actor.ID.Hex(), action)
}

// listPage parses params against schema, narrows the query with scope and
// runs one windowed find plus count.
func listPage[T any](
	ctx context.Context,
	params url.Values,
	schema query.Schema,
	scope func(query.Query) query.Query,
	find func(context.Context, query.Query) ([]T, int64, error),
) (*ports.Page[T], error) {
	q, err := query.Parse(params, schema)
	if err != nil {
		return nil, err
	}
	if scope != nil {
		q = scope(q)
	}

	items, total, err := find(ctx, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	return &ports.Page[T]{
		Items:      items,
		Total:      total,
		Pagination: query.Paginate(q.Page, q.Limit, total),
		Fields:     q.Fields,
	}, nil
}

// scopeToBootcamp restricts a child listing to one parent bootcamp.
func scopeToBootcamp(raw string) (func(query.Query) query.Query, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := domain.ParseID(raw)
	if err != nil {
		return nil, err
	}
	return func(q query.Query) query.Query { return q.Where("bootcamp", id) }, nil
}
