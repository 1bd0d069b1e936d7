package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/query"
)

// findPage counts every document matching q and fetches q's window of them.
func findPage[T any](ctx context.Context, col *mongo.Collection, q query.Query) ([]T, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := q.Filter
	if filter == nil {
		filter = bson.M{}
	}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", col.Name(), err)
	}

	opts := options.Find().
		SetSort(q.Sort).
		SetSkip(q.Skip()).
		SetLimit(q.Size())
	if p := q.Projection(); p != nil {
		opts.SetProjection(p)
	}

	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	items := make([]T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", col.Name(), err)
	}
	return items, total, nil
}

func findByID[T any](ctx context.Context, col *mongo.Collection, id primitive.ObjectID, opts ...*options.FindOneOptions) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc T
	if err := col.FindOne(ctx, bson.M{"_id": id}, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound(id.Hex())
		}
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	return &doc, nil
}

func insert(ctx context.Context, col *mongo.Collection, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := col.InsertOne(ctx, doc); err != nil {
		return writeError(col, err)
	}
	return nil
}

// updateByID applies update and returns the document as stored afterwards.
func updateByID[T any](ctx context.Context, col *mongo.Collection, id primitive.ObjectID, update bson.M, opts ...*options.FindOneAndUpdateOptions) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	o := append([]*options.FindOneAndUpdateOptions{options.FindOneAndUpdate().SetReturnDocument(options.After)}, opts...)
	var doc T
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, o...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound(id.Hex())
		}
		return nil, writeError(col, err)
	}
	return &doc, nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return domain.NotFound(id.Hex())
	}
	return nil
}

// average runs $match/$group over a child collection. ok is false when no
// child references the bootcamp.
func average(ctx context.Context, col *mongo.Collection, bootcampID primitive.ObjectID, field string) (float64, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bootcamp": bootcampID}}},
		{{Key: "$group", Value: bson.M{"_id": "$bootcamp", "avg": bson.M{"$avg": "$" + field}}}},
	}
	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, false, fmt.Errorf("aggregate %s.%s: %w", col.Name(), field, err)
	}
	var groups []struct {
		Avg *float64 `bson:"avg"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return 0, false, fmt.Errorf("decode %s.%s average: %w", col.Name(), field, err)
	}
	if len(groups) == 0 || groups[0].Avg == nil {
		return 0, false, nil
	}
	return *groups[0].Avg, true, nil
}

func writeError(col *mongo.Collection, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return &domain.Error{Kind: domain.ErrConflict, Message: "Duplicate field value entered"}
	}
	return fmt.Errorf("write %s: %w", col.Name(), err)
}

func setDoc(set map[string]any) bson.M {
	return bson.M{"$set": bson.M(set)}
}
