package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/query"
)

const collectionBootcamps = "bootcamps"

type BootcampRepository struct {
	col *mongo.Collection
}

func NewBootcampRepository(db *mongo.Database) *BootcampRepository {
	return &BootcampRepository{col: db.Collection(collectionBootcamps)}
}

func (r *BootcampRepository) Create(ctx context.Context, b *domain.Bootcamp) error {
	return insert(ctx, r.col, b)
}

func (r *BootcampRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Bootcamp, error) {
	return findByID[domain.Bootcamp](ctx, r.col, id)
}

func (r *BootcampRepository) FindPage(ctx context.Context, q query.Query) ([]*domain.Bootcamp, int64, error) {
	return findPage[*domain.Bootcamp](ctx, r.col, q)
}

func (r *BootcampRepository) ExistsForUser(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"user": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count bootcamps by user: %w", err)
	}
	return n > 0, nil
}

func (r *BootcampRepository) Update(ctx context.Context, id primitive.ObjectID, set map[string]any) (*domain.Bootcamp, error) {
	return updateByID[domain.Bootcamp](ctx, r.col, id, setDoc(set))
}

func (r *BootcampRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.col, id)
}

func (r *BootcampRepository) WithinRadius(ctx context.Context, lng, lat, radians float64) ([]*domain.Bootcamp, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radians},
			},
		},
	}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("radius search: %w", err)
	}
	out := []*domain.Bootcamp{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("radius search decode: %w", err)
	}
	return out, nil
}

// SetAggregate writes an aggregate field or removes it when value is nil.
func (r *BootcampRepository) SetAggregate(ctx context.Context, id primitive.ObjectID, field string, value *float64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$unset": bson.M{field: ""}}
	if value != nil {
		update = bson.M{"$set": bson.M{field: *value}}
	}
	res, err := r.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("set %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound(id.Hex())
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the bootcamps collection.
func (r *BootcampRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	// Only bootcamps owned by non-admins carry publisher.
	onePerPublisher := options.Index().
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"publisher": bson.M{"$exists": true}})

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "publisher", Value: 1}}, Options: onePerPublisher},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
