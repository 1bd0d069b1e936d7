package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/query"
)

const collectionReviews = "reviews"

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(collectionReviews)}
}

// Create inserts a review. A second review by the same user for the same
// bootcamp violates the unique index and is reported as domain.ErrConflict.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	return insert(ctx, r.col, rv)
}

func (r *ReviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Review, error) {
	return findByID[domain.Review](ctx, r.col, id)
}

func (r *ReviewRepository) FindPage(ctx context.Context, q query.Query) ([]*domain.Review, int64, error) {
	return findPage[*domain.Review](ctx, r.col, q)
}

func (r *ReviewRepository) Update(ctx context.Context, id primitive.ObjectID, set map[string]any) (*domain.Review, error) {
	return updateByID[domain.Review](ctx, r.col, id, setDoc(set))
}

func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.col, id)
}

func (r *ReviewRepository) AverageRating(ctx context.Context, bootcampID primitive.ObjectID) (float64, bool, error) {
	return average(ctx, r.col, bootcampID, "rating")
}

func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "bootcamp", Value: 1}, {Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}
