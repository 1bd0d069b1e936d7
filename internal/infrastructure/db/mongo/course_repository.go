package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/query"
)

const collectionCourses = "courses"

type CourseRepository struct {
	col *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{col: db.Collection(collectionCourses)}
}

func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	return insert(ctx, r.col, c)
}

func (r *CourseRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Course, error) {
	return findByID[domain.Course](ctx, r.col, id)
}

func (r *CourseRepository) FindPage(ctx context.Context, q query.Query) ([]*domain.Course, int64, error) {
	return findPage[*domain.Course](ctx, r.col, q)
}

func (r *CourseRepository) Update(ctx context.Context, id primitive.ObjectID, set map[string]any) (*domain.Course, error) {
	return updateByID[domain.Course](ctx, r.col, id, setDoc(set))
}

func (r *CourseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.col, id)
}

func (r *CourseRepository) AverageTuition(ctx context.Context, bootcampID primitive.ObjectID) (float64, bool, error) {
	return average(ctx, r.col, bootcampID, "tuition")
}

func (r *CourseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "bootcamp", Value: 1}}},
		{Keys: bson.D{{Key: "user", Value: 1}}},
	})
	return err
}
