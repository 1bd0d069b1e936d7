package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/query"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

// publicProjection strips credential fields from ordinary reads.
func publicProjection() bson.M {
	p := bson.M{}
	for _, f := range domain.UserSchema.Hidden {
		p[f] = 0
	}
	return p
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return insert(ctx, r.col, u)
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return findByID[domain.User](ctx, r.col, id, options.FindOne().SetProjection(publicProjection()))
}

func (r *UserRepository) FindCredentials(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return findByID[domain.User](ctx, r.col, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, email)
}

func (r *UserRepository) FindByResetToken(ctx context.Context, hashed string, now time.Time) (*domain.User, error) {
	return r.findOne(ctx, bson.M{
		"resetPasswordToken":  hashed,
		"resetPasswordExpire": bson.M{"$gt": now},
	}, "reset token")
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, label string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound(label)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindPage(ctx context.Context, q query.Query) ([]*domain.User, int64, error) {
	return findPage[*domain.User](ctx, r.col, q)
}

func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, set map[string]any, unset ...string) (*domain.User, error) {
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = bson.M(set)
	}
	if len(unset) > 0 {
		u := bson.M{}
		for _, f := range unset {
			u[f] = ""
		}
		update["$unset"] = u
	}
	if len(update) == 0 {
		return r.FindByID(ctx, id)
	}
	return updateByID[domain.User](ctx, r.col, id, update,
		options.FindOneAndUpdate().SetProjection(publicProjection()))
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.col, id)
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "resetPasswordToken", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return err
}
