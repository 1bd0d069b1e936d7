package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Repositories bundles every collection-backed repository over one database.
type Repositories struct {
	db        *mongo.Database
	Bootcamps *BootcampRepository
	Courses   *CourseRepository
	Reviews   *ReviewRepository
	Users     *UserRepository
}

func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		db:        db,
		Bootcamps: NewBootcampRepository(db),
		Courses:   NewCourseRepository(db),
		Reviews:   NewReviewRepository(db),
		Users:     NewUserRepository(db),
	}
}

// EnsureIndexes creates the unique, geo and lookup indexes of every collection.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	for name, ensure := range map[string]func(context.Context) error{
		collectionBootcamps: r.Bootcamps.EnsureIndexes,
		collectionCourses:   r.Courses.EnsureIndexes,
		collectionReviews:   r.Reviews.EnsureIndexes,
		collectionUsers:     r.Users.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	return nil
}

// Purge removes every document from the four collections, keeping indexes.
// It backs the seeder's destroy mode.
func (r *Repositories) Purge(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	for _, name := range []string{collectionReviews, collectionCourses, collectionBootcamps, collectionUsers} {
		if _, err := r.db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("purge %s: %w", name, err)
		}
	}
	return nil
}
