// Command seed imports the JSON fixtures under -dir into MongoDB, or destroys
// all data.
//
//	seed -i [-dir _data]   import users, bootcamps, courses and reviews
//	seed -d                delete every document
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/ports"
	"github.com/devcamper/bootcamp-api/internal/core/service"
	mongodb "github.com/devcamper/bootcamp-api/internal/infrastructure/db/mongo"
	"github.com/devcamper/bootcamp-api/internal/infrastructure/geocoder"
	"github.com/devcamper/bootcamp-api/internal/pkg/config"
	"github.com/devcamper/bootcamp-api/pkg/logger"
)

type seedUser struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type seedBootcamp struct {
	ID            string   `json:"_id"`
	User          string   `json:"user"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Website       string   `json:"website"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	Careers       []string `json:"careers"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"jobAssistance"`
	JobGuarantee  bool     `json:"jobGuarantee"`
	AcceptGi      bool     `json:"acceptGi"`
}

type seedCourse struct {
	ID                   string  `json:"_id"`
	Title                string  `json:"title"`
	Description          string  `json:"description"`
	Weeks                string  `json:"weeks"`
	Tuition              float64 `json:"tuition"`
	MinimumSkill         string  `json:"minimumSkill"`
	ScholarshipAvailable bool    `json:"scholarshipAvailable"`
	Bootcamp             string  `json:"bootcamp"`
	User                 string  `json:"user"`
}

type seedReview struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Rating   int    `json:"rating"`
	Bootcamp string `json:"bootcamp"`
	User     string `json:"user"`
}

func main() {
	importData := flag.Bool("i", false, "import fixtures")
	destroyData := flag.Bool("d", false, "delete all data")
	dir := flag.String("dir", "_data", "directory holding the JSON fixtures")
	flag.Parse()

	if *importData == *destroyData {
		fmt.Fprintln(os.Stderr, "usage: seed -i [-dir _data] | seed -d")
		os.Exit(2)
	}

	cfg, err := config.LoadContext(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "seed"})

	ctx := context.Background()
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect")
	}
	defer func() { _ = client.Disconnect(ctx) }()
	repos := mongodb.NewRepositories(db)

	if *destroyData {
		if err := repos.Purge(ctx); err != nil {
			log.Fatal().Err(err).Msg("destroy")
		}
		log.Info().Msg("Data destroyed!")
		return
	}

	if err := repos.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("indexes")
	}
	var geo ports.Geocoder
	if cfg.Geocoder.APIKey != "" {
		geo = geocoder.NewMapQuest(cfg.Geocoder.APIKey, cfg.Geocoder.BaseURL)
	}
	s := &seeder{
		repos: repos,
		geo:   geo,
		dir:   *dir,
		log:   log,
		now:   time.Now().UTC(),
		roles: make(map[primitive.ObjectID]string),
	}
	if err := s.run(ctx); err != nil {
		log.Fatal().Err(err).Msg("import")
	}
	log.Info().Msg("Data imported!")
}

type seeder struct {
	repos *mongodb.Repositories
	geo   ports.Geocoder
	dir   string
	log   zerolog.Logger
	now   time.Time
	roles map[primitive.ObjectID]string
}

func (s *seeder) run(ctx context.Context) error {
	var users []seedUser
	if err := s.load("users.json", &users); err != nil {
		return err
	}
	for _, in := range users {
		if err := s.user(ctx, in); err != nil {
			return fmt.Errorf("user %s: %w", in.Email, err)
		}
	}

	var bootcamps []seedBootcamp
	if err := s.load("bootcamps.json", &bootcamps); err != nil {
		return err
	}
	ids := make([]primitive.ObjectID, 0, len(bootcamps))
	for _, in := range bootcamps {
		id, err := s.bootcamp(ctx, in)
		if err != nil {
			return fmt.Errorf("bootcamp %s: %w", in.Name, err)
		}
		ids = append(ids, id)
	}

	var courses []seedCourse
	if err := s.load("courses.json", &courses); err != nil {
		return err
	}
	for _, in := range courses {
		if err := s.course(ctx, in); err != nil {
			return fmt.Errorf("course %s: %w", in.Title, err)
		}
	}

	var reviews []seedReview
	if err := s.load("reviews.json", &reviews); err != nil {
		return err
	}
	for _, in := range reviews {
		if err := s.review(ctx, in); err != nil {
			return fmt.Errorf("review %s: %w", in.Title, err)
		}
	}

	recalc := service.NewAggregateRecalculator(s.repos.Bootcamps, s.repos.Courses, s.repos.Reviews, s.log)
	for _, id := range ids {
		for _, kind := range []ports.Aggregate{ports.AggregateCost, ports.AggregateRating} {
			if err := recalc.Recalculate(ctx, kind, id); err != nil {
				return err
			}
		}
	}
	s.log.Info().
		Int("users", len(users)).
		Int("bootcamps", len(bootcamps)).
		Int("courses", len(courses)).
		Int("reviews", len(reviews)).
		Msg("fixtures loaded")
	return nil
}

// load decodes dir/name into v. A missing file leaves v empty.
func (s *seeder) load(name string, v any) error {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		s.log.Warn().Str("file", name).Msg("fixture not found, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *seeder) user(ctx context.Context, in seedUser) error {
	id, err := objectID(in.ID)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	s.roles[id] = role
	return s.repos.Users.Create(ctx, &domain.User{
		ID:           id,
		Name:         in.Name,
		Email:        in.Email,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    s.now,
	})
}

func (s *seeder) bootcamp(ctx context.Context, in seedBootcamp) (primitive.ObjectID, error) {
	id, err := objectID(in.ID)
	if err != nil {
		return id, err
	}
	owner, err := objectID(in.User)
	if err != nil {
		return id, err
	}

	b := &domain.Bootcamp{
		ID:            id,
		Name:          in.Name,
		Slug:          slug.Make(in.Name),
		Description:   in.Description,
		Website:       in.Website,
		Phone:         in.Phone,
		Email:         in.Email,
		Careers:       in.Careers,
		Photo:         domain.DefaultPhoto,
		Housing:       in.Housing,
		JobAssistance: in.JobAssistance,
		JobGuarantee:  in.JobGuarantee,
		AcceptGi:      in.AcceptGi,
		User:          owner,
		CreatedAt:     s.now,
	}
	if s.roles[owner] != domain.RoleAdmin {
		b.Publisher = &owner
	}
	if s.geo != nil {
		loc, err := s.geo.Geocode(ctx, in.Address)
		if err != nil {
			return id, err
		}
		b.Location = loc
	}
	return id, s.repos.Bootcamps.Create(ctx, b)
}

func (s *seeder) course(ctx context.Context, in seedCourse) error {
	id, err := objectID(in.ID)
	if err != nil {
		return err
	}
	bootcamp, err := primitive.ObjectIDFromHex(in.Bootcamp)
	if err != nil {
		return err
	}
	owner, err := objectID(in.User)
	if err != nil {
		return err
	}
	return s.repos.Courses.Create(ctx, &domain.Course{
		ID:                   id,
		Title:                in.Title,
		Description:          in.Description,
		Weeks:                in.Weeks,
		Tuition:              in.Tuition,
		MinimumSkill:         in.MinimumSkill,
		ScholarshipAvailable: in.ScholarshipAvailable,
		Bootcamp:             bootcamp,
		User:                 owner,
		CreatedAt:            s.now,
	})
}

func (s *seeder) review(ctx context.Context, in seedReview) error {
	id, err := objectID(in.ID)
	if err != nil {
		return err
	}
	bootcamp, err := primitive.ObjectIDFromHex(in.Bootcamp)
	if err != nil {
		return err
	}
	owner, err := primitive.ObjectIDFromHex(in.User)
	if err != nil {
		return err
	}
	return s.repos.Reviews.Create(ctx, &domain.Review{
		ID:        id,
		Title:     in.Title,
		Text:      in.Text,
		Rating:    in.Rating,
		Bootcamp:  bootcamp,
		User:      owner,
		CreatedAt: s.now,
	})
}

// objectID parses a fixture id, minting a fresh one when the field is empty.
func objectID(raw string) (primitive.ObjectID, error) {
	if raw == "" {
		return primitive.NewObjectID(), nil
	}
	return primitive.ObjectIDFromHex(raw)
}
