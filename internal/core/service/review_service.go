package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/ports"
)

type ReviewService struct {
	reviews    ports.ReviewRepository
	bootcamps  ports.BootcampRepository
	aggregates ports.AggregateTrigger
	log        zerolog.Logger
	now        func() time.Time
}

func NewReviewService(
	reviews ports.ReviewRepository,
	bootcamps ports.BootcampRepository,
	aggregates ports.AggregateTrigger,
	log zerolog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		bootcamps:  bootcamps,
		aggregates: aggregates,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *ReviewService) List(ctx context.Context, bootcampID string, params url.Values) (*ports.Page[*domain.Review], error) {
	scope, err := scopeToBootcamp(bootcampID)
	if err != nil {
		return nil, err
	}
	return listPage(ctx, params, domain.ReviewSchema, scope, s.reviews.FindPage)
}

func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	oid, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.reviews.FindByID(ctx, oid)
}

// Create stores actor's review of a bootcamp. A user may review each bootcamp once.
func (s *ReviewService) Create(ctx context.Context, actor *domain.User, bootcampID string, in ports.ReviewInput) (*domain.Review, error) {
	if actor == nil {
		return nil, errNoActor
	}
	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return nil, domain.Errorf(domain.ErrValidation, "Rating must be between %d and %d", domain.MinRating, domain.MaxRating)
	}
	b, err := findParent(ctx, s.bootcamps, bootcampID)
	if err != nil {
		return nil, err
	}

	r := &domain.Review{
		ID:        primitive.NewObjectID(),
		Title:     strings.TrimSpace(in.Title),
		Text:      in.Text,
		Rating:    in.Rating,
		Bootcamp:  b.ID,
		User:      actor.ID,
		CreatedAt: s.now(),
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Errorf(domain.ErrConflict, "User %s has already reviewed bootcamp %s", actor.ID.Hex(), b.ID.Hex())
		}
		return nil, err
	}

	s.aggregates.Trigger(ctx, ports.AggregateRating, b.ID)
	s.log.Info().Str("review", r.ID.Hex()).Str("bootcamp", b.ID.Hex()).Msg("review created")
	return r, nil
}

func (s *ReviewService) Update(ctx context.Context, actor *domain.User, id string, patch ports.ReviewPatch) (*domain.Review, error) {
	r, err := s.owned(ctx, actor, id, "update review "+id)
	if err != nil {
		return nil, err
	}

	set := map[string]any{}
	if patch.Title != nil {
		set["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}
	if patch.Rating != nil {
		if *patch.Rating < domain.MinRating || *patch.Rating > domain.MaxRating {
			return nil, domain.Errorf(domain.ErrValidation, "Rating must be between %d and %d", domain.MinRating, domain.MaxRating)
		}
		set["rating"] = *patch.Rating
	}

	if len(set) == 0 {
		return r, nil
	}
	updated, err := s.reviews.Update(ctx, r.ID, set)
	if err != nil {
		return nil, err
	}
	s.aggregates.Trigger(ctx, ports.AggregateRating, r.Bootcamp)
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor *domain.User, id string) error {
	r, err := s.owned(ctx, actor, id, "delete review "+id)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, r.ID); err != nil {
		return err
	}
	s.aggregates.Trigger(ctx, ports.AggregateRating, r.Bootcamp)
	s.log.Info().Str("review", r.ID.Hex()).Str("bootcamp", r.Bootcamp.Hex()).Msg("review deleted")
	return nil
}

func (s *ReviewService) owned(ctx context.Context, actor *domain.User, id, action string) (*domain.Review, error) {
	if actor == nil {
		return nil, errNoActor
	}
	oid, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	r, err := s.reviews.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(actor, r.User, action); err != nil {
		return nil, err
	}
	return r, nil
}
