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

type CourseService struct {
	courses    ports.CourseRepository
	bootcamps  ports.BootcampRepository
	aggregates ports.AggregateTrigger
	log        zerolog.Logger
	now        func() time.Time
}

func NewCourseService(
	courses ports.CourseRepository,
	bootcamps ports.BootcampRepository,
	aggregates ports.AggregateTrigger,
	log zerolog.Logger,
) *CourseService {
	return &CourseService{
		courses:    courses,
		bootcamps:  bootcamps,
		aggregates: aggregates,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *CourseService) List(ctx context.Context, bootcampID string, params url.Values) (*ports.Page[*domain.Course], error) {
	scope, err := scopeToBootcamp(bootcampID)
	if err != nil {
		return nil, err
	}
	return listPage(ctx, params, domain.CourseSchema, scope, s.courses.FindPage)
}

// Get returns the course with its bootcamp's name and description. A course
// whose bootcamp is gone keeps the bare bootcamp id.
func (s *CourseService) Get(ctx context.Context, id string) (*domain.Course, error) {
	oid, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	c, err := s.courses.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	b, err := s.bootcamps.FindByID(ctx, c.Bootcamp)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c, nil
	case err != nil:
		return nil, err
	}
	return c.WithBootcamp(b), nil
}

// Create adds a course to a bootcamp owned by actor and schedules the
// bootcamp's averageCost recompute.
func (s *CourseService) Create(ctx context.Context, actor *domain.User, bootcampID string, in ports.CourseInput) (*domain.Course, error) {
	if actor == nil {
		return nil, errNoActor
	}
	b, err := findParent(ctx, s.bootcamps, bootcampID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(actor, b.User, "add a course to bootcamp "+b.ID.Hex()); err != nil {
		return nil, err
	}

	c := &domain.Course{
		ID:                   primitive.NewObjectID(),
		Title:                strings.TrimSpace(in.Title),
		Description:          in.Description,
		Weeks:                in.Weeks,
		Tuition:              in.Tuition,
		MinimumSkill:         in.MinimumSkill,
		ScholarshipAvailable: in.ScholarshipAvailable,
		Bootcamp:             b.ID,
		User:                 actor.ID,
		CreatedAt:            s.now(),
	}
	if err := s.courses.Create(ctx, c); err != nil {
		return nil, err
	}

	s.aggregates.Trigger(ctx, ports.AggregateCost, b.ID)
	s.log.Info().Str("course", c.ID.Hex()).Str("bootcamp", b.ID.Hex()).Msg("course created")
	return c, nil
}

func (s *CourseService) Update(ctx context.Context, actor *domain.User, id string, patch ports.CoursePatch) (*domain.Course, error) {
	c, err := s.owned(ctx, actor, id, "update course "+id)
	if err != nil {
		return nil, err
	}

	set := map[string]any{}
	if patch.Title != nil {
		set["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Weeks != nil {
		set["weeks"] = *patch.Weeks
	}
	if patch.Tuition != nil {
		set["tuition"] = *patch.Tuition
	}
	if patch.MinimumSkill != nil {
		set["minimumSkill"] = *patch.MinimumSkill
	}
	setBool(set, "scholarshipAvailable", patch.ScholarshipAvailable)

	if len(set) == 0 {
		return c, nil
	}
	updated, err := s.courses.Update(ctx, c.ID, set)
	if err != nil {
		return nil, err
	}
	s.aggregates.Trigger(ctx, ports.AggregateCost, c.Bootcamp)
	return updated, nil
}

func (s *CourseService) Delete(ctx context.Context, actor *domain.User, id string) error {
	c, err := s.owned(ctx, actor, id, "delete course "+id)
	if err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, c.ID); err != nil {
		return err
	}
	s.aggregates.Trigger(ctx, ports.AggregateCost, c.Bootcamp)
	s.log.Info().Str("course", c.ID.Hex()).Str("bootcamp", c.Bootcamp.Hex()).Msg("course deleted")
	return nil
}

func (s *CourseService) owned(ctx context.Context, actor *domain.User, id, action string) (*domain.Course, error) {
	if actor == nil {
		return nil, errNoActor
	}
	oid, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	c, err := s.courses.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(actor, c.User, action); err != nil {
		return nil, err
	}
	return c, nil
}

// findParent loads the bootcamp a child is being attached to.
func findParent(ctx context.Context, repo ports.BootcampRepository, id string) (*domain.Bootcamp, error) {
	oid, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	b, err := repo.FindByID(ctx, oid)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Errorf(domain.ErrNotFound, "No bootcamp with the id of %s", id)
	}
	return b, err
}
