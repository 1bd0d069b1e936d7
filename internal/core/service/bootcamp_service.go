package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/ports"
)

// EarthRadiusMiles converts a search distance in miles into radians.
const EarthRadiusMiles = 3963.0

// sniffLen is how much of an upload is read to detect its content type.
const sniffLen = 3072

type BootcampService struct {
	repo      ports.BootcampRepository
	geocoder  ports.Geocoder
	photos    ports.PhotoStore
	maxUpload int64
	log       zerolog.Logger
	now       func() time.Time
}

func NewBootcampService(
	repo ports.BootcampRepository,
	geocoder ports.Geocoder,
	photos ports.PhotoStore,
	maxUpload int64,
	log zerolog.Logger,
) *BootcampService {
	return &BootcampService{
		repo:      repo,
		geocoder:  geocoder,
		photos:    photos,
		maxUpload: maxUpload,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *BootcampService) List(ctx context.Context, params url.Values) (*ports.Page[*domain.Bootcamp], error) {
	return listPage(ctx, params, domain.BootcampSchema, nil, s.repo.FindPage)
}

func (s *BootcampService) Get(ctx context.Context, id string) (*domain.Bootcamp, error) {
	oid, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, oid)
}

// Create runs validate → slug → geocode → persist. A geocoding failure
// aborts before anything is written.
func (s *BootcampService) Create(ctx context.Context, actor *domain.User, in ports.BootcampInput) (*domain.Bootcamp, error) {
	if actor == nil {
		return nil, errNoActor
	}

	if !actor.IsAdmin() {
		owns, err := s.repo.ExistsForUser(ctx, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("create bootcamp: %w", err)
		}
		if owns {
			return nil, alreadyPublished(actor)
		}
	}

	if err := validateCareers(in.Careers); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	b := &domain.Bootcamp{
		ID:            primitive.NewObjectID(),
		Name:          name,
		Slug:          slug.Make(name),
		Description:   strings.TrimSpace(in.Description),
		Website:       in.Website,
		Phone:         in.Phone,
		Email:         in.Email,
		Careers:       in.Careers,
		Photo:         domain.DefaultPhoto,
		Housing:       in.Housing,
		JobAssistance: in.JobAssistance,
		JobGuarantee:  in.JobGuarantee,
		AcceptGi:      in.AcceptGi,
		User:          actor.ID,
		CreatedAt:     s.now(),
	}

	if !actor.IsAdmin() {
		owner := actor.ID
		b.Publisher = &owner
	}

	loc, err := s.geocoder.Geocode(ctx, in.Address)
	if err != nil {
		return nil, err
	}
	b.Location = loc

	if err := s.repo.Create(ctx, b); err != nil {
		// A concurrent create by the same publisher loses on the publisher index.
		if errors.Is(err, domain.ErrConflict) && b.Publisher != nil {
			if owns, _ := s.repo.ExistsForUser(ctx, actor.ID); owns {
				return nil, alreadyPublished(actor)
			}
		}
		s.log.Error().Err(err).Str("name", b.Name).Msg("failed to create bootcamp")
		return nil, err
	}

	s.log.Info().Str("bootcamp", b.ID.Hex()).Str("user", actor.ID.Hex()).Msg("bootcamp created")
	return b, nil
}

func (s *BootcampService) Update(ctx context.Context, actor *domain.User, id string, patch ports.BootcampPatch) (*domain.Bootcamp, error) {
	b, err := s.owned(ctx, actor, id, "update this bootcamp")
	if err != nil {
		return nil, err
	}

	set := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		set["name"] = name
		set["slug"] = slug.Make(name)
	}
	if patch.Description != nil {
		set["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.Website != nil {
		set["website"] = *patch.Website
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Careers != nil {
		if err := validateCareers(patch.Careers); err != nil {
			return nil, err
		}
		set["careers"] = patch.Careers
	}
	setBool(set, "housing", patch.Housing)
	setBool(set, "jobAssistance", patch.JobAssistance)
	setBool(set, "jobGuarantee", patch.JobGuarantee)
	setBool(set, "acceptGi", patch.AcceptGi)

	if patch.Address != nil {
		loc, err := s.geocoder.Geocode(ctx, *patch.Address)
		if err != nil {
			return nil, err
		}
		set["location"] = loc
	}

	if len(set) == 0 {
		return b, nil
	}
	return s.repo.Update(ctx, b.ID, set)
}

// Delete removes the bootcamp only. Its courses and reviews are left in place.
func (s *BootcampService) Delete(ctx context.Context, actor *domain.User, id string) error {
	b, err := s.owned(ctx, actor, id, "delete this bootcamp")
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, b.ID); err != nil {
		return err
	}
	s.log.Info().Str("bootcamp", b.ID.Hex()).Str("user", actor.ID.Hex()).Msg("bootcamp deleted")
	return nil
}

func (s *BootcampService) WithinRadius(ctx context.Context, zipcode string, miles float64) ([]*domain.Bootcamp, error) {
	if miles <= 0 {
		return nil, domain.Errorf(domain.ErrValidation, "Distance must be a positive number of miles")
	}
	loc, err := s.geocoder.Geocode(ctx, zipcode)
	if err != nil {
		return nil, err
	}
	if len(loc.Coordinates) != 2 {
		return nil, &domain.Error{Kind: domain.ErrGeocode}
	}

	bootcamps, err := s.repo.WithinRadius(ctx, loc.Coordinates[0], loc.Coordinates[1], miles/EarthRadiusMiles)
	if err != nil {
		return nil, err
	}
	if bootcamps == nil {
		bootcamps = []*domain.Bootcamp{}
	}
	return bootcamps, nil
}

// UploadPhoto sniffs the upload, stores it under a fresh name and records
// the stored reference on the bootcamp.
func (s *BootcampService) UploadPhoto(ctx context.Context, actor *domain.User, id string, file ports.PhotoUpload) (string, error) {
	b, err := s.owned(ctx, actor, id, "update this bootcamp")
	if err != nil {
		return "", err
	}

	if file.Content == nil {
		return "", domain.Errorf(domain.ErrValidation, "Please upload a file")
	}
	if s.maxUpload > 0 && file.Size > s.maxUpload {
		return "", domain.Errorf(domain.ErrValidation, "Please upload an image less than %d bytes", s.maxUpload)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", domain.Errorf(domain.ErrValidation, "Please upload an image file")
	}

	name := fmt.Sprintf("photo_%s_%s%s", b.ID.Hex(), uuid.NewString(), mt.Extension())
	ref, err := s.photos.Put(ctx, name, io.MultiReader(bytes.NewReader(head), file.Content), file.Size, mt.String())
	if err != nil {
		s.log.Error().Err(err).Str("bootcamp", b.ID.Hex()).Msg("photo upload failed")
		return "", domain.Errorf(domain.ErrUpstream, "Problem with file upload")
	}

	if _, err := s.repo.Update(ctx, b.ID, map[string]any{"photo": ref}); err != nil {
		return "", err
	}
	s.log.Info().Str("bootcamp", b.ID.Hex()).Str("photo", ref).Msg("photo uploaded")
	return ref, nil
}

func (s *BootcampService) owned(ctx context.Context, actor *domain.User, id, action string) (*domain.Bootcamp, error) {
	if actor == nil {
		return nil, errNoActor
	}
	oid, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	b, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(actor, b.User, action); err != nil {
		return nil, err
	}
	return b, nil
}

func validateCareers(careers []string) error {
	if len(careers) == 0 {
		return domain.Errorf(domain.ErrValidation, "Please add at least one career")
	}
	for _, c := range careers {
		if !isCareer(c) {
			return domain.Errorf(domain.ErrValidation, "%q is not a valid career", c)
		}
	}
	return nil
}

func isCareer(c string) bool {
	for _, known := range domain.Careers {
		if c == known {
			return true
		}
	}
	return false
}

func setBool(set map[string]any, field string, v *bool) {
	if v != nil {
		set[field] = *v
	}
}

func alreadyPublished(actor *domain.User) error {
	return domain.Errorf(domain.ErrValidation, "The user with ID %s has already published a bootcamp", actor.ID.Hex())
}
