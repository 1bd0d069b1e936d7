package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/ports"
)

func newReviewService(t *testing.T) (*ReviewService, *stubBootcampRepo, *domain.Bootcamp) {
	t.Helper()
	bootcamps := newStubBootcampRepo()
	reviews := newStubReviewRepo()
	trigger := &syncTrigger{recalc: NewAggregateRecalculator(bootcamps, newStubCourseRepo(), reviews, zerolog.Nop())}
	b := &domain.Bootcamp{ID: primitive.NewObjectID(), Name: "Devworks", User: primitive.NewObjectID()}
	if err := bootcamps.Create(context.Background(), b); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return NewReviewService(reviews, bootcamps, trigger, zerolog.Nop()), bootcamps, b
}

func TestReviewService_OneReviewPerUser(t *testing.T) {
	svc, _, b := newReviewService(t)
	ctx := context.Background()
	u := regularUser()
	in := ports.ReviewInput{Title: "Great", Text: "Learned a lot", Rating: 9}

	if _, err := svc.Create(ctx, u, b.ID.Hex(), in); err != nil {
		t.Fatalf("first review: %v", err)
	}
	_, err := svc.Create(ctx, u, b.ID.Hex(), in)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for second review, got %v", err)
	}

	if _, err := svc.Create(ctx, regularUser(), b.ID.Hex(), in); err != nil {
		t.Fatalf("another user's review must be accepted: %v", err)
	}
}

func TestReviewService_AverageRating(t *testing.T) {
	svc, bootcamps, b := newReviewService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, regularUser(), b.ID.Hex(), ports.ReviewInput{Title: "a", Text: "a", Rating: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, regularUser(), b.ID.Hex(), ports.ReviewInput{Title: "b", Text: "b", Rating: 7}); err != nil {
		t.Fatalf("create: %v", err)
	}

	stored, _ := bootcamps.FindByID(ctx, b.ID)
	if stored.AverageRating == nil || *stored.AverageRating != 8.5 {
		t.Fatalf("expected averageRating 8.5, got %v", stored.AverageRating)
	}

	if err := svc.Delete(ctx, admin(), first.ID.Hex()); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	stored, _ = bootcamps.FindByID(ctx, b.ID)
	if stored.AverageRating == nil || *stored.AverageRating != 7 {
		t.Fatalf("expected averageRating 7 after delete, got %v", stored.AverageRating)
	}
}

func TestReviewService_Ownership(t *testing.T) {
	svc, _, b := newReviewService(t)
	ctx := context.Background()
	author := regularUser()

	r, err := svc.Create(ctx, author, b.ID.Hex(), ports.ReviewInput{Title: "t", Text: "x", Rating: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rating := 1
	if _, err := svc.Update(ctx, regularUser(), r.ID.Hex(), ports.ReviewPatch{Rating: &rating}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, publisher(), r.ID.Hex()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for publisher, got %v", err)
	}
	updated, err := svc.Update(ctx, author, r.ID.Hex(), ports.ReviewPatch{Rating: &rating})
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if updated.Rating != 1 {
		t.Fatalf("rating not updated")
	}
}

func TestReviewService_RatingBounds(t *testing.T) {
	svc, _, b := newReviewService(t)
	for _, rating := range []int{0, 11} {
		_, err := svc.Create(context.Background(), regularUser(), b.ID.Hex(), ports.ReviewInput{Title: "t", Text: "x", Rating: rating})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("rating %d: expected ErrValidation, got %v", rating, err)
		}
	}
}
