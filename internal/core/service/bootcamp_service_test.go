package service

import (
	"bytes"
	"context"
	"errors"
	"math"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/ports"
)

// 1x1 transparent PNG.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func newBootcampService() (*BootcampService, *stubBootcampRepo, *stubGeocoder, *stubPhotoStore) {
	repo := newStubBootcampRepo()
	geo := &stubGeocoder{}
	photos := &stubPhotoStore{}
	return NewBootcampService(repo, geo, photos, 1_000_000, zerolog.Nop()), repo, geo, photos
}

func bootcampInput(name string) ports.BootcampInput {
	return ports.BootcampInput{
		Name:        name,
		Description: "Full stack web development",
		Address:     "233 Bay State Rd Boston MA 02215",
		Careers:     []string{"Web Development", "UI/UX"},
		Housing:     true,
	}
}

func TestBootcampService_Create_Pipeline(t *testing.T) {
	svc, repo, geo, _ := newBootcampService()
	pub := publisher()

	b, err := svc.Create(context.Background(), pub, bootcampInput("  Devworks Bootcamp "))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if b.Name != "Devworks Bootcamp" {
		t.Errorf("name not trimmed: %q", b.Name)
	}
	if b.Slug != "devworks-bootcamp" {
		t.Errorf("unexpected slug: %q", b.Slug)
	}
	if geo.calls != 1 || b.Location == nil || b.Location.Type != "Point" {
		t.Errorf("expected geocoded location, got %+v", b.Location)
	}
	if b.Photo != domain.DefaultPhoto {
		t.Errorf("unexpected photo default: %q", b.Photo)
	}
	if b.User != pub.ID {
		t.Errorf("owner not recorded")
	}
	if b.AverageCost != nil || b.AverageRating != nil {
		t.Errorf("aggregates must start absent")
	}
	if _, err := repo.FindByID(context.Background(), b.ID); err != nil {
		t.Errorf("bootcamp not persisted: %v", err)
	}
}

func TestBootcampService_Create_GeocodeFailureAborts(t *testing.T) {
	svc, repo, geo, _ := newBootcampService()
	geo.err = &domain.Error{Kind: domain.ErrGeocode}

	_, err := svc.Create(context.Background(), publisher(), bootcampInput("Devworks"))
	if !errors.Is(err, domain.ErrGeocode) {
		t.Fatalf("expected ErrGeocode, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("nothing must be persisted when geocoding fails")
	}
}

func TestBootcampService_Create_OnePerPublisher(t *testing.T) {
	svc, _, _, _ := newBootcampService()
	pub := publisher()
	ctx := context.Background()

	if _, err := svc.Create(ctx, pub, bootcampInput("First")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, pub, bootcampInput("Second"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation on second bootcamp, got %v", err)
	}
	if !strings.Contains(err.Error(), "has already published a bootcamp") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestBootcampService_Create_AdminExempt(t *testing.T) {
	svc, _, _, _ := newBootcampService()
	adm := admin()
	ctx := context.Background()

	for _, name := range []string{"One", "Two"} {
		if _, err := svc.Create(ctx, adm, bootcampInput(name)); err != nil {
			t.Fatalf("admin create %s: %v", name, err)
		}
	}
}

func TestBootcampService_Create_InvalidCareer(t *testing.T) {
	svc, _, _, _ := newBootcampService()
	in := bootcampInput("Devworks")
	in.Careers = []string{"Underwater Basket Weaving"}

	if _, err := svc.Create(context.Background(), publisher(), in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestBootcampService_Update_Ownership(t *testing.T) {
	svc, _, geo, _ := newBootcampService()
	ctx := context.Background()
	owner := publisher()
	b, err := svc.Create(ctx, owner, bootcampInput("Devworks"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "ModernTech"
	if _, err := svc.Update(ctx, publisher(), b.ID.Hex(), ports.BootcampPatch{Name: &name}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if err := svc.Delete(ctx, publisher(), b.ID.Hex()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete for non-owner, got %v", err)
	}

	updated, err := svc.Update(ctx, admin(), b.ID.Hex(), ports.BootcampPatch{Name: &name})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Slug != "moderntech" {
		t.Errorf("slug not re-derived: %q", updated.Slug)
	}
	if geo.calls != 1 {
		t.Errorf("name change must not re-geocode, calls=%d", geo.calls)
	}

	addr := "1 Main St"
	if _, err := svc.Update(ctx, owner, b.ID.Hex(), ports.BootcampPatch{Address: &addr}); err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if geo.calls != 2 {
		t.Errorf("address change must re-geocode, calls=%d", geo.calls)
	}

	if err := svc.Delete(ctx, admin(), b.ID.Hex()); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestBootcampService_Get_MalformedID(t *testing.T) {
	svc, _, _, _ := newBootcampService()

	_, err := svc.Get(context.Background(), "not-an-id")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "Resource not found with id of not-an-id" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestBootcampService_List_ParsesQuery(t *testing.T) {
	svc, repo, _, _ := newBootcampService()
	params := url.Values{"averageCost[lte]": {"10000"}, "page": {"2"}, "limit": {"5"}}

	page, err := svc.List(context.Background(), params)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if repo.lastQuery.Page != 2 || repo.lastQuery.Limit != 5 {
		t.Fatalf("window not forwarded: %+v", repo.lastQuery)
	}
	if page.Items == nil {
		t.Fatalf("items must be non-nil")
	}

	if _, err := svc.List(context.Background(), url.Values{"$where": {"1"}}); err == nil {
		t.Fatalf("expected error for unknown filter field")
	}
}

func TestBootcampService_WithinRadius(t *testing.T) {
	svc, repo, _, _ := newBootcampService()

	got, err := svc.WithinRadius(context.Background(), "02118", 10)
	if err != nil {
		t.Fatalf("WithinRadius: %v", err)
	}
	if got == nil {
		t.Fatalf("expected empty slice, got nil")
	}
	if math.Abs(repo.radius-10/EarthRadiusMiles) > 1e-12 {
		t.Fatalf("unexpected radius %v", repo.radius)
	}

	if _, err := svc.WithinRadius(context.Background(), "02118", 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for zero distance, got %v", err)
	}
}

func TestBootcampService_UploadPhoto(t *testing.T) {
	svc, repo, _, photos := newBootcampService()
	ctx := context.Background()
	owner := publisher()
	b, err := svc.Create(ctx, owner, bootcampInput("Devworks"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	upload := func(body []byte) ports.PhotoUpload {
		return ports.PhotoUpload{Filename: "x", Size: int64(len(body)), Content: bytes.NewReader(body)}
	}

	if _, err := svc.UploadPhoto(ctx, owner, b.ID.Hex(), upload([]byte("plain text, not an image"))); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for text upload, got %v", err)
	}
	if _, err := svc.UploadPhoto(ctx, publisher(), b.ID.Hex(), upload(pngPixel)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	big := upload(pngPixel)
	big.Size = 2_000_000
	if _, err := svc.UploadPhoto(ctx, owner, b.ID.Hex(), big); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for oversized upload, got %v", err)
	}

	ref, err := svc.UploadPhoto(ctx, owner, b.ID.Hex(), upload(pngPixel))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if photos.contentType != "image/png" || !strings.HasSuffix(ref, ".png") {
		t.Errorf("unexpected stored object %q (%s)", ref, photos.contentType)
	}
	if !bytes.Equal(photos.body, pngPixel) {
		t.Errorf("stored body differs from upload")
	}
	if stored, _ := repo.FindByID(ctx, b.ID); stored.Photo != ref {
		t.Errorf("photo reference not saved: %q", stored.Photo)
	}
}

func TestBootcampService_Create_RecordsPublisherSlot(t *testing.T) {
	svc, repo, _, _ := newBootcampService()
	ctx := context.Background()
	pub := publisher()

	b, err := svc.Create(ctx, pub, bootcampInput("Devworks"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Publisher == nil || *b.Publisher != pub.ID {
		t.Fatalf("expected publisher slot %s, got %v", pub.ID.Hex(), b.Publisher)
	}

	a, err := svc.Create(ctx, admin(), bootcampInput("Admin Camp"))
	if err != nil {
		t.Fatalf("admin Create: %v", err)
	}
	if a.Publisher != nil {
		t.Fatalf("admin bootcamps must not take a publisher slot, got %v", a.Publisher)
	}
	if len(repo.byID) != 2 {
		t.Fatalf("expected 2 bootcamps, got %d", len(repo.byID))
	}
}

func TestBootcampService_Create_ConcurrentSecondLosesOnIndex(t *testing.T) {
	svc, repo, _, _ := newBootcampService()
	ctx := context.Background()
	pub := publisher()

	if _, err := svc.Create(ctx, pub, bootcampInput("First")); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// The pre-check misses the first bootcamp as if both requests raced past
	// it; the insert then hits the publisher index.
	repo.existsSeq = []bool{false, true}
	_, err := svc.Create(ctx, pub, bootcampInput("Second"))
	if !errors.Is(err, domain.ErrValidation) || !strings.Contains(err.Error(), "has already published a bootcamp") {
		t.Fatalf("expected already-published validation error, got %v", err)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("second bootcamp must not be stored, got %d", len(repo.byID))
	}
}
