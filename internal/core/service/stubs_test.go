package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/ports"
	"github.com/devcamper/bootcamp-api/internal/core/query"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubBootcampRepo struct {
	mu        sync.Mutex
	byID      map[primitive.ObjectID]*domain.Bootcamp
	lastQuery query.Query
	radius    float64
	// existsSeq, when set, scripts successive ExistsForUser answers.
	existsSeq []bool
}

func newStubBootcampRepo() *stubBootcampRepo {
	return &stubBootcampRepo{byID: make(map[primitive.ObjectID]*domain.Bootcamp)}
}

func (r *stubBootcampRepo) Create(_ context.Context, b *domain.Bootcamp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Name == b.Name {
			return &domain.Error{Kind: domain.ErrConflict, Message: "Duplicate field value entered"}
		}
		if b.Publisher != nil && existing.Publisher != nil && *existing.Publisher == *b.Publisher {
			return &domain.Error{Kind: domain.ErrConflict, Message: "Duplicate field value entered"}
		}
	}
	clone := *b
	r.byID[b.ID] = &clone
	return nil
}

func (r *stubBootcampRepo) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Bootcamp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFound(id.Hex())
	}
	clone := *b
	return &clone, nil
}

func (r *stubBootcampRepo) FindPage(_ context.Context, q query.Query) ([]*domain.Bootcamp, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = q
	var out []*domain.Bootcamp
	for _, b := range r.byID {
		clone := *b
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubBootcampRepo) ExistsForUser(_ context.Context, userID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.existsSeq) > 0 {
		next := r.existsSeq[0]
		r.existsSeq = r.existsSeq[1:]
		return next, nil
	}
	for _, b := range r.byID {
		if b.User == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubBootcampRepo) Update(_ context.Context, id primitive.ObjectID, set map[string]any) (*domain.Bootcamp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFound(id.Hex())
	}
	for k, v := range set {
		switch k {
		case "name":
			b.Name = v.(string)
		case "slug":
			b.Slug = v.(string)
		case "description":
			b.Description = v.(string)
		case "photo":
			b.Photo = v.(string)
		case "location":
			b.Location = v.(*domain.Location)
		case "housing":
			b.Housing = v.(bool)
		case "careers":
			b.Careers = v.([]string)
		}
	}
	clone := *b
	return &clone, nil
}

func (r *stubBootcampRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.NotFound(id.Hex())
	}
	delete(r.byID, id)
	return nil
}

func (r *stubBootcampRepo) WithinRadius(_ context.Context, _, _, radians float64) ([]*domain.Bootcamp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.radius = radians
	return nil, nil
}

func (r *stubBootcampRepo) SetAggregate(_ context.Context, id primitive.ObjectID, field string, value *float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byID[id]
	if !ok {
		return domain.NotFound(id.Hex())
	}
	var v *float64
	if value != nil {
		copied := *value
		v = &copied
	}
	switch field {
	case string(ports.AggregateCost):
		b.AverageCost = v
	case string(ports.AggregateRating):
		b.AverageRating = v
	default:
		return errors.New("unknown aggregate field")
	}
	return nil
}

type stubCourseRepo struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*domain.Course
}

func newStubCourseRepo() *stubCourseRepo {
	return &stubCourseRepo{byID: make(map[primitive.ObjectID]*domain.Course)}
}

func (r *stubCourseRepo) Create(_ context.Context, c *domain.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCourseRepo) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFound(id.Hex())
	}
	clone := *c
	return &clone, nil
}

func (r *stubCourseRepo) FindPage(_ context.Context, q query.Query) ([]*domain.Course, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parent, scoped := q.Filter["bootcamp"].(primitive.ObjectID)
	var out []*domain.Course
	for _, c := range r.byID {
		if scoped && c.Bootcamp != parent {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubCourseRepo) Update(_ context.Context, id primitive.ObjectID, set map[string]any) (*domain.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFound(id.Hex())
	}
	if v, ok := set["tuition"]; ok {
		c.Tuition = v.(float64)
	}
	if v, ok := set["title"]; ok {
		c.Title = v.(string)
	}
	clone := *c
	return &clone, nil
}

func (r *stubCourseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *stubCourseRepo) AverageTuition(_ context.Context, bootcampID primitive.ObjectID) (float64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	var n int
	for _, c := range r.byID {
		if c.Bootcamp == bootcampID {
			sum += c.Tuition
			n++
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return sum / float64(n), true, nil
}

type stubReviewRepo struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*domain.Review
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{byID: make(map[primitive.ObjectID]*domain.Review)}
}

// Create mirrors the unique {bootcamp, user} index.
func (r *stubReviewRepo) Create(_ context.Context, rv *domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Bootcamp == rv.Bootcamp && existing.User == rv.User {
			return &domain.Error{Kind: domain.ErrConflict, Message: "Duplicate field value entered"}
		}
	}
	clone := *rv
	r.byID[rv.ID] = &clone
	return nil
}

func (r *stubReviewRepo) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFound(id.Hex())
	}
	clone := *rv
	return &clone, nil
}

func (r *stubReviewRepo) FindPage(_ context.Context, _ query.Query) ([]*domain.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Review
	for _, rv := range r.byID {
		clone := *rv
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubReviewRepo) Update(_ context.Context, id primitive.ObjectID, set map[string]any) (*domain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFound(id.Hex())
	}
	if v, ok := set["rating"]; ok {
		rv.Rating = v.(int)
	}
	clone := *rv
	return &clone, nil
}

func (r *stubReviewRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *stubReviewRepo) AverageRating(_ context.Context, bootcampID primitive.ObjectID) (float64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, n int
	for _, rv := range r.byID {
		if rv.Bootcamp == bootcampID {
			sum += rv.Rating
			n++
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return float64(sum) / float64(n), true, nil
}

type stubUserRepo struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[primitive.ObjectID]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) put(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.byID[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return &domain.Error{Kind: domain.ErrConflict, Message: "Duplicate field value entered"}
		}
	}
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFound(id.Hex())
	}
	clone := cloneUser(u)
	clone.PasswordHash = ""
	return clone, nil
}

func (r *stubUserRepo) FindCredentials(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFound(id.Hex())
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.NotFound(email)
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, hashed string, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.ResetPasswordToken == hashed && u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(now) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.NotFound(hashed)
}

func (r *stubUserRepo) FindPage(_ context.Context, _ query.Query) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) Update(_ context.Context, id primitive.ObjectID, set map[string]any, unset ...string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFound(id.Hex())
	}
	for k, v := range set {
		switch k {
		case "name":
			u.Name = v.(string)
		case "email":
			u.Email = v.(string)
		case "role":
			u.Role = v.(string)
		case "password":
			u.PasswordHash = v.(string)
		case "resetPasswordToken":
			u.ResetPasswordToken = v.(string)
		case "resetPasswordExpire":
			t := v.(time.Time)
			u.ResetPasswordExpire = &t
		}
	}
	for _, k := range unset {
		switch k {
		case "resetPasswordToken":
			u.ResetPasswordToken = ""
		case "resetPasswordExpire":
			u.ResetPasswordExpire = nil
		}
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type stubGeocoder struct {
	err   error
	calls int
}

func (g *stubGeocoder) Geocode(_ context.Context, address string) (*domain.Location, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &domain.Location{
		Type:             "Point",
		Coordinates:      []float64{-71.104081, 42.350846},
		FormattedAddress: address,
		City:             "Boston",
		Zipcode:          "02215",
	}, nil
}

type stubPhotoStore struct {
	name        string
	contentType string
	body        []byte
	err         error
}

func (s *stubPhotoStore) Put(_ context.Context, name string, r io.Reader, _ int64, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.name, s.contentType, s.body = name, contentType, body
	return name, nil
}

type stubMailer struct {
	sent []ports.MailMessage
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg ports.MailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubTokens struct{}

func (stubTokens) Issue(id primitive.ObjectID) (string, error) { return "tok-" + id.Hex(), nil }

func (stubTokens) Parse(token string) (primitive.ObjectID, error) {
	if len(token) < 4 || token[:4] != "tok-" {
		return primitive.NilObjectID, errInvalidToken
	}
	return primitive.ObjectIDFromHex(token[4:])
}

// syncTrigger runs the recalculation inline so tests can assert on the result.
type syncTrigger struct {
	recalc ports.AggregateRecalculator
	calls  []ports.Aggregate
	errs   []error
}

func (t *syncTrigger) Trigger(ctx context.Context, kind ports.Aggregate, id primitive.ObjectID) {
	t.calls = append(t.calls, kind)
	if t.recalc == nil {
		return
	}
	if err := t.recalc.Recalculate(ctx, kind, id); err != nil {
		t.errs = append(t.errs, err)
	}
}

func publisher() *domain.User {
	return &domain.User{ID: primitive.NewObjectID(), Name: "Pub", Role: domain.RolePublisher}
}

func admin() *domain.User {
	return &domain.User{ID: primitive.NewObjectID(), Name: "Admin", Role: domain.RoleAdmin}
}

func regularUser() *domain.User {
	return &domain.User{ID: primitive.NewObjectID(), Name: "User", Role: domain.RoleUser}
}
