package ports

import (
	"context"
	"io"
	"net/url"

	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/query"
)

// Page is one window of a list endpoint. Fields is the client's sparse
// fieldset, empty when all fields are returned.
type Page[T any] struct {
	Items      []T
	Total      int64
	Pagination query.Pagination
	Fields     []string
}

// --- Bootcamps ---

type BootcampInput struct {
	Name          string
	Description   string
	Website       string
	Phone         string
	Email         string
	Address       string
	Careers       []string
	Housing       bool
	JobAssistance bool
	JobGuarantee  bool
	AcceptGi      bool
}

// BootcampPatch carries only the fields present in an update request.
type BootcampPatch struct {
	Name          *string
	Description   *string
	Website       *string
	Phone         *string
	Email         *string
	Address       *string
	Careers       []string
	Housing       *bool
	JobAssistance *bool
	JobGuarantee  *bool
	AcceptGi      *bool
}

type PhotoUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

type BootcampService interface {
	List(ctx context.Context, params url.Values) (*Page[*domain.Bootcamp], error)
	Get(ctx context.Context, id string) (*domain.Bootcamp, error)
	Create(ctx context.Context, actor *domain.User, in BootcampInput) (*domain.Bootcamp, error)
	Update(ctx context.Context, actor *domain.User, id string, patch BootcampPatch) (*domain.Bootcamp, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	WithinRadius(ctx context.Context, zipcode string, miles float64) ([]*domain.Bootcamp, error)
	UploadPhoto(ctx context.Context, actor *domain.User, id string, file PhotoUpload) (string, error)
}

// --- Courses ---

type CourseInput struct {
	Title                string
	Description          string
	Weeks                string
	Tuition              float64
	MinimumSkill         string
	ScholarshipAvailable bool
}

type CoursePatch struct {
	Title                *string
	Description          *string
	Weeks                *string
	Tuition              *float64
	MinimumSkill         *string
	ScholarshipAvailable *bool
}

type CourseService interface {
	// List returns courses; a non-empty bootcampID scopes them to one bootcamp.
	List(ctx context.Context, bootcampID string, params url.Values) (*Page[*domain.Course], error)
	Get(ctx context.Context, id string) (*domain.Course, error)
	Create(ctx context.Context, actor *domain.User, bootcampID string, in CourseInput) (*domain.Course, error)
	Update(ctx context.Context, actor *domain.User, id string, patch CoursePatch) (*domain.Course, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}

// --- Reviews ---

type ReviewInput struct {
	Title  string
	Text   string
	Rating int
}

type ReviewPatch struct {
	Title  *string
	Text   *string
	Rating *int
}

type ReviewService interface {
	List(ctx context.Context, bootcampID string, params url.Values) (*Page[*domain.Review], error)
	Get(ctx context.Context, id string) (*domain.Review, error)
	Create(ctx context.Context, actor *domain.User, bootcampID string, in ReviewInput) (*domain.Review, error)
	Update(ctx context.Context, actor *domain.User, id string, patch ReviewPatch) (*domain.Review, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}

// --- Auth & users ---

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type ProfilePatch struct {
	Name  *string
	Email *string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Authenticate resolves a session token to its user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor *domain.User, patch ProfilePatch) (*domain.User, error)
	UpdatePassword(ctx context.Context, actor *domain.User, current, next string) (string, error)
	// ForgotPassword emails a reset link built from resetURL and the raw token.
	ForgotPassword(ctx context.Context, email, resetURL string) error
	ResetPassword(ctx context.Context, rawToken, password string) (string, error)
}

type UserPatch struct {
	Name  *string
	Email *string
	Role  *string
}

type UserService interface {
	List(ctx context.Context, params url.Values) (*Page[*domain.User], error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, in RegisterInput) (*domain.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
}
