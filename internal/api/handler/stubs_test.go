package handler

import (
	"context"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/bootcamp-api/internal/api/middleware"
	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/ports"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func withUser(c echo.Context, u *domain.User) {
	c.Set(middleware.UserKey, u)
}

func publisher() *domain.User {
	return &domain.User{ID: primitive.NewObjectID(), Name: "Pub", Email: "pub@example.com", Role: domain.RolePublisher}
}

type stubBootcampService struct {
	ports.BootcampService
	listFn   func(ctx context.Context, params url.Values) (*ports.Page[*domain.Bootcamp], error)
	createFn func(ctx context.Context, actor *domain.User, in ports.BootcampInput) (*domain.Bootcamp, error)
	updateFn func(ctx context.Context, actor *domain.User, id string, patch ports.BootcampPatch) (*domain.Bootcamp, error)
	radiusFn func(ctx context.Context, zipcode string, miles float64) ([]*domain.Bootcamp, error)
	uploadFn func(ctx context.Context, actor *domain.User, id string, file ports.PhotoUpload) (string, error)
	deleteFn func(ctx context.Context, actor *domain.User, id string) error
}

func (s *stubBootcampService) List(ctx context.Context, params url.Values) (*ports.Page[*domain.Bootcamp], error) {
	return s.listFn(ctx, params)
}

func (s *stubBootcampService) Create(ctx context.Context, actor *domain.User, in ports.BootcampInput) (*domain.Bootcamp, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubBootcampService) Update(ctx context.Context, actor *domain.User, id string, patch ports.BootcampPatch) (*domain.Bootcamp, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubBootcampService) WithinRadius(ctx context.Context, zipcode string, miles float64) ([]*domain.Bootcamp, error) {
	return s.radiusFn(ctx, zipcode, miles)
}

func (s *stubBootcampService) UploadPhoto(ctx context.Context, actor *domain.User, id string, file ports.PhotoUpload) (string, error) {
	return s.uploadFn(ctx, actor, id, file)
}

func (s *stubBootcampService) Delete(ctx context.Context, actor *domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}

type stubCourseService struct {
	ports.CourseService
	listFn   func(ctx context.Context, bootcampID string, params url.Values) (*ports.Page[*domain.Course], error)
	createFn func(ctx context.Context, actor *domain.User, bootcampID string, in ports.CourseInput) (*domain.Course, error)
}

func (s *stubCourseService) List(ctx context.Context, bootcampID string, params url.Values) (*ports.Page[*domain.Course], error) {
	return s.listFn(ctx, bootcampID, params)
}

func (s *stubCourseService) Create(ctx context.Context, actor *domain.User, bootcampID string, in ports.CourseInput) (*domain.Course, error) {
	return s.createFn(ctx, actor, bootcampID, in)
}

type stubReviewService struct {
	ports.ReviewService
	createFn func(ctx context.Context, actor *domain.User, bootcampID string, in ports.ReviewInput) (*domain.Review, error)
}

func (s *stubReviewService) Create(ctx context.Context, actor *domain.User, bootcampID string, in ports.ReviewInput) (*domain.Review, error) {
	return s.createFn(ctx, actor, bootcampID, in)
}

type stubAuthService struct {
	ports.AuthService
	registerFn func(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	forgotFn   func(ctx context.Context, email, resetURL string) error
	resetFn    func(ctx context.Context, rawToken, password string) (string, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email, resetURL string) error {
	return s.forgotFn(ctx, email, resetURL)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, rawToken, password string) (string, error) {
	return s.resetFn(ctx, rawToken, password)
}

type stubUserService struct {
	ports.UserService
	deleteFn func(ctx context.Context, actor *domain.User, id string) error
}

func (s *stubUserService) Delete(ctx context.Context, actor *domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}
