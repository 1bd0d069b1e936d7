package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/devcamper/bootcamp-api/internal/api/handler"
	"github.com/devcamper/bootcamp-api/internal/api/middleware"
	"github.com/devcamper/bootcamp-api/internal/core/domain"
	"github.com/devcamper/bootcamp-api/internal/core/ports"
)

const metricsSubsystem = "devcamper"

// Services are the use cases the router exposes.
type Services struct {
	Bootcamps ports.BootcampService
	Courses   ports.CourseService
	Reviews   ports.ReviewService
	Auth      ports.AuthService
	Users     ports.UserService
}

// Options carries the HTTP-only settings of the router.
type Options struct {
	Log    zerolog.Logger
	Cookie handler.CookieOptions
	Health *handler.HealthHandler
	// BodyLimit caps request bodies, e.g. "2M". Empty disables the limit.
	BodyLimit string
	// Registry receives the HTTP metrics and backs /metrics. Nil uses the
	// default Prometheus registry, where the custom metrics live.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(s Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(opts.Log))
	promCfg := echoprometheus.MiddlewareConfig{Subsystem: metricsSubsystem}
	metricsHandler := echoprometheus.NewHandler()
	if opts.Registry != nil {
		promCfg.Registerer = opts.Registry
		metricsHandler = echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Registry})
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))
	if opts.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(opts.BodyLimit))
	}

	// --- Ops (no auth required) ---
	if opts.Health != nil {
		e.GET("/health", opts.Health.Liveness)        // liveness  – is the process alive?
		e.GET("/health/ready", opts.Health.Readiness) // readiness – are dependencies up?
	}
	e.GET("/metrics", metricsHandler)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	protect := middleware.Auth(s.Auth)
	publishers := middleware.RBAC(domain.RolePublisher, domain.RoleAdmin)
	reviewers := middleware.RBAC(domain.RoleUser, domain.RoleAdmin)
	admins := middleware.RBAC(domain.RoleAdmin)

	v1 := e.Group("/api/v1")

	// --- Bootcamps ---
	bootcamps := handler.NewBootcampHandler(s.Bootcamps)
	courses := handler.NewCourseHandler(s.Courses)
	reviews := handler.NewReviewHandler(s.Reviews)

	bg := v1.Group("/bootcamps")
	bg.GET("", bootcamps.List)
	bg.POST("", bootcamps.Create, protect, publishers)
	bg.GET("/radius/:zipcode/:distance", bootcamps.WithinRadius)
	bg.GET("/:id", bootcamps.Get)
	bg.PUT("/:id", bootcamps.Update, protect, publishers)
	bg.DELETE("/:id", bootcamps.Delete, protect, publishers)
	bg.PUT("/:id/photo", bootcamps.UploadPhoto, protect, publishers)

	// Nested child resources.
	bg.GET("/:bootcampId/courses", courses.List)
	bg.POST("/:bootcampId/courses", courses.Create, protect, publishers)
	bg.GET("/:bootcampId/reviews", reviews.List)
	bg.POST("/:bootcampId/reviews", reviews.Create, protect, reviewers)

	// --- Courses ---
	cg := v1.Group("/courses")
	cg.GET("", courses.List)
	cg.GET("/:id", courses.Get)
	cg.PUT("/:id", courses.Update, protect, publishers)
	cg.DELETE("/:id", courses.Delete, protect, publishers)

	// --- Reviews ---
	rg := v1.Group("/reviews")
	rg.GET("", reviews.List)
	rg.GET("/:id", reviews.Get)
	rg.PUT("/:id", reviews.Update, protect, reviewers)
	rg.DELETE("/:id", reviews.Delete, protect, reviewers)

	// --- Auth ---
	auth := handler.NewAuthHandler(s.Auth, opts.Cookie)
	ag := v1.Group("/auth")
	ag.POST("/register", auth.Register)
	ag.POST("/login", auth.Login)
	ag.GET("/logout", auth.Logout)
	ag.GET("/me", auth.Me, protect)
	ag.PUT("/updateprofile", auth.UpdateProfile, protect)
	ag.PUT("/updatepassword", auth.UpdatePassword, protect)
	ag.POST("/forgotpassword", auth.ForgotPassword)
	ag.PUT("/resetpassword/:token", auth.ResetPassword)

	// --- Users (admin) ---
	users := handler.NewUserHandler(s.Users)
	ug := v1.Group("/users", protect, admins)
	ug.GET("", users.List)
	ug.POST("", users.Create)
	ug.GET("/:id", users.Get)
	ug.PUT("/:id", users.Update)
	ug.DELETE("/:id", users.Delete)

	return e
}
