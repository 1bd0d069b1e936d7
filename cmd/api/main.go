// Command api serves the DevCamper REST API.
//
// @title                       DevCamper API
// @version                     1.0
// @description                 Bootcamp directory: bootcamps, courses, reviews, users and authentication.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/devcamper/bootcamp-api/docs"
	"github.com/devcamper/bootcamp-api/internal/api"
	"github.com/devcamper/bootcamp-api/internal/api/handler"
	"github.com/devcamper/bootcamp-api/internal/core/ports"
	"github.com/devcamper/bootcamp-api/internal/core/service"
	mongodb "github.com/devcamper/bootcamp-api/internal/infrastructure/db/mongo"
	redisdb "github.com/devcamper/bootcamp-api/internal/infrastructure/db/redis"
	"github.com/devcamper/bootcamp-api/internal/infrastructure/geocoder"
	"github.com/devcamper/bootcamp-api/internal/infrastructure/mailer"
	"github.com/devcamper/bootcamp-api/internal/infrastructure/queue"
	"github.com/devcamper/bootcamp-api/internal/infrastructure/storage"
	"github.com/devcamper/bootcamp-api/internal/pkg/config"
	"github.com/devcamper/bootcamp-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadContext(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "devcamper",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server exited properly")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Datastores ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	geoCache, err := redisdb.OpenGeocodeCache(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() { _ = geoCache.Close() }()

	repos := mongodb.NewRepositories(db)
	if err := repos.EnsureIndexes(ctx); err != nil {
		return err
	}

	// --- Collaborators ---
	geo := geocoder.NewCached(
		geocoder.NewMapQuest(cfg.Geocoder.APIKey, cfg.Geocoder.BaseURL),
		geoCache,
		log,
	)
	mail, err := mailer.New(cfg.Mail, log)
	if err != nil {
		return err
	}
	photos, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	// Workers outlive request contexts and stop only after the server drained.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	recalc := service.NewAggregateRecalculator(repos.Bootcamps, repos.Courses, repos.Reviews, log)
	var trigger ports.AggregateTrigger
	if cfg.Aggregates.Workers > 0 {
		d := queue.NewDispatcher(cfg.Aggregates.Workers, recalc, log)
		d.Start(workerCtx)
		trigger = d
	} else {
		trigger = queue.NewInline(recalc, log)
	}

	// --- Services ---
	tokens := service.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expire)
	services := api.Services{
		Bootcamps: service.NewBootcampService(repos.Bootcamps, geo, photos, cfg.Storage.MaxUploadBytes, log),
		Courses:   service.NewCourseService(repos.Courses, repos.Bootcamps, trigger, log),
		Reviews:   service.NewReviewService(repos.Reviews, repos.Bootcamps, trigger, log),
		Auth:      service.NewAuthService(repos.Users, tokens, mail, log),
		Users:     service.NewUserService(repos.Users, log),
	}

	e := api.NewRouter(services, api.Options{
		Log: log,
		Cookie: handler.CookieOptions{
			TTL:       cfg.CookieTTL(),
			Secure:    cfg.IsProduction(),
			PublicURL: cfg.PublicURL,
		},
		Health:    handler.NewHealthHandler(db, geoCache.Ping),
		BodyLimit: fmt.Sprintf("%dB", cfg.Storage.MaxUploadBytes+1<<20),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
