// Package storage persists uploaded bootcamp photos.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/devcamper/bootcamp-api/internal/core/ports"
	"github.com/devcamper/bootcamp-api/internal/pkg/config"
	"github.com/devcamper/bootcamp-api/internal/pkg/metrics"
)

const (
	DriverMinio      = "minio"
	DriverCloudinary = "cloudinary"
	DriverGCS        = "gcs"
)

// New builds the photo store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (ports.PhotoStore, error) {
	var (
		s   ports.PhotoStore
		err error
	)
	switch cfg.Driver {
	case DriverMinio:
		s, err = NewMinio(ctx, cfg.Minio)
	case DriverCloudinary:
		s, err = NewCloudinary(cfg.Cloudinary.URL, cfg.Cloudinary.Folder)
	case DriverGCS:
		s, err = NewGCS(ctx, cfg.GCS.Bucket, cfg.GCS.CredentialsFile)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, cfg.Driver), nil
}

// Instrument counts uploads per driver and result.
func Instrument(s ports.PhotoStore, driver string) ports.PhotoStore {
	return &instrumented{next: s, driver: driver}
}

type instrumented struct {
	next   ports.PhotoStore
	driver string
}

func (i *instrumented) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	ref, err := i.next.Put(ctx, name, r, size, contentType)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.PhotoUploadsTotal.WithLabelValues(i.driver, result).Inc()
	return ref, err
}
