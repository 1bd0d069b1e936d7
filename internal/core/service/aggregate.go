package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/bootcamp-api/internal/core/ports"
)

// AggregateRecalculator rewrites a bootcamp's averageCost or averageRating
// from its current children. A bootcamp without children has the field
// removed. Running it twice with no intervening writes yields the same value.
type AggregateRecalculator struct {
	bootcamps ports.BootcampRepository
	courses   ports.CourseRepository
	reviews   ports.ReviewRepository
	log       zerolog.Logger
}

func NewAggregateRecalculator(
	bootcamps ports.BootcampRepository,
	courses ports.CourseRepository,
	reviews ports.ReviewRepository,
	log zerolog.Logger,
) *AggregateRecalculator {
	return &AggregateRecalculator{bootcamps: bootcamps, courses: courses, reviews: reviews, log: log}
}

func (r *AggregateRecalculator) Recalculate(ctx context.Context, kind ports.Aggregate, bootcampID primitive.ObjectID) error {
	var (
		avg float64
		ok  bool
		err error
	)
	switch kind {
	case ports.AggregateCost:
		avg, ok, err = r.courses.AverageTuition(ctx, bootcampID)
		avg = RoundCost(avg)
	case ports.AggregateRating:
		avg, ok, err = r.reviews.AverageRating(ctx, bootcampID)
	default:
		return fmt.Errorf("recalculate: unknown aggregate %q", kind)
	}
	if err != nil {
		return fmt.Errorf("recalculate %s: %w", kind, err)
	}

	var value *float64
	if ok {
		value = &avg
	}
	if err := r.bootcamps.SetAggregate(ctx, bootcampID, string(kind), value); err != nil {
		return fmt.Errorf("recalculate %s: store: %w", kind, err)
	}

	ev := r.log.Debug().Str("bootcamp", bootcampID.Hex()).Str("aggregate", string(kind))
	if value != nil {
		ev = ev.Float64("value", *value)
	} else {
		ev = ev.Bool("reset", true)
	}
	ev.Msg("aggregate recalculated")
	return nil
}

// RoundCost rounds an average tuition up to the nearest multiple of 10.
func RoundCost(avg float64) float64 {
	return math.Ceil(avg/10) * 10
}
