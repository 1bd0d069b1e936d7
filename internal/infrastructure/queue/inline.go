package queue

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/bootcamp-api/internal/core/ports"
	"github.com/devcamper/bootcamp-api/internal/pkg/metrics"
)

// Inline recalculates synchronously on the caller's goroutine. It is used by
// the seeder and when the API runs with zero aggregate workers.
type Inline struct {
	recalc ports.AggregateRecalculator
	log    zerolog.Logger
}

func NewInline(recalc ports.AggregateRecalculator, log zerolog.Logger) *Inline {
	return &Inline{recalc: recalc, log: log}
}

// Trigger detaches from ctx cancellation so a client disconnect after the
// child write cannot leave the aggregate stale.
func (i *Inline) Trigger(ctx context.Context, kind ports.Aggregate, bootcampID primitive.ObjectID) {
	if err := i.recalc.Recalculate(context.WithoutCancel(ctx), kind, bootcampID); err != nil {
		metrics.AggregateRecalcTotal.WithLabelValues(string(kind), "error").Inc()
		i.log.Error().Err(err).
			Str("bootcamp", bootcampID.Hex()).
			Str("aggregate", string(kind)).
			Msg("aggregate recalculation failed")
		return
	}
	metrics.AggregateRecalcTotal.WithLabelValues(string(kind), "ok").Inc()
}
