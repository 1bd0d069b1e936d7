// Package queue runs bootcamp aggregate recalculations off the request path.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devcamper/bootcamp-api/internal/core/ports"
	"github.com/devcamper/bootcamp-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Job asks for one aggregate of one bootcamp to be recomputed.
type Job struct {
	Kind       ports.Aggregate
	BootcampID primitive.ObjectID
}

// Dispatcher routes jobs to a fixed set of workers using consistent hashing on
// the bootcamp id, so recalculations for one bootcamp run in order.
type Dispatcher struct {
	workers []chan Job
	recalc  ports.AggregateRecalculator
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, recalc ports.AggregateRecalculator, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Job, numWorkers),
		recalc:  recalc,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Trigger enqueues a recalculation without blocking. When the worker's buffer
// is full the job is dropped and logged; the next write to any child of the
// same bootcamp recomputes from scratch.
func (d *Dispatcher) Trigger(_ context.Context, kind ports.Aggregate, bootcampID primitive.ObjectID) {
	d.Enqueue(Job{Kind: kind, BootcampID: bootcampID})
}

// Enqueue reports whether the job was accepted.
func (d *Dispatcher) Enqueue(job Job) bool {
	idx := d.shardIndex(job.BootcampID)
	select {
	case d.workers[idx] <- job:
		metrics.AggregateQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return true
	default:
		metrics.AggregateRecalcTotal.WithLabelValues(string(job.Kind), "dropped").Inc()
		d.log.Warn().
			Str("bootcamp", job.BootcampID.Hex()).
			Str("aggregate", string(job.Kind)).
			Int("worker_id", idx).
			Msg("aggregate queue full, job dropped")
		return false
	}
}

// shardIndex maps a bootcamp id deterministically to a worker index.
func (d *Dispatcher) shardIndex(id primitive.ObjectID) int {
	h := fnv.New32a()
	_, _ = h.Write(id[:])
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Job) {
	depth := metrics.AggregateQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			d.process(ctx, id, job)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, worker int, job Job) {
	start := time.Now()
	err := d.recalc.Recalculate(ctx, job.Kind, job.BootcampID)
	metrics.AggregateRecalcDuration.WithLabelValues(string(job.Kind)).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.AggregateRecalcTotal.WithLabelValues(string(job.Kind), "error").Inc()
		d.log.Error().Err(err).
			Str("bootcamp", job.BootcampID.Hex()).
			Str("aggregate", string(job.Kind)).
			Int("worker_id", worker).
			Msg("aggregate recalculation failed")
		return
	}
	metrics.AggregateRecalcTotal.WithLabelValues(string(job.Kind), "ok").Inc()
}
