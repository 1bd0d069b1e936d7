// Package metrics defines the custom Prometheus metrics of the DevCamper API.
// All metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "devcamper"

// ── Aggregate metrics ─────────────────────────────────────────────────────────

// AggregateRecalcTotal counts bootcamp aggregate recalculations.
// Labels:
//   - kind: "averageCost" or "averageRating"
//   - result: "ok", "error" or "dropped" (queue full)
var AggregateRecalcTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "aggregate_recalculations_total",
		Help:      "Total number of bootcamp aggregate recalculations, by kind and result.",
	},
	[]string{"kind", "result"},
)

// AggregateQueueDepth tracks pending recalculations per worker channel.
var AggregateQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "aggregate_queue_depth",
		Help:      "Current number of recalculations pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AggregateRecalcDuration measures one recalculation from dequeue to write.
var AggregateRecalcDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "aggregate_recalculation_duration_seconds",
		Help:      "Duration of a bootcamp aggregate recalculation.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Resource metrics ──────────────────────────────────────────────────────────

// BootcampsCreatedTotal counts newly created bootcamps.
var BootcampsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bootcamps_created_total",
		Help:      "Total number of bootcamps created.",
	},
)

// GeocodeCacheTotal counts geocode cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var GeocodeCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_cache_total",
		Help:      "Total number of geocode cache lookups, by result.",
	},
	[]string{"result"},
)

// EmailsSentTotal counts outgoing emails by mail driver and result.
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of emails sent, by driver and result.",
	},
	[]string{"driver", "result"},
)

// PhotoUploadsTotal counts bootcamp photo uploads by storage driver and result.
var PhotoUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photo_uploads_total",
		Help:      "Total number of bootcamp photo uploads, by driver and result.",
	},
	[]string{"driver", "result"},
)
