package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Subscription lifecycle metrics
var (
	SubscriptionsGranted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSubscriptionsGranted,
			Help: HelpTextSubscriptionsGranted,
		},
	)

	SubscriptionsExtended = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSubscriptionsExtended,
			Help: HelpTextSubscriptionsExtended,
		},
	)

	SubscriptionsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSubscriptionsRemoved,
			Help: HelpTextSubscriptionsRemoved,
		},
	)

	SubscriptionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSubscriptionsExpired,
			Help: HelpTextSubscriptionsExpired,
		},
	)

	WarningsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWarningsSent,
			Help: HelpTextWarningsSent,
		},
		[]string{LabelTier},
	)

	DeliveryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDeliveryErrors,
			Help: HelpTextDeliveryErrors,
		},
		[]string{LabelOperation},
	)
)

// Sweep metrics
var (
	SweepErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSweepErrors,
			Help: HelpTextSweepErrors,
		},
		[]string{LabelSweep},
	)

	SweepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameSweepDuration,
			Help:    HelpTextSweepDuration,
			Buckets: SweepDurationBuckets,
		},
		[]string{LabelSweep},
	)

	SweepSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSweepSkipped,
			Help: HelpTextSweepSkipped,
		},
		[]string{LabelSweep},
	)
)
