package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Subscription lifecycle metric names
const (
	MetricNameSubscriptionsGranted  = "subscriptions_granted_total"
	MetricNameSubscriptionsExtended = "subscriptions_extended_total"
	MetricNameSubscriptionsRemoved  = "subscriptions_removed_total"
	MetricNameSubscriptionsExpired  = "subscriptions_expired_total"
	MetricNameWarningsSent          = "subscription_warnings_sent_total"
	MetricNameDeliveryErrors        = "subscription_delivery_errors_total"
	MetricNameSweepErrors           = "subscription_sweep_errors_total"
	MetricNameSweepDuration         = "subscription_sweep_duration_seconds"
	MetricNameSweepSkipped          = "subscription_sweep_skipped_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Subscription metric help text
const (
	HelpTextSubscriptionsGranted  = "Total number of new subscriptions granted"
	HelpTextSubscriptionsExtended = "Total number of subscription extensions"
	HelpTextSubscriptionsRemoved  = "Total number of subscriptions removed on request"
	HelpTextSubscriptionsExpired  = "Total number of subscriptions deleted by the expiry sweep"
	HelpTextWarningsSent          = "Total number of pre-expiry warnings sent, by tier"
	HelpTextDeliveryErrors        = "Total number of failed role/notification deliveries, by operation"
	HelpTextSweepErrors           = "Total number of per-record sweep failures, by sweep"
	HelpTextSweepDuration         = "Sweep run duration in seconds, by sweep"
	HelpTextSweepSkipped          = "Total number of sweep ticks skipped because the previous run was still in flight, by sweep"
)

// ============================================================================
// Metric Labels
// ============================================================================

const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelTier      = "tier"
	LabelOperation = "operation"
	LabelSweep     = "sweep"
)

// HTTPLatencyBuckets covers the expected latency range of the stats API
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// SweepDurationBuckets covers sweep batch runtimes up to well past the
// warning sweep interval
var SweepDurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 120}
