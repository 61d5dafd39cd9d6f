package domain

import "time"

// Subscription duration math. A "month" is a fixed 30-day block; extensions
// always add whole blocks to the current expiry, they never recompute the
// window from StartAt or from calendar months.
const (
	SubscriptionMonth = 30 * 24 * time.Hour

	// Bounds for a single add/extend operation. The cumulative total across
	// operations is unbounded.
	MinMonthsPerOperation = 1
	MaxMonthsPerOperation = 10
)

// Warning schedule. Each warning fires once per expiry value when the expiry
// enters [now+lead, now+lead+window).
const (
	Warn1DayLead   = 24 * time.Hour
	Warn1DayWindow = 10 * time.Minute

	Warn30MinLead   = 30 * time.Minute
	Warn30MinWindow = 5 * time.Minute
)

// Default sweep cadences. The warning sweep interval must not exceed the
// narrowest warning window (5 minutes).
const (
	DefaultExpirySweepInterval  = time.Hour
	DefaultWarningSweepInterval = 5 * time.Minute
)
