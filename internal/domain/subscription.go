package domain

import "time"

// SubscriptionRecord tracks a member's time-bound role subscription.
// There is exactly one record per subscriber; the subscriber ID is the
// primary key in the store.
type SubscriptionRecord struct {
	SubscriberID  string    `json:"subscriber_id" db:"subscriber_id"`
	RoleID        string    `json:"role_id" db:"role_id"`
	Months        int       `json:"months" db:"months"`
	StartAt       time.Time `json:"start_at" db:"start_at"`
	ExpiresAt     time.Time `json:"expires_at" db:"expires_at"`
	Notified1Day  bool      `json:"notified_1day" db:"notified_1day"`
	Notified30Min bool      `json:"notified_30min" db:"notified_30min"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Active reports whether the subscription has not yet expired at the given
// instant. Active status is always derived from ExpiresAt, never stored.
func (r *SubscriptionRecord) Active(now time.Time) bool {
	return r.ExpiresAt.After(now)
}

// SubscriptionStats summarizes the store for the dashboard and stats endpoint.
// Active + Expired == Total always holds.
type SubscriptionStats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Expired int `json:"expired"`
}

// WarningKind identifies one of the two pre-expiry warning tiers.
type WarningKind string

const (
	Warning1Day  WarningKind = "1day"
	Warning30Min WarningKind = "30min"
)

// Lead returns how far before expiry this warning fires.
func (k WarningKind) Lead() time.Duration {
	if k == Warning30Min {
		return Warn30MinLead
	}
	return Warn1DayLead
}

// Window returns the width of the eligibility window for this warning.
// The window must be at least as wide as the warning sweep interval or a
// record can cross the whole window between two sweep ticks unseen.
func (k WarningKind) Window() time.Duration {
	if k == Warning30Min {
		return Warn30MinWindow
	}
	return Warn1DayWindow
}

// NotificationKind classifies outbound subscription notifications.
type NotificationKind string

const (
	NotifyGranted   NotificationKind = "granted"
	NotifyExtended  NotificationKind = "extended"
	NotifyRevoked   NotificationKind = "revoked"
	NotifyExpired   NotificationKind = "expired"
	NotifyWarn1Day  NotificationKind = "warn_1day"
	NotifyWarn30Min NotificationKind = "warn_30min"
)
