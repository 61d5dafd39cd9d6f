package repository

import (
	"context"
	"time"

	"github.com/osse101/TenureBot_Go/internal/domain"
)

// Subscription defines the interface for subscription persistence
type Subscription interface {
	// Point operations, keyed by subscriber ID
	GetBySubscriberID(ctx context.Context, subscriberID string) (*domain.SubscriptionRecord, error)
	Upsert(ctx context.Context, record domain.SubscriptionRecord) error
	// Delete reports whether a record existed. Deleting an absent record is
	// a no-op, not an error.
	Delete(ctx context.Context, subscriberID string) (bool, error)

	// Expiration management
	GetExpired(ctx context.Context, before time.Time) ([]domain.SubscriptionRecord, error)

	// Warning sweep support: records whose expiry falls in [lower, upper)
	// and that have not yet been sent the given warning.
	GetDueForWarning(ctx context.Context, kind domain.WarningKind, lower, upper time.Time) ([]domain.SubscriptionRecord, error)
	// MarkNotified latches the warning flag for the record's current expiry.
	MarkNotified(ctx context.Context, subscriberID string, kind domain.WarningKind) error

	// Dashboard / stats
	List(ctx context.Context) ([]domain.SubscriptionRecord, error)
	CountAll(ctx context.Context) (int, error)
	CountActive(ctx context.Context, now time.Time) (int, error)
}
