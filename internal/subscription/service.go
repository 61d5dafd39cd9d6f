package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/osse101/TenureBot_Go/internal/domain"
	"github.com/osse101/TenureBot_Go/internal/metrics"
	"github.com/osse101/TenureBot_Go/internal/repository"
)

// Service defines the interface for subscription lifecycle operations
type Service interface {
	// User-triggered operations
	AddOrExtend(ctx context.Context, subscriberID string, months int, roleID string) (*AddResult, error)
	Remove(ctx context.Context, subscriberID string) (bool, error)
	Status(ctx context.Context, subscriberID string) (*domain.SubscriptionRecord, error)

	// Cached active check for hot paths (command gating, dashboards)
	IsActive(ctx context.Context, subscriberID string) (bool, error)

	// Periodic entry points, driven by the scheduler
	SweepExpired(ctx context.Context) (int, error)
	SweepWarnings(ctx context.Context) (int, error)

	// Read-only aggregate views
	Stats(ctx context.Context) (*domain.SubscriptionStats, error)
	List(ctx context.Context) ([]domain.SubscriptionRecord, error)
}

// AddResult reports the outcome of an AddOrExtend call
type AddResult struct {
	Record     domain.SubscriptionRecord
	WasCreated bool
	// PreviousExpiry is set on the extension path only
	PreviousExpiry *time.Time
}

// Clock supplies the current time. Tests inject fixed instants.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now
func SystemClock() Clock { return systemClock{} }

// Notifier delivers subscription notifications. Delivery is best-effort:
// the engine never rolls back a record mutation because a send failed.
type Notifier interface {
	Notify(ctx context.Context, kind domain.NotificationKind, record domain.SubscriptionRecord) error
}

// RoleActuator grants and revokes the platform role tied to a subscription
type RoleActuator interface {
	GrantRole(ctx context.Context, subscriberID, roleID string) error
	RevokeRole(ctx context.Context, subscriberID, roleID string) error
}

// Config holds engine configuration supplied at construction time
type Config struct {
	// DefaultRoleID is granted when the caller does not name a role
	DefaultRoleID string
	// StatusCacheTTL / StatusCacheSize bound the active-status cache
	StatusCacheTTL  time.Duration
	StatusCacheSize int
}

type service struct {
	repo     repository.Subscription
	clock    Clock
	notifier Notifier
	actuator RoleActuator
	cfg      Config
	cache    *statusCache
}

// NewService creates a new subscription lifecycle service
func NewService(repo repository.Subscription, clock Clock, notifier Notifier, actuator RoleActuator, cfg Config) Service {
	if clock == nil {
		clock = SystemClock()
	}
	if cfg.StatusCacheTTL <= 0 {
		cfg.StatusCacheTTL = 5 * time.Minute
	}
	if cfg.StatusCacheSize <= 0 {
		cfg.StatusCacheSize = 1024
	}
	return &service{
		repo:     repo,
		clock:    clock,
		notifier: notifier,
		actuator: actuator,
		cfg:      cfg,
		cache:    newStatusCache(cfg.StatusCacheSize, cfg.StatusCacheTTL),
	}
}

// AddOrExtend creates a subscription window for a new subscriber or extends
// an existing one. Extension adds 30-day blocks to the current expiry and
// resets both warning latches; a new expiry value requires fresh warnings.
// The operation is additive, not idempotent: calling twice extends twice.
func (s *service) AddOrExtend(ctx context.Context, subscriberID string, months int, roleID string) (*AddResult, error) {
	if subscriberID == "" {
		return nil, domain.ErrMissingSubscriber
	}
	if months < domain.MinMonthsPerOperation || months > domain.MaxMonthsPerOperation {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidMonths, months)
	}
	if roleID == "" {
		roleID = s.cfg.DefaultRoleID
	}
	if roleID == "" {
		return nil, domain.ErrMissingRole
	}

	now := s.clock.Now()
	addition := time.Duration(months) * domain.SubscriptionMonth

	existing, err := s.repo.GetBySubscriberID(ctx, subscriberID)
	if err != nil && !errors.Is(err, domain.ErrSubscriptionNotFound) {
		return nil, err
	}

	result := &AddResult{}
	if existing == nil {
		result.WasCreated = true
		result.Record = domain.SubscriptionRecord{
			SubscriberID: subscriberID,
			RoleID:       roleID,
			Months:       months,
			StartAt:      now,
			ExpiresAt:    now.Add(addition),
		}
	} else {
		previous := existing.ExpiresAt
		result.PreviousExpiry = &previous

		record := *existing
		record.ExpiresAt = record.ExpiresAt.Add(addition)
		record.Months += months
		record.Notified1Day = false
		record.Notified30Min = false
		record.RoleID = roleID
		result.Record = record
	}

	if err := s.repo.Upsert(ctx, result.Record); err != nil {
		return nil, err
	}
	s.cache.Invalidate(subscriberID)

	slog.Info("Subscription updated",
		"subscriber_id", subscriberID,
		"role_id", result.Record.RoleID,
		"months", result.Record.Months,
		"expires_at", result.Record.ExpiresAt,
		"created", result.WasCreated,
	)

	kind := domain.NotifyExtended
	if result.WasCreated {
		kind = domain.NotifyGranted
		metrics.SubscriptionsGranted.Inc()
	} else {
		metrics.SubscriptionsExtended.Inc()
	}

	// Delivery is decoupled from persistence: the record write above is the
	// authoritative outcome, role grant and notification never undo it.
	if err := s.actuator.GrantRole(ctx, subscriberID, result.Record.RoleID); err != nil {
		slog.Warn("Failed to grant role", "subscriber_id", subscriberID, "role_id", result.Record.RoleID, "error", err)
		metrics.DeliveryErrors.WithLabelValues("grant_role").Inc()
	}
	s.notify(ctx, kind, result.Record)

	return result, nil
}

// Remove deletes the subscription record and reports whether one existed.
// Removing an absent subscriber is a normal outcome, not an error.
func (s *service) Remove(ctx context.Context, subscriberID string) (bool, error) {
	if subscriberID == "" {
		return false, domain.ErrMissingSubscriber
	}

	existing, err := s.repo.GetBySubscriberID(ctx, subscriberID)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			return false, nil
		}
		return false, err
	}

	removed, err := s.repo.Delete(ctx, subscriberID)
	if err != nil {
		return false, err
	}
	s.cache.Invalidate(subscriberID)
	if !removed {
		// Raced with a sweep or another remove; the record is gone either way.
		return false, nil
	}

	slog.Info("Subscription removed", "subscriber_id", subscriberID, "role_id", existing.RoleID)
	metrics.SubscriptionsRemoved.Inc()

	if err := s.actuator.RevokeRole(ctx, subscriberID, existing.RoleID); err != nil {
		slog.Warn("Failed to revoke role", "subscriber_id", subscriberID, "role_id", existing.RoleID, "error", err)
		metrics.DeliveryErrors.WithLabelValues("revoke_role").Inc()
	}
	s.notify(ctx, domain.NotifyRevoked, *existing)

	return true, nil
}

// Status returns the current record for a subscriber, or
// domain.ErrSubscriptionNotFound. Pure read, no side effects. An expired
// record that has not been swept yet is still returned as last known state.
func (s *service) Status(ctx context.Context, subscriberID string) (*domain.SubscriptionRecord, error) {
	if subscriberID == "" {
		return nil, domain.ErrMissingSubscriber
	}
	return s.repo.GetBySubscriberID(ctx, subscriberID)
}

// IsActive reports whether the subscriber currently holds an unexpired
// subscription, serving repeated lookups from a short-lived cache.
func (s *service) IsActive(ctx context.Context, subscriberID string) (bool, error) {
	if active, ok := s.cache.Get(subscriberID); ok {
		return active, nil
	}

	record, err := s.repo.GetBySubscriberID(ctx, subscriberID)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			s.cache.Set(subscriberID, false)
			return false, nil
		}
		return false, err
	}

	active := record.Active(s.clock.Now())
	s.cache.Set(subscriberID, active)
	return active, nil
}

// SweepExpired deletes every record whose expiry has passed, revoking the
// associated role first. Revocation failures are logged and counted but do
// not keep the record alive: expiry cleanup is not retried across runs, a
// missed revocation is an accepted loss. Returns the number of records
// processed.
func (s *service) SweepExpired(ctx context.Context) (int, error) {
	now := s.clock.Now()

	expired, err := s.repo.GetExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to select expired subscriptions: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	slog.Info("Processing expired subscriptions", "count", len(expired))

	processed := 0
	for _, record := range expired {
		if err := s.actuator.RevokeRole(ctx, record.SubscriberID, record.RoleID); err != nil {
			slog.Warn("Failed to revoke expired role",
				"subscriber_id", record.SubscriberID,
				"role_id", record.RoleID,
				"error", err)
			metrics.DeliveryErrors.WithLabelValues("revoke_role").Inc()
		}

		if _, err := s.repo.Delete(ctx, record.SubscriberID); err != nil {
			// Leave the record for the next sweep; one bad record must not
			// abort the rest of the batch.
			slog.Error("Failed to delete expired subscription",
				"subscriber_id", record.SubscriberID,
				"error", err)
			metrics.SweepErrors.WithLabelValues("expiry").Inc()
			continue
		}
		s.cache.Invalidate(record.SubscriberID)

		s.notify(ctx, domain.NotifyExpired, record)
		metrics.SubscriptionsExpired.Inc()
		processed++
	}

	return processed, nil
}

// SweepWarnings sends the 1-day and 30-minute pre-expiry warnings. The two
// tiers are independent one-shot latches per expiry value: a record becomes
// eligible when its expiry enters [now+lead, now+lead+window), and the flag
// written after a successful send keeps later sweeps from resending. Send
// happens before the flag write, so a failed write means a resend on the
// next tick: at-least-once, by contract. Returns the number of warnings sent.
func (s *service) SweepWarnings(ctx context.Context) (int, error) {
	sent := 0
	var errs []error
	for _, kind := range []domain.WarningKind{domain.Warning1Day, domain.Warning30Min} {
		n, err := s.sweepWarningTier(ctx, kind)
		sent += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return sent, errors.Join(errs...)
}

func (s *service) sweepWarningTier(ctx context.Context, kind domain.WarningKind) (int, error) {
	now := s.clock.Now()
	lower := now.Add(kind.Lead())
	upper := lower.Add(kind.Window())

	due, err := s.repo.GetDueForWarning(ctx, kind, lower, upper)
	if err != nil {
		return 0, fmt.Errorf("failed to select subscriptions due for %s warning: %w", kind, err)
	}

	notifyKind := domain.NotifyWarn1Day
	if kind == domain.Warning30Min {
		notifyKind = domain.NotifyWarn30Min
	}

	sent := 0
	for _, record := range due {
		if err := s.notifier.Notify(ctx, notifyKind, record); err != nil {
			// Flag stays unset; the next sweep retries while the record is
			// still inside the window.
			slog.Warn("Failed to send expiry warning",
				"subscriber_id", record.SubscriberID,
				"kind", kind,
				"error", err)
			metrics.DeliveryErrors.WithLabelValues("notify").Inc()
			continue
		}
		sent++
		metrics.WarningsSent.WithLabelValues(string(kind)).Inc()

		if err := s.repo.MarkNotified(ctx, record.SubscriberID, kind); err != nil {
			slog.Warn("Failed to latch warning flag, warning may repeat",
				"subscriber_id", record.SubscriberID,
				"kind", kind,
				"error", err)
			metrics.SweepErrors.WithLabelValues("warning").Inc()
		}
	}

	return sent, nil
}

// Stats returns total/active/expired counts over the whole store
func (s *service) Stats(ctx context.Context) (*domain.SubscriptionStats, error) {
	now := s.clock.Now()

	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	active, err := s.repo.CountActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count active subscriptions: %w", err)
	}

	return &domain.SubscriptionStats{
		Total:   total,
		Active:  active,
		Expired: total - active,
	}, nil
}

// List returns all subscription records ordered by expiry
func (s *service) List(ctx context.Context) ([]domain.SubscriptionRecord, error) {
	return s.repo.List(ctx)
}

func (s *service) notify(ctx context.Context, kind domain.NotificationKind, record domain.SubscriptionRecord) {
	if err := s.notifier.Notify(ctx, kind, record); err != nil {
		slog.Warn("Failed to deliver notification",
			"kind", kind,
			"subscriber_id", record.SubscriberID,
			"error", err)
		metrics.DeliveryErrors.WithLabelValues("notify").Inc()
	}
}
