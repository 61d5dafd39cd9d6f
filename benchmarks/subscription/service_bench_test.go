package subscription_bench

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/osse101/TenureBot_Go/internal/domain"
	"github.com/osse101/TenureBot_Go/internal/subscription"
)

// --- Stubs (Zero-overhead mocks for benchmarking) ---

type StubRepository struct {
	record domain.SubscriptionRecord
}

func (s *StubRepository) GetBySubscriberID(ctx context.Context, subscriberID string) (*domain.SubscriptionRecord, error) {
	// Return a fresh copy to simulate a db fetch
	rec := s.record
	rec.SubscriberID = subscriberID
	return &rec, nil
}
func (s *StubRepository) Upsert(ctx context.Context, record domain.SubscriptionRecord) error {
	return nil
}
func (s *StubRepository) Delete(ctx context.Context, subscriberID string) (bool, error) {
	return true, nil
}
func (s *StubRepository) GetExpired(ctx context.Context, before time.Time) ([]domain.SubscriptionRecord, error) {
	return nil, nil
}
func (s *StubRepository) GetDueForWarning(ctx context.Context, kind domain.WarningKind, lower, upper time.Time) ([]domain.SubscriptionRecord, error) {
	// A batch of 100 records due for warning to exercise the sweep loop
	records := make([]domain.SubscriptionRecord, 100)
	for i := range records {
		records[i] = domain.SubscriptionRecord{
			SubscriberID: strconv.Itoa(i),
			RoleID:       "role-1",
			ExpiresAt:    lower,
		}
	}
	return records, nil
}
func (s *StubRepository) MarkNotified(ctx context.Context, subscriberID string, kind domain.WarningKind) error {
	return nil
}
func (s *StubRepository) List(ctx context.Context) ([]domain.SubscriptionRecord, error) {
	return nil, nil
}
func (s *StubRepository) CountAll(ctx context.Context) (int, error) {
	return 0, nil
}
func (s *StubRepository) CountActive(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

type StubNotifier struct{}

func (StubNotifier) Notify(ctx context.Context, kind domain.NotificationKind, record domain.SubscriptionRecord) error {
	return nil
}

type StubActuator struct{}

func (StubActuator) GrantRole(ctx context.Context, subscriberID, roleID string) error  { return nil }
func (StubActuator) RevokeRole(ctx context.Context, subscriberID, roleID string) error { return nil }

func newBenchService() subscription.Service {
	repo := &StubRepository{
		record: domain.SubscriptionRecord{
			RoleID:    "role-1",
			Months:    1,
			StartAt:   time.Now().Add(-time.Hour),
			ExpiresAt: time.Now().Add(domain.SubscriptionMonth),
		},
	}
	return subscription.NewService(repo, nil, StubNotifier{}, StubActuator{}, subscription.Config{
		DefaultRoleID: "role-1",
	})
}

func BenchmarkAddOrExtend(b *testing.B) {
	svc := newBenchService()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.AddOrExtend(ctx, "user-1", 1, ""); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSweepWarnings(b *testing.B) {
	svc := newBenchService()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.SweepWarnings(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkIsActive_CacheHit(b *testing.B) {
	svc := newBenchService()
	ctx := context.Background()

	// Prime the cache
	if _, err := svc.IsActive(ctx, "user-1"); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.IsActive(ctx, "user-1"); err != nil {
			b.Fatal(err)
		}
	}
}
