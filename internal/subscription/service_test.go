package subscription

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TenureBot_Go/internal/domain"
)

// Mock objects
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetBySubscriberID(ctx context.Context, subscriberID string) (*domain.SubscriptionRecord, error) {
	args := m.Called(ctx, subscriberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubscriptionRecord), args.Error(1)
}
func (m *MockRepository) Upsert(ctx context.Context, record domain.SubscriptionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockRepository) Delete(ctx context.Context, subscriberID string) (bool, error) {
	args := m.Called(ctx, subscriberID)
	return args.Bool(0), args.Error(1)
}
func (m *MockRepository) GetExpired(ctx context.Context, before time.Time) ([]domain.SubscriptionRecord, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubscriptionRecord), args.Error(1)
}
func (m *MockRepository) GetDueForWarning(ctx context.Context, kind domain.WarningKind, lower, upper time.Time) ([]domain.SubscriptionRecord, error) {
	args := m.Called(ctx, kind, lower, upper)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubscriptionRecord), args.Error(1)
}
func (m *MockRepository) MarkNotified(ctx context.Context, subscriberID string, kind domain.WarningKind) error {
	args := m.Called(ctx, subscriberID, kind)
	return args.Error(0)
}
func (m *MockRepository) List(ctx context.Context) ([]domain.SubscriptionRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubscriptionRecord), args.Error(1)
}
func (m *MockRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockRepository) CountActive(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, kind domain.NotificationKind, record domain.SubscriptionRecord) error {
	args := m.Called(ctx, kind, record)
	return args.Error(0)
}

type MockRoleActuator struct {
	mock.Mock
}

func (m *MockRoleActuator) GrantRole(ctx context.Context, subscriberID, roleID string) error {
	args := m.Called(ctx, subscriberID, roleID)
	return args.Error(0)
}
func (m *MockRoleActuator) RevokeRole(ctx context.Context, subscriberID, roleID string) error {
	args := m.Called(ctx, subscriberID, roleID)
	return args.Error(0)
}

// fixedClock pins time so expiry math is deterministic
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo *MockRepository, notifier *MockNotifier, actuator *MockRoleActuator) Service {
	return NewService(repo, fixedClock{now: testNow}, notifier, actuator, Config{
		DefaultRoleID: "default-role",
	})
}

func TestAddOrExtend_CreatesNewSubscription(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	repo.On("GetBySubscriberID", ctx, "user-1").Return(nil, domain.ErrSubscriptionNotFound)
	repo.On("Upsert", ctx, mock.MatchedBy(func(r domain.SubscriptionRecord) bool {
		return r.SubscriberID == "user-1" &&
			r.RoleID == "role-9" &&
			r.Months == 3 &&
			r.StartAt.Equal(testNow) &&
			r.ExpiresAt.Equal(testNow.Add(3*domain.SubscriptionMonth))
	})).Return(nil)
	actuator.On("GrantRole", ctx, "user-1", "role-9").Return(nil)
	notifier.On("Notify", ctx, domain.NotifyGranted, mock.Anything).Return(nil)

	result, err := svc.AddOrExtend(ctx, "user-1", 3, "role-9")

	require.NoError(t, err)
	assert.True(t, result.WasCreated)
	assert.Nil(t, result.PreviousExpiry)
	// 3 months is exactly 90 days
	assert.Equal(t, 90*24*time.Hour, result.Record.ExpiresAt.Sub(result.Record.StartAt))
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
	actuator.AssertExpectations(t)
}

func TestAddOrExtend_UsesDefaultRole(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	repo.On("GetBySubscriberID", ctx, "user-1").Return(nil, domain.ErrSubscriptionNotFound)
	repo.On("Upsert", ctx, mock.MatchedBy(func(r domain.SubscriptionRecord) bool {
		return r.RoleID == "default-role"
	})).Return(nil)
	actuator.On("GrantRole", ctx, "user-1", "default-role").Return(nil)
	notifier.On("Notify", ctx, domain.NotifyGranted, mock.Anything).Return(nil)

	result, err := svc.AddOrExtend(ctx, "user-1", 1, "")

	require.NoError(t, err)
	assert.Equal(t, "default-role", result.Record.RoleID)
	repo.AssertExpectations(t)
}

func TestAddOrExtend_ExtendsFromCurrentExpiry(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	startAt := testNow.Add(-10 * 24 * time.Hour)
	currentExpiry := testNow.Add(20 * 24 * time.Hour)
	existing := &domain.SubscriptionRecord{
		SubscriberID: "user-1",
		RoleID:       "role-9",
		Months:       1,
		StartAt:      startAt,
		ExpiresAt:    currentExpiry,
		Notified1Day: true,
	}

	repo.On("GetBySubscriberID", ctx, "user-1").Return(existing, nil)
	repo.On("Upsert", ctx, mock.MatchedBy(func(r domain.SubscriptionRecord) bool {
		// Extension stacks on the current expiry and never touches StartAt
		return r.ExpiresAt.Equal(currentExpiry.Add(2*domain.SubscriptionMonth)) &&
			r.StartAt.Equal(startAt) &&
			r.Months == 3 &&
			!r.Notified1Day &&
			!r.Notified30Min
	})).Return(nil)
	actuator.On("GrantRole", ctx, "user-1", "role-9").Return(nil)
	notifier.On("Notify", ctx, domain.NotifyExtended, mock.Anything).Return(nil)

	result, err := svc.AddOrExtend(ctx, "user-1", 2, "role-9")

	require.NoError(t, err)
	assert.False(t, result.WasCreated)
	require.NotNil(t, result.PreviousExpiry)
	assert.True(t, result.PreviousExpiry.Equal(currentExpiry))
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestAddOrExtend_TwiceExtendsTwice(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	expiry := testNow.Add(domain.SubscriptionMonth)
	existing := &domain.SubscriptionRecord{
		SubscriberID: "user-1",
		RoleID:       "role-9",
		Months:       1,
		StartAt:      testNow,
		ExpiresAt:    expiry,
	}

	repo.On("GetBySubscriberID", ctx, "user-1").Return(existing, nil)
	repo.On("Upsert", ctx, mock.Anything).Return(nil)
	actuator.On("GrantRole", ctx, "user-1", "role-9").Return(nil)
	notifier.On("Notify", ctx, domain.NotifyExtended, mock.Anything).Return(nil)

	first, err := svc.AddOrExtend(ctx, "user-1", 1, "role-9")
	require.NoError(t, err)
	assert.True(t, first.Record.ExpiresAt.Equal(expiry.Add(domain.SubscriptionMonth)))

	// Same call again against the updated record extends again
	updated := first.Record
	repo.ExpectedCalls = nil
	repo.On("GetBySubscriberID", ctx, "user-1").Return(&updated, nil)
	repo.On("Upsert", ctx, mock.Anything).Return(nil)

	second, err := svc.AddOrExtend(ctx, "user-1", 1, "role-9")
	require.NoError(t, err)
	assert.True(t, second.Record.ExpiresAt.Equal(expiry.Add(2*domain.SubscriptionMonth)))
}

func TestAddOrExtend_RejectsInvalidMonths(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	for _, months := range []int{0, -1, 11, 100} {
		result, err := svc.AddOrExtend(ctx, "user-1", months, "role-9")
		assert.ErrorIs(t, err, domain.ErrInvalidMonths, "months=%d", months)
		assert.Nil(t, result)
	}
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAddOrExtend_RejectsEmptySubscriber(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)

	result, err := svc.AddOrExtend(context.Background(), "", 1, "role-9")

	assert.ErrorIs(t, err, domain.ErrMissingSubscriber)
	assert.Nil(t, result)
}

func TestAddOrExtend_RejectsMissingRole(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	// No default role configured
	svc := NewService(repo, fixedClock{now: testNow}, notifier, actuator, Config{})

	result, err := svc.AddOrExtend(context.Background(), "user-1", 1, "")

	assert.ErrorIs(t, err, domain.ErrMissingRole)
	assert.Nil(t, result)
}

func TestAddOrExtend_GrantFailureDoesNotFailOperation(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	repo.On("GetBySubscriberID", ctx, "user-1").Return(nil, domain.ErrSubscriptionNotFound)
	repo.On("Upsert", ctx, mock.Anything).Return(nil)
	actuator.On("GrantRole", ctx, "user-1", "role-9").Return(fmt.Errorf("api down"))
	notifier.On("Notify", ctx, domain.NotifyGranted, mock.Anything).Return(fmt.Errorf("channel gone"))

	result, err := svc.AddOrExtend(ctx, "user-1", 1, "role-9")

	require.NoError(t, err)
	assert.True(t, result.WasCreated)
}

func TestAddOrExtend_UpsertFailurePropagates(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	repo.On("GetBySubscriberID", ctx, "user-1").Return(nil, domain.ErrSubscriptionNotFound)
	repo.On("Upsert", ctx, mock.Anything).Return(fmt.Errorf("db down"))

	result, err := svc.AddOrExtend(ctx, "user-1", 1, "role-9")

	assert.Error(t, err)
	assert.Nil(t, result)
	actuator.AssertNotCalled(t, "GrantRole", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemove_DeletesExistingSubscription(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	existing := &domain.SubscriptionRecord{SubscriberID: "user-1", RoleID: "role-9"}
	repo.On("GetBySubscriberID", ctx, "user-1").Return(existing, nil)
	repo.On("Delete", ctx, "user-1").Return(true, nil)
	actuator.On("RevokeRole", ctx, "user-1", "role-9").Return(nil)
	notifier.On("Notify", ctx, domain.NotifyRevoked, *existing).Return(nil)

	removed, err := svc.Remove(ctx, "user-1")

	require.NoError(t, err)
	assert.True(t, removed)
	repo.AssertExpectations(t)
	actuator.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRemove_AbsentSubscriberIsNotAnError(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	repo.On("GetBySubscriberID", ctx, "ghost").Return(nil, domain.ErrSubscriptionNotFound)

	removed, err := svc.Remove(ctx, "ghost")

	require.NoError(t, err)
	assert.False(t, removed)
	actuator.AssertNotCalled(t, "RevokeRole", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemove_RejectsEmptySubscriber(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)

	removed, err := svc.Remove(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrMissingSubscriber)
	assert.False(t, removed)
}

func TestStatus_ReturnsRecord(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	record := &domain.SubscriptionRecord{
		SubscriberID: "user-1",
		ExpiresAt:    testNow.Add(-time.Hour),
	}
	repo.On("GetBySubscriberID", ctx, "user-1").Return(record, nil)

	got, err := svc.Status(ctx, "user-1")

	require.NoError(t, err)
	// An expired record that has not been swept yet is still reported
	assert.Equal(t, record, got)
	assert.False(t, got.Active(testNow))
}

func TestStatus_NotFound(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	repo.On("GetBySubscriberID", ctx, "ghost").Return(nil, domain.ErrSubscriptionNotFound)

	got, err := svc.Status(ctx, "ghost")

	assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
	assert.Nil(t, got)
}

func TestIsActive_CachesLookups(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	record := &domain.SubscriptionRecord{
		SubscriberID: "user-1",
		ExpiresAt:    testNow.Add(time.Hour),
	}
	repo.On("GetBySubscriberID", ctx, "user-1").Return(record, nil).Once()

	active, err := svc.IsActive(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, active)

	// Second call is served from the cache; the mock allows one call only
	active, err = svc.IsActive(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, active)
	repo.AssertExpectations(t)
}

func TestIsActive_UnknownSubscriberIsInactive(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	repo.On("GetBySubscriberID", ctx, "ghost").Return(nil, domain.ErrSubscriptionNotFound).Once()

	active, err := svc.IsActive(ctx, "ghost")

	require.NoError(t, err)
	assert.False(t, active)
}

func TestSweepExpired_RevokesAndDeletes(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	expired := []domain.SubscriptionRecord{
		{SubscriberID: "user-1", RoleID: "role-9", ExpiresAt: testNow.Add(-time.Second)},
		{SubscriberID: "user-2", RoleID: "role-9", ExpiresAt: testNow},
	}
	repo.On("GetExpired", ctx, testNow).Return(expired, nil)
	for _, r := range expired {
		actuator.On("RevokeRole", ctx, r.SubscriberID, "role-9").Return(nil)
		repo.On("Delete", ctx, r.SubscriberID).Return(true, nil)
		notifier.On("Notify", ctx, domain.NotifyExpired, r).Return(nil)
	}

	processed, err := svc.SweepExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	repo.AssertExpectations(t)
	actuator.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSweepExpired_RevokeFailureStillDeletes(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	expired := []domain.SubscriptionRecord{
		{SubscriberID: "user-1", RoleID: "role-9", ExpiresAt: testNow.Add(-time.Minute)},
	}
	repo.On("GetExpired", ctx, testNow).Return(expired, nil)
	actuator.On("RevokeRole", ctx, "user-1", "role-9").Return(fmt.Errorf("member left guild"))
	repo.On("Delete", ctx, "user-1").Return(true, nil)
	notifier.On("Notify", ctx, domain.NotifyExpired, expired[0]).Return(nil)

	processed, err := svc.SweepExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	repo.AssertExpectations(t)
}

func TestSweepExpired_DeleteFailureSkipsRecord(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	expired := []domain.SubscriptionRecord{
		{SubscriberID: "user-1", RoleID: "role-9"},
		{SubscriberID: "user-2", RoleID: "role-9"},
	}
	repo.On("GetExpired", ctx, testNow).Return(expired, nil)
	actuator.On("RevokeRole", ctx, mock.Anything, "role-9").Return(nil)
	repo.On("Delete", ctx, "user-1").Return(false, fmt.Errorf("db hiccup"))
	repo.On("Delete", ctx, "user-2").Return(true, nil)
	notifier.On("Notify", ctx, domain.NotifyExpired, expired[1]).Return(nil)

	processed, err := svc.SweepExpired(ctx)

	// One bad record does not abort the batch, it stays for the next sweep
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	notifier.AssertNotCalled(t, "Notify", ctx, domain.NotifyExpired, expired[0])
}

func TestSweepExpired_NothingDue(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	repo.On("GetExpired", ctx, testNow).Return([]domain.SubscriptionRecord{}, nil)

	processed, err := svc.SweepExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, processed)
}

func TestSweepWarnings_QueriesBothTierWindows(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	// A record becomes eligible when its expiry enters [now+lead, now+lead+window)
	repo.On("GetDueForWarning", ctx, domain.Warning1Day,
		testNow.Add(24*time.Hour),
		testNow.Add(24*time.Hour+10*time.Minute),
	).Return([]domain.SubscriptionRecord{}, nil)
	repo.On("GetDueForWarning", ctx, domain.Warning30Min,
		testNow.Add(30*time.Minute),
		testNow.Add(35*time.Minute),
	).Return([]domain.SubscriptionRecord{}, nil)

	sent, err := svc.SweepWarnings(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	repo.AssertExpectations(t)
}

func TestSweepWarnings_SendsAndLatchesFlag(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	due := []domain.SubscriptionRecord{
		{SubscriberID: "user-1", RoleID: "role-9", ExpiresAt: testNow.Add(24 * time.Hour)},
	}
	repo.On("GetDueForWarning", ctx, domain.Warning1Day, mock.Anything, mock.Anything).Return(due, nil)
	repo.On("GetDueForWarning", ctx, domain.Warning30Min, mock.Anything, mock.Anything).Return([]domain.SubscriptionRecord{}, nil)
	notifier.On("Notify", ctx, domain.NotifyWarn1Day, due[0]).Return(nil)
	repo.On("MarkNotified", ctx, "user-1", domain.Warning1Day).Return(nil)

	sent, err := svc.SweepWarnings(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSweepWarnings_SendFailureLeavesFlagUnset(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	due := []domain.SubscriptionRecord{
		{SubscriberID: "user-1", RoleID: "role-9", ExpiresAt: testNow.Add(31 * time.Minute)},
	}
	repo.On("GetDueForWarning", ctx, domain.Warning1Day, mock.Anything, mock.Anything).Return([]domain.SubscriptionRecord{}, nil)
	repo.On("GetDueForWarning", ctx, domain.Warning30Min, mock.Anything, mock.Anything).Return(due, nil)
	notifier.On("Notify", ctx, domain.NotifyWarn30Min, due[0]).Return(fmt.Errorf("dm closed"))

	sent, err := svc.SweepWarnings(ctx)

	// Flag stays unset so the next sweep retries inside the window
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	repo.AssertNotCalled(t, "MarkNotified", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepWarnings_MarkFailureStillCountsSend(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	due := []domain.SubscriptionRecord{
		{SubscriberID: "user-1", RoleID: "role-9", ExpiresAt: testNow.Add(24 * time.Hour)},
	}
	repo.On("GetDueForWarning", ctx, domain.Warning1Day, mock.Anything, mock.Anything).Return(due, nil)
	repo.On("GetDueForWarning", ctx, domain.Warning30Min, mock.Anything, mock.Anything).Return([]domain.SubscriptionRecord{}, nil)
	notifier.On("Notify", ctx, domain.NotifyWarn1Day, due[0]).Return(nil)
	repo.On("MarkNotified", ctx, "user-1", domain.Warning1Day).Return(fmt.Errorf("db hiccup"))

	sent, err := svc.SweepWarnings(ctx)

	// Send happened, the warning may repeat next tick. At-least-once by contract.
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestSweepWarnings_TierQueryFailureDoesNotBlockOtherTier(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	due := []domain.SubscriptionRecord{
		{SubscriberID: "user-1", RoleID: "role-9", ExpiresAt: testNow.Add(32 * time.Minute)},
	}
	repo.On("GetDueForWarning", ctx, domain.Warning1Day, mock.Anything, mock.Anything).Return(nil, fmt.Errorf("db hiccup"))
	repo.On("GetDueForWarning", ctx, domain.Warning30Min, mock.Anything, mock.Anything).Return(due, nil)
	notifier.On("Notify", ctx, domain.NotifyWarn30Min, due[0]).Return(nil)
	repo.On("MarkNotified", ctx, "user-1", domain.Warning30Min).Return(nil)

	sent, err := svc.SweepWarnings(ctx)

	assert.Error(t, err)
	assert.Equal(t, 1, sent)
	notifier.AssertExpectations(t)
}

func TestStats_ExpiredIsDerived(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	repo.On("CountAll", ctx).Return(10, nil)
	repo.On("CountActive", ctx, testNow).Return(7, nil)

	stats, err := svc.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, 7, stats.Active)
	assert.Equal(t, 3, stats.Expired)
	assert.Equal(t, stats.Total, stats.Active+stats.Expired)
}

func TestList_PassesThrough(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	actuator := new(MockRoleActuator)
	svc := newTestService(repo, notifier, actuator)
	ctx := context.Background()

	records := []domain.SubscriptionRecord{
		{SubscriberID: "user-1"},
		{SubscriberID: "user-2"},
	}
	repo.On("List", ctx).Return(records, nil)

	got, err := svc.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, records, got)
}
