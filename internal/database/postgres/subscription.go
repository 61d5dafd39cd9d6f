package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/TenureBot_Go/internal/domain"
	"github.com/osse101/TenureBot_Go/internal/repository"
)

// SubscriptionRepository implements the subscription repository for PostgreSQL
type SubscriptionRepository struct {
	db *pgxpool.Pool
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *pgxpool.Pool) repository.Subscription {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `subscriber_id, role_id, months, start_at, expires_at, notified_1day, notified_30min, created_at, updated_at`

// GetBySubscriberID retrieves the subscription record for a subscriber
func (r *SubscriptionRepository) GetBySubscriberID(ctx context.Context, subscriberID string) (*domain.SubscriptionRecord, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM role_subscriptions
		WHERE subscriber_id = $1
	`
	record, err := scanSubscription(r.db.QueryRow(ctx, query, subscriberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return record, nil
}

// Upsert inserts or replaces the subscription record for a subscriber.
// The store is last-write-wins; concurrent writers for the same subscriber
// are resolved by whichever write lands last.
func (r *SubscriptionRepository) Upsert(ctx context.Context, record domain.SubscriptionRecord) error {
	query := `
		INSERT INTO role_subscriptions
			(subscriber_id, role_id, months, start_at, expires_at, notified_1day, notified_30min, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (subscriber_id) DO UPDATE
		SET role_id = EXCLUDED.role_id,
			months = EXCLUDED.months,
			expires_at = EXCLUDED.expires_at,
			notified_1day = EXCLUDED.notified_1day,
			notified_30min = EXCLUDED.notified_30min,
			updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query,
		record.SubscriberID,
		record.RoleID,
		record.Months,
		record.StartAt,
		record.ExpiresAt,
		record.Notified1Day,
		record.Notified30Min,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

// Delete removes the subscription record and reports whether one existed
func (r *SubscriptionRepository) Delete(ctx context.Context, subscriberID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM role_subscriptions WHERE subscriber_id = $1`, subscriberID)
	if err != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetExpired returns every record whose expiry is at or before the cutoff
func (r *SubscriptionRepository) GetExpired(ctx context.Context, before time.Time) ([]domain.SubscriptionRecord, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM role_subscriptions
		WHERE expires_at <= $1
		ORDER BY expires_at
	`
	rows, err := r.db.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to get expired subscriptions: %w", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

// GetDueForWarning returns records whose expiry falls in [lower, upper) and
// that have not yet received the given warning
func (r *SubscriptionRepository) GetDueForWarning(ctx context.Context, kind domain.WarningKind, lower, upper time.Time) ([]domain.SubscriptionRecord, error) {
	flagColumn, err := notifiedColumn(kind)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + subscriptionColumns + `
		FROM role_subscriptions
		WHERE expires_at >= $1 AND expires_at < $2 AND NOT ` + flagColumn + `
		ORDER BY expires_at
	`
	rows, err := r.db.Query(ctx, query, lower, upper)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriptions due for %s warning: %w", kind, err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

// MarkNotified latches the warning flag for the subscriber's current record
func (r *SubscriptionRepository) MarkNotified(ctx context.Context, subscriberID string, kind domain.WarningKind) error {
	flagColumn, err := notifiedColumn(kind)
	if err != nil {
		return err
	}

	query := `
		UPDATE role_subscriptions
		SET ` + flagColumn + ` = TRUE, updated_at = NOW()
		WHERE subscriber_id = $1
	`
	tag, err := r.db.Exec(ctx, query, subscriberID)
	if err != nil {
		return fmt.Errorf("failed to mark %s warning sent: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		// Record removed between sweep select and flag write; nothing to latch.
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

// List returns all records ordered by expiry, soonest first
func (r *SubscriptionRepository) List(ctx context.Context) ([]domain.SubscriptionRecord, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM role_subscriptions
		ORDER BY expires_at
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

// CountAll returns the total number of subscription records
func (r *SubscriptionRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM role_subscriptions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count, nil
}

// CountActive returns the number of records with expiry strictly after now
func (r *SubscriptionRepository) CountActive(ctx context.Context, now time.Time) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM role_subscriptions WHERE expires_at > $1`, now).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active subscriptions: %w", err)
	}
	return count, nil
}

func notifiedColumn(kind domain.WarningKind) (string, error) {
	switch kind {
	case domain.Warning1Day:
		return "notified_1day", nil
	case domain.Warning30Min:
		return "notified_30min", nil
	default:
		return "", fmt.Errorf("unknown warning kind: %s", kind)
	}
}

func scanSubscription(row pgx.Row) (*domain.SubscriptionRecord, error) {
	var rec domain.SubscriptionRecord
	err := row.Scan(
		&rec.SubscriberID,
		&rec.RoleID,
		&rec.Months,
		&rec.StartAt,
		&rec.ExpiresAt,
		&rec.Notified1Day,
		&rec.Notified30Min,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func collectSubscriptions(rows pgx.Rows) ([]domain.SubscriptionRecord, error) {
	records := make([]domain.SubscriptionRecord, 0)
	for rows.Next() {
		rec, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subscription rows: %w", err)
	}
	return records, nil
}
