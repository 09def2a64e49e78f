// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"time"

	"streambox-service/internal/domain/subscription"
	xerrors "streambox-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type SubscriptionRepository struct {
	db Querier
}

func NewSubscriptionRepository(db Querier) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, order_id, user_id, product_id, start_date, end_date,
		       status, cancelled_at, effective_end_date, created_at, updated_at`

// CreateWithTx inserts a subscription within the same transaction as its
// order, so either both exist or neither does.
func (r *SubscriptionRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, sub *subscription.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, order_id, user_id, product_id, start_date, end_date,
			status, cancelled_at, effective_end_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if _, err := tx.Exec(ctx, query,
		sub.ID, sub.OrderID, sub.UserID, sub.ProductID, sub.StartDate, sub.EndDate,
		sub.Status, sub.CancelledAt, sub.EffectiveEndDate, sub.CreatedAt, sub.UpdatedAt,
	); err != nil {
		return xerrors.NewStorageError("create subscription", err)
	}

	return nil
}

// FindByUser retrieves all subscriptions for a user, most recent first.
func (r *SubscriptionRepository) FindByUser(ctx context.Context, userID string) ([]subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, xerrors.NewStorageError("list subscriptions", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

// FindActiveByUser retrieves the subscriptions entitling the user right now:
// stored status active and the current database time inside the start/end
// window. "Now" is evaluated database-side so the filter is time-of-query
// relative.
func (r *SubscriptionRepository) FindActiveByUser(ctx context.Context, userID string) ([]subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE user_id = $1 AND status = 'active' AND start_date <= NOW() AND end_date > NOW()
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, xerrors.NewStorageError("list active subscriptions", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

// FindByOrderWithTx retrieves an order's subscriptions inside the
// cancellation transaction. Normally exactly one row; zero or more are
// tolerated.
func (r *SubscriptionRepository) FindByOrderWithTx(ctx context.Context, tx pgx.Tx, orderID string) ([]subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE order_id = $1
		ORDER BY created_at DESC
	`

	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		return nil, xerrors.NewStorageError("list order subscriptions", err)
	}
	defer rows.Close()

	return collectSubscriptions(rows)
}

// CancelWithTx overwrites a subscription's cancellation fields by ID:
// status, cancelled_at, effective_end_date and updated_at are set together.
func (r *SubscriptionRepository) CancelWithTx(ctx context.Context, tx pgx.Tx, id string, cancelledAt, effectiveEndDate, updatedAt time.Time) error {
	query := `
		UPDATE subscriptions
		SET status = $2, cancelled_at = $3, effective_end_date = $4, updated_at = $5
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, subscription.StatusCancelled, cancelledAt, effectiveEndDate, updatedAt)
	if err != nil {
		return xerrors.NewStorageError("cancel subscription", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

func collectSubscriptions(rows pgx.Rows) ([]subscription.Subscription, error) {
	subs := []subscription.Subscription{}
	for rows.Next() {
		var s subscription.Subscription
		if err := rows.Scan(
			&s.ID, &s.OrderID, &s.UserID, &s.ProductID, &s.StartDate, &s.EndDate,
			&s.Status, &s.CancelledAt, &s.EffectiveEndDate, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, xerrors.NewStorageError("scan subscription", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.NewStorageError("list subscriptions", err)
	}

	return subs, nil
}
