package postgres

import (
	"context"
	"testing"
	"time"

	"streambox-service/internal/domain/subscription"
	xerrors "streambox-service/internal/pkg/errors"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var subscriptionRepoCols = []string{
	"id", "order_id", "user_id", "product_id", "start_date", "end_date",
	"status", "cancelled_at", "effective_end_date", "created_at", "updated_at",
}

func newSubscriptionRepo(t *testing.T) (*SubscriptionRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewSubscriptionRepository(pool), pool
}

func TestSubscriptionRepoCreateWithTx(t *testing.T) {
	repo, pool := newSubscriptionRepo(t)
	ctx := context.Background()
	start := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	sub := &subscription.Subscription{
		ID:        "sub-1",
		OrderID:   "ord-1",
		UserID:    "u1",
		ProductID: "monthly",
		StartDate: start,
		EndDate:   start.AddDate(0, 1, 0),
		Status:    subscription.StatusActive,
		CreatedAt: start,
		UpdatedAt: start,
	}

	pool.ExpectBegin()
	pool.ExpectExec("INSERT INTO subscriptions").
		WithArgs(sub.ID, sub.OrderID, sub.UserID, sub.ProductID, sub.StartDate, sub.EndDate,
			sub.Status, sub.CancelledAt, sub.EffectiveEndDate, sub.CreatedAt, sub.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectCommit()

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.CreateWithTx(ctx, tx, sub))
	require.NoError(t, tx.Commit(ctx))
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestSubscriptionRepoFindActiveByUserPredicate(t *testing.T) {
	repo, pool := newSubscriptionRepo(t)
	ctx := context.Background()
	start := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	// The active filter must run against the database's own clock.
	pool.ExpectQuery(`status = 'active' AND start_date <= NOW\(\) AND end_date > NOW\(\)`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(subscriptionRepoCols).
			AddRow("sub-1", "ord-1", "u1", "monthly", start, start.AddDate(0, 1, 0),
				subscription.StatusActive, nil, nil, start, start))

	got, err := repo.FindActiveByUser(ctx, "u1")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sub-1", got[0].ID)
	assert.Equal(t, subscription.StatusActive, got[0].Status)
	assert.Nil(t, got[0].CancelledAt)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestSubscriptionRepoFindActiveByUserEmpty(t *testing.T) {
	repo, pool := newSubscriptionRepo(t)

	pool.ExpectQuery("FROM subscriptions").
		WithArgs("u2").
		WillReturnRows(pgxmock.NewRows(subscriptionRepoCols))

	got, err := repo.FindActiveByUser(context.Background(), "u2")

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestSubscriptionRepoFindByUserScansCancelledFields(t *testing.T) {
	repo, pool := newSubscriptionRepo(t)
	ctx := context.Background()
	start := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	cancelled := start.Add(48 * time.Hour)

	pool.ExpectQuery("ORDER BY created_at DESC").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(subscriptionRepoCols).
			AddRow("sub-1", "ord-1", "u1", "monthly", start, start.AddDate(0, 1, 0),
				subscription.StatusCancelled, &cancelled, &cancelled, start, cancelled))

	got, err := repo.FindByUser(ctx, "u1")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, subscription.StatusCancelled, got[0].Status)
	require.NotNil(t, got[0].CancelledAt)
	assert.Equal(t, cancelled, *got[0].CancelledAt)
	require.NotNil(t, got[0].EffectiveEndDate)
	assert.Equal(t, cancelled, *got[0].EffectiveEndDate)
}

func TestSubscriptionRepoFindByOrderWithTx(t *testing.T) {
	repo, pool := newSubscriptionRepo(t)
	ctx := context.Background()
	start := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	pool.ExpectBegin()
	pool.ExpectQuery("WHERE order_id").
		WithArgs("ord-1").
		WillReturnRows(pgxmock.NewRows(subscriptionRepoCols).
			AddRow("sub-1", "ord-1", "u1", "monthly", start, start.AddDate(0, 1, 0),
				subscription.StatusActive, nil, nil, start, start))
	pool.ExpectRollback()

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)

	got, err := repo.FindByOrderWithTx(ctx, tx, "ord-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ord-1", got[0].OrderID)

	require.NoError(t, tx.Rollback(ctx))
}

func TestSubscriptionRepoCancelWithTx(t *testing.T) {
	repo, pool := newSubscriptionRepo(t)
	ctx := context.Background()
	now := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	effective := time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)

	pool.ExpectBegin()
	pool.ExpectExec("UPDATE subscriptions").
		WithArgs("sub-1", subscription.StatusCancelled, now, effective, now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectCommit()

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.CancelWithTx(ctx, tx, "sub-1", now, effective, now))
	require.NoError(t, tx.Commit(ctx))
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestSubscriptionRepoCancelWithTxMissingRow(t *testing.T) {
	repo, pool := newSubscriptionRepo(t)
	ctx := context.Background()
	now := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

	pool.ExpectBegin()
	pool.ExpectExec("UPDATE subscriptions").
		WithArgs("missing", subscription.StatusCancelled, now, now, now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	pool.ExpectRollback()

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)

	err = repo.CancelWithTx(ctx, tx, "missing", now, now, now)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	require.NoError(t, tx.Rollback(ctx))
}
