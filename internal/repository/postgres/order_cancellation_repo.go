// internal/repository/postgres/order_cancellation_repo.go
package postgres

import (
	"context"
	"errors"

	"streambox-service/internal/domain/order"
	xerrors "streambox-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type OrderCancellationRepository struct {
	db Querier
}

func NewOrderCancellationRepository(db Querier) *OrderCancellationRepository {
	return &OrderCancellationRepository{db: db}
}

// CreateWithTx inserts the cancellation audit record within the same
// transaction as the order and subscription updates. The unique constraint
// on order_id backs the one-cancellation-per-order rule.
func (r *OrderCancellationRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, oc *order.OrderCancellation) error {
	query := `
		INSERT INTO order_cancellations (
			id, order_id, reason, cancellation_type, notes,
			cancelled_at, cancelled_by, effective_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if _, err := tx.Exec(ctx, query,
		oc.ID, oc.OrderID, oc.Reason, oc.CancellationType, oc.Notes,
		oc.CancelledAt, oc.CancelledBy, oc.EffectiveDate, oc.CreatedAt, oc.UpdatedAt,
	); err != nil {
		return xerrors.NewStorageError("create order cancellation", err)
	}

	return nil
}

// FindByOrder retrieves the cancellation record for an order, or
// xerrors.ErrNotFound if the order was never cancelled.
func (r *OrderCancellationRepository) FindByOrder(ctx context.Context, orderID string) (*order.OrderCancellation, error) {
	query := `
		SELECT id, order_id, reason, cancellation_type, notes,
		       cancelled_at, cancelled_by, effective_date, created_at, updated_at
		FROM order_cancellations
		WHERE order_id = $1
	`

	var oc order.OrderCancellation
	err := r.db.QueryRow(ctx, query, orderID).Scan(
		&oc.ID, &oc.OrderID, &oc.Reason, &oc.CancellationType, &oc.Notes,
		&oc.CancelledAt, &oc.CancelledBy, &oc.EffectiveDate, &oc.CreatedAt, &oc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, xerrors.NewStorageError("find order cancellation", err)
	}

	return &oc, nil
}
