// internal/repository/postgres/order_repo.go
package postgres

import (
	"context"
	"errors"
	"time"

	"streambox-service/internal/domain/order"
	xerrors "streambox-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type OrderRepository struct {
	db Querier
}

func NewOrderRepository(db Querier) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, product_id, status, created_at, updated_at`

// CreateWithTx inserts an order within a transaction. IDs and timestamps are
// assigned by the service, not the database.
func (r *OrderRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, o *order.Order) error {
	query := `
		INSERT INTO orders (id, user_id, product_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := tx.Exec(ctx, query,
		o.ID, o.UserID, o.ProductID, o.Status, o.CreatedAt, o.UpdatedAt,
	); err != nil {
		return xerrors.NewStorageError("create order", err)
	}

	return nil
}

// FindByID retrieves an order by ID.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`

	return scanOrder(r.db.QueryRow(ctx, query, id), "find order")
}

// FindByIDForUpdateWithTx retrieves an order inside a transaction, locking
// its row. Concurrent cancellations of the same order serialize on this
// lock, so the loser observes the already-cancelled status.
func (r *OrderRepository) FindByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, id string) (*order.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`

	return scanOrder(tx.QueryRow(ctx, query, id), "lock order")
}

// FindByUser retrieves all orders for a user, most recent first.
func (r *OrderRepository) FindByUser(ctx context.Context, userID string) ([]order.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, xerrors.NewStorageError("list orders", err)
	}
	defer rows.Close()

	orders := []order.Order{}
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, xerrors.NewStorageError("scan order", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.NewStorageError("list orders", err)
	}

	return orders, nil
}

// UpdateStatusWithTx overwrites an order's status and updated_at by ID.
func (r *OrderRepository) UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id string, status order.OrderStatus, updatedAt time.Time) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id, status, updatedAt)
	if err != nil {
		return xerrors.NewStorageError("update order", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

func scanOrder(row pgx.Row, op string) (*order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, xerrors.NewStorageError(op, err)
	}
	return &o, nil
}
