// internal/service/order/order_service.go
package order

import (
	"context"
	"fmt"
	"time"

	"streambox-service/internal/domain/order"
	"streambox-service/internal/domain/subscription"
	"streambox-service/internal/pkg/clock"
	xerrors "streambox-service/internal/pkg/errors"
	"streambox-service/internal/pkg/timeutil"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// OrderStore is the persistence contract for orders.
type OrderStore interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, o *order.Order) error
	FindByID(ctx context.Context, id string) (*order.Order, error)
	FindByIDForUpdateWithTx(ctx context.Context, tx pgx.Tx, id string) (*order.Order, error)
	FindByUser(ctx context.Context, userID string) ([]order.Order, error)
	UpdateStatusWithTx(ctx context.Context, tx pgx.Tx, id string, status order.OrderStatus, updatedAt time.Time) error
}

// SubscriptionStore is the persistence contract for subscriptions.
type SubscriptionStore interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, sub *subscription.Subscription) error
	FindByUser(ctx context.Context, userID string) ([]subscription.Subscription, error)
	FindActiveByUser(ctx context.Context, userID string) ([]subscription.Subscription, error)
	FindByOrderWithTx(ctx context.Context, tx pgx.Tx, orderID string) ([]subscription.Subscription, error)
	CancelWithTx(ctx context.Context, tx pgx.Tx, id string, cancelledAt, effectiveEndDate, updatedAt time.Time) error
}

// CancellationStore is the persistence contract for cancellation audit records.
type CancellationStore interface {
	CreateWithTx(ctx context.Context, tx pgx.Tx, oc *order.OrderCancellation) error
	FindByOrder(ctx context.Context, orderID string) (*order.OrderCancellation, error)
}

// TxBeginner starts the transaction a multi-step operation runs in.
type TxBeginner interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// OrderService owns the order/subscription lifecycle: creation, queries and
// the cancellation state machine. It is the only component with business
// logic; everything below it is data access.
type OrderService struct {
	orderRepo        OrderStore
	subscriptionRepo SubscriptionStore
	cancellationRepo CancellationStore
	db               TxBeginner
	clock            clock.Clock
	logger           *zap.Logger
}

func NewOrderService(
	orderRepo OrderStore,
	subscriptionRepo SubscriptionStore,
	cancellationRepo CancellationStore,
	db TxBeginner,
	clk clock.Clock,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		subscriptionRepo: subscriptionRepo,
		cancellationRepo: cancellationRepo,
		db:               db,
		clock:            clk,
		logger:           logger,
	}
}

// CreateOrder creates an order and its subscription in one transaction:
// either both exist afterwards or neither does.
func (s *OrderService) CreateOrder(ctx context.Context, req *order.CreateOrderRequest) (*order.Order, error) {
	product := order.Product(req.ProductID)
	if !product.Known() {
		return nil, fmt.Errorf("%w: %q", xerrors.ErrInvalidProduct, req.ProductID)
	}

	// One clock read per operation, truncated to seconds before anything is
	// derived from it.
	now := timeutil.TruncateToSecond(s.clock.Now())

	o := &order.Order{
		ID:        ulid.Make().String(),
		UserID:    req.UserID,
		ProductID: product,
		Status:    order.OrderStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	sub := &subscription.Subscription{
		ID:        ulid.Make().String(),
		OrderID:   o.ID,
		UserID:    o.UserID,
		ProductID: string(product),
		StartDate: now,
		EndDate:   subscriptionEnd(now, product),
		Status:    subscription.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, xerrors.NewStorageError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := s.orderRepo.CreateWithTx(ctx, tx, o); err != nil {
		return nil, err
	}
	if err := s.subscriptionRepo.CreateWithTx(ctx, tx, sub); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, xerrors.NewStorageError("commit transaction", err)
	}

	s.logger.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("user_id", o.UserID),
		zap.String("product_id", string(o.ProductID)),
		zap.Time("subscription_end", sub.EndDate),
	)

	return o, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if xerrors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", xerrors.ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, err
	}

	return o, nil
}

// GetUserOrders retrieves a user's orders, most recent first.
func (s *OrderService) GetUserOrders(ctx context.Context, userID string) ([]order.Order, error) {
	return s.orderRepo.FindByUser(ctx, userID)
}

// GetUserSubscriptions retrieves a user's subscriptions, most recent first.
func (s *OrderService) GetUserSubscriptions(ctx context.Context, userID string) ([]subscription.Subscription, error) {
	return s.subscriptionRepo.FindByUser(ctx, userID)
}

// GetUserSubscriptionStatus reports whether the user holds any currently
// active subscription. Expiry is derived from the stored dates at query
// time, not by a background process.
func (s *OrderService) GetUserSubscriptionStatus(ctx context.Context, userID string) (*subscription.SubscriptionStatusResponse, error) {
	active, err := s.subscriptionRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &subscription.SubscriptionStatusResponse{
		UserID:              userID,
		IsSubscribed:        len(active) > 0,
		ActiveSubscriptions: active,
		SubscriptionCount:   len(active),
	}, nil
}

// CancelOrder cancels an order, all its subscriptions and writes the audit
// record, all inside a single transaction. The order row is locked for the
// duration, so of two concurrent cancels one fails with
// ErrOrderAlreadyCancelled.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string, req *order.CancelOrderRequest) error {
	reason, cancellationType, notes, err := cancellationOptions(req)
	if err != nil {
		return err
	}

	now := timeutil.TruncateToSecond(s.clock.Now())

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return xerrors.NewStorageError("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	o, err := s.orderRepo.FindByIDForUpdateWithTx(ctx, tx, orderID)
	if xerrors.Is(err, xerrors.ErrNotFound) {
		return fmt.Errorf("%w: %s", xerrors.ErrOrderNotFound, orderID)
	}
	if err != nil {
		return err
	}

	if o.Status == order.OrderStatusCancelled {
		return fmt.Errorf("%w: %s", xerrors.ErrOrderAlreadyCancelled, orderID)
	}

	subs, err := s.subscriptionRepo.FindByOrderWithTx(ctx, tx, orderID)
	if err != nil {
		return err
	}

	// Immediate cancellation ends the entitlement now; end-of-period lets it
	// run to the subscription's original end date. An order with no
	// subscription falls back to now.
	effectiveDate := now
	if cancellationType == order.CancellationEndOfPeriod && len(subs) > 0 {
		effectiveDate = subs[0].EndDate
	}

	oc := &order.OrderCancellation{
		ID:               ulid.Make().String(),
		OrderID:          orderID,
		Reason:           reason,
		CancellationType: cancellationType,
		Notes:            notes,
		CancelledAt:      now,
		CancelledBy:      order.CancelledByUser,
		EffectiveDate:    effectiveDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.orderRepo.UpdateStatusWithTx(ctx, tx, orderID, order.OrderStatusCancelled, now); err != nil {
		return err
	}
	if err := s.cancellationRepo.CreateWithTx(ctx, tx, oc); err != nil {
		return err
	}
	for _, sub := range subs {
		if err := s.subscriptionRepo.CancelWithTx(ctx, tx, sub.ID, now, effectiveDate, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return xerrors.NewStorageError("commit transaction", err)
	}

	s.logger.Info("order cancelled",
		zap.String("order_id", orderID),
		zap.String("reason", string(reason)),
		zap.String("cancellation_type", string(cancellationType)),
		zap.Time("effective_date", effectiveDate),
		zap.Int("subscriptions_cancelled", len(subs)),
	)

	return nil
}

// GetOrderCancellation retrieves the cancellation record for an order.
// Returns xerrors.ErrNotFound if the order was never cancelled.
func (s *OrderService) GetOrderCancellation(ctx context.Context, orderID string) (*order.OrderCancellation, error) {
	return s.cancellationRepo.FindByOrder(ctx, orderID)
}

func subscriptionEnd(start time.Time, product order.Product) time.Time {
	switch product {
	case order.ProductAnnual:
		return timeutil.AddYears(start, 1)
	default:
		return timeutil.AddMonths(start, 1)
	}
}

// cancellationOptions applies the defaults (user request, immediate) and
// rejects unknown enum values from non-HTTP callers.
func cancellationOptions(req *order.CancelOrderRequest) (order.CancellationReason, order.CancellationType, *string, error) {
	reason := order.ReasonUserRequest
	cancellationType := order.CancellationImmediate
	var notes *string

	if req == nil {
		return reason, cancellationType, notes, nil
	}

	if req.Reason != nil {
		switch *req.Reason {
		case order.ReasonUserRequest, order.ReasonPaymentFailure, order.ReasonViolation, order.ReasonOther:
			reason = *req.Reason
		default:
			return reason, cancellationType, notes, fmt.Errorf("%w: reason %q", xerrors.ErrInvalidInput, *req.Reason)
		}
	}
	if req.CancellationType != nil {
		switch *req.CancellationType {
		case order.CancellationImmediate, order.CancellationEndOfPeriod:
			cancellationType = *req.CancellationType
		default:
			return reason, cancellationType, notes, fmt.Errorf("%w: cancellation_type %q", xerrors.ErrInvalidInput, *req.CancellationType)
		}
	}
	if req.Notes != nil && *req.Notes != "" {
		notes = req.Notes
	}

	return reason, cancellationType, notes, nil
}
