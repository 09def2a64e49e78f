// internal/domain/order/entity.go
package order

import (
	"time"
)

type Product string

const (
	ProductMonthly Product = "monthly"
	ProductAnnual  Product = "annual"
)

// Known reports whether p is part of the fixed product catalog.
func (p Product) Known() bool {
	return p == ProductMonthly || p == ProductAnnual
}

type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "active"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type CancellationReason string

const (
	ReasonUserRequest    CancellationReason = "user_request"
	ReasonPaymentFailure CancellationReason = "payment_failure"
	ReasonViolation      CancellationReason = "violation"
	ReasonOther          CancellationReason = "other"
)

type CancellationType string

const (
	CancellationImmediate   CancellationType = "immediate"
	CancellationEndOfPeriod CancellationType = "end_of_period"
)

type CancelledBy string

const (
	CancelledByUser   CancelledBy = "user"
	CancelledBySystem CancelledBy = "system"
	CancelledByAdmin  CancelledBy = "admin"
)

// Order is a user's request for a product. Status only ever moves
// active -> cancelled; rows are never deleted.
type Order struct {
	ID        string      `json:"id" db:"id"`
	UserID    string      `json:"user_id" db:"user_id"`
	ProductID Product     `json:"product_id" db:"product_id"`
	Status    OrderStatus `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderCancellation is the immutable audit record written when an order is
// cancelled. At most one exists per order.
type OrderCancellation struct {
	ID               string             `json:"id" db:"id"`
	OrderID          string             `json:"order_id" db:"order_id"`
	Reason           CancellationReason `json:"reason" db:"reason"`
	CancellationType CancellationType   `json:"cancellation_type" db:"cancellation_type"`
	Notes            *string            `json:"notes,omitempty" db:"notes"`
	CancelledAt      time.Time          `json:"cancelled_at" db:"cancelled_at"`
	CancelledBy      CancelledBy        `json:"cancelled_by" db:"cancelled_by"`
	EffectiveDate    time.Time          `json:"effective_date" db:"effective_date"`
	CreatedAt        time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" db:"updated_at"`
}
