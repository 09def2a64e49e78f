// internal/domain/subscription/entity.go
package subscription

import (
	"time"
)

type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusExpired   SubscriptionStatus = "expired"
	StatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription is the time-bounded entitlement created alongside an order.
// Exactly one is created per order; user_id is a denormalized copy of the
// order's user for query efficiency.
type Subscription struct {
	ID               string             `json:"id" db:"id"`
	OrderID          string             `json:"order_id" db:"order_id"`
	UserID           string             `json:"user_id" db:"user_id"`
	ProductID        string             `json:"product_id" db:"product_id"`
	StartDate        time.Time          `json:"start_date" db:"start_date"`
	EndDate          time.Time          `json:"end_date" db:"end_date"`
	Status           SubscriptionStatus `json:"status" db:"status"`
	CancelledAt      *time.Time         `json:"cancelled_at,omitempty" db:"cancelled_at"`
	EffectiveEndDate *time.Time         `json:"effective_end_date,omitempty" db:"effective_end_date"`
	CreatedAt        time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" db:"updated_at"`
}

// IsCurrentlyActive reports whether the subscription entitles access at now:
// stored status is active and now falls inside [start_date, end_date).
// Expiry is derived from the dates, never flipped by a background process.
func (s *Subscription) IsCurrentlyActive(now time.Time) bool {
	return s.Status == StatusActive && !now.Before(s.StartDate) && now.Before(s.EndDate)
}
