// internal/domain/order/dto.go
package order

type CreateOrderRequest struct {
	UserID    string `json:"user_id" binding:"required,max=255"`
	ProductID string `json:"product_id" binding:"required"`
}

// CancelOrderRequest carries optional structured cancellation metadata.
// An absent body means "user requested, effective immediately".
type CancelOrderRequest struct {
	Reason           *CancellationReason `json:"reason" binding:"omitempty,oneof=user_request payment_failure violation other"`
	CancellationType *CancellationType   `json:"cancellation_type" binding:"omitempty,oneof=immediate end_of_period"`
	Notes            *string             `json:"notes" binding:"omitempty,max=1000"`
}
