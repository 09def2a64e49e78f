// internal/domain/subscription/dto.go
package subscription

// SubscriptionStatusResponse summarizes a user's entitlement at query time.
type SubscriptionStatusResponse struct {
	UserID              string         `json:"user_id"`
	IsSubscribed        bool           `json:"is_subscribed"`
	ActiveSubscriptions []Subscription `json:"active_subscriptions"`
	SubscriptionCount   int            `json:"subscription_count"`
}
