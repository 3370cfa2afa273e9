// Package queue defines message payloads exchanged over the message broker.
package queue

// SubscriberJoinedEvent is published when a newsletter subscription is
// created. The consumer sends the welcome mail from it without querying the
// primary database.
type SubscriberJoinedEvent struct {
	SubscriberID uint64 `json:"subscriber_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	JoinedAt     string `json:"joined_at"`
}

// OrderStatusChangedEvent is published when an administrator moves an order
// to a new status. It carries enough information for the notification mail
// and for downstream analytics.
type OrderStatusChangedEvent struct {
	OrderID     uint64 `json:"order_id"`
	UserID      uint64 `json:"user_id"`
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	ProductName string `json:"product_name"`
	Quantity    uint32 `json:"quantity"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
	ChangedAt   string `json:"changed_at"`
}
