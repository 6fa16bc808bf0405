package domain

import "time"

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationProviderAssigned NotificationType = "PROVIDER_ASSIGNED"
	NotificationSearchTimeout    NotificationType = "SEARCH_TIMEOUT"
	NotificationRequestCancelled NotificationType = "REQUEST_CANCELLED"
	NotificationRequestCompleted NotificationType = "REQUEST_COMPLETED"
	NotificationPaymentSuccess   NotificationType = "PAYMENT_SUCCESS"
	NotificationPaymentFailed    NotificationType = "PAYMENT_FAILED"
	NotificationRechargePaid     NotificationType = "RECHARGE_PAID"
	NotificationWithdrawDone     NotificationType = "WITHDRAW_DONE"
)

// Notification represents a message delivered to a user.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]any
	Read        bool
	CreatedAt   time.Time
}
