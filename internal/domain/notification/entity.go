package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeLeaveApproved              NotificationType = "leave_approved"
	TypeLeaveRejected              NotificationType = "leave_rejected"
	TypeLeaveCancellationRequested NotificationType = "leave_cancellation_requested"
	TypeLeaveCancelled             NotificationType = "leave_cancelled"
	TypeLeaveCancellationRejected  NotificationType = "leave_cancellation_rejected"
)

// Notification represents a notification entity
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Message     string
	Data        map[string]any
	IsRead      bool
	CreatedAt   time.Time
}
