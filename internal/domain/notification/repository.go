package notification

import (
	"context"
)

// Repository is the notification sink. Delivery happens outside this service.
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	GetByRecipientID(ctx context.Context, recipientID string, limit int) ([]Notification, error)
}
