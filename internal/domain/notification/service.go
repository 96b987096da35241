package notification

import "context"

type Service interface {
	// ListForRecipient returns the newest notifications first. A non-positive
	// limit falls back to DefaultListLimit.
	ListForRecipient(ctx context.Context, recipientID string, limit int) ([]NotificationResponse, error)
}
