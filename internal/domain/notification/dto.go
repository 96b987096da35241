package notification

import "time"

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type NotificationResponse struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	Type        NotificationType `json:"type"`
	Message     string           `json:"message"`
	Data        map[string]any   `json:"data,omitempty"`
	IsRead      bool             `json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
}

func NewNotificationResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Type:        n.Type,
		Message:     n.Message,
		Data:        n.Data,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}
