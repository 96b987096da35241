package notification

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/notification"
)

type service struct {
	repo notification.Repository
}

func NewNotificationService(repo notification.Repository) notification.Service {
	return &service{repo: repo}
}

// ListForRecipient implements notification.Service.
func (s *service) ListForRecipient(ctx context.Context, recipientID string, limit int) ([]notification.NotificationResponse, error) {
	switch {
	case limit <= 0:
		limit = notification.DefaultListLimit
	case limit > notification.MaxListLimit:
		limit = notification.MaxListLimit
	}

	notes, err := s.repo.GetByRecipientID(ctx, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	resp := make([]notification.NotificationResponse, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, notification.NewNotificationResponse(n))
	}
	return resp, nil
}
