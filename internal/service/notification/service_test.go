package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	notes     []notification.Notification
	lastLimit int
	err       error
}

func (f *fakeRepo) Create(ctx context.Context, n *notification.Notification) error {
	f.notes = append(f.notes, *n)
	return nil
}

func (f *fakeRepo) GetByRecipientID(ctx context.Context, recipientID string, limit int) ([]notification.Notification, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	var out []notification.Notification
	for _, n := range f.notes {
		if n.RecipientID == recipientID && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func TestListForRecipient_ClampsLimit(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewNotificationService(repo)
	ctx := context.Background()

	_, err := svc.ListForRecipient(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, notification.DefaultListLimit, repo.lastLimit)

	_, err = svc.ListForRecipient(ctx, "u1", 10_000)
	require.NoError(t, err)
	assert.Equal(t, notification.MaxListLimit, repo.lastLimit)

	_, err = svc.ListForRecipient(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, repo.lastLimit)
}

func TestListForRecipient_FiltersByRecipient(t *testing.T) {
	repo := &fakeRepo{notes: []notification.Notification{
		{ID: "n1", RecipientID: "u1", Type: notification.TypeLeaveApproved, Message: "approved"},
		{ID: "n2", RecipientID: "u2", Type: notification.TypeLeaveRejected, Message: "rejected"},
	}}

	got, err := NewNotificationService(repo).ListForRecipient(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "n1", got[0].ID)
	assert.Equal(t, notification.TypeLeaveApproved, got[0].Type)
}

func TestListForRecipient_WrapsRepositoryError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewNotificationService(&fakeRepo{err: boom}).ListForRecipient(context.Background(), "u1", 0)
	assert.ErrorIs(t, err, boom)
}
