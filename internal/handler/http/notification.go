package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
)

type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	notificationService notification.Service
}

func NewNotificationHandler(notificationService notification.Service) NotificationHandler {
	return &notificationHandlerImpl{
		notificationService: notificationService,
	}
}

// List implements NotificationHandler.
func (n *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		response.BadRequest(w, "user_id is required", nil)
		return
	}
	values, ok := queryInts(w, r, "limit")
	if !ok {
		return
	}

	resp, err := n.notificationService.ListForRecipient(r.Context(), userID, values[0])
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
