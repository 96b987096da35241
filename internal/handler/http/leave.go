package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateType(w http.ResponseWriter, r *http.Request)
	ListTypes(w http.ResponseWriter, r *http.Request)

	AllocateBalance(w http.ResponseWriter, r *http.Request)
	ListBalances(w http.ResponseWriter, r *http.Request)

	Apply(w http.ResponseWriter, r *http.Request)
	ListApplications(w http.ResponseWriter, r *http.Request)
	GetApplication(w http.ResponseWriter, r *http.Request)

	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	RequestCancellation(w http.ResponseWriter, r *http.Request)
	ApproveCancellation(w http.ResponseWriter, r *http.Request)
	RejectCancellation(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService: leaveService,
	}
}

// CreateType implements LeaveHandler.
func (l *leaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveTypeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := l.leaveService.CreateLeaveType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created successfully", resp)
}

// ListTypes implements LeaveHandler.
func (l *leaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	resp, err := l.leaveService.ListLeaveTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// AllocateBalance implements LeaveHandler.
func (l *leaveHandlerImpl) AllocateBalance(w http.ResponseWriter, r *http.Request) {
	var req leave.AllocateBalanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := l.leaveService.AllocateBalance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance allocated successfully", resp)
}

// ListBalances implements LeaveHandler.
func (l *leaveHandlerImpl) ListBalances(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		response.BadRequest(w, "user_id is required", nil)
		return
	}

	resp, err := l.leaveService.GetBalances(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Apply implements LeaveHandler.
func (l *leaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	var req leave.ApplyLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := l.leaveService.Apply(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave application submitted successfully", resp)
}

// ListApplications implements LeaveHandler.
func (l *leaveHandlerImpl) ListApplications(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		response.BadRequest(w, "user_id is required", nil)
		return
	}

	resp, err := l.leaveService.ListApplications(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// GetApplication implements LeaveHandler.
func (l *leaveHandlerImpl) GetApplication(w http.ResponseWriter, r *http.Request) {
	resp, err := l.leaveService.GetApplication(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Approve implements LeaveHandler.
func (l *leaveHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	l.transition(w, r, "Leave application approved", l.leaveService.Approve)
}

// Reject implements LeaveHandler.
func (l *leaveHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	l.transition(w, r, "Leave application rejected", l.leaveService.Reject)
}

// RequestCancellation implements LeaveHandler.
func (l *leaveHandlerImpl) RequestCancellation(w http.ResponseWriter, r *http.Request) {
	var req leave.CancelLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := l.leaveService.RequestCancellation(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Cancellation requested", resp)
}

// ApproveCancellation implements LeaveHandler.
func (l *leaveHandlerImpl) ApproveCancellation(w http.ResponseWriter, r *http.Request) {
	l.transition(w, r, "Leave application cancelled", l.leaveService.ApproveCancellation)
}

// RejectCancellation implements LeaveHandler.
func (l *leaveHandlerImpl) RejectCancellation(w http.ResponseWriter, r *http.Request) {
	l.transition(w, r, "Cancellation rejected", l.leaveService.RejectCancellation)
}

func (l *leaveHandlerImpl) transition(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	action func(ctx context.Context, id string) (leave.ApplicationResponse, error),
) {
	resp, err := action(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, resp)
}
