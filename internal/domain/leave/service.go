package leave

import "context"

type LeaveService interface {
	// Leave type and balance administration
	CreateLeaveType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	ListLeaveTypes(ctx context.Context) ([]LeaveTypeResponse, error)
	AllocateBalance(ctx context.Context, req AllocateBalanceRequest) (BalanceResponse, error)
	GetBalances(ctx context.Context, userID string) ([]BalanceResponse, error)

	// Applications
	Apply(ctx context.Context, req ApplyLeaveRequest) (ApplicationResponse, error)
	GetApplication(ctx context.Context, id string) (ApplicationResponse, error)
	ListApplications(ctx context.Context, userID string) ([]ApplicationResponse, error)

	// Transitions
	Approve(ctx context.Context, id string) (ApplicationResponse, error)
	Reject(ctx context.Context, id string) (ApplicationResponse, error)
	RequestCancellation(ctx context.Context, id string, req CancelLeaveRequest) (ApplicationResponse, error)
	ApproveCancellation(ctx context.Context, id string) (ApplicationResponse, error)
	RejectCancellation(ctx context.Context, id string) (ApplicationResponse, error)
}
