package leave

import "fmt"

type Status string

const (
	StatusPending              Status = "pending"
	StatusApproved             Status = "approved"
	StatusRejected             Status = "rejected"
	StatusCancellationPending  Status = "cancellation_pending"
	StatusCancelled            Status = "cancelled"
	StatusCancellationRejected Status = "cancellation_rejected"
)

var StatusValues = []string{
	string(StatusPending),
	string(StatusApproved),
	string(StatusRejected),
	string(StatusCancellationPending),
	string(StatusCancelled),
	string(StatusCancellationRejected),
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusApproved, StatusRejected,
		StatusCancellationPending, StatusCancelled, StatusCancellationRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

type Action string

const (
	ActionApprove             Action = "approve"
	ActionReject              Action = "reject"
	ActionRequestCancellation Action = "request_cancellation"
	ActionApproveCancellation Action = "approve_cancellation"
	ActionRejectCancellation  Action = "reject_cancellation"
)

// Transition returns the status an application moves to when action is
// applied in status from. A rejected cancellation settles back on approved;
// StatusCancellationRejected only names the outcome.
func Transition(from Status, action Action) (Status, error) {
	var (
		want Status
		to   Status
	)
	switch action {
	case ActionApprove:
		want, to = StatusPending, StatusApproved
	case ActionReject:
		want, to = StatusPending, StatusRejected
	case ActionRequestCancellation:
		want, to = StatusApproved, StatusCancellationPending
	case ActionApproveCancellation:
		want, to = StatusCancellationPending, StatusCancelled
	case ActionRejectCancellation:
		want, to = StatusCancellationPending, StatusApproved
	default:
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}

	if from != want {
		return "", fmt.Errorf("%w: cannot %s a leave application in status %s", ErrInvalidTransition, action, from)
	}
	return to, nil
}
