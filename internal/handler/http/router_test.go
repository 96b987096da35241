package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stubs embed the service interface so only the methods a test needs are
// implemented. Anything else panics and fails the test.

type stubAttendance struct {
	attendance.AttendanceService
	summaryArgs []any
}

func (s *stubAttendance) GetMonthlySummary(ctx context.Context, userID string, year int, month time.Month, asOf time.Time) (attendance.Summary, error) {
	s.summaryArgs = []any{userID, year, month, asOf}
	return attendance.Summary{UserID: userID, Year: year, Month: month, AsOf: asOf}, nil
}

func (s *stubAttendance) Today() time.Time {
	return calendar.Date(2024, time.March, 15)
}

type stubLeave struct {
	leave.LeaveService
	err error
}

func (s *stubLeave) Approve(ctx context.Context, id string) (leave.ApplicationResponse, error) {
	if s.err != nil {
		return leave.ApplicationResponse{}, s.err
	}
	return leave.ApplicationResponse{ID: id, Status: leave.StatusApproved}, nil
}

func (s *stubLeave) Apply(ctx context.Context, req leave.ApplyLeaveRequest) (leave.ApplicationResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.ApplicationResponse{}, err
	}
	return leave.ApplicationResponse{ID: "app-1", UserID: req.UserID, Status: leave.StatusPending}, nil
}

func (s *stubLeave) RequestCancellation(ctx context.Context, id string, req leave.CancelLeaveRequest) (leave.ApplicationResponse, error) {
	return leave.ApplicationResponse{}, leave.ErrNotApplicationOwner
}

type stubPayroll struct {
	payroll.PayrollService
	err error
}

func (s *stubPayroll) GetPayslip(ctx context.Context, userID string, month, year int) (payroll.PayslipResponse, error) {
	if s.err != nil {
		return payroll.PayslipResponse{}, s.err
	}
	return payroll.PayslipResponse{UserID: userID, Month: month, Year: year}, nil
}

type stubEmployee struct{ employee.EmployeeService }

func (stubEmployee) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
}

type stubNotification struct {
	notification.Service
	limit int
}

func (s *stubNotification) ListForRecipient(ctx context.Context, recipientID string, limit int) ([]notification.NotificationResponse, error) {
	s.limit = limit
	return []notification.NotificationResponse{}, nil
}

type stubSchedule struct{ schedule.ScheduleService }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	handler      http.Handler
	attendance   *stubAttendance
	leave        *stubLeave
	payroll      *stubPayroll
	notification *stubNotification
}

func newTestServer() *testServer {
	s := &testServer{
		attendance:   &stubAttendance{},
		leave:        &stubLeave{},
		payroll:      &stubPayroll{},
		notification: &stubNotification{},
	}
	s.handler = NewRouter(
		RouterOptions{
			Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Handlers{
			Attendance:   NewAttendanceHandler(s.attendance),
			Schedule:     NewScheduleHandler(stubSchedule{}),
			Leave:        NewLeaveHandler(s.leave),
			Payroll:      NewPayrollHandler(s.payroll),
			Employee:     NewEmployeeHandler(stubEmployee{}),
			Notification: NewNotificationHandler(s.notification),
		},
	)
	return s
}

func (s *testServer) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestRouter_Health(t *testing.T) {
	rec, _ := newTestServer().do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ApproveSuccess(t *testing.T) {
	rec, env := newTestServer().do(t, http.MethodPost, "/api/v1/leave/applications/app-1/approve", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var data leave.ApplicationResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "app-1", data.ID)
	assert.Equal(t, leave.StatusApproved, data.Status)
}

func TestRouter_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"invalid transition", leave.ErrInvalidTransition, http.StatusConflict, "CONFLICT"},
		{"overlapping leave", leave.ErrOverlappingLeave, http.StatusConflict, "CONFLICT"},
		{"duplicate attendance day", attendance.ErrAlreadyCheckedIn, http.StatusConflict, "CONFLICT"},
		{"application missing", leave.ErrApplicationNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"no working days", leave.ErrNoWorkingDaysInRange, http.StatusBadRequest, "BAD_REQUEST"},
		{"wrapped store failure", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := newTestServer()
			s.leave.err = c.err

			rec, env := s.do(t, http.MethodPost, "/api/v1/leave/applications/app-1/approve", "")

			assert.Equal(t, c.wantCode, rec.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, c.wantErr, env.Error.Code)
		})
	}
}

func TestRouter_InternalErrorHidesDetail(t *testing.T) {
	s := newTestServer()
	s.leave.err = errors.New("pq: relation does not exist")

	_, env := s.do(t, http.MethodPost, "/api/v1/leave/applications/app-1/approve", "")

	require.NotNil(t, env.Error)
	assert.Equal(t, "An unexpected error occurred", env.Error.Message)
}

func TestRouter_ValidationError(t *testing.T) {
	rec, env := newTestServer().do(t, http.MethodPost, "/api/v1/leave/applications",
		`{"user_id":"not-a-uuid","leave_type_id":"0190a3f4-9c1e-7b6a-8a8b-0123456789ab","from_date":"2024-03-10","to_date":"2024-03-04"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "user_id")
	assert.Contains(t, env.Error.Details, "to_date")
}

func TestRouter_MalformedBody(t *testing.T) {
	rec, env := newTestServer().do(t, http.MethodPost, "/api/v1/leave/applications", `{"user_id":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Invalid request format", env.Error.Message)
}

func TestRouter_CancellationByAnotherUser(t *testing.T) {
	rec, _ := newTestServer().do(t, http.MethodPost, "/api/v1/leave/applications/app-1/cancel",
		`{"user_id":"0190a3f4-9c1e-7b6a-8a8b-0123456789ab"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_PayslipQuery(t *testing.T) {
	s := newTestServer()

	rec, env := s.do(t, http.MethodGet, "/api/v1/payroll/payslips?user_id=u1&month=abc&year=2024", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "month")

	s.payroll.err = payroll.ErrPayslipNotFound
	rec, _ = s.do(t, http.MethodGet, "/api/v1/payroll/payslips?user_id=u1&month=3&year=2024", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.payroll.err = nil
	rec, env = s.do(t, http.MethodGet, "/api/v1/payroll/payslips?user_id=u1&month=3&year=2024", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var data payroll.PayslipResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 3, data.Month)
	assert.Equal(t, 2024, data.Year)
}

func TestRouter_SummaryDefaultsAsOfToToday(t *testing.T) {
	s := newTestServer()
	userID := "0190a3f4-9c1e-7b6a-8a8b-0123456789ab"

	rec, _ := s.do(t, http.MethodGet, "/api/v1/attendance/summary?user_id="+userID+"&year=2024&month=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{userID, 2024, time.March, calendar.Date(2024, time.March, 15)}, s.attendance.summaryArgs)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/attendance/summary?user_id="+userID+"&year=2024&month=3&as_of=2024-03-31", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, calendar.Date(2024, time.March, 31), s.attendance.summaryArgs[3])

	rec, _ = s.do(t, http.MethodGet, "/api/v1/attendance/summary?user_id="+userID+"&year=2024&month=13", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_EmployeeNotFound(t *testing.T) {
	rec, env := newTestServer().do(t, http.MethodGet, "/api/v1/employees/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Employee not found", env.Error.Message)
}

func TestRouter_NotificationLimit(t *testing.T) {
	s := newTestServer()

	rec, _ := s.do(t, http.MethodGet, "/api/v1/notifications?user_id=u1&limit=5", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, s.notification.limit)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/notifications", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
