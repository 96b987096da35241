package leave

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/calendar"
	scheduleService "github.com/cmlabs-hris/hris-payroll-engine/internal/service/schedule"
	"github.com/google/uuid"
)

// memDB is an in-memory store whose transactions run one at a time and
// roll back to a snapshot on error, which is how the row locks behave for a
// single application.
type memDB struct {
	txMu sync.Mutex
	mu   sync.Mutex

	types    map[string]leave.LeaveType
	apps     map[string]leave.Application
	balances map[string]leave.Balance
	rows     map[string]attendance.Record
	notes    []notification.Notification

	failNotifications bool
}

type inTxKey struct{}

type memSnapshot struct {
	types    map[string]leave.LeaveType
	apps     map[string]leave.Application
	balances map[string]leave.Balance
	rows     map[string]attendance.Record
	notes    []notification.Notification
}

func newMemDB() *memDB {
	return &memDB{
		types:    make(map[string]leave.LeaveType),
		apps:     make(map[string]leave.Application),
		balances: make(map[string]leave.Balance),
		rows:     make(map[string]attendance.Record),
	}
}

func (db *memDB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(inTxKey{}) != nil {
		return fn(ctx)
	}

	db.txMu.Lock()
	defer db.txMu.Unlock()

	snap := db.snapshot()
	if err := fn(context.WithValue(ctx, inTxKey{}, true)); err != nil {
		db.restore(snap)
		return err
	}
	return nil
}

func (db *memDB) snapshot() memSnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	return memSnapshot{
		types:    maps.Clone(db.types),
		apps:     maps.Clone(db.apps),
		balances: maps.Clone(db.balances),
		rows:     maps.Clone(db.rows),
		notes:    slices.Clone(db.notes),
	}
}

func (db *memDB) restore(s memSnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.types, db.apps, db.balances, db.rows, db.notes = s.types, s.apps, s.balances, s.rows, s.notes
}

func balanceKey(userID, leaveType string) string { return userID + "|" + leaveType }

func rowKey(userID string, date time.Time) string { return userID + "|" + calendar.Key(date) }

func isLeaveRow(r attendance.Record, userID string, from, to time.Time) bool {
	return r.UserID == userID && r.Status.IsLeave() && r.CheckIn == nil &&
		!r.Date.Before(from) && !r.Date.After(to)
}

type memLeaveTypes struct{ db *memDB }

func (m memLeaveTypes) Create(_ context.Context, t leave.LeaveType) (leave.LeaveType, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, existing := range m.db.types {
		if existing.Name == t.Name {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
	}
	t.ID = uuid.NewString()
	m.db.types[t.ID] = t
	return t, nil
}

func (m memLeaveTypes) GetByID(_ context.Context, id string) (leave.LeaveType, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	t, ok := m.db.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

func (m memLeaveTypes) List(context.Context) ([]leave.LeaveType, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := slices.Collect(maps.Values(m.db.types))
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memApplications struct{ db *memDB }

func (m memApplications) Create(_ context.Context, a leave.Application) (leave.Application, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	a.ID = uuid.NewString()
	m.db.apps[a.ID] = a
	return a, nil
}

func (m memApplications) GetByID(_ context.Context, id string) (leave.Application, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	a, ok := m.db.apps[id]
	if !ok {
		return leave.Application{}, leave.ErrApplicationNotFound
	}
	return a, nil
}

func (m memApplications) GetByIDForUpdate(ctx context.Context, id string) (leave.Application, error) {
	return m.GetByID(ctx, id)
}

func (m memApplications) ListByUser(_ context.Context, userID string) ([]leave.Application, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []leave.Application
	for _, a := range m.db.apps {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FromDate.Before(out[j].FromDate) })
	return out, nil
}

func (m memApplications) HasOverlapping(_ context.Context, userID string, from, to time.Time) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, a := range m.db.apps {
		if a.UserID == userID && !a.Status.IsTerminal() && !a.FromDate.After(to) && !a.ToDate.Before(from) {
			return true, nil
		}
	}
	return false, nil
}

func (m memApplications) UpdateStatus(_ context.Context, a leave.Application) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	stored, ok := m.db.apps[a.ID]
	if !ok {
		return leave.ErrApplicationNotFound
	}
	stored.Status = a.Status
	stored.IsProcessedAsPaid = a.IsProcessedAsPaid
	m.db.apps[a.ID] = stored
	return nil
}

type memBalances struct{ db *memDB }

func (m memBalances) GetForUpdate(_ context.Context, userID, leaveType string) (leave.Balance, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	b, ok := m.db.balances[balanceKey(userID, leaveType)]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (m memBalances) ListByUser(_ context.Context, userID string) ([]leave.Balance, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []leave.Balance
	for _, b := range m.db.balances {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeaveType < out[j].LeaveType })
	return out, nil
}

func (m memBalances) Create(_ context.Context, b leave.Balance) (leave.Balance, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	b.ID = uuid.NewString()
	m.db.balances[balanceKey(b.UserID, b.LeaveType)] = b
	return b, nil
}

func (m memBalances) Update(_ context.Context, b leave.Balance) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.balances[balanceKey(b.UserID, b.LeaveType)] = b
	return nil
}

type memAttendance struct{ db *memDB }

func (m memAttendance) Create(_ context.Context, r attendance.Record) (attendance.Record, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.rows[rowKey(r.UserID, r.Date)]; ok {
		return attendance.Record{}, errors.New("duplicate attendance row")
	}
	r.ID = uuid.NewString()
	m.db.rows[rowKey(r.UserID, r.Date)] = r
	return r, nil
}

func (m memAttendance) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*attendance.Record, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	r, ok := m.db.rows[rowKey(userID, date)]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m memAttendance) Update(_ context.Context, r attendance.Record) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	m.db.rows[rowKey(r.UserID, r.Date)] = r
	return nil
}

func (m memAttendance) ListBetween(_ context.Context, userID string, from, to time.Time) ([]attendance.Record, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []attendance.Record
	for _, r := range m.db.rows {
		if r.UserID == userID && !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m memAttendance) GetOpenSession(context.Context, string) (attendance.Record, error) {
	return attendance.Record{}, attendance.ErrAttendanceNotFound
}

func (m memAttendance) ResetLeaveRows(_ context.Context, userID string, from, to time.Time) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var n int64
	for k, r := range m.db.rows {
		if isLeaveRow(r, userID, from, to) {
			r.Status = attendance.StatusAbsent
			r.DailyLeaveDuration = dec("0")
			m.db.rows[k] = r
			n++
		}
	}
	return n, nil
}

func (m memAttendance) DeleteLeaveRows(_ context.Context, userID string, from, to time.Time) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var n int64
	for k, r := range m.db.rows {
		if isLeaveRow(r, userID, from, to) {
			delete(m.db.rows, k)
			n++
		}
	}
	return n, nil
}

type memNotifications struct{ db *memDB }

func (m memNotifications) Create(_ context.Context, n *notification.Notification) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if m.db.failNotifications {
		return errors.New("notification store unavailable")
	}
	n.ID = uuid.NewString()
	m.db.notes = append(m.db.notes, *n)
	return nil
}

func (m memNotifications) GetByRecipientID(_ context.Context, recipientID string, limit int) ([]notification.Notification, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []notification.Notification
	for _, n := range m.db.notes {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type staticCalendar struct {
	holidays []schedule.Holiday
	configs  []schedule.WeeklyOffConfig
}

func (s staticCalendar) Load(context.Context, string, time.Time, time.Time) (*scheduleService.WorkCalendar, error) {
	return scheduleService.NewWorkCalendar(s.holidays, s.configs), nil
}
