package leave

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hrcore-id/leave-backend-go/internal/domain/employee"
	"github.com/hrcore-id/leave-backend-go/internal/domain/hierarchy"
	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/daymath"
)

// fakeTxManager runs the function directly. The fake repositories guard
// their own state with a mutex, which preserves the atomicity the guarded
// UPDATEs give the real repositories.
type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeTypeRepo struct {
	mu    sync.Mutex
	types map[string]leave.LeaveType
	seq   int
}

func newFakeTypeRepo(types ...leave.LeaveType) *fakeTypeRepo {
	r := &fakeTypeRepo{types: make(map[string]leave.LeaveType)}
	for _, t := range types {
		r.types[t.ID] = t
	}
	return r
}

func (r *fakeTypeRepo) Create(_ context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.types {
		if t.CompanyID == leaveType.CompanyID && t.Code == leaveType.Code {
			return leave.LeaveType{}, leave.ErrLeaveTypeCodeExists
		}
	}
	r.seq++
	leaveType.ID = fmt.Sprintf("lt-%d", r.seq)
	r.types[leaveType.ID] = leaveType
	return leaveType, nil
}

func (r *fakeTypeRepo) GetByID(_ context.Context, companyID, id string) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.types[id]
	if !ok || t.CompanyID != companyID {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

func (r *fakeTypeRepo) GetByCode(_ context.Context, companyID, code string) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.types {
		if t.CompanyID == companyID && t.Code == code {
			return t, nil
		}
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

func (r *fakeTypeRepo) GetByCompanyID(_ context.Context, companyID string) ([]leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveType
	for _, t := range r.types {
		if t.CompanyID == companyID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTypeRepo) Update(_ context.Context, leaveType leave.LeaveType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[leaveType.ID]; !ok {
		return leave.ErrLeaveTypeNotFound
	}
	r.types[leaveType.ID] = leaveType
	return nil
}

// fakeBalanceRepo is an in-memory ledger. Every mutating operation holds the
// mutex for its whole read-check-write, mirroring the row-level serialization
// of the SQL guards.
type fakeBalanceRepo struct {
	mu   sync.Mutex
	rows map[string]*leave.LeaveBalance
	seq  int
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{rows: make(map[string]*leave.LeaveBalance)}
}

func balanceKey(employeeID, leaveTypeID string, year int) string {
	return fmt.Sprintf("%s|%s|%d", employeeID, leaveTypeID, year)
}

func (r *fakeBalanceRepo) seed(b leave.LeaveBalance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if b.ID == "" {
		b.ID = fmt.Sprintf("bal-%d", r.seq)
	}
	if b.Version == 0 {
		b.Version = 1
	}
	b.Available = b.Total.Add(b.Carryover).Sub(b.Used).Sub(b.Pending)
	r.rows[balanceKey(b.EmployeeID, b.LeaveTypeID, b.Year)] = &b
}

func (r *fakeBalanceRepo) GetByKey(_ context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[balanceKey(employeeID, leaveTypeID, year)]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return *row, nil
}

func (r *fakeBalanceRepo) GetByEmployeeYear(_ context.Context, _, employeeID string, year int) ([]leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveBalance
	for _, row := range r.rows {
		if row.EmployeeID == employeeID && row.Year == year {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) AddPending(_ context.Context, employeeID, leaveTypeID string, year int, days daymath.Days) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[balanceKey(employeeID, leaveTypeID, year)]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	if row.Available.Sub(days).IsNegative() {
		return leave.ErrInsufficientBalance
	}
	row.Pending = row.Pending.Add(days)
	row.Available = row.Available.Sub(days)
	row.Version++
	return nil
}

func (r *fakeBalanceRepo) MovePendingToUsed(_ context.Context, employeeID, leaveTypeID string, year int, days daymath.Days) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[balanceKey(employeeID, leaveTypeID, year)]
	if !ok || row.Pending.Sub(days).IsNegative() {
		return leave.ErrInconsistentState
	}
	row.Pending = row.Pending.Sub(days)
	row.Used = row.Used.Add(days)
	row.Version++
	return nil
}

func (r *fakeBalanceRepo) RemovePending(_ context.Context, employeeID, leaveTypeID string, year int, days daymath.Days) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[balanceKey(employeeID, leaveTypeID, year)]
	if !ok || row.Pending.Sub(days).IsNegative() {
		return leave.ErrInconsistentState
	}
	row.Pending = row.Pending.Sub(days)
	row.Available = row.Available.Add(days)
	row.Version++
	return nil
}

func (r *fakeBalanceRepo) Create(_ context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := balanceKey(balance.EmployeeID, balance.LeaveTypeID, balance.Year)
	if _, ok := r.rows[key]; ok {
		return leave.LeaveBalance{}, leave.ErrTransient
	}
	r.seq++
	balance.ID = fmt.Sprintf("bal-%d", r.seq)
	balance.Version = 1
	balance.Available = balance.Total.Add(balance.Carryover)
	r.rows[key] = &balance
	return balance, nil
}

func (r *fakeBalanceRepo) UpdateGrant(_ context.Context, id string, version int64, total, carryover daymath.Days) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID != id {
			continue
		}
		if row.Version != version || total.Add(carryover).Sub(row.Used).Sub(row.Pending).IsNegative() {
			return leave.ErrTransient
		}
		row.Total = total
		row.Carryover = carryover
		row.Available = total.Add(carryover).Sub(row.Used).Sub(row.Pending)
		row.Version++
		return nil
	}
	return leave.ErrTransient
}

func (r *fakeBalanceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, row := range r.rows {
		if row.ID == id {
			if !row.Used.IsZero() || !row.Pending.IsZero() {
				return leave.ErrBalanceNotEmpty
			}
			delete(r.rows, key)
			return nil
		}
	}
	return leave.ErrBalanceNotEmpty
}

type fakeRequestRepo struct {
	mu   sync.Mutex
	rows map[string]*leave.LeaveRequest
	seq  int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{rows: make(map[string]*leave.LeaveRequest)}
}

func (r *fakeRequestRepo) seed(req leave.LeaveRequest) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if req.ID == "" {
		req.ID = fmt.Sprintf("req-%d", r.seq)
	}
	r.rows[req.ID] = &req
	return req.ID
}

func (r *fakeRequestRepo) Create(_ context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if request.IdempotencyKey != nil {
		for _, row := range r.rows {
			if row.EmployeeID == request.EmployeeID && row.IdempotencyKey != nil && *row.IdempotencyKey == *request.IdempotencyKey {
				return leave.LeaveRequest{}, leave.ErrTransient
			}
		}
	}
	r.seq++
	request.ID = fmt.Sprintf("req-%d", r.seq)
	request.SubmittedAt = time.Now()
	r.rows[request.ID] = &request
	return request, nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, companyID, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.CompanyID != companyID {
		return leave.LeaveRequest{}, leave.ErrRequestNotFound
	}
	return *row, nil
}

func (r *fakeRequestRepo) GetByIdempotencyKey(_ context.Context, companyID, employeeID, key string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.CompanyID == companyID && row.EmployeeID == employeeID && row.IdempotencyKey != nil && *row.IdempotencyKey == key {
			return *row, nil
		}
	}
	return leave.LeaveRequest{}, leave.ErrRequestNotFound
}

func (r *fakeRequestRepo) GetByEmployeeID(_ context.Context, companyID, employeeID string, filter leave.RequestFilter) ([]leave.LeaveRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveRequest
	for _, row := range r.rows {
		if row.CompanyID != companyID || row.EmployeeID != employeeID {
			continue
		}
		if filter.Status != nil && row.Status != *filter.Status {
			continue
		}
		out = append(out, *row)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) GetPendingByEmployeeIDs(_ context.Context, companyID string, employeeIDs []string) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		ids[id] = true
	}
	var out []leave.LeaveRequest
	for _, row := range r.rows {
		if row.CompanyID == companyID && ids[row.EmployeeID] && row.Status == leave.LeaveRequestStatusPending {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) GetApprovedOverlapping(_ context.Context, companyID string, employeeIDs []string, start, end time.Time) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		ids[id] = true
	}
	var out []leave.LeaveRequest
	for _, row := range r.rows {
		if row.CompanyID != companyID || !ids[row.EmployeeID] || row.Status != leave.LeaveRequestStatusApproved {
			continue
		}
		if row.StartDate.After(end) || row.EndDate.Before(start) {
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}

func (r *fakeRequestRepo) UpdateStatusIfPending(_ context.Context, id string, status leave.LeaveRequestStatus, approverID string, comments *string, decidedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.Status != leave.LeaveRequestStatusPending {
		return leave.ErrNotPending
	}
	row.Status = status
	row.ApproverID = &approverID
	row.ApprovalComments = comments
	row.DecidedAt = &decidedAt
	return nil
}

func (r *fakeRequestRepo) DeleteIfPending(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.Status != leave.LeaveRequestStatusPending {
		return leave.ErrNotPending
	}
	delete(r.rows, id)
	return nil
}

type fakeDirectory struct {
	employees map[string]employee.Employee
}

func (d *fakeDirectory) GetByID(_ context.Context, companyID, id string) (employee.Employee, error) {
	e, ok := d.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (d *fakeDirectory) GetNamesByIDs(_ context.Context, companyID string, ids []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, id := range ids {
		if e, ok := d.employees[id]; ok && e.CompanyID == companyID {
			out[id] = e.FullName
		}
	}
	return out, nil
}

// weekdayResolver counts Monday-Friday with no holidays.
type weekdayResolver struct{}

func (weekdayResolver) IsWorkingDay(_ context.Context, _ string, date time.Time) (bool, error) {
	return date.Weekday() != time.Saturday && date.Weekday() != time.Sunday, nil
}

func (r weekdayResolver) WorkingDaysBetween(_ context.Context, _ string, start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, leave.ErrInvalidRange
	}
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if working, _ := r.IsWorkingDay(context.Background(), "", d); working {
			count++
		}
	}
	return count, nil
}

// fakeAuthorizer allows explicit approver/employee pairs plus the
// approve-all bypass. Denials carry reason unless overridden.
type fakeAuthorizer struct {
	allowed map[string]bool
	reason  string
}

func allowPairs(pairs ...[2]string) *fakeAuthorizer {
	a := &fakeAuthorizer{allowed: make(map[string]bool)}
	for _, p := range pairs {
		a.allowed[p[0]+"|"+p[1]] = true
	}
	return a
}

func (a *fakeAuthorizer) CanApprove(_ context.Context, _, approverID, employeeID string, approveAll bool) (hierarchy.Decision, error) {
	if approveAll || a.allowed[approverID+"|"+employeeID] {
		return hierarchy.Decision{Allowed: true}, nil
	}
	reason := a.reason
	if reason == "" {
		reason = hierarchy.ReasonNotAuthorized
	}
	return hierarchy.Decision{Allowed: false, Reason: reason}, nil
}

func (a *fakeAuthorizer) SubordinateIDs(_ context.Context, _, managerID string) ([]string, error) {
	var out []string
	for key := range a.allowed {
		approver, emp, ok := strings.Cut(key, "|")
		if ok && approver == managerID {
			out = append(out, emp)
		}
	}
	return out, nil
}
