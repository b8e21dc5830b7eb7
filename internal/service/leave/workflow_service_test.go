package leave

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrcore-id/leave-backend-go/internal/domain/employee"
	"github.com/hrcore-id/leave-backend-go/internal/domain/hierarchy"
	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/daymath"
)

const testCompanyID = "co-1"

var (
	annualType = leave.LeaveType{
		ID:               "lt-annual",
		CompanyID:        testCompanyID,
		Code:             "annual",
		Name:             "Annual Leave",
		HasBalance:       true,
		RequiresApproval: true,
		IsPaid:           true,
		IsActive:         true,
	}
	unpaidType = leave.LeaveType{
		ID:               "lt-unpaid",
		CompanyID:        testCompanyID,
		Code:             "unpaid",
		Name:             "Unpaid Leave",
		HasBalance:       false,
		RequiresApproval: true,
		IsActive:         true,
	}
	sickType = leave.LeaveType{
		ID:               "lt-sick",
		CompanyID:        testCompanyID,
		Code:             "sick",
		Name:             "Sick Leave",
		HasBalance:       true,
		RequiresApproval: false,
		IsActive:         true,
	}
)

type testEnv struct {
	svc      leave.LeaveService
	types    *fakeTypeRepo
	balances *fakeBalanceRepo
	requests *fakeRequestRepo
}

func newTestEnv(auth *fakeAuthorizer) *testEnv {
	types := newFakeTypeRepo(annualType, unpaidType, sickType)
	balances := newFakeBalanceRepo()
	requests := newFakeRequestRepo()
	directory := &fakeDirectory{employees: map[string]employee.Employee{
		"carol": {ID: "carol", CompanyID: testCompanyID, FullName: "Carol Tan", IsActive: true},
		"bob":   {ID: "bob", CompanyID: testCompanyID, FullName: "Bob Lim", IsActive: true},
		"alice": {ID: "alice", CompanyID: testCompanyID, FullName: "Alice Wong", IsActive: true},
	}}

	return &testEnv{
		svc:      NewLeaveService(fakeTxManager{}, types, balances, requests, directory, weekdayResolver{}, auth),
		types:    types,
		balances: balances,
		requests: requests,
	}
}

func carolActor() leave.Actor {
	return leave.Actor{EmployeeID: "carol", CompanyID: testCompanyID}
}

func bobActor() leave.Actor {
	return leave.Actor{EmployeeID: "bob", CompanyID: testCompanyID}
}

func adminActor() leave.Actor {
	return leave.Actor{EmployeeID: "alice", CompanyID: testCompanyID, ApproveAll: true, DeleteAll: true, ManageAll: true}
}

func seedAnnualBalance(env *testEnv, employeeID string, total daymath.Days) {
	env.balances.seed(leave.LeaveBalance{
		EmployeeID:  employeeID,
		LeaveTypeID: annualType.ID,
		Year:        2024,
		Total:       total,
	})
}

func mustDays(t *testing.T, s string) daymath.Days {
	t.Helper()
	d, err := daymath.Parse(s)
	require.NoError(t, err)
	return d
}

func TestSubmitReservesWorkingDays(t *testing.T) {
	env := newTestEnv(allowPairs())
	seedAnnualBalance(env, "carol", daymath.FromInt(12))

	// Monday through Friday.
	resp, err := env.svc.Submit(context.Background(), carolActor(), leave.SubmitRequestRequest{
		LeaveTypeID: annualType.ID,
		StartDate:   "2024-03-04",
		EndDate:     "2024-03-08",
		Reason:      "family trip",
	})
	require.NoError(t, err)

	assert.Equal(t, string(leave.LeaveRequestStatusPending), resp.Status)
	assert.Equal(t, daymath.FromInt(5), resp.TotalDays)

	balance, err := env.balances.GetByKey(context.Background(), "carol", annualType.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, daymath.FromInt(5), balance.Pending)
	assert.Equal(t, daymath.FromInt(7), balance.Available)
	assert.True(t, balance.Used.IsZero())
}

func TestSubmitSpansWeekend(t *testing.T) {
	env := newTestEnv(allowPairs())
	seedAnnualBalance(env, "carol", daymath.FromInt(12))

	// Friday through Monday charges two working days.
	resp, err := env.svc.Submit(context.Background(), carolActor(), leave.SubmitRequestRequest{
		LeaveTypeID: annualType.ID,
		StartDate:   "2024-03-08",
		EndDate:     "2024-03-11",
	})
	require.NoError(t, err)
	assert.Equal(t, daymath.FromInt(2), resp.TotalDays)
}

func TestSubmitHalfDay(t *testing.T) {
	env := newTestEnv(allowPairs())
	seedAnnualBalance(env, "carol", daymath.FromInt(12))

	resp, err := env.svc.Submit(context.Background(), carolActor(), leave.SubmitRequestRequest{
		LeaveTypeID:  annualType.ID,
		StartDate:    "2024-03-04",
		EndDate:      "2024-03-04",
		DurationType: string(leave.LeaveDurationHalfDay),
	})
	require.NoError(t, err)
	assert.Equal(t, daymath.HalfDay, resp.TotalDays)

	balance, _ := env.balances.GetByKey(context.Background(), "carol", annualType.ID, 2024)
	assert.Equal(t, daymath.HalfDay, balance.Pending)
	assert.Equal(t, mustDays(t, "11.5"), balance.Available)
}

func TestSubmitInsufficientBalance(t *testing.T) {
	env := newTestEnv(allowPairs())
	seedAnnualBalance(env, "carol", daymath.FromInt(3))

	_, err := env.svc.Submit(context.Background(), carolActor(), leave.SubmitRequestRequest{
		LeaveTypeID: annualType.ID,
		StartDate:   "2024-03-04",
		EndDate:     "2024-03-08",
	})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	// Nothing persisted.
	_, total, err := env.requests.GetByEmployeeID(context.Background(), testCompanyID, "carol", leave.RequestFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSubmitNoBalanceRowConfigured(t *testing.T) {
	env := newTestEnv(allowPairs())

	_, err := env.svc.Submit(context.Background(), carolActor(), leave.SubmitRequestRequest{
		LeaveTypeID: annualType.ID,
		StartDate:   "2024-03-04",
		EndDate:     "2024-03-04",
	})
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
}

func TestSubmitBalancelessTypeSkipsLedger(t *testing.T) {
	env := newTestEnv(allowPairs())

	resp, err := env.svc.Submit(context.Background(), carolActor(), leave.SubmitRequestRequest{
		LeaveTypeID: unpaidType.ID,
		StartDate:   "2024-03-04",
		EndDate:     "2024-03-08",
	})
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusPending), resp.Status)
	assert.Equal(t, daymath.FromInt(5), resp.TotalDays)
}

func TestSubmitAutoApprove(t *testing.T) {
	env := newTestEnv(allowPairs())
	env.balances.seed(leave.LeaveBalance{
		EmployeeID:  "carol",
		LeaveTypeID: sickType.ID,
		Year:        2024,
		Total:       daymath.FromInt(10),
	})

	resp, err := env.svc.Submit(context.Background(), carolActor(), leave.SubmitRequestRequest{
		LeaveTypeID: sickType.ID,
		StartDate:   "2024-03-04",
		EndDate:     "2024-03-05",
	})
	require.NoError(t, err)
	assert.Equal(t, string(leave.LeaveRequestStatusApproved), resp.Status)
	require.NotNil(t, resp.DecidedAt)

	balance, _ := env.balances.GetByKey(context.Background(), "carol", sickType.ID, 2024)
	assert.True(t, balance.Pending.IsZero())
	assert.Equal(t, daymath.FromInt(2), balance.Used)
}

func TestSubmitInvalidRanges(t *testing.T) {
	env := newTestEnv(allowPairs())
	seedAnnualBalance(env, "carol", daymath.FromInt(12))

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"end before start", "2024-03-08", "2024-03-04"},
		{"weekend only", "2024-03-09", "2024-03-10"},
		{"malformed date", "03/04/2024", "2024-03-08"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Submit(context.Background(), carolActor(), leave.SubmitRequestRequest{
				LeaveTypeID: annualType.ID,
				StartDate:   tt.start,
				EndDate:     tt.end,
			})
			assert.ErrorIs(t, err, leave.ErrInvalidRange)
		})
	}
}

func TestSubmitInactiveType(t *testing.T) {
	env := newTestEnv(allowPairs())
	inactive := annualType
	inactive.ID = "lt-retired"
	inactive.Code = "retired"
	inactive.IsActive = false
	env.types.types[inactive.ID] = inactive

	_, err := env.svc.Submit(context.Background(), carolActor(), leave.SubmitRequestRequest{
		LeaveTypeID: inactive.ID,
		StartDate:   "2024-03-04",
		EndDate:     "2024-03-04",
	})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeInactive)
}

func TestSubmitIdempotencyKeyReturnsExisting(t *testing.T) {
	env := newTestEnv(allowPairs())
	seedAnnualBalance(env, "carol", daymath.FromInt(12))

	req := leave.SubmitRequestRequest{
		LeaveTypeID:    annualType.ID,
		StartDate:      "2024-03-04",
		EndDate:        "2024-03-08",
		IdempotencyKey: "retry-abc",
	}

	first, err := env.svc.Submit(context.Background(), carolActor(), req)
	require.NoError(t, err)
	second, err := env.svc.Submit(context.Background(), carolActor(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	// Only one reservation.
	balance, _ := env.balances.GetByKey(context.Background(), "carol", annualType.ID, 2024)
	assert.Equal(t, daymath.FromInt(5), balance.Pending)
}

func TestConcurrentSubmitsOneWins(t *testing.T) {
	env := newTestEnv(allowPairs())
	seedAnnualBalance(env, "carol", daymath.FromInt(5))

	const submitters = 8
	errs := make([]error, submitters)
	var wg sync.WaitGroup
	for i := 0; i < submitters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.Submit(context.Background(), carolActor(), leave.SubmitRequestRequest{
				LeaveTypeID: annualType.ID,
				StartDate:   "2024-03-04",
				EndDate:     "2024-03-08",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
		}
	}
	assert.Equal(t, 1, succeeded)

	balance, _ := env.balances.GetByKey(context.Background(), "carol", annualType.ID, 2024)
	assert.Equal(t, daymath.FromInt(5), balance.Pending)
	assert.True(t, balance.Available.IsZero())
}

func submitPending(t *testing.T, env *testEnv) string {
	t.Helper()
	resp, err := env.svc.Submit(context.Background(), carolActor(), leave.SubmitRequestRequest{
		LeaveTypeID: annualType.ID,
		StartDate:   "2024-03-04",
		EndDate:     "2024-03-08",
	})
	require.NoError(t, err)
	return resp.ID
}

func TestApproveMovesPendingToUsed(t *testing.T) {
	env := newTestEnv(allowPairs([2]string{"bob", "carol"}))
	seedAnnualBalance(env, "carol", daymath.FromInt(12))
	requestID := submitPending(t, env)

	comment := "enjoy"
	err := env.svc.Approve(context.Background(), bobActor(), leave.ApproveRequestRequest{
		RequestID: requestID,
		Comments:  &comment,
	})
	require.NoError(t, err)

	request, err := env.requests.GetByID(context.Background(), testCompanyID, requestID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusApproved, request.Status)
	require.NotNil(t, request.ApproverID)
	assert.Equal(t, "bob", *request.ApproverID)

	balance, _ := env.balances.GetByKey(context.Background(), "carol", annualType.ID, 2024)
	assert.True(t, balance.Pending.IsZero())
	assert.Equal(t, daymath.FromInt(5), balance.Used)
	assert.Equal(t, daymath.FromInt(7), balance.Available)
}

func TestApproveDeniedOutsideChain(t *testing.T) {
	env := newTestEnv(allowPairs())
	seedAnnualBalance(env, "carol", daymath.FromInt(12))
	requestID := submitPending(t, env)

	err := env.svc.Approve(context.Background(), bobActor(), leave.ApproveRequestRequest{RequestID: requestID})
	assert.ErrorIs(t, err, leave.ErrNotAuthorized)
	assert.ErrorContains(t, err, hierarchy.ReasonNotAuthorized)

	// Reservation untouched.
	balance, _ := env.balances.GetByKey(context.Background(), "carol", annualType.ID, 2024)
	assert.Equal(t, daymath.FromInt(5), balance.Pending)
}

func TestApproveDeniedOnHierarchyFault(t *testing.T) {
	auth := allowPairs()
	auth.reason = hierarchy.ReasonIntegrityError
	env := newTestEnv(auth)
	seedAnnualBalance(env, "carol", daymath.FromInt(12))
	requestID := submitPending(t, env)

	err := env.svc.Approve(context.Background(), bobActor(), leave.ApproveRequestRequest{RequestID: requestID})
	assert.ErrorIs(t, err, leave.ErrNotAuthorized)
	assert.ErrorContains(t, err, hierarchy.ReasonIntegrityError)
}

func TestApproveOwnRequestDenied(t *testing.T) {
	env := newTestEnv(allowPairs())
	seedAnnualBalance(env, "carol", daymath.FromInt(12))
	requestID := submitPending(t, env)

	actor := carolActor()
	actor.ApproveAll = true
	err := env.svc.Approve(context.Background(), actor, leave.ApproveRequestRequest{RequestID: requestID})
	assert.ErrorIs(t, err, leave.ErrNotAuthorized)
}

func TestApproveTwiceReturnsNotPending(t *testing.T) {
	env := newTestEnv(allowPairs([2]string{"bob", "carol"}))
	seedAnnualBalance(env, "carol", daymath.FromInt(12))
	requestID := submitPending(t, env)

	require.NoError(t, env.svc.Approve(context.Background(), bobActor(), leave.ApproveRequestRequest{RequestID: requestID}))
	err := env.svc.Approve(context.Background(), bobActor(), leave.ApproveRequestRequest{RequestID: requestID})
	assert.ErrorIs(t, err, leave.ErrNotPending)

	// Used days charged exactly once.
	balance, _ := env.balances.GetByKey(context.Background(), "carol", annualType.ID, 2024)
	assert.Equal(t, daymath.FromInt(5), balance.Used)
}

func TestRejectReleasesReservation(t *testing.T) {
	env := newTestEnv(allowPairs([2]string{"bob", "carol"}))
	seedAnnualBalance(env, "carol", daymath.FromInt(12))
	requestID := submitPending(t, env)

	err := env.svc.Reject(context.Background(), bobActor(), leave.RejectRequestRequest{RequestID: requestID})
	require.NoError(t, err)

	request, err := env.requests.GetByID(context.Background(), testCompanyID, requestID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusRejected, request.Status)

	balance, _ := env.balances.GetByKey(context.Background(), "carol", annualType.ID, 2024)
	assert.True(t, balance.Pending.IsZero())
	assert.True(t, balance.Used.IsZero())
	assert.Equal(t, daymath.FromInt(12), balance.Available)
}

func TestConcurrentDecisionsOneWins(t *testing.T) {
	env := newTestEnv(allowPairs([2]string{"bob", "carol"}, [2]string{"alice", "carol"}))
	seedAnnualBalance(env, "carol", daymath.FromInt(12))
	requestID := submitPending(t, env)

	var wg sync.WaitGroup
	var approveErr, rejectErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		approveErr = env.svc.Approve(context.Background(), bobActor(), leave.ApproveRequestRequest{RequestID: requestID})
	}()
	go func() {
		defer wg.Done()
		rejectErr = env.svc.Reject(context.Background(), leave.Actor{EmployeeID: "alice", CompanyID: testCompanyID}, leave.RejectRequestRequest{RequestID: requestID})
	}()
	wg.Wait()

	// Exactly one decision lands; the loser sees the closed state machine.
	if approveErr == nil {
		assert.ErrorIs(t, rejectErr, leave.ErrNotPending)
	} else {
		assert.ErrorIs(t, approveErr, leave.ErrNotPending)
		require.NoError(t, rejectErr)
	}

	balance, _ := env.balances.GetByKey(context.Background(), "carol", annualType.ID, 2024)
	assert.True(t, balance.Pending.IsZero())
}

func TestRejectAfterReservationAlreadyReleased(t *testing.T) {
	env := newTestEnv(allowPairs([2]string{"bob", "carol"}))
	seedAnnualBalance(env, "carol", daymath.FromInt(12))
	requestID := submitPending(t, env)

	// Release the reservation out from under the request. The second
	// release during Reject must fail loudly, never silently no-op.
	require.NoError(t, env.balances.RemovePending(context.Background(), "carol", annualType.ID, 2024, daymath.FromInt(5)))

	err := env.svc.Reject(context.Background(), bobActor(), leave.RejectRequestRequest{RequestID: requestID})
	assert.ErrorIs(t, err, leave.ErrInconsistentState)

	// The ledger was not driven negative.
	balance, _ := env.balances.GetByKey(context.Background(), "carol", annualType.ID, 2024)
	assert.True(t, balance.Pending.IsZero())
	assert.Equal(t, daymath.FromInt(12), balance.Available)
}

func TestDeleteByOwnerReleasesReservation(t *testing.T) {
	env := newTestEnv(allowPairs())
	seedAnnualBalance(env, "carol", daymath.FromInt(12))
	requestID := submitPending(t, env)

	err := env.svc.Delete(context.Background(), carolActor(), requestID)
	require.NoError(t, err)

	_, err = env.requests.GetByID(context.Background(), testCompanyID, requestID)
	assert.ErrorIs(t, err, leave.ErrRequestNotFound)

	balance, _ := env.balances.GetByKey(context.Background(), "carol", annualType.ID, 2024)
	assert.Equal(t, daymath.FromInt(12), balance.Available)
}

func TestDeleteByStrangerDenied(t *testing.T) {
	env := newTestEnv(allowPairs())
	seedAnnualBalance(env, "carol", daymath.FromInt(12))
	requestID := submitPending(t, env)

	err := env.svc.Delete(context.Background(), bobActor(), requestID)
	assert.ErrorIs(t, err, leave.ErrNotAuthorized)
}

func TestDeleteApprovedRequestDenied(t *testing.T) {
	env := newTestEnv(allowPairs([2]string{"bob", "carol"}))
	seedAnnualBalance(env, "carol", daymath.FromInt(12))
	requestID := submitPending(t, env)
	require.NoError(t, env.svc.Approve(context.Background(), bobActor(), leave.ApproveRequestRequest{RequestID: requestID}))

	err := env.svc.Delete(context.Background(), carolActor(), requestID)
	assert.ErrorIs(t, err, leave.ErrNotPending)

	// Approved consumption stays.
	balance, _ := env.balances.GetByKey(context.Background(), "carol", annualType.ID, 2024)
	assert.Equal(t, daymath.FromInt(5), balance.Used)
}

func TestGetRequestVisibility(t *testing.T) {
	env := newTestEnv(allowPairs([2]string{"bob", "carol"}))
	seedAnnualBalance(env, "carol", daymath.FromInt(12))
	requestID := submitPending(t, env)

	t.Run("owner sees it", func(t *testing.T) {
		resp, err := env.svc.GetRequest(context.Background(), carolActor(), requestID)
		require.NoError(t, err)
		assert.Equal(t, requestID, resp.ID)
	})

	t.Run("manager in chain sees it", func(t *testing.T) {
		_, err := env.svc.GetRequest(context.Background(), bobActor(), requestID)
		assert.NoError(t, err)
	})

	t.Run("unrelated employee denied", func(t *testing.T) {
		_, err := env.svc.GetRequest(context.Background(), leave.Actor{EmployeeID: "mallory", CompanyID: testCompanyID}, requestID)
		assert.ErrorIs(t, err, leave.ErrNotAuthorized)
	})

	t.Run("other company cannot see it", func(t *testing.T) {
		_, err := env.svc.GetRequest(context.Background(), leave.Actor{EmployeeID: "carol", CompanyID: "co-2"}, requestID)
		assert.ErrorIs(t, err, leave.ErrRequestNotFound)
	})
}

func TestListMyRequestsFiltersByStatus(t *testing.T) {
	env := newTestEnv(allowPairs([2]string{"bob", "carol"}))
	seedAnnualBalance(env, "carol", daymath.FromInt(12))

	first := submitPending(t, env)
	require.NoError(t, env.svc.Approve(context.Background(), bobActor(), leave.ApproveRequestRequest{RequestID: first}))
	env.requests.seed(leave.LeaveRequest{
		CompanyID:   testCompanyID,
		EmployeeID:  "carol",
		LeaveTypeID: annualType.ID,
		StartDate:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		TotalDays:   daymath.FullDay,
		Status:      leave.LeaveRequestStatusPending,
	})

	pending := leave.LeaveRequestStatusPending
	resp, err := env.svc.ListMyRequests(context.Background(), carolActor(), leave.RequestFilter{Status: &pending})
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.TotalCount)
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, string(leave.LeaveRequestStatusPending), resp.Requests[0].Status)
}
