package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/metrics"
)

// grantRetryBudget bounds the compare-and-swap loop in GrantBalance. Version
// contention on a single balance row is rare; three attempts cover it.
const grantRetryBudget = 3

const grantRetryBackoff = 10 * time.Millisecond

// GrantBalance implements leave.LeaveService. It creates the ledger row for
// (employee, type, year) or resets its total and carryover. Used and pending
// days are never touched here; a grant that would push available negative is
// rejected.
func (l *LeaveServiceImpl) GrantBalance(ctx context.Context, actor leave.Actor, req leave.GrantBalanceRequest) (leave.LeaveBalanceResponse, error) {
	if !actor.ManageAll {
		return leave.LeaveBalanceResponse{}, leave.ErrNotAuthorized
	}

	if _, err := l.directory.GetByID(ctx, actor.CompanyID, req.EmployeeID); err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, actor.CompanyID, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	if !leaveType.HasBalance {
		return leave.LeaveBalanceResponse{}, leave.ErrLeaveTypeNoBalance
	}

	for attempt := 0; attempt < grantRetryBudget; attempt++ {
		if attempt > 0 {
			metrics.BalanceRetries.Inc()
			select {
			case <-time.After(grantRetryBackoff):
			case <-ctx.Done():
				return leave.LeaveBalanceResponse{}, ctx.Err()
			}
		}

		balance, err := l.LeaveBalanceRepository.GetByKey(ctx, req.EmployeeID, req.LeaveTypeID, req.Year)
		if errors.Is(err, leave.ErrBalanceNotFound) {
			created, err := l.LeaveBalanceRepository.Create(ctx, leave.LeaveBalance{
				EmployeeID:  req.EmployeeID,
				LeaveTypeID: req.LeaveTypeID,
				Year:        req.Year,
				Total:       req.TotalDays,
				Carryover:   req.Carryover,
			})
			if errors.Is(err, leave.ErrTransient) {
				continue
			}
			if err != nil {
				return leave.LeaveBalanceResponse{}, fmt.Errorf("failed to create leave balance: %w", err)
			}
			return leave.NewLeaveBalanceResponse(created), nil
		}
		if err != nil {
			return leave.LeaveBalanceResponse{}, fmt.Errorf("failed to read leave balance: %w", err)
		}

		// The new grant must still cover what is already consumed.
		committed := balance.Used.Add(balance.Pending)
		if req.TotalDays.Add(req.Carryover).Sub(committed).IsNegative() {
			return leave.LeaveBalanceResponse{}, leave.ErrInsufficientBalance
		}

		err = l.LeaveBalanceRepository.UpdateGrant(ctx, balance.ID, balance.Version, req.TotalDays, req.Carryover)
		if errors.Is(err, leave.ErrTransient) {
			// Version moved between the read and the write.
			continue
		}
		if err != nil {
			return leave.LeaveBalanceResponse{}, fmt.Errorf("failed to update leave balance: %w", err)
		}

		balance.Total = req.TotalDays
		balance.Carryover = req.Carryover
		balance.Available = req.TotalDays.Add(req.Carryover).Sub(committed)
		balance.Version++
		return leave.NewLeaveBalanceResponse(balance), nil
	}

	return leave.LeaveBalanceResponse{}, leave.ErrTransient
}

// DeleteBalance implements leave.LeaveService. Only rows with zero used and
// pending days can be removed; the repository enforces the guard.
func (l *LeaveServiceImpl) DeleteBalance(ctx context.Context, actor leave.Actor, balanceID string) error {
	if !actor.ManageAll {
		return leave.ErrNotAuthorized
	}
	return l.LeaveBalanceRepository.Delete(ctx, balanceID)
}

// GetMyBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) GetMyBalances(ctx context.Context, actor leave.Actor, year int) ([]leave.LeaveBalanceResponse, error) {
	return l.listBalances(ctx, actor.CompanyID, actor.EmployeeID, year)
}

// GetEmployeeBalances implements leave.LeaveService. Visible to the employee
// themselves, holders of the manage capability, and managers in the
// employee's chain.
func (l *LeaveServiceImpl) GetEmployeeBalances(ctx context.Context, actor leave.Actor, employeeID string, year int) ([]leave.LeaveBalanceResponse, error) {
	if employeeID != actor.EmployeeID && !actor.ManageAll {
		decision, err := l.authorizer.CanApprove(ctx, actor.CompanyID, actor.EmployeeID, employeeID, actor.ApproveAll)
		if err != nil {
			return nil, fmt.Errorf("failed to check balance visibility: %w", err)
		}
		if !decision.Allowed {
			return nil, fmt.Errorf("%w: %s", leave.ErrNotAuthorized, decision.Reason)
		}
	}
	return l.listBalances(ctx, actor.CompanyID, employeeID, year)
}

func (l *LeaveServiceImpl) listBalances(ctx context.Context, companyID, employeeID string, year int) ([]leave.LeaveBalanceResponse, error) {
	if year == 0 {
		year = l.now().Year()
	}

	balances, err := l.LeaveBalanceRepository.GetByEmployeeYear(ctx, companyID, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	responses := make([]leave.LeaveBalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.NewLeaveBalanceResponse(b))
	}
	return responses, nil
}
