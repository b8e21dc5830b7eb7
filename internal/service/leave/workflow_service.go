package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrcore-id/leave-backend-go/internal/domain/calendar"
	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/daymath"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/metrics"
)

const dateLayout = "2006-01-02"

// Submit implements leave.LeaveService. Reserving the balance and persisting
// the request happen in one transaction, so a request row always has its
// pending days and vice versa.
func (l *LeaveServiceImpl) Submit(ctx context.Context, actor leave.Actor, req leave.SubmitRequestRequest) (leave.LeaveRequestResponse, error) {
	response, err := l.submit(ctx, actor, req)
	metrics.RequestsSubmitted.WithLabelValues(outcomeOf(err)).Inc()
	return response, err
}

func (l *LeaveServiceImpl) submit(ctx context.Context, actor leave.Actor, req leave.SubmitRequestRequest) (leave.LeaveRequestResponse, error) {
	if req.IdempotencyKey != "" {
		existing, err := l.LeaveRequestRepository.GetByIdempotencyKey(ctx, actor.CompanyID, actor.EmployeeID, req.IdempotencyKey)
		if err == nil {
			return leave.NewLeaveRequestResponse(existing), nil
		}
		if !errors.Is(err, leave.ErrRequestNotFound) {
			return leave.LeaveRequestResponse{}, fmt.Errorf("failed to check idempotency key: %w", err)
		}
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidRange
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return leave.LeaveRequestResponse{}, leave.ErrInvalidRange
	}

	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, actor.CompanyID, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !leaveType.IsActive {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveTypeInactive
	}

	durationType := leave.LeaveDurationEnum(req.DurationType)
	if durationType == "" {
		durationType = leave.LeaveDurationFullDay
	}
	totalDays, err := l.chargeableDays(ctx, actor.CompanyID, start, end, durationType)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request := leave.LeaveRequest{
		CompanyID:    actor.CompanyID,
		EmployeeID:   actor.EmployeeID,
		LeaveTypeID:  leaveType.ID,
		StartDate:    start,
		EndDate:      end,
		DurationType: durationType,
		TotalDays:    totalDays,
		Reason:       req.Reason,
		Status:       leave.LeaveRequestStatusPending,
	}
	if req.IdempotencyKey != "" {
		request.IdempotencyKey = &req.IdempotencyKey
	}

	// Ranges spanning a year boundary charge the start date's year.
	year := start.Year()

	err = l.txm.WithinTx(ctx, func(ctx context.Context) error {
		if leaveType.HasBalance {
			if err := l.LeaveBalanceRepository.AddPending(ctx, actor.EmployeeID, leaveType.ID, year, totalDays); err != nil {
				return err
			}
		}

		created, err := l.LeaveRequestRepository.Create(ctx, request)
		if err != nil {
			return err
		}
		request = created

		if !leaveType.RequiresApproval {
			return l.autoApprove(ctx, &request, leaveType, year)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, leave.ErrTransient) && req.IdempotencyKey != "" {
			// Lost the idempotency race; return the winning submission.
			existing, getErr := l.LeaveRequestRepository.GetByIdempotencyKey(ctx, actor.CompanyID, actor.EmployeeID, req.IdempotencyKey)
			if getErr == nil {
				return leave.NewLeaveRequestResponse(existing), nil
			}
		}
		return leave.LeaveRequestResponse{}, err
	}

	return leave.NewLeaveRequestResponse(request), nil
}

// chargeableDays computes the working days the request consumes.
func (l *LeaveServiceImpl) chargeableDays(ctx context.Context, companyID string, start, end time.Time, durationType leave.LeaveDurationEnum) (daymath.Days, error) {
	if durationType == leave.LeaveDurationHalfDay {
		working, err := l.resolver.IsWorkingDay(ctx, companyID, start)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve working day: %w", err)
		}
		if !working {
			return 0, leave.ErrInvalidRange
		}
		return daymath.HalfDay, nil
	}

	count, err := l.resolver.WorkingDaysBetween(ctx, companyID, start, end)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidRange) {
			return 0, leave.ErrInvalidRange
		}
		return 0, fmt.Errorf("failed to count working days: %w", err)
	}
	if count == 0 {
		// The whole range falls on holidays or non-working days.
		return 0, leave.ErrInvalidRange
	}
	return daymath.FromInt(count), nil
}

// autoApprove finalizes a request for types that skip the approval step.
// Runs inside the submission transaction.
func (l *LeaveServiceImpl) autoApprove(ctx context.Context, request *leave.LeaveRequest, leaveType leave.LeaveType, year int) error {
	decidedAt := l.now()
	if err := l.LeaveRequestRepository.UpdateStatusIfPending(ctx, request.ID, leave.LeaveRequestStatusApproved, request.EmployeeID, nil, decidedAt); err != nil {
		return err
	}
	if leaveType.HasBalance {
		if err := l.LeaveBalanceRepository.MovePendingToUsed(ctx, request.EmployeeID, leaveType.ID, year, request.TotalDays); err != nil {
			return err
		}
	}

	request.Status = leave.LeaveRequestStatusApproved
	request.ApproverID = &request.EmployeeID
	request.DecidedAt = &decidedAt
	return nil
}

// Approve implements leave.LeaveService. Authority is re-evaluated against
// the current hierarchy, not the one at submission time.
func (l *LeaveServiceImpl) Approve(ctx context.Context, actor leave.Actor, req leave.ApproveRequestRequest) error {
	err := l.decide(ctx, actor, req.RequestID, leave.LeaveRequestStatusApproved, req.Comments)
	metrics.RequestsDecided.WithLabelValues("approve", outcomeOf(err)).Inc()
	return err
}

// Reject implements leave.LeaveService.
func (l *LeaveServiceImpl) Reject(ctx context.Context, actor leave.Actor, req leave.RejectRequestRequest) error {
	err := l.decide(ctx, actor, req.RequestID, leave.LeaveRequestStatusRejected, req.Comments)
	metrics.RequestsDecided.WithLabelValues("reject", outcomeOf(err)).Inc()
	return err
}

func (l *LeaveServiceImpl) decide(ctx context.Context, actor leave.Actor, requestID string, status leave.LeaveRequestStatus, comments *string) error {
	request, err := l.LeaveRequestRepository.GetByID(ctx, actor.CompanyID, requestID)
	if err != nil {
		return err
	}

	// Nobody decides their own request, capabilities included.
	if request.EmployeeID == actor.EmployeeID {
		return leave.ErrNotAuthorized
	}
	decision, err := l.authorizer.CanApprove(ctx, actor.CompanyID, actor.EmployeeID, request.EmployeeID, actor.ApproveAll)
	if err != nil {
		return fmt.Errorf("failed to check approval authority: %w", err)
	}
	if !decision.Allowed {
		slog.Info("approval denied",
			"request_id", requestID,
			"approver_id", actor.EmployeeID,
			"reason", decision.Reason,
		)
		return fmt.Errorf("%w: %s", leave.ErrNotAuthorized, decision.Reason)
	}

	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, actor.CompanyID, request.LeaveTypeID)
	if err != nil {
		return err
	}

	return l.txm.WithinTx(ctx, func(ctx context.Context) error {
		if err := l.LeaveRequestRepository.UpdateStatusIfPending(ctx, requestID, status, actor.EmployeeID, comments, l.now()); err != nil {
			return err
		}
		if !leaveType.HasBalance {
			return nil
		}

		year := request.StartDate.Year()
		if status == leave.LeaveRequestStatusApproved {
			err = l.LeaveBalanceRepository.MovePendingToUsed(ctx, request.EmployeeID, request.LeaveTypeID, year, request.TotalDays)
		} else {
			err = l.LeaveBalanceRepository.RemovePending(ctx, request.EmployeeID, request.LeaveTypeID, year, request.TotalDays)
		}
		if errors.Is(err, leave.ErrInconsistentState) {
			l.reportInconsistentState(requestID, request.EmployeeID, string(status))
		}
		return err
	})
}

// Delete implements leave.LeaveService. Owners cancel their own pending
// requests; the delete capability extends that to any pending request.
func (l *LeaveServiceImpl) Delete(ctx context.Context, actor leave.Actor, requestID string) error {
	err := l.delete(ctx, actor, requestID)
	metrics.RequestsDecided.WithLabelValues("delete", outcomeOf(err)).Inc()
	return err
}

func (l *LeaveServiceImpl) delete(ctx context.Context, actor leave.Actor, requestID string) error {
	request, err := l.LeaveRequestRepository.GetByID(ctx, actor.CompanyID, requestID)
	if err != nil {
		return err
	}
	if request.EmployeeID != actor.EmployeeID && !actor.DeleteAll {
		return leave.ErrNotAuthorized
	}

	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, actor.CompanyID, request.LeaveTypeID)
	if err != nil {
		return err
	}

	return l.txm.WithinTx(ctx, func(ctx context.Context) error {
		if err := l.LeaveRequestRepository.DeleteIfPending(ctx, requestID); err != nil {
			return err
		}
		if !leaveType.HasBalance {
			return nil
		}

		err := l.LeaveBalanceRepository.RemovePending(ctx, request.EmployeeID, request.LeaveTypeID, request.StartDate.Year(), request.TotalDays)
		if errors.Is(err, leave.ErrInconsistentState) {
			l.reportInconsistentState(requestID, request.EmployeeID, "delete")
		}
		return err
	})
}

func (l *LeaveServiceImpl) reportInconsistentState(requestID, employeeID, action string) {
	metrics.InconsistentStates.Inc()
	slog.Error("leave balance inconsistent with request state",
		"request_id", requestID,
		"employee_id", employeeID,
		"action", action,
	)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, leave.ErrInvalidRange):
		return metrics.OutcomeInvalidRange
	case errors.Is(err, leave.ErrInsufficientBalance):
		return metrics.OutcomeInsufficientBalance
	case errors.Is(err, leave.ErrBalanceNotFound),
		errors.Is(err, leave.ErrRequestNotFound),
		errors.Is(err, leave.ErrLeaveTypeNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, leave.ErrNotPending):
		return metrics.OutcomeNotPending
	case errors.Is(err, leave.ErrNotAuthorized):
		return metrics.OutcomeNotAuthorized
	case errors.Is(err, leave.ErrInconsistentState):
		return metrics.OutcomeInconsistentState
	case errors.Is(err, leave.ErrTransient):
		return metrics.OutcomeTransient
	default:
		return metrics.OutcomeError
	}
}
