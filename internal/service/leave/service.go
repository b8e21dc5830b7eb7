package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hrcore-id/leave-backend-go/internal/domain/calendar"
	"github.com/hrcore-id/leave-backend-go/internal/domain/employee"
	"github.com/hrcore-id/leave-backend-go/internal/domain/hierarchy"
	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/database"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type LeaveServiceImpl struct {
	txm database.TxManager
	leave.LeaveTypeRepository
	leave.LeaveBalanceRepository
	leave.LeaveRequestRepository
	directory  employee.Directory
	resolver   calendar.Resolver
	authorizer hierarchy.Authorizer

	now func() time.Time
}

func NewLeaveService(
	txm database.TxManager,
	typeRepo leave.LeaveTypeRepository,
	balanceRepo leave.LeaveBalanceRepository,
	requestRepo leave.LeaveRequestRepository,
	directory employee.Directory,
	resolver calendar.Resolver,
	authorizer hierarchy.Authorizer,
) leave.LeaveService {
	return &LeaveServiceImpl{
		txm:                    txm,
		LeaveTypeRepository:    typeRepo,
		LeaveBalanceRepository: balanceRepo,
		LeaveRequestRepository: requestRepo,
		directory:              directory,
		resolver:               resolver,
		authorizer:             authorizer,
		now:                    time.Now,
	}
}

// CreateLeaveType implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveType(ctx context.Context, actor leave.Actor, req leave.CreateLeaveTypeRequest) (leave.LeaveType, error) {
	if !actor.ManageAll {
		return leave.LeaveType{}, leave.ErrNotAuthorized
	}

	created, err := l.LeaveTypeRepository.Create(ctx, leave.LeaveType{
		CompanyID:         actor.CompanyID,
		Code:              req.Code,
		Name:              req.Name,
		AnnualEntitlement: req.AnnualEntitlement,
		HasBalance:        req.HasBalance,
		RequiresApproval:  req.RequiresApproval,
		IsPaid:            req.IsPaid,
		IsActive:          true,
	})
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeCodeExists) {
			return leave.LeaveType{}, err
		}
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return created, nil
}

// UpdateLeaveType implements leave.LeaveService. Code and HasBalance are
// immutable after creation; balances and requests already reference them.
func (l *LeaveServiceImpl) UpdateLeaveType(ctx context.Context, actor leave.Actor, req leave.UpdateLeaveTypeRequest) error {
	if !actor.ManageAll {
		return leave.ErrNotAuthorized
	}

	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, actor.CompanyID, req.ID)
	if err != nil {
		return err
	}

	if req.Name != nil {
		leaveType.Name = *req.Name
	}
	if req.AnnualEntitlement != nil {
		leaveType.AnnualEntitlement = *req.AnnualEntitlement
	}
	if req.RequiresApproval != nil {
		leaveType.RequiresApproval = *req.RequiresApproval
	}
	if req.IsPaid != nil {
		leaveType.IsPaid = *req.IsPaid
	}
	if req.IsActive != nil {
		leaveType.IsActive = *req.IsActive
	}

	if err := l.LeaveTypeRepository.Update(ctx, leaveType); err != nil {
		return fmt.Errorf("failed to update leave type: %w", err)
	}
	return nil
}

// ListLeaveTypes implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveTypes(ctx context.Context, actor leave.Actor) ([]leave.LeaveTypeResponse, error) {
	types, err := l.LeaveTypeRepository.GetByCompanyID(ctx, actor.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		responses = append(responses, leave.LeaveTypeResponse{
			ID:                t.ID,
			Code:              t.Code,
			Name:              t.Name,
			AnnualEntitlement: t.AnnualEntitlement,
			HasBalance:        t.HasBalance,
			RequiresApproval:  t.RequiresApproval,
			IsPaid:            t.IsPaid,
			IsActive:          t.IsActive,
		})
	}
	return responses, nil
}

// GetRequest implements leave.LeaveService. Visible to the owner, anyone
// with the manage capability, and managers in the owner's chain.
func (l *LeaveServiceImpl) GetRequest(ctx context.Context, actor leave.Actor, requestID string) (leave.LeaveRequestResponse, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, actor.CompanyID, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if request.EmployeeID != actor.EmployeeID && !actor.ManageAll {
		decision, err := l.authorizer.CanApprove(ctx, actor.CompanyID, actor.EmployeeID, request.EmployeeID, actor.ApproveAll)
		if err != nil {
			return leave.LeaveRequestResponse{}, fmt.Errorf("failed to check request visibility: %w", err)
		}
		if !decision.Allowed {
			return leave.LeaveRequestResponse{}, fmt.Errorf("%w: %s", leave.ErrNotAuthorized, decision.Reason)
		}
	}

	return leave.NewLeaveRequestResponse(request), nil
}

// ListMyRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListMyRequests(ctx context.Context, actor leave.Actor, filter leave.RequestFilter) (leave.ListRequestsResponse, error) {
	filter = normalizeFilter(filter)

	requests, total, err := l.LeaveRequestRepository.GetByEmployeeID(ctx, actor.CompanyID, actor.EmployeeID, filter)
	if err != nil {
		return leave.ListRequestsResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}
	return leave.ListRequestsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Requests:   responses,
	}, nil
}

func normalizeFilter(filter leave.RequestFilter) leave.RequestFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	return filter
}
