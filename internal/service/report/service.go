package report

import (
	"context"
	"fmt"
	"time"

	"github.com/hrcore-id/leave-backend-go/internal/domain/employee"
	"github.com/hrcore-id/leave-backend-go/internal/domain/hierarchy"
	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
	"github.com/hrcore-id/leave-backend-go/internal/domain/report"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type ReportServiceImpl struct {
	requests   leave.LeaveRequestRepository
	directory  employee.Directory
	authorizer hierarchy.Authorizer
}

func NewReportService(
	requests leave.LeaveRequestRepository,
	directory employee.Directory,
	authorizer hierarchy.Authorizer,
) report.ReportService {
	return &ReportServiceImpl{
		requests:   requests,
		directory:  directory,
		authorizer: authorizer,
	}
}

// EmployeeRequests implements report.ReportService.
func (s *ReportServiceImpl) EmployeeRequests(ctx context.Context, actor leave.Actor, employeeID string, filter leave.RequestFilter) (leave.ListRequestsResponse, error) {
	if employeeID != actor.EmployeeID && !actor.ManageAll {
		decision, err := s.authorizer.CanApprove(ctx, actor.CompanyID, actor.EmployeeID, employeeID, actor.ApproveAll)
		if err != nil {
			return leave.ListRequestsResponse{}, fmt.Errorf("failed to check report visibility: %w", err)
		}
		if !decision.Allowed {
			return leave.ListRequestsResponse{}, fmt.Errorf("%w: %s", leave.ErrNotAuthorized, decision.Reason)
		}
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	requests, total, err := s.requests.GetByEmployeeID(ctx, actor.CompanyID, employeeID, filter)
	if err != nil {
		return leave.ListRequestsResponse{}, fmt.Errorf("failed to list employee requests: %w", err)
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

// PendingApprovals implements report.ReportService. The subordinate closure
// comes from the authorizer so the listing honors the same chain policy as
// the approval check.
func (s *ReportServiceImpl) PendingApprovals(ctx context.Context, actor leave.Actor) ([]leave.LeaveRequestResponse, error) {
	subordinates, err := s.authorizer.SubordinateIDs(ctx, actor.CompanyID, actor.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve subordinates: %w", err)
	}
	if len(subordinates) == 0 {
		return []leave.LeaveRequestResponse{}, nil
	}

	requests, err := s.requests.GetPendingByEmployeeIDs(ctx, actor.CompanyID, subordinates)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	return s.withNames(ctx, actor.CompanyID, requests)
}

// TeamCalendar implements report.ReportService.
func (s *ReportServiceImpl) TeamCalendar(ctx context.Context, actor leave.Actor, start, end time.Time) ([]leave.LeaveRequestResponse, error) {
	if end.Before(start) {
		return nil, leave.ErrInvalidRange
	}

	subordinates, err := s.authorizer.SubordinateIDs(ctx, actor.CompanyID, actor.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve subordinates: %w", err)
	}
	// The manager's own approved leave shows on the team calendar too.
	team := append(subordinates, actor.EmployeeID)

	requests, err := s.requests.GetApprovedOverlapping(ctx, actor.CompanyID, team, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list team calendar: %w", err)
	}
	return s.withNames(ctx, actor.CompanyID, requests)
}

func (s *ReportServiceImpl) withNames(ctx context.Context, companyID string, requests []leave.LeaveRequest) ([]leave.LeaveRequestResponse, error) {
	ids := make([]string, 0, len(requests))
	seen := make(map[string]bool, len(requests))
	for _, r := range requests {
		if !seen[r.EmployeeID] {
			seen[r.EmployeeID] = true
			ids = append(ids, r.EmployeeID)
		}
	}

	names, err := s.directory.GetNamesByIDs(ctx, companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve employee names: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		resp := leave.NewLeaveRequestResponse(r)
		if name, ok := names[r.EmployeeID]; ok {
			resp.EmployeeName = &name
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
