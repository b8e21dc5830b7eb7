package hierarchy

import (
	"context"
	"fmt"

	"github.com/hrcore-id/leave-backend-go/internal/domain/employee"
	"github.com/hrcore-id/leave-backend-go/internal/domain/hierarchy"
	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
)

type LinkServiceImpl struct {
	hierarchy.ManagerLinkRepository
	directory employee.Directory
	cfg       Config
}

func NewLinkService(linkRepo hierarchy.ManagerLinkRepository, directory employee.Directory, cfg Config) hierarchy.LinkService {
	if cfg.MaxChainDepth <= 0 {
		cfg.MaxChainDepth = DefaultConfig().MaxChainDepth
	}
	return &LinkServiceImpl{
		ManagerLinkRepository: linkRepo,
		directory:             directory,
		cfg:                   cfg,
	}
}

// SetManager implements hierarchy.LinkService. The assignment is rejected
// when the manager's own chain already contains the employee, which would
// close a cycle.
func (s *LinkServiceImpl) SetManager(ctx context.Context, actor leave.Actor, req hierarchy.SetManagerRequest) error {
	if !actor.ManageAll {
		return hierarchy.ErrNotAuthorized
	}
	if req.EmployeeID == req.ManagerID {
		return hierarchy.ErrSelfManagement
	}

	if _, err := s.directory.GetByID(ctx, actor.CompanyID, req.EmployeeID); err != nil {
		return err
	}
	if _, err := s.directory.GetByID(ctx, actor.CompanyID, req.ManagerID); err != nil {
		return err
	}

	current := req.ManagerID
	for hop := 0; hop < s.cfg.MaxChainDepth; hop++ {
		managerID, found, err := s.ManagerLinkRepository.GetManagerID(ctx, actor.CompanyID, current)
		if err != nil {
			return fmt.Errorf("failed to walk manager chain: %w", err)
		}
		if !found {
			break
		}
		if managerID == req.EmployeeID {
			return hierarchy.ErrCycle
		}
		current = managerID
	}

	if err := s.ManagerLinkRepository.Set(ctx, hierarchy.ManagerLink{
		CompanyID:  actor.CompanyID,
		EmployeeID: req.EmployeeID,
		ManagerID:  req.ManagerID,
	}); err != nil {
		return fmt.Errorf("failed to set manager link: %w", err)
	}
	return nil
}

// ClearManager implements hierarchy.LinkService.
func (s *LinkServiceImpl) ClearManager(ctx context.Context, actor leave.Actor, employeeID string) error {
	if !actor.ManageAll {
		return hierarchy.ErrNotAuthorized
	}
	if err := s.ManagerLinkRepository.Clear(ctx, actor.CompanyID, employeeID); err != nil {
		return fmt.Errorf("failed to clear manager link: %w", err)
	}
	return nil
}
