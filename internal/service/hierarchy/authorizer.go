package hierarchy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hrcore-id/leave-backend-go/internal/domain/hierarchy"
)

// Config is the approval-authority policy. FullChain grants any ancestor in
// the manager chain; direct-only restricts to the immediate manager.
type Config struct {
	MaxChainDepth int
	FullChain     bool
}

func DefaultConfig() Config {
	return Config{MaxChainDepth: 10, FullChain: true}
}

type AuthorizerImpl struct {
	hierarchy.ManagerLinkRepository
	cfg Config
}

func NewAuthorizer(linkRepo hierarchy.ManagerLinkRepository, cfg Config) hierarchy.Authorizer {
	if cfg.MaxChainDepth <= 0 {
		cfg.MaxChainDepth = DefaultConfig().MaxChainDepth
	}
	return &AuthorizerImpl{
		ManagerLinkRepository: linkRepo,
		cfg:                   cfg,
	}
}

// CanApprove implements hierarchy.Authorizer. It walks the employee's
// manager chain upward looking for the approver. The walk is bounded by
// MaxChainDepth; hitting the bound with unvisited ancestors means the edge
// set is suspect (too deep or cyclic) and the check fails closed.
func (a *AuthorizerImpl) CanApprove(ctx context.Context, companyID, approverID, employeeID string, approveAll bool) (hierarchy.Decision, error) {
	if approveAll {
		return hierarchy.Decision{Allowed: true}, nil
	}

	seen := map[string]bool{employeeID: true}
	current := employeeID
	for hop := 0; hop < a.cfg.MaxChainDepth; hop++ {
		managerID, found, err := a.ManagerLinkRepository.GetManagerID(ctx, companyID, current)
		if err != nil {
			return hierarchy.Decision{}, fmt.Errorf("failed to resolve manager of %s: %w", current, err)
		}
		if !found {
			// Top of the chain without meeting the approver.
			return hierarchy.Decision{Allowed: false, Reason: hierarchy.ReasonNotAuthorized}, nil
		}
		if managerID == approverID {
			if hop > 0 && !a.cfg.FullChain {
				return hierarchy.Decision{Allowed: false, Reason: hierarchy.ReasonNotAuthorized}, nil
			}
			return hierarchy.Decision{Allowed: true}, nil
		}
		if !a.cfg.FullChain {
			// Direct-only policy: one hop decides.
			return hierarchy.Decision{Allowed: false, Reason: hierarchy.ReasonNotAuthorized}, nil
		}
		if seen[managerID] {
			slog.Error("manager chain contains a cycle",
				"company_id", companyID,
				"employee_id", employeeID,
				"repeated_id", managerID,
			)
			return hierarchy.Decision{Allowed: false, Reason: hierarchy.ReasonIntegrityError}, nil
		}
		seen[managerID] = true
		current = managerID
	}

	slog.Error("manager chain exceeded depth bound",
		"company_id", companyID,
		"employee_id", employeeID,
		"max_depth", a.cfg.MaxChainDepth,
	)
	return hierarchy.Decision{Allowed: false, Reason: hierarchy.ReasonIntegrityError}, nil
}

// SubordinateIDs implements hierarchy.Authorizer.
func (a *AuthorizerImpl) SubordinateIDs(ctx context.Context, companyID, managerID string) ([]string, error) {
	depth := a.cfg.MaxChainDepth
	if !a.cfg.FullChain {
		depth = 1
	}
	ids, err := a.ManagerLinkRepository.GetSubordinateIDs(ctx, companyID, managerID, depth)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve subordinates of %s: %w", managerID, err)
	}
	return ids, nil
}
