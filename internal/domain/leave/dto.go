package leave

import (
	"time"

	"github.com/hrcore-id/leave-backend-go/internal/pkg/daymath"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/validator"
)

// Actor carries the caller-supplied identity and authorization facts for one
// call. Capabilities are external facts (JWT claims at the HTTP boundary),
// not derived from the hierarchy.
type Actor struct {
	EmployeeID string
	CompanyID  string
	ApproveAll bool
	DeleteAll  bool
	ManageAll  bool
}

type CreateLeaveTypeRequest struct {
	Code              string       `json:"leave_type_code"`
	Name              string       `json:"leave_type_name"`
	AnnualEntitlement daymath.Days `json:"annual_entitlement_days"`
	HasBalance        bool         `json:"has_balance"`
	RequiresApproval  bool         `json:"requires_approval"`
	IsPaid            bool         `json:"is_paid"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_code",
			Message: "leave_type_code is required",
		})
	}
	if len(r.Code) > 32 {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_code",
			Message: "leave_type_code must not exceed 32 characters",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_name",
			Message: "leave_type_name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_name",
			Message: "leave_type_name must not exceed 255 characters",
		})
	}
	if r.AnnualEntitlement.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "annual_entitlement_days",
			Message: "annual_entitlement_days must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateLeaveTypeRequest struct {
	ID                string        `json:"leave_type_id"`
	Name              *string       `json:"leave_type_name,omitempty"`
	AnnualEntitlement *daymath.Days `json:"annual_entitlement_days,omitempty"`
	RequiresApproval  *bool         `json:"requires_approval,omitempty"`
	IsPaid            *bool         `json:"is_paid,omitempty"`
	IsActive          *bool         `json:"is_active,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}
	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_type_name",
				Message: "leave_type_name must not be empty",
			})
		}
		if len(*r.Name) > 255 {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_type_name",
				Message: "leave_type_name must not exceed 255 characters",
			})
		}
	}
	if r.AnnualEntitlement != nil && r.AnnualEntitlement.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "annual_entitlement_days",
			Message: "annual_entitlement_days must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// GrantBalanceRequest creates or adjusts the (employee, type, year) ledger
// row: the administrative "grant" action. It never touches used or pending.
type GrantBalanceRequest struct {
	EmployeeID  string       `json:"employee_id"`
	LeaveTypeID string       `json:"leave_type_id"`
	Year        int          `json:"year"`
	TotalDays   daymath.Days `json:"total_days"`
	Carryover   daymath.Days `json:"carryover_days"`
}

func (r *GrantBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}
	if r.Year < 2000 || r.Year > 2200 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a plausible calendar year",
		})
	}
	if r.TotalDays.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "total_days",
			Message: "total_days must not be negative",
		})
	}
	if r.Carryover.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "carryover_days",
			Message: "carryover_days must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SubmitRequestRequest struct {
	LeaveTypeID    string `json:"leave_type_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	DurationType   string `json:"duration_type,omitempty"`
	Reason         string `json:"reason"`
	IdempotencyKey string `json:"-"`
}

func (r *SubmitRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}
	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}
	switch r.DurationType {
	case "", string(LeaveDurationFullDay):
	case string(LeaveDurationHalfDay):
		if startOK && endOK && !start.Equal(end) {
			errs = append(errs, validator.ValidationError{
				Field:   "duration_type",
				Message: "half_day requests must cover a single date",
			})
		}
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "duration_type",
			Message: "duration_type must be full_day or half_day",
		})
	}
	if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ApproveRequestRequest struct {
	RequestID string  `json:"request_id"`
	Comments  *string `json:"comments,omitempty"`
}

func (r *ApproveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RejectRequestRequest struct {
	RequestID string  `json:"request_id"`
	Comments  *string `json:"comments,omitempty"`
}

func (r *RejectRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RequestID) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_id",
			Message: "request_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveTypeResponse struct {
	ID                string       `json:"leave_type_id"`
	Code              string       `json:"leave_type_code"`
	Name              string       `json:"leave_type_name"`
	AnnualEntitlement daymath.Days `json:"annual_entitlement_days"`
	HasBalance        bool         `json:"has_balance"`
	RequiresApproval  bool         `json:"requires_approval"`
	IsPaid            bool         `json:"is_paid"`
	IsActive          bool         `json:"is_active"`
}

type LeaveBalanceResponse struct {
	ID            string       `json:"balance_id"`
	EmployeeID    string       `json:"employee_id"`
	EmployeeName  *string      `json:"employee_name,omitempty"`
	LeaveTypeID   string       `json:"leave_type_id"`
	LeaveTypeName *string      `json:"leave_type_name,omitempty"`
	Year          int          `json:"year"`
	TotalDays     daymath.Days `json:"total_days"`
	UsedDays      daymath.Days `json:"used_days"`
	PendingDays   daymath.Days `json:"pending_days"`
	CarryoverDays daymath.Days `json:"carryover_days"`
	AvailableDays daymath.Days `json:"available_days"`
}

type LeaveRequestResponse struct {
	ID               string       `json:"request_id"`
	EmployeeID       string       `json:"employee_id"`
	EmployeeName     *string      `json:"employee_name,omitempty"`
	LeaveTypeID      string       `json:"leave_type_id"`
	LeaveTypeName    *string      `json:"leave_type_name,omitempty"`
	StartDate        string       `json:"start_date"`
	EndDate          string       `json:"end_date"`
	DurationType     string       `json:"duration_type"`
	TotalDays        daymath.Days `json:"total_days"`
	Reason           string       `json:"reason,omitempty"`
	Status           string       `json:"status"`
	ApproverID       *string      `json:"approver_id,omitempty"`
	DecidedAt        *time.Time   `json:"decided_at,omitempty"`
	ApprovalComments *string      `json:"approval_comments,omitempty"`
	SubmittedAt      time.Time    `json:"submitted_at"`
}

type ListRequestsResponse struct {
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	Requests   []LeaveRequestResponse `json:"requests"`
}

const dateLayout = "2006-01-02"

// NewLeaveRequestResponse maps an entity to its API shape.
func NewLeaveRequestResponse(req LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:               req.ID,
		EmployeeID:       req.EmployeeID,
		EmployeeName:     req.EmployeeName,
		LeaveTypeID:      req.LeaveTypeID,
		LeaveTypeName:    req.LeaveTypeName,
		StartDate:        req.StartDate.Format(dateLayout),
		EndDate:          req.EndDate.Format(dateLayout),
		DurationType:     string(req.DurationType),
		TotalDays:        req.TotalDays,
		Reason:           req.Reason,
		Status:           string(req.Status),
		ApproverID:       req.ApproverID,
		DecidedAt:        req.DecidedAt,
		ApprovalComments: req.ApprovalComments,
		SubmittedAt:      req.SubmittedAt,
	}
}

// NewLeaveBalanceResponse maps a ledger row to its API shape.
func NewLeaveBalanceResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		ID:            b.ID,
		EmployeeID:    b.EmployeeID,
		EmployeeName:  b.EmployeeName,
		LeaveTypeID:   b.LeaveTypeID,
		LeaveTypeName: b.LeaveTypeName,
		Year:          b.Year,
		TotalDays:     b.Total,
		UsedDays:      b.Used,
		PendingDays:   b.Pending,
		CarryoverDays: b.Carryover,
		AvailableDays: b.Available,
	}
}
