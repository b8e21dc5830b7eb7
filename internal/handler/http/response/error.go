package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hrcore-id/leave-backend-go/internal/domain/calendar"
	"github.com/hrcore-id/leave-backend-go/internal/domain/employee"
	"github.com/hrcore-id/leave-backend-go/internal/domain/hierarchy"
	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Unmapped errors and
// invariant violations surface as 500 without leaking internals.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Caller mistakes
	case errors.Is(err, leave.ErrInvalidRange),
		errors.Is(err, calendar.ErrInvalidRange):
		BadRequest(w, "Requested date range contains no chargeable working days", nil)
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrLeaveTypeInactive):
		BadRequest(w, "Leave type is inactive", nil)
	case errors.Is(err, leave.ErrLeaveTypeNoBalance):
		BadRequest(w, "Leave type does not carry a balance", nil)
	case errors.Is(err, hierarchy.ErrSelfManagement):
		BadRequest(w, "An employee cannot be their own manager", nil)

	// Authorization. Services wrap the sentinel with the authorizer's
	// reason so callers can tell a denial from a hierarchy fault.
	case errors.Is(err, leave.ErrNotAuthorized),
		errors.Is(err, hierarchy.ErrNotAuthorized):
		Forbidden(w, err.Error())

	// Missing resources
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "No leave entitlement configured for this employee, type and year")
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, calendar.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, hierarchy.ErrLinkNotFound):
		NotFound(w, "Manager link not found")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// State conflicts
	case errors.Is(err, leave.ErrNotPending):
		Conflict(w, "Leave request is no longer pending")
	case errors.Is(err, leave.ErrLeaveTypeCodeExists):
		Conflict(w, "Leave type code already exists")
	case errors.Is(err, leave.ErrBalanceNotEmpty):
		Conflict(w, "Leave balance has used or pending days")
	case errors.Is(err, hierarchy.ErrCycle):
		Conflict(w, "Manager assignment would create a cycle")

	// Retryable contention
	case errors.Is(err, leave.ErrTransient):
		ServiceUnavailable(w, "Operation temporarily unavailable, please retry")

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
