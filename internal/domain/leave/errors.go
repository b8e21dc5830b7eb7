package leave

import "errors"

var (
	ErrInvalidRange        = errors.New("invalid date range")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrBalanceNotFound     = errors.New("no leave entitlement configured for this employee, type and year")
	ErrBalanceNotEmpty     = errors.New("leave balance has used or pending days and cannot be deleted")
	ErrLeaveTypeNotFound   = errors.New("leave type not found")
	ErrLeaveTypeCodeExists = errors.New("leave type code already exists")
	ErrLeaveTypeInactive   = errors.New("leave type is inactive")
	ErrLeaveTypeNoBalance  = errors.New("leave type does not carry a balance")
	ErrRequestNotFound     = errors.New("leave request not found")
	ErrNotPending          = errors.New("leave request is no longer pending")
	ErrNotAuthorized       = errors.New("not authorized")

	// ErrInconsistentState signals a ledger invariant violation, e.g. a
	// commit or release exceeding the pending reservation. It is a bug
	// signal, logged loudly and never shown to end users verbatim.
	ErrInconsistentState = errors.New("leave balance in inconsistent state")

	// ErrTransient means row-version contention exhausted the retry budget;
	// the caller may safely retry.
	ErrTransient = errors.New("operation temporarily unavailable, retry")
)
