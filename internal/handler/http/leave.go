package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hrcore-id/leave-backend-go/internal/domain/leave"
	"github.com/hrcore-id/leave-backend-go/internal/handler/http/middleware"
	"github.com/hrcore-id/leave-backend-go/internal/handler/http/response"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/validator"
)

type LeaveHandler struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

// CreateLeaveType handles POST /api/v1/leave-types
func (h *LeaveHandler) CreateLeaveType(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.leaveService.CreateLeaveType(r.Context(), middleware.ActorFromRequest(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created", leave.LeaveTypeResponse{
		ID:                created.ID,
		Code:              created.Code,
		Name:              created.Name,
		AnnualEntitlement: created.AnnualEntitlement,
		HasBalance:        created.HasBalance,
		RequiresApproval:  created.RequiresApproval,
		IsPaid:            created.IsPaid,
		IsActive:          created.IsActive,
	})
}

// UpdateLeaveType handles PATCH /api/v1/leave-types/{leaveTypeID}
func (h *LeaveHandler) UpdateLeaveType(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	id, err := pathID(r, "leaveTypeID")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.ID = id
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.leaveService.UpdateLeaveType(r.Context(), middleware.ActorFromRequest(r), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type updated", nil)
}

// ListLeaveTypes handles GET /api/v1/leave-types
func (h *LeaveHandler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.leaveService.ListLeaveTypes(r.Context(), middleware.ActorFromRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, types)
}

// GrantBalance handles POST /api/v1/leave-balances
func (h *LeaveHandler) GrantBalance(w http.ResponseWriter, r *http.Request) {
	var req leave.GrantBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	balance, err := h.leaveService.GrantBalance(r.Context(), middleware.ActorFromRequest(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance granted", balance)
}

// DeleteBalance handles DELETE /api/v1/leave-balances/{balanceID}
func (h *LeaveHandler) DeleteBalance(w http.ResponseWriter, r *http.Request) {
	balanceID, err := pathID(r, "balanceID")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.leaveService.DeleteBalance(r.Context(), middleware.ActorFromRequest(r), balanceID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance deleted", nil)
}

// GetMyBalances handles GET /api/v1/leave-balances/me
func (h *LeaveHandler) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.leaveService.GetMyBalances(r.Context(), middleware.ActorFromRequest(r), queryYear(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, balances)
}

// GetEmployeeBalances handles GET /api/v1/employees/{employeeID}/leave-balances
func (h *LeaveHandler) GetEmployeeBalances(w http.ResponseWriter, r *http.Request) {
	employeeID, err := pathID(r, "employeeID")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	balances, err := h.leaveService.GetEmployeeBalances(r.Context(), middleware.ActorFromRequest(r), employeeID, queryYear(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, balances)
}

// SubmitRequest handles POST /api/v1/leave-requests. An Idempotency-Key
// header makes retried submissions return the original request instead of
// double-booking.
func (h *LeaveHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.SubmitRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	submitted, err := h.leaveService.Submit(r.Context(), middleware.ActorFromRequest(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", submitted)
}

// GetRequest handles GET /api/v1/leave-requests/{requestID}
func (h *LeaveHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "requestID")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	request, err := h.leaveService.GetRequest(r.Context(), middleware.ActorFromRequest(r), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, request)
}

// ListMyRequests handles GET /api/v1/leave-requests
func (h *LeaveHandler) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	filter, err := requestFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	listed, err := h.leaveService.ListMyRequests(r.Context(), middleware.ActorFromRequest(r), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, listed.Requests, &response.Meta{
		Page:       listed.Page,
		Limit:      listed.Limit,
		TotalItems: listed.TotalCount,
	})
}

// ApproveRequest handles POST /api/v1/leave-requests/{requestID}/approve
func (h *LeaveHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.ApproveRequestRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	requestID, err := pathID(r, "requestID")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.RequestID = requestID
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.leaveService.Approve(r.Context(), middleware.ActorFromRequest(r), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", nil)
}

// RejectRequest handles POST /api/v1/leave-requests/{requestID}/reject
func (h *LeaveHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.RejectRequestRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	requestID, err := pathID(r, "requestID")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.RequestID = requestID
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.leaveService.Reject(r.Context(), middleware.ActorFromRequest(r), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", nil)
}

// DeleteRequest handles DELETE /api/v1/leave-requests/{requestID}
func (h *LeaveHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "requestID")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.leaveService.Delete(r.Context(), middleware.ActorFromRequest(r), requestID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request deleted", nil)
}

// pathID extracts a URL parameter and rejects anything that is not a
// canonical UUIDv7 before it reaches a service.
func pathID(r *http.Request, param string) (string, error) {
	id := chi.URLParam(r, param)
	if !validator.IsValidUUID(id) {
		return "", validator.ValidationErrors{{
			Field:   param,
			Message: "must be a valid identifier",
		}}
	}
	return id, nil
}

func queryYear(r *http.Request) int {
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	return year
}

func requestFilterFromQuery(r *http.Request) (leave.RequestFilter, error) {
	filter := leave.RequestFilter{}
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := leave.LeaveRequestStatus(raw)
		switch status {
		case leave.LeaveRequestStatusPending, leave.LeaveRequestStatusApproved,
			leave.LeaveRequestStatusRejected, leave.LeaveRequestStatusCancelled:
			filter.Status = &status
		default:
			return leave.RequestFilter{}, validator.ValidationErrors{{
				Field:   "status",
				Message: "status must be pending, approved, rejected or cancelled",
			}}
		}
	}
	return filter, nil
}

// decodeOptionalBody tolerates an empty body for endpoints whose payload is
// entirely optional.
func decodeOptionalBody(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}
