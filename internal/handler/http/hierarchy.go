package http

import (
	"encoding/json"
	"net/http"

	"github.com/hrcore-id/leave-backend-go/internal/domain/hierarchy"
	"github.com/hrcore-id/leave-backend-go/internal/handler/http/middleware"
	"github.com/hrcore-id/leave-backend-go/internal/handler/http/response"
)

type HierarchyHandler struct {
	linkService hierarchy.LinkService
}

func NewHierarchyHandler(linkService hierarchy.LinkService) *HierarchyHandler {
	return &HierarchyHandler{linkService: linkService}
}

// SetManager handles PUT /api/v1/manager-links
func (h *HierarchyHandler) SetManager(w http.ResponseWriter, r *http.Request) {
	var req hierarchy.SetManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.linkService.SetManager(r.Context(), middleware.ActorFromRequest(r), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Manager assigned", nil)
}

// ClearManager handles DELETE /api/v1/manager-links/{employeeID}
func (h *HierarchyHandler) ClearManager(w http.ResponseWriter, r *http.Request) {
	employeeID, err := pathID(r, "employeeID")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.linkService.ClearManager(r.Context(), middleware.ActorFromRequest(r), employeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Manager link cleared", nil)
}
