package http

import (
	"net/http"

	"github.com/hrcore-id/leave-backend-go/internal/domain/report"
	"github.com/hrcore-id/leave-backend-go/internal/handler/http/middleware"
	"github.com/hrcore-id/leave-backend-go/internal/handler/http/response"
	"github.com/hrcore-id/leave-backend-go/internal/pkg/validator"
)

type ReportHandler struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// EmployeeRequests handles GET /api/v1/employees/{employeeID}/leave-requests
func (h *ReportHandler) EmployeeRequests(w http.ResponseWriter, r *http.Request) {
	employeeID, err := pathID(r, "employeeID")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	filter, err := requestFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	listed, err := h.reportService.EmployeeRequests(r.Context(), middleware.ActorFromRequest(r), employeeID, filter)
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

// PendingApprovals handles GET /api/v1/approvals/pending
func (h *ReportHandler) PendingApprovals(w http.ResponseWriter, r *http.Request) {
	pending, err := h.reportService.PendingApprovals(r.Context(), middleware.ActorFromRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, pending)
}

// TeamCalendar handles GET /api/v1/reports/team-calendar?start=&end=
func (h *ReportHandler) TeamCalendar(w http.ResponseWriter, r *http.Request) {
	start, startOK := validator.IsValidDate(r.URL.Query().Get("start"))
	end, endOK := validator.IsValidDate(r.URL.Query().Get("end"))
	if !startOK || !endOK {
		response.BadRequest(w, "start and end must be in YYYY-MM-DD format", nil)
		return
	}

	entries, err := h.reportService.TeamCalendar(r.Context(), middleware.ActorFromRequest(r), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, entries)
}
