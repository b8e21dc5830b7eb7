package http

import (
	"encoding/json"
	"net/http"

	"github.com/hrcore-id/leave-backend-go/internal/domain/calendar"
	"github.com/hrcore-id/leave-backend-go/internal/handler/http/middleware"
	"github.com/hrcore-id/leave-backend-go/internal/handler/http/response"
)

type CalendarHandler struct {
	calendarService calendar.CalendarService
}

func NewCalendarHandler(calendarService calendar.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// CreateHoliday handles POST /api/v1/holidays
func (h *CalendarHandler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req calendar.CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.calendarService.CreateHoliday(r.Context(), middleware.ActorFromRequest(r), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created", created)
}

// UpdateHoliday handles PATCH /api/v1/holidays/{holidayID}
func (h *CalendarHandler) UpdateHoliday(w http.ResponseWriter, r *http.Request) {
	var req calendar.UpdateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	id, err := pathID(r, "holidayID")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	req.ID = id
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.calendarService.UpdateHoliday(r.Context(), middleware.ActorFromRequest(r), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday updated", nil)
}

// DeleteHoliday handles DELETE /api/v1/holidays/{holidayID}
func (h *CalendarHandler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	holidayID, err := pathID(r, "holidayID")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.calendarService.DeleteHoliday(r.Context(), middleware.ActorFromRequest(r), holidayID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted", nil)
}

// ListHolidays handles GET /api/v1/holidays
func (h *CalendarHandler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.calendarService.ListHolidays(r.Context(), middleware.ActorFromRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, holidays)
}

// SetWorkWeek handles PUT /api/v1/work-week
func (h *CalendarHandler) SetWorkWeek(w http.ResponseWriter, r *http.Request) {
	var req calendar.SetWorkWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.calendarService.SetWorkWeek(r.Context(), middleware.ActorFromRequest(r), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work week updated", nil)
}

// GetWorkWeek handles GET /api/v1/work-week
func (h *CalendarHandler) GetWorkWeek(w http.ResponseWriter, r *http.Request) {
	workWeek, err := h.calendarService.GetWorkWeek(r.Context(), middleware.ActorFromRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, workWeek)
}
