package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
)

type ScheduleHandler interface {
	CreateHoliday(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
	CreateWeeklyOff(w http.ResponseWriter, r *http.Request)
	ListWeeklyOffs(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewScheduleHandler(scheduleService schedule.ScheduleService) ScheduleHandler {
	return &scheduleHandlerImpl{
		scheduleService: scheduleService,
	}
}

// CreateHoliday implements ScheduleHandler.
func (h *scheduleHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req schedule.CreateHolidayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.scheduleService.CreateHoliday(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created successfully", resp)
}

// ListHolidays implements ScheduleHandler.
func (h *scheduleHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	values, ok := queryInts(w, r, "year")
	if !ok {
		return
	}
	if values[0] < 1900 || values[0] > 9999 {
		response.BadRequest(w, "year is required", map[string]string{"year": "year must be between 1900 and 9999"})
		return
	}

	resp, err := h.scheduleService.ListHolidays(r.Context(), values[0])
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// CreateWeeklyOff implements ScheduleHandler.
func (h *scheduleHandlerImpl) CreateWeeklyOff(w http.ResponseWriter, r *http.Request) {
	var req schedule.CreateWeeklyOffRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.scheduleService.CreateWeeklyOff(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Weekly off config created successfully", resp)
}

// ListWeeklyOffs implements ScheduleHandler.
func (h *scheduleHandlerImpl) ListWeeklyOffs(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		response.BadRequest(w, "user_id is required", nil)
		return
	}

	resp, err := h.scheduleService.ListWeeklyOffs(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
