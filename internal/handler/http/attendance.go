package http

import (
	"net/http"

	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/attendance"
	"github.com/staffsync-hq/staffsync-backend-go/internal/handler/http/middleware"
	"github.com/staffsync-hq/staffsync-backend-go/internal/handler/http/response"
	"github.com/staffsync-hq/staffsync-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetMyEvents(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	if userID == "" {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	event, err := h.attendanceService.CheckIn(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in", event)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	if userID == "" {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked out", result)
}

// GetMyEvents implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyEvents(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	if userID == "" {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	var filter attendance.MyEventsFilter
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, ok := validator.IsValidDate(raw)
		if !ok {
			response.BadRequest(w, "Query parameter 'from' must be formatted as YYYY-MM-DD", nil)
			return
		}
		filter.From = from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, ok := validator.IsValidDate(raw)
		if !ok {
			response.BadRequest(w, "Query parameter 'to' must be formatted as YYYY-MM-DD", nil)
			return
		}
		filter.To = to
	}

	events, err := h.attendanceService.GetMyEvents(r.Context(), userID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, events)
}
