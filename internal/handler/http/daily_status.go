package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/staffsync-hq/staffsync-backend-go/internal/handler/http/middleware"
	"github.com/staffsync-hq/staffsync-backend-go/internal/handler/http/response"
	"github.com/staffsync-hq/staffsync-backend-go/internal/pkg/validator"
	dailystatusService "github.com/staffsync-hq/staffsync-backend-go/internal/service/dailystatus"
)

type DailyStatusHandler interface {
	ListByDate(w http.ResponseWriter, r *http.Request)
	GetMyStatuses(w http.ResponseWriter, r *http.Request)
	Reconcile(w http.ResponseWriter, r *http.Request)
}

type dailyStatusHandlerImpl struct {
	dailyStatusService *dailystatusService.Service
}

func NewDailyStatusHandler(dailyStatusService *dailystatusService.Service) DailyStatusHandler {
	return &dailyStatusHandlerImpl{dailyStatusService: dailyStatusService}
}

// ListByDate implements DailyStatusHandler.
func (h *dailyStatusHandlerImpl) ListByDate(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		response.BadRequest(w, "Query parameter 'date' is required", nil)
		return
	}
	date, ok := validator.IsValidDate(raw)
	if !ok {
		response.BadRequest(w, "Query parameter 'date' must be formatted as YYYY-MM-DD", nil)
		return
	}

	statuses, err := h.dailyStatusService.ListByDate(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, statuses)
}

// GetMyStatuses implements DailyStatusHandler.
func (h *dailyStatusHandlerImpl) GetMyStatuses(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	if userID == "" {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, -1, 0)
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.BadRequest(w, "Query parameter 'from' must be formatted as YYYY-MM-DD", nil)
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.BadRequest(w, "Query parameter 'to' must be formatted as YYYY-MM-DD", nil)
			return
		}
		to = parsed
	}

	statuses, err := h.dailyStatusService.ListMine(r.Context(), userID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, statuses)
}

type reconcileRequest struct {
	Date string `json:"date"`
}

// Reconcile implements DailyStatusHandler.
func (h *dailyStatusHandlerImpl) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	var date time.Time
	if req.Date != "" {
		parsed, ok := validator.IsValidDate(req.Date)
		if !ok {
			response.BadRequest(w, "Field 'date' must be formatted as YYYY-MM-DD", nil)
			return
		}
		date = parsed
	}

	ran, err := h.dailyStatusService.Reconcile(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Reconciliation completed", map[string]string{
		"date": ran.Format("2006-01-02"),
	})
}
