package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/attendance"
)

type fakeAttendanceService struct {
	checkInResp  attendance.EventResponse
	checkInErr   error
	checkOutResp attendance.CheckOutResponse
	checkOutErr  error
	events       []attendance.EventResponse
	eventsErr    error
	gotFilter    attendance.MyEventsFilter
	gotUserID    string
}

func (f *fakeAttendanceService) CheckIn(ctx context.Context, userID string) (attendance.EventResponse, error) {
	f.gotUserID = userID
	return f.checkInResp, f.checkInErr
}

func (f *fakeAttendanceService) CheckOut(ctx context.Context, userID string) (attendance.CheckOutResponse, error) {
	f.gotUserID = userID
	return f.checkOutResp, f.checkOutErr
}

func (f *fakeAttendanceService) GetMyEvents(ctx context.Context, userID string, filter attendance.MyEventsFilter) ([]attendance.EventResponse, error) {
	f.gotUserID = userID
	f.gotFilter = filter
	return f.events, f.eventsErr
}

// authenticatedRequest attaches JWT claims to the request context the same
// way jwtauth.Verifier does after validating a bearer token.
func authenticatedRequest(t *testing.T, method, target string, userID string) *http.Request {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("handler-test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"type":    "access",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(jwtauth.NewContext(req.Context(), token, nil))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAttendanceHandler_CheckIn_Success(t *testing.T) {
	svc := &fakeAttendanceService{
		checkInResp: attendance.EventResponse{ID: "evt-1", UserID: "user-1", Type: "check_in"},
	}
	handler := NewAttendanceHandler(svc)

	req := authenticatedRequest(t, http.MethodPost, "/api/v1/attendance/check-in", "user-1")
	rec := httptest.NewRecorder()
	handler.CheckIn(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user-1", svc.gotUserID)

	body := decodeEnvelope(t, rec)
	assert.Equal(t, true, body["success"])
}

func TestAttendanceHandler_CheckIn_Duplicate(t *testing.T) {
	svc := &fakeAttendanceService{checkInErr: attendance.ErrAlreadyCheckedIn}
	handler := NewAttendanceHandler(svc)

	req := authenticatedRequest(t, http.MethodPost, "/api/v1/attendance/check-in", "user-1")
	rec := httptest.NewRecorder()
	handler.CheckIn(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAttendanceHandler_CheckIn_NoIdentity(t *testing.T) {
	svc := &fakeAttendanceService{}
	handler := NewAttendanceHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/check-in", nil)
	rec := httptest.NewRecorder()
	handler.CheckIn(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.gotUserID)
}

func TestAttendanceHandler_CheckOut_Unmatched(t *testing.T) {
	svc := &fakeAttendanceService{
		checkOutResp: attendance.CheckOutResponse{
			Event:     attendance.EventResponse{ID: "evt-2", UserID: "user-1", Type: "check_out"},
			Unmatched: true,
		},
	}
	handler := NewAttendanceHandler(svc)

	req := authenticatedRequest(t, http.MethodPost, "/api/v1/attendance/check-out", "user-1")
	rec := httptest.NewRecorder()
	handler.CheckOut(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["unmatched"])
}

func TestAttendanceHandler_GetMyEvents_ParsesRange(t *testing.T) {
	svc := &fakeAttendanceService{}
	handler := NewAttendanceHandler(svc)

	req := authenticatedRequest(t, http.MethodGet, "/api/v1/attendance/me?from=2024-03-01&to=2024-03-31", "user-1")
	rec := httptest.NewRecorder()
	handler.GetMyEvents(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), svc.gotFilter.From)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), svc.gotFilter.To)
}

func TestAttendanceHandler_GetMyEvents_BadDate(t *testing.T) {
	svc := &fakeAttendanceService{}
	handler := NewAttendanceHandler(svc)

	req := authenticatedRequest(t, http.MethodGet, "/api/v1/attendance/me?from=03-01-2024", "user-1")
	rec := httptest.NewRecorder()
	handler.GetMyEvents(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceHandler_GetMyEvents_ServiceError(t *testing.T) {
	svc := &fakeAttendanceService{eventsErr: errors.New("connection reset")}
	handler := NewAttendanceHandler(svc)

	req := authenticatedRequest(t, http.MethodGet, "/api/v1/attendance/me", "user-1")
	rec := httptest.NewRecorder()
	handler.GetMyEvents(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
