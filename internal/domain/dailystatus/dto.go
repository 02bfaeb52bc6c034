package dailystatus

// DailyStatusResponse represents a daily status row in API responses
type DailyStatusResponse struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

func ToResponse(ds DailyStatus) DailyStatusResponse {
	return DailyStatusResponse{
		UserID:    ds.UserID,
		Date:      ds.Date.Format("2006-01-02"),
		Status:    string(ds.Status),
		UpdatedAt: ds.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
