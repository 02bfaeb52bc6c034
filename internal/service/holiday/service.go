package holiday

import (
	"context"
	"time"

	"github.com/staffsync-hq/staffsync-backend-go/internal/domain/holiday"
	"github.com/staffsync-hq/staffsync-backend-go/internal/pkg/validator"
)

// HolidayResponse represents a holiday in API responses
type HolidayResponse struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// CreateHolidayRequest represents request to add a holiday
type CreateHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be YYYY-MM-DD",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type Service struct {
	holidayRepo holiday.HolidayRepository
}

func NewHolidayService(holidayRepo holiday.HolidayRepository) *Service {
	return &Service{holidayRepo: holidayRepo}
}

func (s *Service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return HolidayResponse{}, err
	}

	date, _ := validator.IsValidDate(req.Date)
	created, err := s.holidayRepo.Create(ctx, holiday.Holiday{Date: date, Name: req.Name})
	if err != nil {
		return HolidayResponse{}, err
	}

	return toResponse(created), nil
}

func (s *Service) ListByYear(ctx context.Context, year int) ([]HolidayResponse, error) {
	holidays, err := s.holidayRepo.ListByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	responses := make([]HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, toResponse(h))
	}
	return responses, nil
}

func (s *Service) Delete(ctx context.Context, date time.Time) error {
	return s.holidayRepo.Delete(ctx, date)
}

func toResponse(h holiday.Holiday) HolidayResponse {
	return HolidayResponse{
		Date: h.Date.Format("2006-01-02"),
		Name: h.Name,
	}
}
