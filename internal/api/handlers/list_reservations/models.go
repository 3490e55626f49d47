package list_reservations

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(query url.Values, loc *time.Location) (*models.ListReservationsRequest, error) {
	req := &models.ListReservationsRequest{}

	// date задает один день, startDate/endDate - период
	if raw := query.Get("date"); raw != "" {
		date, err := time.ParseInLocation(domain.DateFormat, raw, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	}
	if raw := query.Get("startDate"); raw != "" {
		date, err := time.ParseInLocation(domain.DateFormat, raw, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		req.StartDate = &date
	}
	if raw := query.Get("endDate"); raw != "" {
		date, err := time.ParseInLocation(domain.DateFormat, raw, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		req.EndDate = &date
	}

	if raw := query.Get("staffId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid staffId: %w", err)
		}
		req.StaffID = &id
	}
	if raw := query.Get("userId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid userId: %w", err)
		}
		req.UserID = &id
	}

	if raw := query.Get("status"); raw != "" {
		req.Status = &raw
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
