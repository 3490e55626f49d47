package blocked_times

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// parseRange читает from/to из query
// Принимаются RFC3339 и даты "2006-01-02"; дата в to включает весь день
func parseRange(query url.Values, loc *time.Location) (time.Time, time.Time, error) {
	from, _, err := parseBound(query.Get("from"), loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from: %w", err)
	}
	to, toIsDate, err := parseBound(query.Get("to"), loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to: %w", err)
	}
	if toIsDate {
		to = to.AddDate(0, 0, 1)
	}
	return from, to, nil
}

func parseBound(raw string, loc *time.Location) (time.Time, bool, error) {
	if raw == "" {
		return time.Time{}, false, errors.New("is required")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation(domain.DateFormat, raw, loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("expected RFC3339 or %s", domain.DateFormat)
	}
	return t, true, nil
}
