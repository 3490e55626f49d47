package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Candidate предлагаемое бронирование
type Candidate struct {
	Date            time.Time
	Start           types.TimeString
	DurationMinutes int
}

// Interval возвращает интервал кандидата
func (c Candidate) Interval() (domain.Interval, error) {
	if c.DurationMinutes <= 0 {
		return domain.Interval{}, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidCandidate, c.DurationMinutes)
	}
	if err := c.Start.Validate(); err != nil {
		return domain.Interval{}, fmt.Errorf("%w: %w", ErrInvalidCandidate, err)
	}
	if c.Date.IsZero() {
		return domain.Interval{}, fmt.Errorf("%w: date is required", ErrInvalidCandidate)
	}
	start := c.Start.Minutes()
	return domain.Interval{Start: start, End: start + c.DurationMinutes, Source: domain.SourceReservation}, nil
}

// FirstConflict возвращает первый занятый интервал, пересекающийся с candidate
func FirstConflict(occupied []domain.Interval, candidate domain.Interval) (domain.Interval, bool) {
	for _, existing := range occupied {
		if candidate.Overlaps(existing) {
			return existing, true
		}
	}
	return domain.Interval{}, false
}

// Check проверяет, может ли сотрудник принять кандидата
// Возвращает nil, если время свободно, или *ConflictError
func (s *Service) Check(
	ctx context.Context,
	staff *domain.Staff,
	candidate Candidate,
	settings *domain.StoreSettings,
	flags domain.FeatureFlags,
	exclude *uuid.UUID,
) error {
	interval, err := candidate.Interval()
	if err != nil {
		return err
	}

	occupied, err := s.OccupiedIntervals(ctx, staff, candidate.Date, settings, flags, exclude)
	if err != nil {
		return err
	}

	if with, ok := FirstConflict(occupied, interval); ok {
		s.logger.Info("Check: staff=%s, date=%s, interval=%s conflicts with %s",
			staff.ID, candidate.Date.Format(domain.DateFormat), interval, with)
		return &ConflictError{StaffID: staff.ID, With: with}
	}

	return nil
}

// AssignStaff выбирает первого свободного активного сотрудника
// Порядок перебора: displayOrder, имя, id
func (s *Service) AssignStaff(
	ctx context.Context,
	candidates []*domain.Staff,
	candidate Candidate,
	settings *domain.StoreSettings,
	flags domain.FeatureFlags,
	exclude *uuid.UUID,
) (*domain.Staff, error) {
	if _, err := candidate.Interval(); err != nil {
		return nil, err
	}

	for _, staff := range SortForAssignment(candidates) {
		if !staff.IsActive {
			continue
		}

		err := s.Check(ctx, staff, candidate, settings, flags, exclude)
		if err == nil {
			s.logger.Info("AssignStaff: assigned staff=%s for date=%s, time=%s",
				staff.ID, candidate.Date.Format(domain.DateFormat), candidate.Start)
			return staff, nil
		}
		if !errors.Is(err, ErrSlotConflict) {
			return nil, err
		}
	}

	s.logger.Warn("AssignStaff: no staff available for date=%s, time=%s, duration=%d",
		candidate.Date.Format(domain.DateFormat), candidate.Start, candidate.DurationMinutes)
	return nil, ErrNoStaffAvailable
}

// SortForAssignment возвращает копию списка в детерминированном порядке автоназначения
func SortForAssignment(staff []*domain.Staff) []*domain.Staff {
	out := append([]*domain.Staff(nil), staff...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID.String() < b.ID.String()
	})
	return out
}
