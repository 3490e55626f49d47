package domain

import (
	"time"

	"github.com/google/uuid"
)

// BlockedReason enumerates why a time range is unavailable
type BlockedReason string

const (
	BlockedHoliday     BlockedReason = "HOLIDAY"
	BlockedMaintenance BlockedReason = "MAINTENANCE"
	BlockedTraining    BlockedReason = "TRAINING"
	BlockedPersonal    BlockedReason = "PERSONAL"
	BlockedOther       BlockedReason = "OTHER"
)

// IsValid returns true for a known reason
func (r BlockedReason) IsValid() bool {
	switch r {
	case BlockedHoliday, BlockedMaintenance, BlockedTraining, BlockedPersonal, BlockedOther:
		return true
	}
	return false
}

// BlockedTime makes a range unavailable store-wide (StaffID == nil) or for one staff member
type BlockedTime struct {
	ID          uuid.UUID
	StaffID     *uuid.UUID
	StartAt     time.Time
	EndAt       time.Time
	Reason      BlockedReason
	Description *string
	CreatedAt   time.Time
}

// AppliesTo returns true if the block affects the staff member
func (b *BlockedTime) AppliesTo(staffID uuid.UUID) bool {
	return b.StaffID == nil || *b.StaffID == staffID
}

// ClipToDay returns the part of the block that falls on the given day.
// The date's location defines the day boundaries.
func (b *BlockedTime) ClipToDay(date time.Time) (Interval, bool) {
	dayStart := DateOnly(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	start := b.StartAt.In(date.Location())
	end := b.EndAt.In(date.Location())
	if !start.Before(dayEnd) || !end.After(dayStart) {
		return Interval{}, false
	}
	if start.Before(dayStart) {
		start = dayStart
	}
	if end.After(dayEnd) {
		end = dayEnd
	}

	id := b.ID
	return Interval{
		Start:  int(start.Sub(dayStart) / time.Minute),
		End:    int(end.Sub(dayStart) / time.Minute),
		Source: SourceBlocked,
		RefID:  &id,
	}, true
}
