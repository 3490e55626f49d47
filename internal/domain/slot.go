package domain

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// AvailableSlot represents a bookable start time for a menu on one day
type AvailableSlot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	StaffIDs  []uuid.UUID // staff members free for the whole slot, in assignment order
}

// IsAvailable returns true if at least one staff member can take the slot
func (s *AvailableSlot) IsAvailable() bool {
	return len(s.StaffIDs) > 0
}

// HasStaff returns true if the staff member is free for the slot
func (s *AvailableSlot) HasStaff(staffID uuid.UUID) bool {
	for _, id := range s.StaffIDs {
		if id == staffID {
			return true
		}
	}
	return false
}
