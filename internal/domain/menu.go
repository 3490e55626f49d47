package domain

import (
	"time"

	"github.com/google/uuid"
)

// Menu represents a bookable service (cut, color, ...)
type Menu struct {
	ID              uuid.UUID
	Name            string
	Description     *string
	Price           int // integer yen
	DurationMinutes int
	Category        string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
