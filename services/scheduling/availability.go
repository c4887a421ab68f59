package scheduling

import (
	"time"

	"concierge/models"
)

// DefaultWeekly returns the reference deployment's weekly availability:
// Monday and Friday afternoons plus two Tuesday blocks, Singapore time.
func DefaultWeekly() []models.AvailabilityWindow {
	return []models.AvailabilityWindow{
		{Weekday: time.Monday, Start: "14:00", End: "17:00"},
		{Weekday: time.Tuesday, Start: "11:00", End: "12:30"},
		{Weekday: time.Tuesday, Start: "15:00", End: "17:00"},
		{Weekday: time.Friday, Start: "14:00", End: "17:00"},
	}
}
