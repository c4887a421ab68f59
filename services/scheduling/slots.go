package scheduling

import (
	"fmt"
	"time"

	"concierge/models"
)

// maxSlots bounds the size of a slot listing, not the actual availability.
const maxSlots = 10

const clockLayout = "15:04"

// Calculator derives candidate meeting slots from a static weekly schedule.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	windows map[time.Weekday][]models.AvailabilityWindow
	loc     *time.Location
	horizon int
}

// NewCalculator validates the weekly schedule and resolves the calendar
// timezone. horizonDays falls back to 14 when non-positive.
func NewCalculator(windows []models.AvailabilityWindow, timezone string, horizonDays int) (*Calculator, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar timezone %q: %w", timezone, err)
	}
	if horizonDays <= 0 {
		horizonDays = 14
	}

	byDay := make(map[time.Weekday][]models.AvailabilityWindow)
	for _, w := range windows {
		if _, err := time.Parse(clockLayout, w.Start); err != nil {
			return nil, fmt.Errorf("invalid window start %q: %w", w.Start, err)
		}
		if _, err := time.Parse(clockLayout, w.End); err != nil {
			return nil, fmt.Errorf("invalid window end %q: %w", w.End, err)
		}
		byDay[w.Weekday] = append(byDay[w.Weekday], w)
	}

	return &Calculator{windows: byDay, loc: loc, horizon: horizonDays}, nil
}

// ListAvailable walks the horizon day by day and emits every 30-minute slot
// that fits entirely inside a configured window, starts strictly after now,
// and is not already booked. Slots come out in chronological order, capped
// at 10.
func (c *Calculator) ListAvailable(now time.Time, booked map[string]struct{}) []models.Slot {
	now = now.In(c.loc)

	var slots []models.Slot
	for offset := 0; offset < c.horizon; offset++ {
		day := now.AddDate(0, 0, offset)
		windows, ok := c.windows[day.Weekday()]
		if !ok {
			continue
		}

		for _, w := range windows {
			start := c.clockOnDay(day, w.Start)
			end := c.clockOnDay(day, w.End)

			for cur := start; !cur.Add(models.SlotDuration).After(end); cur = cur.Add(models.SlotDuration) {
				if !cur.After(now) {
					continue
				}
				key := SlotKey(cur)
				if _, taken := booked[key]; taken {
					continue
				}
				slots = append(slots, models.Slot{Start: cur, Key: key})
				if len(slots) >= maxSlots {
					return slots
				}
			}
		}
	}
	return slots
}

// SlotKey returns the canonical identity of a slot.
func SlotKey(start time.Time) string {
	return start.Format(time.RFC3339)
}

// FormatSlotTime renders a slot start the way it appears in listings and
// confirmation emails, e.g. "Monday, January 05 at 02:00 PM SGT".
func FormatSlotTime(start time.Time) string {
	return start.Format("Monday, January 02 at 03:04 PM") + " SGT"
}

// clockOnDay anchors an "HH:MM" clock reading onto the given day in the
// calendar timezone.
func (c *Calculator) clockOnDay(day time.Time, clock string) time.Time {
	t, _ := time.Parse(clockLayout, clock) // validated in NewCalculator
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, c.loc)
}
