package services

import (
	"time"

	"github.com/clubsplusplus/club_recruitment/models"
)

type GeneratedSlot struct {
	Start time.Time
	End   time.Time
	Date  models.Date
}

// GenerateSlots cuts each window into back-to-back slots of the given length.
// A tail shorter than one slot is dropped. Slots keep window order and are
// chronological inside a window; allocation relies on that order.
func GenerateSlots(windows []TimeWindow, slotDurationMinutes int) []GeneratedSlot {
	slots := make([]GeneratedSlot, 0)
	if slotDurationMinutes <= 0 {
		return slots
	}
	duration := time.Duration(slotDurationMinutes) * time.Minute

	for _, w := range windows {
		start := w.Start
		for !start.Add(duration).After(w.End) {
			slots = append(slots, GeneratedSlot{
				Start: start,
				End:   start.Add(duration),
				Date:  w.Date,
			})
			start = start.Add(duration)
		}
	}
	return slots
}
