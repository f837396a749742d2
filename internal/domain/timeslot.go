package domain

import "time"

// maxAdvanceYears is how far ahead of now a slot may start.
const maxAdvanceYears = 1

// TimeSlot is a validated booking interval. The zero value is not a valid
// slot; construct one with NewTimeSlot.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

// NewTimeSlot validates [start, end) against the current time.
func NewTimeSlot(start, end time.Time) (TimeSlot, error) {
	return NewTimeSlotAt(start, end, time.Now())
}

// NewTimeSlotAt validates [start, end) as if the current time were now.
// Checks run in a fixed order and the first failure is returned.
func NewTimeSlotAt(start, end, now time.Time) (TimeSlot, error) {
	start, end = start.UTC(), end.UTC()

	if !start.Before(end) {
		return TimeSlot{}, ErrStartNotBeforeEnd
	}
	if start.Before(now) {
		return TimeSlot{}, ErrSlotInPast
	}
	if start.After(now.AddDate(maxAdvanceYears, 0, 0)) {
		return TimeSlot{}, ErrSlotTooFarAhead
	}

	return TimeSlot{start: start, end: end}, nil
}

// TimeSlotFromDuration builds a slot of the given (possibly fractional)
// number of hours starting at start.
func TimeSlotFromDuration(start time.Time, hours float64) (TimeSlot, error) {
	end := start.Add(time.Duration(hours * float64(time.Hour)))
	return NewTimeSlot(start, end)
}

func (s TimeSlot) Start() time.Time { return s.start }

func (s TimeSlot) End() time.Time { return s.end }

func (s TimeSlot) DurationHours() float64 { return s.end.Sub(s.start).Hours() }

func (s TimeSlot) DurationMinutes() float64 { return s.end.Sub(s.start).Minutes() }

// Overlaps reports whether the two slots intersect. Slots that only touch
// at an endpoint do not overlap.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return intervalsOverlap(s.start, s.end, other.start, other.end)
}

// Contains is inclusive on both ends.
func (s TimeSlot) Contains(t time.Time) bool {
	return !t.Before(s.start) && !t.After(s.end)
}

func intervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
