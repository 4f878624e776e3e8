package events

import (
	"slices"
	"time"
)

// Filter keeps the events for which keep returns true.
func Filter(all []*Event, keep func(*Event) bool) []*Event {
	var out []*Event
	for _, e := range all {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func Published(e *Event) bool { return e.Published }

func Upcoming(now time.Time) func(*Event) bool {
	return func(e *Event) bool { return e.StartDateTime.After(now) }
}

func Past(now time.Time) func(*Event) bool {
	return func(e *Event) bool { return !e.EndDateTime.After(now) }
}

func Ongoing(now time.Time) func(*Event) bool {
	return func(e *Event) bool { return !e.StartDateTime.After(now) && e.EndDateTime.After(now) }
}

// Overlapping keeps events that share at least an instant with [start, end).
func Overlapping(start, end time.Time) func(*Event) bool {
	return func(e *Event) bool { return e.StartDateTime.Before(end) && e.EndDateTime.After(start) }
}

func AtPlace(placeID string) func(*Event) bool {
	return func(e *Event) bool { return e.PlaceID == placeID }
}

func CreatedBy(userID string) func(*Event) bool {
	return func(e *Event) bool { return e.CreatorID == userID }
}

func JoinedBy(userID string) func(*Event) bool {
	return func(e *Event) bool { return e.HasParticipant(userID) }
}

// Joinable keeps events that have not ended and still have room.
func Joinable(now time.Time) func(*Event) bool {
	return func(e *Event) bool { return e.EndDateTime.After(now) && e.AvailableSlots() > 0 }
}

// SortByStart orders events by start time, earliest first.
func SortByStart(all []*Event) {
	slices.SortStableFunc(all, func(a, b *Event) int { return a.StartDateTime.Compare(b.StartDateTime) })
}

// Popular returns at most limit events, most participants first.
func Popular(all []*Event, limit int) []*Event {
	out := slices.Clone(all)
	slices.SortStableFunc(out, func(a, b *Event) int { return len(b.Participants) - len(a.Participants) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
