// Package planner turns an event's time window into an ordered sequence of
// slot definitions. It is pure: identical inputs always produce identical
// boundaries and indexes, and it never touches storage.
package planner

import "time"

// SlotDefinition is one planned slot before persistence
type SlotDefinition struct {
	Index     int
	StartTime time.Time
	EndTime   time.Time
}

// Generate packs slots back-to-back starting at start. A slot is included
// only if it fits entirely before end; a partial trailing window is dropped.
// The result has exactly floor((end-start)/duration) entries and may be
// empty; rejecting an empty plan is the caller's job.
func Generate(start, end time.Time, slotDurationMinutes int) []SlotDefinition {
	if slotDurationMinutes <= 0 || !end.After(start) {
		return nil
	}

	duration := time.Duration(slotDurationMinutes) * time.Minute
	count := int(end.Sub(start) / duration)
	if count <= 0 {
		return nil
	}

	slots := make([]SlotDefinition, count)
	cursor := start
	for i := 0; i < count; i++ {
		next := cursor.Add(duration)
		slots[i] = SlotDefinition{
			Index:     i,
			StartTime: cursor,
			EndTime:   next,
		}
		cursor = next
	}
	return slots
}
