package domain

import "time"

// SlotStatus represents the state of a single time slot
type SlotStatus string

const (
	SlotStatusAvailable  SlotStatus = "available"
	SlotStatusBooked     SlotStatus = "booked"
	SlotStatusInProgress SlotStatus = "in_progress"
	SlotStatusCompleted  SlotStatus = "completed"
)

// TimeSlot is one fixed-duration, indexed time window within an event.
// (event_id, slot_index) is unique and indexes form a contiguous 0..N-1 range.
type TimeSlot struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	SlotIndex int        `json:"slot_index"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	Status    SlotStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsAvailable reports whether the slot can be claimed
func (s *TimeSlot) IsAvailable() bool {
	return s.Status == SlotStatusAvailable
}
