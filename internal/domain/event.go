package domain

import (
	"time"
)

// EventStatus represents the lifecycle state of an event
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusActive    EventStatus = "active"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// AllowedSlotDurations are the only slot lengths an event may be published with
var AllowedSlotDurations = []int{20, 30, 60}

// Event represents a host-defined time range subdivided into bookable slots
type Event struct {
	ID                    string      `json:"id"`
	HostID                string      `json:"host_id"`
	Name                  string      `json:"name"`
	VenueName             string      `json:"venue_name,omitempty"`
	SlotDurationMinutes   int         `json:"slot_duration_minutes"`
	AllowConsecutiveSlots bool        `json:"allow_consecutive_slots"`
	MaxConsecutiveSlots   int         `json:"max_consecutive_slots"`
	AllowB2B              bool        `json:"allow_b2b"`
	StartTime             time.Time   `json:"start_time"`
	EndTime               time.Time   `json:"end_time"`
	Status                EventStatus `json:"status"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// IsBookable reports whether slots of this event can currently be claimed
func (e *Event) IsBookable() bool {
	return e.Status == EventStatusPublished || e.Status == EventStatusActive
}

// IsDraft reports whether the event has not been published yet
func (e *Event) IsDraft() bool {
	return e.Status == EventStatusDraft
}

// Validate checks the host-supplied event settings
func (e *Event) Validate() error {
	if e.HostID == "" {
		return ErrInvalidUserID
	}
	if !validSlotDuration(e.SlotDurationMinutes) {
		return ErrInvalidSlotDuration
	}
	if e.MaxConsecutiveSlots < 1 {
		return ErrInvalidMaxConsecutive
	}
	if !e.EndTime.After(e.StartTime) {
		return ErrInvalidEventWindow
	}
	return nil
}

func validSlotDuration(minutes int) bool {
	for _, d := range AllowedSlotDurations {
		if minutes == d {
			return true
		}
	}
	return false
}
