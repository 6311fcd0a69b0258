package dto

import (
	"time"

	"github.com/slotstage/backend/internal/domain"
)

// CreateEventRequest represents a host's request to create a draft event
type CreateEventRequest struct {
	Name                  string    `json:"name" binding:"required"`
	VenueName             string    `json:"venue_name,omitempty"`
	SlotDurationMinutes   int       `json:"slot_duration_minutes" binding:"required"`
	AllowConsecutiveSlots bool      `json:"allow_consecutive_slots"`
	MaxConsecutiveSlots   int       `json:"max_consecutive_slots" binding:"required,min=1"`
	AllowB2B              bool      `json:"allow_b2b"`
	StartTime             time.Time `json:"start_time" binding:"required"`
	EndTime               time.Time `json:"end_time" binding:"required"`
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID                    string    `json:"id"`
	HostID                string    `json:"host_id"`
	Name                  string    `json:"name"`
	VenueName             string    `json:"venue_name,omitempty"`
	SlotDurationMinutes   int       `json:"slot_duration_minutes"`
	AllowConsecutiveSlots bool      `json:"allow_consecutive_slots"`
	MaxConsecutiveSlots   int       `json:"max_consecutive_slots"`
	AllowB2B              bool      `json:"allow_b2b"`
	StartTime             time.Time `json:"start_time"`
	EndTime               time.Time `json:"end_time"`
	Status                string    `json:"status"`
	CreatedAt             time.Time `json:"created_at"`
}

// PublishEventResponse represents the result of publishing an event
type PublishEventResponse struct {
	Event     *EventResponse  `json:"event"`
	SlotCount int             `json:"slot_count"`
	Slots     []*SlotResponse `json:"slots"`
}

// SlotResponse represents a time slot in API responses
type SlotResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	SlotIndex int       `json:"slot_index"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
}

// EventFromDomain converts a domain Event to EventResponse
func EventFromDomain(e *domain.Event) *EventResponse {
	return &EventResponse{
		ID:                    e.ID,
		HostID:                e.HostID,
		Name:                  e.Name,
		VenueName:             e.VenueName,
		SlotDurationMinutes:   e.SlotDurationMinutes,
		AllowConsecutiveSlots: e.AllowConsecutiveSlots,
		MaxConsecutiveSlots:   e.MaxConsecutiveSlots,
		AllowB2B:              e.AllowB2B,
		StartTime:             e.StartTime,
		EndTime:               e.EndTime,
		Status:                string(e.Status),
		CreatedAt:             e.CreatedAt,
	}
}

// SlotFromDomain converts a domain TimeSlot to SlotResponse
func SlotFromDomain(s *domain.TimeSlot) *SlotResponse {
	return &SlotResponse{
		ID:        s.ID,
		EventID:   s.EventID,
		SlotIndex: s.SlotIndex,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Status:    string(s.Status),
	}
}

// SlotsFromDomain converts a slice of domain TimeSlots
func SlotsFromDomain(slots []*domain.TimeSlot) []*SlotResponse {
	out := make([]*SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotFromDomain(s))
	}
	return out
}
