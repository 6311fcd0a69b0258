package dto

import "time"

// LineupEntryResponse is one performer's run of consecutive slots in an
// event lineup, with any accepted partners.
type LineupEntryResponse struct {
	GroupID     string    `json:"group_id"`
	PerformerID string    `json:"performer_id"`
	Partners    []string  `json:"partners"`
	SlotIndexes []int     `json:"slot_indexes"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
}

// EventLineupResponse is the caller-facing summary of an event's bookings
type EventLineupResponse struct {
	EventID string                 `json:"event_id"`
	Entries []*LineupEntryResponse `json:"entries"`
}

// AvailableSlotsResponse lists an event's currently claimable slots
type AvailableSlotsResponse struct {
	EventID string          `json:"event_id"`
	Slots   []*SlotResponse `json:"slots"`
}

// PerformerRunResponse is one claim batch as seen by its performer
type PerformerRunResponse struct {
	GroupID   string             `json:"group_id"`
	EventID   string             `json:"event_id"`
	SlotCount int                `json:"slot_count"`
	Status    string             `json:"status"`
	Bookings  []*BookingResponse `json:"bookings"`
}

// PerformerBookingsResponse lists a performer's runs, newest first
type PerformerBookingsResponse struct {
	PerformerID string                  `json:"performer_id"`
	Runs        []*PerformerRunResponse `json:"runs"`
}
