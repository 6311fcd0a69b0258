package domain

import "time"

// MessageType identifies a lifecycle message published to the broker
type MessageType string

const (
	MessageEventPublished      MessageType = "event.published"
	MessageBookingCreated      MessageType = "booking.created"
	MessageBookingCancelled    MessageType = "booking.cancelled"
	MessagePartnershipAccepted MessageType = "partnership.accepted"
)

// Message is the envelope for broker-published lifecycle messages.
// EventID is the event the change belongs to and doubles as the
// partition key, so consumers see per-event ordering.
type Message struct {
	ID          string      `json:"id"`
	Type        MessageType `json:"type"`
	EventID     string      `json:"event_id"`
	GroupID     string      `json:"group_id,omitempty"`
	BookingID   string      `json:"booking_id,omitempty"`
	PerformerID string      `json:"performer_id,omitempty"`
	PartnerID   string      `json:"partner_id,omitempty"`
	SlotCount   int         `json:"slot_count,omitempty"`
	OccurredAt  time.Time   `json:"occurred_at"`
}

// Key returns the partition key for the message
func (m *Message) Key() string {
	return m.EventID
}
