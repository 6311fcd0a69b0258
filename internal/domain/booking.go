package domain

import "time"

// BookingStatus represents the state of a slot booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingGroup correlates the SlotBooking rows created by one multi-slot
// claim. All member bookings share the group's performer and event and
// cover strictly consecutive slot indexes.
type BookingGroup struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	PerformerID string    `json:"performer_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// SlotBooking is a performer's claim on one slot. At most one confirmed
// booking exists per slot at any time; cancelled rows are kept for history.
type SlotBooking struct {
	ID          string        `json:"id"`
	GroupID     string        `json:"group_id"`
	SlotID      string        `json:"slot_id"`
	EventID     string        `json:"event_id"`
	PerformerID string        `json:"performer_id"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// IsConfirmed reports whether the booking currently holds its slot
func (b *SlotBooking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// IsCancelled reports whether the booking has been cancelled
func (b *SlotBooking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// BelongsToPerformer checks booking ownership
func (b *SlotBooking) BelongsToPerformer(userID string) bool {
	return b.PerformerID == userID
}
