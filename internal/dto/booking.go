package dto

import (
	"time"

	"github.com/slotstage/backend/internal/domain"
)

// BookSlotsRequest represents a performer's claim on one or more slots
type BookSlotsRequest struct {
	SlotIDs []string `json:"slot_ids" binding:"required,min=1"`
}

// BookingResponse represents a single slot booking in API responses
type BookingResponse struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	SlotID      string    `json:"slot_id"`
	EventID     string    `json:"event_id"`
	PerformerID string    `json:"performer_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BookSlotsResponse represents the result of a claim batch
type BookSlotsResponse struct {
	GroupID  string             `json:"group_id"`
	EventID  string             `json:"event_id"`
	Bookings []*BookingResponse `json:"bookings"`
}

// CancelBookingResponse represents the result of a cancellation
type CancelBookingResponse struct {
	BookingID         string `json:"booking_id"`
	Status            string `json:"status"`
	CancelledRequests int    `json:"cancelled_requests"`
}

// BookingFromDomain converts a domain SlotBooking to BookingResponse
func BookingFromDomain(b *domain.SlotBooking) *BookingResponse {
	return &BookingResponse{
		ID:          b.ID,
		GroupID:     b.GroupID,
		SlotID:      b.SlotID,
		EventID:     b.EventID,
		PerformerID: b.PerformerID,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// BookingsFromDomain converts a slice of domain SlotBookings
func BookingsFromDomain(bookings []*domain.SlotBooking) []*BookingResponse {
	out := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingFromDomain(b))
	}
	return out
}
