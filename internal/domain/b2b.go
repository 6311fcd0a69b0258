package domain

import "time"

// B2BRequestStatus represents the state of a back-to-back partnership request.
// Pending is the only non-terminal state.
type B2BRequestStatus string

const (
	B2BStatusPending   B2BRequestStatus = "pending"
	B2BStatusAccepted  B2BRequestStatus = "accepted"
	B2BStatusDeclined  B2BRequestStatus = "declined"
	B2BStatusCancelled B2BRequestStatus = "cancelled"
)

// B2BInitiator records which side of the booking opened the request
type B2BInitiator string

const (
	// InitiatedByBooker means the booking's performer invited someone
	InitiatedByBooker B2BInitiator = "booker"
	// InitiatedByRequester means an outside performer asked to join
	InitiatedByRequester B2BInitiator = "requester"
)

// MaxAcceptedPartners is the cap on accepted partnerships per booking
// (three people on one slot: the original performer plus two partners).
const MaxAcceptedPartners = 2

// B2BRequest is a request to add a partner to an existing confirmed booking
type B2BRequest struct {
	ID          string           `json:"id"`
	BookingID   string           `json:"booking_id"`
	RequesterID string           `json:"requester_id"`
	RequesteeID string           `json:"requestee_id"`
	InitiatedBy B2BInitiator     `json:"initiated_by"`
	Status      B2BRequestStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// IsPending reports whether the request can still be responded to
func (r *B2BRequest) IsPending() bool {
	return r.Status == B2BStatusPending
}

// IsAccepted reports whether the request is an active partnership
func (r *B2BRequest) IsAccepted() bool {
	return r.Status == B2BStatusAccepted
}

// PartnerID returns the non-original-performer side of the request, given
// the performer who owns the booking.
func (r *B2BRequest) PartnerID(bookingPerformerID string) string {
	if r.RequesterID == bookingPerformerID {
		return r.RequesteeID
	}
	return r.RequesterID
}

// Involves reports whether the user is one of the two parties of the request
func (r *B2BRequest) Involves(userID string) bool {
	return r.RequesterID == userID || r.RequesteeID == userID
}
