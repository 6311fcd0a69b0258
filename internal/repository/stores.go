package repository

import (
	"context"
	"time"

	"github.com/slotstage/backend/internal/domain"
)

// EventStore defines persistence operations for events and their slot plans
type EventStore interface {
	// Create inserts a draft event
	Create(ctx context.Context, event *domain.Event) error

	// GetByID retrieves an event by its ID
	GetByID(ctx context.Context, id string) (*domain.Event, error)

	// Publish transitions a draft event to published and bulk-inserts its
	// generated slots in the same transaction. Returns ErrEventNotDraft if
	// the event was already published.
	Publish(ctx context.Context, eventID string, slots []*domain.TimeSlot) error

	// ListByHost retrieves events created by a host
	ListByHost(ctx context.Context, hostID string, limit, offset int) ([]*domain.Event, error)
}

// SlotStore defines read operations for time slots. Slot status is mutated
// only through BookingStore's transactional claim and release.
type SlotStore interface {
	// GetByIDs retrieves slots by ID, in no particular order
	GetByIDs(ctx context.Context, ids []string) ([]*domain.TimeSlot, error)

	// ListByEvent retrieves an event's slots ordered by slot index
	ListByEvent(ctx context.Context, eventID string) ([]*domain.TimeSlot, error)
}

// CancelBookingResult carries everything a booking cancellation changed
type CancelBookingResult struct {
	Booking           *domain.SlotBooking
	CancelledRequests []*domain.B2BRequest
}

// BookingStore defines persistence operations for booking groups and slot
// bookings, including the two transactional state changes of the allocator.
type BookingStore interface {
	// ClaimSlots commits one claim batch: every slot flips available→booked
	// via a conditional update and the group plus its bookings are inserted,
	// all in one transaction. If any slot is no longer available the whole
	// batch rolls back and ErrSlotUnavailable is returned.
	ClaimSlots(ctx context.Context, group *domain.BookingGroup, bookings []*domain.SlotBooking) error

	// CancelBooking flips one confirmed booking to cancelled, releases its
	// slot back to available and cancels the booking's pending B2B requests,
	// all in one transaction. Returns ErrBookingAlreadyCancelled on repeat
	// calls and performs no further mutation.
	CancelBooking(ctx context.Context, bookingID string) (*CancelBookingResult, error)

	// GetByID retrieves a booking by its ID
	GetByID(ctx context.Context, id string) (*domain.SlotBooking, error)

	// ListByEvent retrieves an event's bookings ordered by slot index
	ListByEvent(ctx context.Context, eventID string) ([]*domain.SlotBooking, error)

	// ListByPerformer retrieves a performer's bookings, newest group first
	ListByPerformer(ctx context.Context, performerID string, limit, offset int) ([]*domain.SlotBooking, error)
}

// B2BRequestStore defines persistence operations for partnership requests
type B2BRequestStore interface {
	// Create inserts a pending request
	Create(ctx context.Context, req *domain.B2BRequest) error

	// GetByID retrieves a request by its ID
	GetByID(ctx context.Context, id string) (*domain.B2BRequest, error)

	// Transition moves a request from one status to another with a
	// conditional update. A zero-row update means the request left the
	// expected state first; the stale-state error to surface is the
	// caller's choice via conflictErr.
	Transition(ctx context.Context, id string, from, to domain.B2BRequestStatus, conflictErr error) (*domain.B2BRequest, error)

	// Accept moves a pending request to accepted with a conditional update
	// that also requires the booking to hold fewer than maxPartners accepted
	// requests, so concurrent accepts cannot overfill a partnership. Returns
	// ErrRequestNotPending if the request left pending first and
	// ErrPartnershipFull if the cap is already reached.
	Accept(ctx context.Context, id string, maxPartners int) (*domain.B2BRequest, error)

	// ListByBooking retrieves all requests attached to a booking
	ListByBooking(ctx context.Context, bookingID string) ([]*domain.B2BRequest, error)

	// CountAccepted counts accepted requests for a booking
	CountAccepted(ctx context.Context, bookingID string) (int, error)
}

// AvailabilityCache caches per-event available slot IDs so lineup reads
// skip Postgres on the hot path. Entries are invalidated on every claim
// and release; a miss falls through to the slot store.
type AvailabilityCache interface {
	// GetAvailableSlotIDs returns the cached set and whether it was present
	GetAvailableSlotIDs(ctx context.Context, eventID string) ([]string, bool, error)

	// SetAvailableSlotIDs stores the set with a TTL
	SetAvailableSlotIDs(ctx context.Context, eventID string, slotIDs []string, ttl time.Duration) error

	// Invalidate drops the cached set for an event
	Invalidate(ctx context.Context, eventID string) error
}
