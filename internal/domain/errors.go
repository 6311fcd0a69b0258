package domain

import "errors"

// Domain errors
var (
	// Validation errors: deterministic given the inputs, never retried
	ErrDurationTooShort      = errors.New("event window is shorter than one slot")
	ErrNonConsecutiveSlots   = errors.New("slots must have consecutive indexes")
	ErrConsecutiveNotAllowed = errors.New("event does not allow consecutive slot bookings")
	ErrTooManySlots          = errors.New("slot count exceeds event maximum")
	ErrEventNotBookable      = errors.New("event is not open for booking")
	ErrCrossEventBooking     = errors.New("slots belong to different events")
	ErrInvalidInitiator      = errors.New("initiator does not match booking performer")
	ErrB2BNotAllowed         = errors.New("event does not allow b2b partnerships")
	ErrDuplicateSlotIDs      = errors.New("slot ids must be distinct")
	ErrInvalidSlotDuration   = errors.New("slot duration must be 20, 30 or 60 minutes")
	ErrInvalidEventWindow    = errors.New("event end time must be after start time")
	ErrInvalidMaxConsecutive = errors.New("max consecutive slots must be at least 1")

	// State conflict errors: well-formed request blocked by current state
	ErrSlotUnavailable         = errors.New("slot is no longer available")
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")
	ErrRequestNotPending       = errors.New("b2b request is not pending")
	ErrRequestNotAccepted      = errors.New("b2b request is not accepted")
	ErrPartnershipFull         = errors.New("booking already has the maximum number of partners")
	ErrAlreadyPartner          = errors.New("user is already an accepted partner on this booking")
	ErrDuplicatePendingRequest = errors.New("user already has a pending request on this booking")
	ErrBookingNotConfirmed     = errors.New("booking is not confirmed")
	ErrEventNotDraft           = errors.New("event has already been published")

	// Authorization errors
	ErrUnauthorized = errors.New("user is not permitted to perform this action")

	// Not found errors
	ErrEventNotFound   = errors.New("event not found")
	ErrSlotNotFound    = errors.New("slot not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrRequestNotFound = errors.New("b2b request not found")

	// Input errors
	ErrInvalidUserID    = errors.New("invalid user id")
	ErrInvalidEventID   = errors.New("invalid event id")
	ErrInvalidBookingID = errors.New("invalid booking id")
	ErrInvalidRequestID = errors.New("invalid request id")
	ErrNoSlotsRequested = errors.New("at least one slot id is required")
)

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrDurationTooShort) ||
		errors.Is(err, ErrNonConsecutiveSlots) ||
		errors.Is(err, ErrConsecutiveNotAllowed) ||
		errors.Is(err, ErrTooManySlots) ||
		errors.Is(err, ErrEventNotBookable) ||
		errors.Is(err, ErrCrossEventBooking) ||
		errors.Is(err, ErrInvalidInitiator) ||
		errors.Is(err, ErrB2BNotAllowed) ||
		errors.Is(err, ErrDuplicateSlotIDs) ||
		errors.Is(err, ErrInvalidSlotDuration) ||
		errors.Is(err, ErrInvalidEventWindow) ||
		errors.Is(err, ErrInvalidMaxConsecutive) ||
		errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrInvalidEventID) ||
		errors.Is(err, ErrInvalidBookingID) ||
		errors.Is(err, ErrInvalidRequestID) ||
		errors.Is(err, ErrNoSlotsRequested)
}

// IsConflictError checks if the error is a state conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrSlotUnavailable) ||
		errors.Is(err, ErrBookingAlreadyCancelled) ||
		errors.Is(err, ErrRequestNotPending) ||
		errors.Is(err, ErrRequestNotAccepted) ||
		errors.Is(err, ErrPartnershipFull) ||
		errors.Is(err, ErrAlreadyPartner) ||
		errors.Is(err, ErrDuplicatePendingRequest) ||
		errors.Is(err, ErrBookingNotConfirmed) ||
		errors.Is(err, ErrEventNotDraft)
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrSlotNotFound) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}

// IsUnauthorizedError checks if the error is an authorization error
func IsUnauthorizedError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
