package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/slotstage/backend/internal/domain"
	"github.com/slotstage/backend/internal/dto"
	"github.com/slotstage/backend/internal/metrics"
	"github.com/slotstage/backend/internal/repository"
	"github.com/slotstage/backend/pkg/logger"
	"github.com/slotstage/backend/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// AllocatorService validates and commits slot claims and cancellations.
// It owns the race-free claim of a shared slot: the availability check and
// the booked flip happen in one conditional update per slot, and the whole
// batch commits or rolls back as a unit.
type AllocatorService interface {
	// BookSlots claims a batch of slots for a performer
	BookSlots(ctx context.Context, performerID string, req *dto.BookSlotsRequest) (*dto.BookSlotsResponse, error)

	// CancelBooking cancels one confirmed booking, releases its slot and
	// cancels the booking's pending partnership requests
	CancelBooking(ctx context.Context, bookingID, actingUserID string) (*dto.CancelBookingResponse, error)

	// GetBooking retrieves a booking by ID
	GetBooking(ctx context.Context, bookingID string) (*dto.BookingResponse, error)
}

// allocatorService implements AllocatorService
type allocatorService struct {
	eventRepo      repository.EventStore
	slotRepo       repository.SlotStore
	bookingRepo    repository.BookingStore
	cache          repository.AvailabilityCache
	eventPublisher EventPublisher
}

// NewAllocatorService creates a new allocator service
func NewAllocatorService(
	eventRepo repository.EventStore,
	slotRepo repository.SlotStore,
	bookingRepo repository.BookingStore,
	cache repository.AvailabilityCache,
	eventPublisher EventPublisher,
) AllocatorService {
	if eventPublisher == nil {
		eventPublisher = NewNoOpEventPublisher()
	}
	return &allocatorService{
		eventRepo:      eventRepo,
		slotRepo:       slotRepo,
		bookingRepo:    bookingRepo,
		cache:          cache,
		eventPublisher: eventPublisher,
	}
}

// BookSlots claims a batch of slots for a performer. Preconditions are
// checked in a fixed order so each failure mode has one distinct signal.
// The availability check here is advisory: the conditional updates inside
// ClaimSlots are what make concurrent claims on the same slot safe.
func (s *allocatorService) BookSlots(ctx context.Context, performerID string, req *dto.BookSlotsRequest) (*dto.BookSlotsResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.allocator.book_slots")
	defer span.End()

	if performerID == "" {
		span.SetStatus(codes.Error, "invalid performer_id")
		return nil, domain.ErrInvalidUserID
	}
	if req == nil || len(req.SlotIDs) == 0 {
		span.SetStatus(codes.Error, "no slots requested")
		return nil, domain.ErrNoSlotsRequested
	}

	seen := make(map[string]bool, len(req.SlotIDs))
	for _, id := range req.SlotIDs {
		if seen[id] {
			span.SetStatus(codes.Error, "duplicate slot ids")
			metrics.RecordClaimRejection(ctx, "duplicate_slots")
			return nil, domain.ErrDuplicateSlotIDs
		}
		seen[id] = true
	}

	span.SetAttributes(
		attribute.String("performer_id", performerID),
		attribute.Int("slot_count", len(req.SlotIDs)),
	)

	slots, err := s.slotRepo.GetByIDs(ctx, req.SlotIDs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(slots) != len(req.SlotIDs) {
		span.SetStatus(codes.Error, "slot not found")
		metrics.RecordClaimRejection(ctx, "not_found")
		return nil, domain.ErrSlotNotFound
	}

	eventID := slots[0].EventID
	for _, slot := range slots[1:] {
		if slot.EventID != eventID {
			span.SetStatus(codes.Error, "cross event")
			metrics.RecordClaimRejection(ctx, "cross_event")
			return nil, domain.ErrCrossEventBooking
		}
	}
	span.SetAttributes(attribute.String("event_id", eventID))

	for _, slot := range slots {
		if !slot.IsAvailable() {
			span.SetStatus(codes.Error, "slot unavailable")
			metrics.RecordClaimRejection(ctx, "unavailable")
			return nil, domain.ErrSlotUnavailable
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].SlotIndex < slots[j].SlotIndex
	})
	for i := 1; i < len(slots); i++ {
		if slots[i].SlotIndex != slots[i-1].SlotIndex+1 {
			span.SetStatus(codes.Error, "non consecutive")
			metrics.RecordClaimRejection(ctx, "non_consecutive")
			return nil, domain.ErrNonConsecutiveSlots
		}
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !event.IsBookable() {
		span.SetStatus(codes.Error, "event not bookable")
		metrics.RecordClaimRejection(ctx, "event_not_bookable")
		return nil, domain.ErrEventNotBookable
	}
	if len(slots) > 1 && !event.AllowConsecutiveSlots {
		span.SetStatus(codes.Error, "consecutive not allowed")
		metrics.RecordClaimRejection(ctx, "consecutive_not_allowed")
		return nil, domain.ErrConsecutiveNotAllowed
	}
	if len(slots) > event.MaxConsecutiveSlots {
		span.SetStatus(codes.Error, "too many slots")
		metrics.RecordClaimRejection(ctx, "too_many_slots")
		return nil, domain.ErrTooManySlots
	}

	now := time.Now()
	group := &domain.BookingGroup{
		ID:          uuid.New().String(),
		EventID:     eventID,
		PerformerID: performerID,
		CreatedAt:   now,
	}
	bookings := make([]*domain.SlotBooking, 0, len(slots))
	for _, slot := range slots {
		bookings = append(bookings, &domain.SlotBooking{
			ID:          uuid.New().String(),
			GroupID:     group.ID,
			SlotID:      slot.ID,
			EventID:     eventID,
			PerformerID: performerID,
			Status:      domain.BookingStatusConfirmed,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.bookingRepo.ClaimSlots(ctx, group, bookings); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if domain.IsConflictError(err) {
			metrics.RecordClaimRejection(ctx, "lost_race")
		}
		return nil, err
	}

	s.invalidateAvailability(ctx, eventID)
	metrics.RecordClaim(ctx, eventID, len(bookings))

	if err := s.eventPublisher.PublishBookingCreated(ctx, group, bookings); err != nil {
		logger.Get().Warn("failed to publish booking created message",
			zap.String("group_id", group.ID),
			zap.Error(err),
		)
	}

	span.SetAttributes(attribute.String("group_id", group.ID))
	span.SetStatus(codes.Ok, "")
	return &dto.BookSlotsResponse{
		GroupID:  group.ID,
		EventID:  eventID,
		Bookings: dto.BookingsFromDomain(bookings),
	}, nil
}

// CancelBooking cancels one confirmed booking. The slot release and the
// cascade into pending partnership requests commit in one transaction.
// A repeat call returns ErrBookingAlreadyCancelled and changes nothing.
func (s *allocatorService) CancelBooking(ctx context.Context, bookingID, actingUserID string) (*dto.CancelBookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.allocator.cancel_booking")
	defer span.End()

	if bookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}
	if actingUserID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}

	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("user_id", actingUserID),
	)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !booking.BelongsToPerformer(actingUserID) {
		span.SetStatus(codes.Error, "not the performer")
		return nil, domain.ErrUnauthorized
	}

	result, err := s.bookingRepo.CancelBooking(ctx, bookingID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.invalidateAvailability(ctx, result.Booking.EventID)
	metrics.RecordCancellation(ctx, result.Booking.EventID)

	if err := s.eventPublisher.PublishBookingCancelled(ctx, result.Booking); err != nil {
		logger.Get().Warn("failed to publish booking cancelled message",
			zap.String("booking_id", bookingID),
			zap.Error(err),
		)
	}

	span.SetAttributes(attribute.Int("cancelled_requests", len(result.CancelledRequests)))
	span.SetStatus(codes.Ok, "")
	return &dto.CancelBookingResponse{
		BookingID:         result.Booking.ID,
		Status:            string(result.Booking.Status),
		CancelledRequests: len(result.CancelledRequests),
	}, nil
}

// GetBooking retrieves a booking by ID
func (s *allocatorService) GetBooking(ctx context.Context, bookingID string) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.allocator.get_booking")
	defer span.End()

	if bookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.BookingFromDomain(booking), nil
}

func (s *allocatorService) invalidateAvailability(ctx context.Context, eventID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, eventID); err != nil {
		logger.Get().Warn("failed to invalidate availability cache",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
	}
}
