package service

import (
	"context"
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
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// PartnershipService manages the back-to-back request state machine on top
// of confirmed bookings. Requests move pending → accepted/declined/cancelled;
// all three are terminal.
type PartnershipService interface {
	// CreateRequest opens a pending request on a confirmed booking
	CreateRequest(ctx context.Context, actingUserID string, req *dto.CreateB2BRequestRequest) (*dto.B2BRequestResponse, error)

	// Respond accepts or declines a pending request; only the requestee may act
	Respond(ctx context.Context, requestID, actingUserID string, accept bool) (*dto.B2BRequestResponse, error)

	// Cancel withdraws a pending request; only the requester may act
	Cancel(ctx context.Context, requestID, actingUserID string) (*dto.B2BRequestResponse, error)

	// Leave ends an accepted partnership; either party may act
	Leave(ctx context.Context, requestID, actingUserID string) (*dto.B2BRequestResponse, error)

	// PartnersForBooking returns the accepted partners of a booking
	PartnersForBooking(ctx context.Context, bookingID string) (*dto.PartnersResponse, error)
}

// partnershipService implements PartnershipService
type partnershipService struct {
	bookingRepo    repository.BookingStore
	eventRepo      repository.EventStore
	requestRepo    repository.B2BRequestStore
	eventPublisher EventPublisher
}

// NewPartnershipService creates a new partnership service
func NewPartnershipService(
	bookingRepo repository.BookingStore,
	eventRepo repository.EventStore,
	requestRepo repository.B2BRequestStore,
	eventPublisher EventPublisher,
) PartnershipService {
	if eventPublisher == nil {
		eventPublisher = NewNoOpEventPublisher()
	}
	return &partnershipService{
		bookingRepo:    bookingRepo,
		eventRepo:      eventRepo,
		requestRepo:    requestRepo,
		eventPublisher: eventPublisher,
	}
}

// CreateRequest opens a pending request on a confirmed booking. The acting
// user is always the requester side: a booker invites someone onto their own
// booking, an outside performer asks the booking's performer to join.
func (s *partnershipService) CreateRequest(ctx context.Context, actingUserID string, req *dto.CreateB2BRequestRequest) (*dto.B2BRequestResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.partnership.create_request")
	defer span.End()

	if actingUserID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}
	if req == nil || req.BookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}
	if req.RequesteeID == "" {
		span.SetStatus(codes.Error, "invalid requestee_id")
		return nil, domain.ErrInvalidUserID
	}

	initiatedBy := domain.B2BInitiator(req.InitiatedBy)
	if initiatedBy != domain.InitiatedByBooker && initiatedBy != domain.InitiatedByRequester {
		span.SetStatus(codes.Error, "invalid initiator")
		return nil, domain.ErrInvalidInitiator
	}

	span.SetAttributes(
		attribute.String("booking_id", req.BookingID),
		attribute.String("user_id", actingUserID),
		attribute.String("initiated_by", req.InitiatedBy),
	)

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !booking.IsConfirmed() {
		span.SetStatus(codes.Error, "booking not confirmed")
		return nil, domain.ErrBookingNotConfirmed
	}

	event, err := s.eventRepo.GetByID(ctx, booking.EventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !event.AllowB2B {
		span.SetStatus(codes.Error, "b2b not allowed")
		return nil, domain.ErrB2BNotAllowed
	}

	// Role check: a booker-initiated request must come from the booking's
	// performer; a requester-initiated one must target the performer.
	switch initiatedBy {
	case domain.InitiatedByBooker:
		if actingUserID != booking.PerformerID {
			span.SetStatus(codes.Error, "invalid initiator")
			return nil, domain.ErrInvalidInitiator
		}
	case domain.InitiatedByRequester:
		if req.RequesteeID != booking.PerformerID {
			span.SetStatus(codes.Error, "invalid initiator")
			return nil, domain.ErrInvalidInitiator
		}
	}

	accepted, err := s.requestRepo.CountAccepted(ctx, booking.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if accepted >= domain.MaxAcceptedPartners {
		span.SetStatus(codes.Error, "partnership full")
		return nil, domain.ErrPartnershipFull
	}

	request := &domain.B2BRequest{
		ID:          uuid.New().String(),
		BookingID:   booking.ID,
		RequesterID: actingUserID,
		RequesteeID: req.RequesteeID,
		InitiatedBy: initiatedBy,
		Status:      domain.B2BStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	target := request.PartnerID(booking.PerformerID)
	existing, err := s.requestRepo.ListByBooking(ctx, booking.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	for _, r := range existing {
		if r.IsAccepted() && r.PartnerID(booking.PerformerID) == target {
			span.SetStatus(codes.Error, "already partner")
			return nil, domain.ErrAlreadyPartner
		}
		if r.IsPending() && r.PartnerID(booking.PerformerID) == target {
			span.SetStatus(codes.Error, "duplicate pending")
			return nil, domain.ErrDuplicatePendingRequest
		}
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.RecordRequestCreated(ctx, req.InitiatedBy)

	span.SetAttributes(attribute.String("request_id", request.ID))
	span.SetStatus(codes.Ok, "")
	return dto.B2BRequestFromDomain(request), nil
}

// Respond accepts or declines a pending request
func (s *partnershipService) Respond(ctx context.Context, requestID, actingUserID string, accept bool) (*dto.B2BRequestResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.partnership.respond")
	defer span.End()

	request, err := s.loadRequest(ctx, span, requestID, actingUserID)
	if err != nil {
		return nil, err
	}
	if !request.IsPending() {
		span.SetStatus(codes.Error, "not pending")
		return nil, domain.ErrRequestNotPending
	}
	if actingUserID != request.RequesteeID {
		span.SetStatus(codes.Error, "not the requestee")
		return nil, domain.ErrUnauthorized
	}

	var updated *domain.B2BRequest
	if accept {
		// The cap check here is advisory; the conditional update inside
		// Accept is what keeps concurrent accepts from overfilling.
		accepted, cerr := s.requestRepo.CountAccepted(ctx, request.BookingID)
		if cerr != nil {
			span.RecordError(cerr)
			span.SetStatus(codes.Error, cerr.Error())
			return nil, cerr
		}
		if accepted >= domain.MaxAcceptedPartners {
			span.SetStatus(codes.Error, "partnership full")
			return nil, domain.ErrPartnershipFull
		}
		updated, err = s.requestRepo.Accept(ctx, requestID, domain.MaxAcceptedPartners)
	} else {
		updated, err = s.requestRepo.Transition(ctx, requestID, domain.B2BStatusPending, domain.B2BStatusDeclined, domain.ErrRequestNotPending)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.RecordRequestResolved(ctx, accept)

	if accept {
		if booking, berr := s.bookingRepo.GetByID(ctx, updated.BookingID); berr == nil {
			if perr := s.eventPublisher.PublishPartnershipAccepted(ctx, updated, booking); perr != nil {
				logger.Get().Warn("failed to publish partnership accepted message",
					zap.String("request_id", requestID),
					zap.Error(perr),
				)
			}
		}
	}

	span.SetStatus(codes.Ok, "")
	return dto.B2BRequestFromDomain(updated), nil
}

// Cancel withdraws a pending request
func (s *partnershipService) Cancel(ctx context.Context, requestID, actingUserID string) (*dto.B2BRequestResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.partnership.cancel")
	defer span.End()

	request, err := s.loadRequest(ctx, span, requestID, actingUserID)
	if err != nil {
		return nil, err
	}
	if !request.IsPending() {
		span.SetStatus(codes.Error, "not pending")
		return nil, domain.ErrRequestNotPending
	}
	if actingUserID != request.RequesterID {
		span.SetStatus(codes.Error, "not the requester")
		return nil, domain.ErrUnauthorized
	}

	updated, err := s.requestRepo.Transition(ctx, requestID, domain.B2BStatusPending, domain.B2BStatusCancelled, domain.ErrRequestNotPending)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.B2BRequestFromDomain(updated), nil
}

// Leave ends an accepted partnership. The booking itself is untouched; the
// departing partner just stops appearing in partnership reads.
func (s *partnershipService) Leave(ctx context.Context, requestID, actingUserID string) (*dto.B2BRequestResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.partnership.leave")
	defer span.End()

	request, err := s.loadRequest(ctx, span, requestID, actingUserID)
	if err != nil {
		return nil, err
	}
	if !request.IsAccepted() {
		span.SetStatus(codes.Error, "not accepted")
		return nil, domain.ErrRequestNotAccepted
	}
	if !request.Involves(actingUserID) {
		span.SetStatus(codes.Error, "not a party")
		return nil, domain.ErrUnauthorized
	}

	updated, err := s.requestRepo.Transition(ctx, requestID, domain.B2BStatusAccepted, domain.B2BStatusCancelled, domain.ErrRequestNotAccepted)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.B2BRequestFromDomain(updated), nil
}

// PartnersForBooking returns the accepted partners of a booking. A booking
// that is no longer confirmed has no active partnership, so the set is
// empty even if accepted request rows remain.
func (s *partnershipService) PartnersForBooking(ctx context.Context, bookingID string) (*dto.PartnersResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.partnership.partners_for_booking")
	defer span.End()

	if bookingID == "" {
		span.SetStatus(codes.Error, "invalid booking_id")
		return nil, domain.ErrInvalidBookingID
	}

	span.SetAttributes(attribute.String("booking_id", bookingID))

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	partners := []string{}
	if booking.IsConfirmed() {
		requests, err := s.requestRepo.ListByBooking(ctx, bookingID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		seen := make(map[string]bool)
		for _, r := range requests {
			if !r.IsAccepted() {
				continue
			}
			partner := r.PartnerID(booking.PerformerID)
			if !seen[partner] {
				seen[partner] = true
				partners = append(partners, partner)
			}
		}
	}

	span.SetAttributes(attribute.Int("count", len(partners)))
	span.SetStatus(codes.Ok, "")
	return &dto.PartnersResponse{
		BookingID: bookingID,
		Partners:  partners,
	}, nil
}

func (s *partnershipService) loadRequest(ctx context.Context, span trace.Span, requestID, actingUserID string) (*domain.B2BRequest, error) {
	if requestID == "" {
		span.SetStatus(codes.Error, "invalid request_id")
		return nil, domain.ErrInvalidRequestID
	}
	if actingUserID == "" {
		span.SetStatus(codes.Error, "invalid user_id")
		return nil, domain.ErrInvalidUserID
	}

	span.SetAttributes(
		attribute.String("request_id", requestID),
		attribute.String("user_id", actingUserID),
	)

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return request, nil
}
