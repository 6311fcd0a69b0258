package service

import (
	"context"
	"sort"
	"time"

	"github.com/slotstage/backend/internal/domain"
	"github.com/slotstage/backend/internal/dto"
	"github.com/slotstage/backend/internal/repository"
	"github.com/slotstage/backend/pkg/logger"
	"github.com/slotstage/backend/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// ViewService aggregates bookings and partnership state into caller-facing
// read models. Read only: nothing here mutates slots, bookings or requests.
type ViewService interface {
	// EventLineup returns an event's booked runs with partners
	EventLineup(ctx context.Context, eventID string) (*dto.EventLineupResponse, error)

	// AvailableSlots returns an event's currently claimable slots
	AvailableSlots(ctx context.Context, eventID string) (*dto.AvailableSlotsResponse, error)

	// PerformerBookings returns a performer's claim batches, newest first
	PerformerBookings(ctx context.Context, performerID string, limit, offset int) (*dto.PerformerBookingsResponse, error)
}

// ViewServiceConfig contains tunables for the read models
type ViewServiceConfig struct {
	// AvailabilityCacheTTL bounds staleness of the available-slot cache
	AvailabilityCacheTTL time.Duration
	// CancelledVisibility is how long cancelled bookings stay visible
	CancelledVisibility time.Duration
}

// viewService implements ViewService
type viewService struct {
	eventRepo            repository.EventStore
	slotRepo             repository.SlotStore
	bookingRepo          repository.BookingStore
	requestRepo          repository.B2BRequestStore
	cache                repository.AvailabilityCache
	availabilityCacheTTL time.Duration
	cancelledVisibility  time.Duration
}

// NewViewService creates a new view service
func NewViewService(
	eventRepo repository.EventStore,
	slotRepo repository.SlotStore,
	bookingRepo repository.BookingStore,
	requestRepo repository.B2BRequestStore,
	cache repository.AvailabilityCache,
	cfg *ViewServiceConfig,
) ViewService {
	cacheTTL := 30 * time.Second
	visibility := time.Hour
	if cfg != nil {
		if cfg.AvailabilityCacheTTL > 0 {
			cacheTTL = cfg.AvailabilityCacheTTL
		}
		if cfg.CancelledVisibility > 0 {
			visibility = cfg.CancelledVisibility
		}
	}
	return &viewService{
		eventRepo:            eventRepo,
		slotRepo:             slotRepo,
		bookingRepo:          bookingRepo,
		requestRepo:          requestRepo,
		cache:                cache,
		availabilityCacheTTL: cacheTTL,
		cancelledVisibility:  visibility,
	}
}

// EventLineup returns an event's booked runs with partners. Cancelled
// bookings older than the visibility window are filtered out at read time;
// there is no background sweep.
func (s *viewService) EventLineup(ctx context.Context, eventID string) (*dto.EventLineupResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.view.event_lineup")
	defer span.End()

	if eventID == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}
	span.SetAttributes(attribute.String("event_id", eventID))

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	slots, err := s.slotRepo.ListByEvent(ctx, event.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	slotByID := make(map[string]*domain.TimeSlot, len(slots))
	for _, slot := range slots {
		slotByID[slot.ID] = slot
	}

	bookings, err := s.bookingRepo.ListByEvent(ctx, event.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	bookings = s.visibleBookings(bookings)

	// Bookings arrive ordered by slot index, so group members stay in run order
	groupOrder := []string{}
	grouped := make(map[string][]*domain.SlotBooking)
	for _, b := range bookings {
		if _, ok := grouped[b.GroupID]; !ok {
			groupOrder = append(groupOrder, b.GroupID)
		}
		grouped[b.GroupID] = append(grouped[b.GroupID], b)
	}

	entries := make([]*dto.LineupEntryResponse, 0, len(groupOrder))
	for _, groupID := range groupOrder {
		members := grouped[groupID]

		entry := &dto.LineupEntryResponse{
			GroupID:     groupID,
			PerformerID: members[0].PerformerID,
			Partners:    []string{},
			Status:      string(domain.BookingStatusCancelled),
		}

		for _, b := range members {
			slot, ok := slotByID[b.SlotID]
			if !ok {
				continue
			}
			entry.SlotIndexes = append(entry.SlotIndexes, slot.SlotIndex)
			if entry.StartTime.IsZero() || slot.StartTime.Before(entry.StartTime) {
				entry.StartTime = slot.StartTime
			}
			if slot.EndTime.After(entry.EndTime) {
				entry.EndTime = slot.EndTime
			}
			if b.IsConfirmed() {
				entry.Status = string(domain.BookingStatusConfirmed)
			}
		}

		entry.Partners = s.partnersForGroup(ctx, members)
		entries = append(entries, entry)
	}

	span.SetAttributes(attribute.Int("entry_count", len(entries)))
	span.SetStatus(codes.Ok, "")
	return &dto.EventLineupResponse{
		EventID: event.ID,
		Entries: entries,
	}, nil
}

// AvailableSlots returns an event's currently claimable slots, served from
// the availability cache when warm.
func (s *viewService) AvailableSlots(ctx context.Context, eventID string) (*dto.AvailableSlotsResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.view.available_slots")
	defer span.End()

	if eventID == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}
	span.SetAttributes(attribute.String("event_id", eventID))

	if s.cache != nil {
		ids, hit, err := s.cache.GetAvailableSlotIDs(ctx, eventID)
		if err != nil {
			logger.Get().Warn("availability cache read failed",
				zap.String("event_id", eventID),
				zap.Error(err),
			)
		}
		if hit {
			slots, err := s.slotRepo.GetByIDs(ctx, ids)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			sort.Slice(slots, func(i, j int) bool {
				return slots[i].SlotIndex < slots[j].SlotIndex
			})
			span.SetAttributes(
				attribute.Bool("cache_hit", true),
				attribute.Int("count", len(slots)),
			)
			span.SetStatus(codes.Ok, "")
			return &dto.AvailableSlotsResponse{
				EventID: eventID,
				Slots:   dto.SlotsFromDomain(slots),
			}, nil
		}
	}

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	all, err := s.slotRepo.ListByEvent(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	available := make([]*domain.TimeSlot, 0, len(all))
	ids := make([]string, 0, len(all))
	for _, slot := range all {
		if slot.IsAvailable() {
			available = append(available, slot)
			ids = append(ids, slot.ID)
		}
	}

	if s.cache != nil {
		if err := s.cache.SetAvailableSlotIDs(ctx, eventID, ids, s.availabilityCacheTTL); err != nil {
			logger.Get().Warn("availability cache write failed",
				zap.String("event_id", eventID),
				zap.Error(err),
			)
		}
	}

	span.SetAttributes(
		attribute.Bool("cache_hit", false),
		attribute.Int("count", len(available)),
	)
	span.SetStatus(codes.Ok, "")
	return &dto.AvailableSlotsResponse{
		EventID: eventID,
		Slots:   dto.SlotsFromDomain(available),
	}, nil
}

// PerformerBookings returns a performer's claim batches, newest first
func (s *viewService) PerformerBookings(ctx context.Context, performerID string, limit, offset int) (*dto.PerformerBookingsResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.view.performer_bookings")
	defer span.End()

	if performerID == "" {
		span.SetStatus(codes.Error, "invalid performer_id")
		return nil, domain.ErrInvalidUserID
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	span.SetAttributes(attribute.String("performer_id", performerID))

	bookings, err := s.bookingRepo.ListByPerformer(ctx, performerID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	bookings = s.visibleBookings(bookings)

	groupOrder := []string{}
	grouped := make(map[string][]*domain.SlotBooking)
	for _, b := range bookings {
		if _, ok := grouped[b.GroupID]; !ok {
			groupOrder = append(groupOrder, b.GroupID)
		}
		grouped[b.GroupID] = append(grouped[b.GroupID], b)
	}

	runs := make([]*dto.PerformerRunResponse, 0, len(groupOrder))
	for _, groupID := range groupOrder {
		members := grouped[groupID]
		status := domain.BookingStatusCancelled
		for _, b := range members {
			if b.IsConfirmed() {
				status = domain.BookingStatusConfirmed
				break
			}
		}
		runs = append(runs, &dto.PerformerRunResponse{
			GroupID:   groupID,
			EventID:   members[0].EventID,
			SlotCount: len(members),
			Status:    string(status),
			Bookings:  dto.BookingsFromDomain(members),
		})
	}

	span.SetAttributes(attribute.Int("run_count", len(runs)))
	span.SetStatus(codes.Ok, "")
	return &dto.PerformerBookingsResponse{
		PerformerID: performerID,
		Runs:        runs,
	}, nil
}

// visibleBookings drops cancelled bookings older than the visibility window
func (s *viewService) visibleBookings(bookings []*domain.SlotBooking) []*domain.SlotBooking {
	cutoff := time.Now().Add(-s.cancelledVisibility)
	visible := make([]*domain.SlotBooking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsCancelled() && b.UpdatedAt.Before(cutoff) {
			continue
		}
		visible = append(visible, b)
	}
	return visible
}

// partnersForGroup unions accepted partners across a group's confirmed
// bookings. Partnerships attach per booking, not per group.
func (s *viewService) partnersForGroup(ctx context.Context, members []*domain.SlotBooking) []string {
	partners := []string{}
	seen := make(map[string]bool)
	for _, b := range members {
		if !b.IsConfirmed() {
			continue
		}
		requests, err := s.requestRepo.ListByBooking(ctx, b.ID)
		if err != nil {
			logger.Get().Warn("failed to load partnership requests for lineup",
				zap.String("booking_id", b.ID),
				zap.Error(err),
			)
			continue
		}
		for _, r := range requests {
			if !r.IsAccepted() {
				continue
			}
			partner := r.PartnerID(b.PerformerID)
			if !seen[partner] {
				seen[partner] = true
				partners = append(partners, partner)
			}
		}
	}
	return partners
}
