package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/slotstage/backend/internal/domain"
	"github.com/slotstage/backend/internal/dto"
	"github.com/slotstage/backend/internal/metrics"
	"github.com/slotstage/backend/internal/planner"
	"github.com/slotstage/backend/internal/repository"
	"github.com/slotstage/backend/pkg/logger"
	"github.com/slotstage/backend/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// EventService defines the interface for event business logic
type EventService interface {
	// CreateEvent creates a draft event for a host
	CreateEvent(ctx context.Context, hostID string, req *dto.CreateEventRequest) (*dto.EventResponse, error)

	// PublishEvent transitions a draft event to published and generates its slots
	PublishEvent(ctx context.Context, eventID, hostID string) (*dto.PublishEventResponse, error)

	// GetEvent retrieves an event by ID
	GetEvent(ctx context.Context, eventID string) (*dto.EventResponse, error)

	// ListHostEvents retrieves events created by a host
	ListHostEvents(ctx context.Context, hostID string, limit, offset int) ([]*dto.EventResponse, error)
}

// eventService implements EventService
type eventService struct {
	eventRepo      repository.EventStore
	slotRepo       repository.SlotStore
	eventPublisher EventPublisher
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo repository.EventStore,
	slotRepo repository.SlotStore,
	eventPublisher EventPublisher,
) EventService {
	if eventPublisher == nil {
		eventPublisher = NewNoOpEventPublisher()
	}
	return &eventService{
		eventRepo:      eventRepo,
		slotRepo:       slotRepo,
		eventPublisher: eventPublisher,
	}
}

// CreateEvent creates a draft event for a host
func (s *eventService) CreateEvent(ctx context.Context, hostID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.create")
	defer span.End()

	if hostID == "" {
		span.SetStatus(codes.Error, "invalid host_id")
		return nil, domain.ErrInvalidUserID
	}

	now := time.Now()
	event := &domain.Event{
		ID:                    uuid.New().String(),
		HostID:                hostID,
		Name:                  req.Name,
		VenueName:             req.VenueName,
		SlotDurationMinutes:   req.SlotDurationMinutes,
		AllowConsecutiveSlots: req.AllowConsecutiveSlots,
		MaxConsecutiveSlots:   req.MaxConsecutiveSlots,
		AllowB2B:              req.AllowB2B,
		StartTime:             req.StartTime,
		EndTime:               req.EndTime,
		Status:                domain.EventStatusDraft,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := event.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("event_id", event.ID),
		attribute.String("host_id", hostID),
		attribute.Int("slot_duration_minutes", event.SlotDurationMinutes),
	)

	if err := s.eventRepo.Create(ctx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.EventFromDomain(event), nil
}

// PublishEvent transitions a draft event to published and generates its
// slots. The status flip and the bulk slot insert commit together, so a
// published event always carries its full contiguous slot plan.
func (s *eventService) PublishEvent(ctx context.Context, eventID, hostID string) (*dto.PublishEventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.publish")
	defer span.End()

	if eventID == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}
	if hostID == "" {
		span.SetStatus(codes.Error, "invalid host_id")
		return nil, domain.ErrInvalidUserID
	}

	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.String("host_id", hostID),
	)

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if event.HostID != hostID {
		span.SetStatus(codes.Error, "not the host")
		return nil, domain.ErrUnauthorized
	}
	if !event.IsDraft() {
		span.SetStatus(codes.Error, "not draft")
		return nil, domain.ErrEventNotDraft
	}

	defs := planner.Generate(event.StartTime, event.EndTime, event.SlotDurationMinutes)
	if len(defs) == 0 {
		span.SetStatus(codes.Error, "duration too short")
		return nil, domain.ErrDurationTooShort
	}

	now := time.Now()
	slots := make([]*domain.TimeSlot, 0, len(defs))
	for _, def := range defs {
		slots = append(slots, &domain.TimeSlot{
			ID:        uuid.New().String(),
			EventID:   event.ID,
			SlotIndex: def.Index,
			StartTime: def.StartTime,
			EndTime:   def.EndTime,
			Status:    domain.SlotStatusAvailable,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := s.eventRepo.Publish(ctx, event.ID, slots); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	event.Status = domain.EventStatusPublished
	event.UpdatedAt = now

	metrics.RecordEventPublished(ctx, len(slots))

	if err := s.eventPublisher.PublishEventPublished(ctx, event, len(slots)); err != nil {
		logger.Get().Warn("failed to publish event lifecycle message",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
	}

	span.SetAttributes(attribute.Int("slot_count", len(slots)))
	span.SetStatus(codes.Ok, "")
	return &dto.PublishEventResponse{
		Event:     dto.EventFromDomain(event),
		SlotCount: len(slots),
		Slots:     dto.SlotsFromDomain(slots),
	}, nil
}

// GetEvent retrieves an event by ID
func (s *eventService) GetEvent(ctx context.Context, eventID string) (*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.get")
	defer span.End()

	if eventID == "" {
		span.SetStatus(codes.Error, "invalid event_id")
		return nil, domain.ErrInvalidEventID
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return dto.EventFromDomain(event), nil
}

// ListHostEvents retrieves events created by a host
func (s *eventService) ListHostEvents(ctx context.Context, hostID string, limit, offset int) ([]*dto.EventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.event.list_by_host")
	defer span.End()

	if hostID == "" {
		span.SetStatus(codes.Error, "invalid host_id")
		return nil, domain.ErrInvalidUserID
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	events, err := s.eventRepo.ListByHost(ctx, hostID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make([]*dto.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.EventFromDomain(e))
	}

	span.SetAttributes(attribute.Int("count", len(out)))
	span.SetStatus(codes.Ok, "")
	return out, nil
}
