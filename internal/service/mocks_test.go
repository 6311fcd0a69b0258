package service

import (
	"context"
	"time"

	"github.com/slotstage/backend/internal/domain"
	"github.com/slotstage/backend/internal/repository"
)

// MockEventStore is a mock implementation of repository.EventStore
type MockEventStore struct {
	CreateFunc     func(ctx context.Context, event *domain.Event) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.Event, error)
	PublishFunc    func(ctx context.Context, eventID string, slots []*domain.TimeSlot) error
	ListByHostFunc func(ctx context.Context, hostID string, limit, offset int) ([]*domain.Event, error)
}

func (m *MockEventStore) Create(ctx context.Context, event *domain.Event) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, event)
	}
	return nil
}

func (m *MockEventStore) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrEventNotFound
}

func (m *MockEventStore) Publish(ctx context.Context, eventID string, slots []*domain.TimeSlot) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, eventID, slots)
	}
	return nil
}

func (m *MockEventStore) ListByHost(ctx context.Context, hostID string, limit, offset int) ([]*domain.Event, error) {
	if m.ListByHostFunc != nil {
		return m.ListByHostFunc(ctx, hostID, limit, offset)
	}
	return nil, nil
}

// MockSlotStore is a mock implementation of repository.SlotStore
type MockSlotStore struct {
	GetByIDsFunc    func(ctx context.Context, ids []string) ([]*domain.TimeSlot, error)
	ListByEventFunc func(ctx context.Context, eventID string) ([]*domain.TimeSlot, error)
}

func (m *MockSlotStore) GetByIDs(ctx context.Context, ids []string) ([]*domain.TimeSlot, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockSlotStore) ListByEvent(ctx context.Context, eventID string) ([]*domain.TimeSlot, error) {
	if m.ListByEventFunc != nil {
		return m.ListByEventFunc(ctx, eventID)
	}
	return nil, nil
}

// MockBookingStore is a mock implementation of repository.BookingStore
type MockBookingStore struct {
	ClaimSlotsFunc      func(ctx context.Context, group *domain.BookingGroup, bookings []*domain.SlotBooking) error
	CancelBookingFunc   func(ctx context.Context, bookingID string) (*repository.CancelBookingResult, error)
	GetByIDFunc         func(ctx context.Context, id string) (*domain.SlotBooking, error)
	ListByEventFunc     func(ctx context.Context, eventID string) ([]*domain.SlotBooking, error)
	ListByPerformerFunc func(ctx context.Context, performerID string, limit, offset int) ([]*domain.SlotBooking, error)
}

func (m *MockBookingStore) ClaimSlots(ctx context.Context, group *domain.BookingGroup, bookings []*domain.SlotBooking) error {
	if m.ClaimSlotsFunc != nil {
		return m.ClaimSlotsFunc(ctx, group, bookings)
	}
	return nil
}

func (m *MockBookingStore) CancelBooking(ctx context.Context, bookingID string) (*repository.CancelBookingResult, error) {
	if m.CancelBookingFunc != nil {
		return m.CancelBookingFunc(ctx, bookingID)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingStore) GetByID(ctx context.Context, id string) (*domain.SlotBooking, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrBookingNotFound
}

func (m *MockBookingStore) ListByEvent(ctx context.Context, eventID string) ([]*domain.SlotBooking, error) {
	if m.ListByEventFunc != nil {
		return m.ListByEventFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *MockBookingStore) ListByPerformer(ctx context.Context, performerID string, limit, offset int) ([]*domain.SlotBooking, error) {
	if m.ListByPerformerFunc != nil {
		return m.ListByPerformerFunc(ctx, performerID, limit, offset)
	}
	return nil, nil
}

// MockB2BRequestStore is a mock implementation of repository.B2BRequestStore
type MockB2BRequestStore struct {
	CreateFunc        func(ctx context.Context, req *domain.B2BRequest) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.B2BRequest, error)
	TransitionFunc    func(ctx context.Context, id string, from, to domain.B2BRequestStatus, conflictErr error) (*domain.B2BRequest, error)
	AcceptFunc        func(ctx context.Context, id string, maxPartners int) (*domain.B2BRequest, error)
	ListByBookingFunc func(ctx context.Context, bookingID string) ([]*domain.B2BRequest, error)
	CountAcceptedFunc func(ctx context.Context, bookingID string) (int, error)
}

func (m *MockB2BRequestStore) Create(ctx context.Context, req *domain.B2BRequest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return nil
}

func (m *MockB2BRequestStore) GetByID(ctx context.Context, id string) (*domain.B2BRequest, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, domain.ErrRequestNotFound
}

func (m *MockB2BRequestStore) Transition(ctx context.Context, id string, from, to domain.B2BRequestStatus, conflictErr error) (*domain.B2BRequest, error) {
	if m.TransitionFunc != nil {
		return m.TransitionFunc(ctx, id, from, to, conflictErr)
	}
	return nil, domain.ErrRequestNotFound
}

func (m *MockB2BRequestStore) Accept(ctx context.Context, id string, maxPartners int) (*domain.B2BRequest, error) {
	if m.AcceptFunc != nil {
		return m.AcceptFunc(ctx, id, maxPartners)
	}
	return nil, domain.ErrRequestNotFound
}

func (m *MockB2BRequestStore) ListByBooking(ctx context.Context, bookingID string) ([]*domain.B2BRequest, error) {
	if m.ListByBookingFunc != nil {
		return m.ListByBookingFunc(ctx, bookingID)
	}
	return nil, nil
}

func (m *MockB2BRequestStore) CountAccepted(ctx context.Context, bookingID string) (int, error) {
	if m.CountAcceptedFunc != nil {
		return m.CountAcceptedFunc(ctx, bookingID)
	}
	return 0, nil
}

// MockAvailabilityCache is a mock implementation of repository.AvailabilityCache
type MockAvailabilityCache struct {
	GetAvailableSlotIDsFunc func(ctx context.Context, eventID string) ([]string, bool, error)
	SetAvailableSlotIDsFunc func(ctx context.Context, eventID string, slotIDs []string, ttl time.Duration) error
	InvalidateFunc          func(ctx context.Context, eventID string) error
}

func (m *MockAvailabilityCache) GetAvailableSlotIDs(ctx context.Context, eventID string) ([]string, bool, error) {
	if m.GetAvailableSlotIDsFunc != nil {
		return m.GetAvailableSlotIDsFunc(ctx, eventID)
	}
	return nil, false, nil
}

func (m *MockAvailabilityCache) SetAvailableSlotIDs(ctx context.Context, eventID string, slotIDs []string, ttl time.Duration) error {
	if m.SetAvailableSlotIDsFunc != nil {
		return m.SetAvailableSlotIDsFunc(ctx, eventID, slotIDs, ttl)
	}
	return nil
}

func (m *MockAvailabilityCache) Invalidate(ctx context.Context, eventID string) error {
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, eventID)
	}
	return nil
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	PublishEventPublishedFunc      func(ctx context.Context, event *domain.Event, slotCount int) error
	PublishBookingCreatedFunc      func(ctx context.Context, group *domain.BookingGroup, bookings []*domain.SlotBooking) error
	PublishBookingCancelledFunc    func(ctx context.Context, booking *domain.SlotBooking) error
	PublishPartnershipAcceptedFunc func(ctx context.Context, req *domain.B2BRequest, booking *domain.SlotBooking) error
}

func (m *MockEventPublisher) PublishEventPublished(ctx context.Context, event *domain.Event, slotCount int) error {
	if m.PublishEventPublishedFunc != nil {
		return m.PublishEventPublishedFunc(ctx, event, slotCount)
	}
	return nil
}

func (m *MockEventPublisher) PublishBookingCreated(ctx context.Context, group *domain.BookingGroup, bookings []*domain.SlotBooking) error {
	if m.PublishBookingCreatedFunc != nil {
		return m.PublishBookingCreatedFunc(ctx, group, bookings)
	}
	return nil
}

func (m *MockEventPublisher) PublishBookingCancelled(ctx context.Context, booking *domain.SlotBooking) error {
	if m.PublishBookingCancelledFunc != nil {
		return m.PublishBookingCancelledFunc(ctx, booking)
	}
	return nil
}

func (m *MockEventPublisher) PublishPartnershipAccepted(ctx context.Context, req *domain.B2BRequest, booking *domain.SlotBooking) error {
	if m.PublishPartnershipAcceptedFunc != nil {
		return m.PublishPartnershipAcceptedFunc(ctx, req, booking)
	}
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}
