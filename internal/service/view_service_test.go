package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slotstage/backend/internal/domain"
)

func TestViewService_EventLineup(t *testing.T) {
	eventRepo := &MockEventStore{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
			return bookableEvent("event-001"), nil
		},
	}
	slotRepo := &MockSlotStore{
		ListByEventFunc: func(ctx context.Context, eventID string) ([]*domain.TimeSlot, error) {
			return []*domain.TimeSlot{
				availableSlot("slot-0", "event-001", 0),
				availableSlot("slot-1", "event-001", 1),
				availableSlot("slot-2", "event-001", 2),
			}, nil
		},
	}
	bookingRepo := &MockBookingStore{
		ListByEventFunc: func(ctx context.Context, eventID string) ([]*domain.SlotBooking, error) {
			now := time.Now()
			return []*domain.SlotBooking{
				{ID: "booking-001", GroupID: "group-a", SlotID: "slot-0", EventID: "event-001", PerformerID: "performer-001", Status: domain.BookingStatusConfirmed, UpdatedAt: now},
				{ID: "booking-002", GroupID: "group-a", SlotID: "slot-1", EventID: "event-001", PerformerID: "performer-001", Status: domain.BookingStatusConfirmed, UpdatedAt: now},
				{ID: "booking-003", GroupID: "group-b", SlotID: "slot-2", EventID: "event-001", PerformerID: "performer-002", Status: domain.BookingStatusCancelled, UpdatedAt: now},
			}, nil
		},
	}
	requestRepo := &MockB2BRequestStore{
		ListByBookingFunc: func(ctx context.Context, bookingID string) ([]*domain.B2BRequest, error) {
			if bookingID == "booking-001" {
				return []*domain.B2BRequest{
					{RequesterID: "performer-001", RequesteeID: "performer-003", Status: domain.B2BStatusAccepted},
				}, nil
			}
			return nil, nil
		},
	}

	svc := NewViewService(eventRepo, slotRepo, bookingRepo, requestRepo, nil, nil)

	resp, err := svc.EventLineup(context.Background(), "event-001")
	if err != nil {
		t.Fatalf("EventLineup() unexpected error = %v", err)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("EventLineup() got %d entries, want 2", len(resp.Entries))
	}

	run := resp.Entries[0]
	if run.GroupID != "group-a" {
		t.Errorf("first entry group = %s, want group-a", run.GroupID)
	}
	if run.PerformerID != "performer-001" {
		t.Errorf("first entry performer = %s, want performer-001", run.PerformerID)
	}
	if len(run.SlotIndexes) != 2 || run.SlotIndexes[0] != 0 || run.SlotIndexes[1] != 1 {
		t.Errorf("first entry slot indexes = %v, want [0 1]", run.SlotIndexes)
	}
	if run.Status != string(domain.BookingStatusConfirmed) {
		t.Errorf("first entry status = %s, want confirmed", run.Status)
	}
	if len(run.Partners) != 1 || run.Partners[0] != "performer-003" {
		t.Errorf("first entry partners = %v, want [performer-003]", run.Partners)
	}
	if !run.EndTime.Equal(run.StartTime.Add(time.Hour)) {
		t.Errorf("run window = %v..%v, want one hour", run.StartTime, run.EndTime)
	}

	cancelled := resp.Entries[1]
	if cancelled.Status != string(domain.BookingStatusCancelled) {
		t.Errorf("second entry status = %s, want cancelled", cancelled.Status)
	}
	if len(cancelled.Partners) != 0 {
		t.Errorf("cancelled entry partners = %v, want none", cancelled.Partners)
	}
}

func TestViewService_EventLineup_HidesOldCancellations(t *testing.T) {
	eventRepo := &MockEventStore{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
			return bookableEvent("event-001"), nil
		},
	}
	slotRepo := &MockSlotStore{
		ListByEventFunc: func(ctx context.Context, eventID string) ([]*domain.TimeSlot, error) {
			return []*domain.TimeSlot{availableSlot("slot-0", "event-001", 0)}, nil
		},
	}
	bookingRepo := &MockBookingStore{
		ListByEventFunc: func(ctx context.Context, eventID string) ([]*domain.SlotBooking, error) {
			return []*domain.SlotBooking{
				{ID: "booking-old", GroupID: "group-old", SlotID: "slot-0", EventID: "event-001", PerformerID: "performer-001", Status: domain.BookingStatusCancelled, UpdatedAt: time.Now().Add(-2 * time.Hour)},
				{ID: "booking-new", GroupID: "group-new", SlotID: "slot-0", EventID: "event-001", PerformerID: "performer-002", Status: domain.BookingStatusCancelled, UpdatedAt: time.Now().Add(-5 * time.Minute)},
			}, nil
		},
	}

	svc := NewViewService(eventRepo, slotRepo, bookingRepo, &MockB2BRequestStore{}, nil, &ViewServiceConfig{
		CancelledVisibility: time.Hour,
	})

	resp, err := svc.EventLineup(context.Background(), "event-001")
	if err != nil {
		t.Fatalf("EventLineup() unexpected error = %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("EventLineup() got %d entries, want 1", len(resp.Entries))
	}
	if resp.Entries[0].GroupID != "group-new" {
		t.Errorf("visible entry = %s, want group-new", resp.Entries[0].GroupID)
	}
}

func TestViewService_AvailableSlots_CacheHit(t *testing.T) {
	slotRepo := &MockSlotStore{
		GetByIDsFunc: func(ctx context.Context, ids []string) ([]*domain.TimeSlot, error) {
			return []*domain.TimeSlot{
				availableSlot("slot-1", "event-001", 1),
				availableSlot("slot-0", "event-001", 0),
			}, nil
		},
		ListByEventFunc: func(ctx context.Context, eventID string) ([]*domain.TimeSlot, error) {
			t.Error("ListByEvent should not be called on a cache hit")
			return nil, nil
		},
	}
	cache := &MockAvailabilityCache{
		GetAvailableSlotIDsFunc: func(ctx context.Context, eventID string) ([]string, bool, error) {
			return []string{"slot-1", "slot-0"}, true, nil
		},
	}

	svc := NewViewService(&MockEventStore{}, slotRepo, &MockBookingStore{}, &MockB2BRequestStore{}, cache, nil)

	resp, err := svc.AvailableSlots(context.Background(), "event-001")
	if err != nil {
		t.Fatalf("AvailableSlots() unexpected error = %v", err)
	}
	if len(resp.Slots) != 2 {
		t.Fatalf("AvailableSlots() got %d slots, want 2", len(resp.Slots))
	}
	if resp.Slots[0].SlotIndex != 0 || resp.Slots[1].SlotIndex != 1 {
		t.Errorf("slots not ordered by index: %d, %d", resp.Slots[0].SlotIndex, resp.Slots[1].SlotIndex)
	}
}

func TestViewService_AvailableSlots_CacheMiss(t *testing.T) {
	eventRepo := &MockEventStore{
		GetByIDFunc: func(ctx context.Context, id string) (*domain.Event, error) {
			return bookableEvent("event-001"), nil
		},
	}
	booked := availableSlot("slot-1", "event-001", 1)
	booked.Status = domain.SlotStatusBooked
	slotRepo := &MockSlotStore{
		ListByEventFunc: func(ctx context.Context, eventID string) ([]*domain.TimeSlot, error) {
			return []*domain.TimeSlot{
				availableSlot("slot-0", "event-001", 0),
				booked,
				availableSlot("slot-2", "event-001", 2),
			}, nil
		},
	}

	var cachedIDs []string
	var cachedTTL time.Duration
	cache := &MockAvailabilityCache{
		SetAvailableSlotIDsFunc: func(ctx context.Context, eventID string, slotIDs []string, ttl time.Duration) error {
			cachedIDs = slotIDs
			cachedTTL = ttl
			return nil
		},
	}

	svc := NewViewService(eventRepo, slotRepo, &MockBookingStore{}, &MockB2BRequestStore{}, cache, &ViewServiceConfig{
		AvailabilityCacheTTL: 45 * time.Second,
	})

	resp, err := svc.AvailableSlots(context.Background(), "event-001")
	if err != nil {
		t.Fatalf("AvailableSlots() unexpected error = %v", err)
	}
	if len(resp.Slots) != 2 {
		t.Fatalf("AvailableSlots() got %d slots, want 2", len(resp.Slots))
	}
	for _, slot := range resp.Slots {
		if slot.Status != string(domain.SlotStatusAvailable) {
			t.Errorf("slot %s status = %s, want available", slot.ID, slot.Status)
		}
	}
	if len(cachedIDs) != 2 {
		t.Errorf("cached %d slot IDs, want 2", len(cachedIDs))
	}
	if cachedTTL != 45*time.Second {
		t.Errorf("cache TTL = %v, want 45s", cachedTTL)
	}
}

func TestViewService_AvailableSlots_UnknownEvent(t *testing.T) {
	svc := NewViewService(&MockEventStore{}, &MockSlotStore{}, &MockBookingStore{}, &MockB2BRequestStore{}, nil, nil)

	if _, err := svc.AvailableSlots(context.Background(), "event-missing"); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("AvailableSlots() error = %v, want ErrEventNotFound", err)
	}
	if _, err := svc.AvailableSlots(context.Background(), ""); !errors.Is(err, domain.ErrInvalidEventID) {
		t.Errorf("AvailableSlots() error = %v, want ErrInvalidEventID", err)
	}
}

func TestViewService_PerformerBookings(t *testing.T) {
	now := time.Now()
	bookingRepo := &MockBookingStore{
		ListByPerformerFunc: func(ctx context.Context, performerID string, limit, offset int) ([]*domain.SlotBooking, error) {
			return []*domain.SlotBooking{
				{ID: "booking-003", GroupID: "group-b", SlotID: "slot-5", EventID: "event-002", PerformerID: performerID, Status: domain.BookingStatusConfirmed, UpdatedAt: now},
				{ID: "booking-001", GroupID: "group-a", SlotID: "slot-0", EventID: "event-001", PerformerID: performerID, Status: domain.BookingStatusCancelled, UpdatedAt: now},
				{ID: "booking-002", GroupID: "group-a", SlotID: "slot-1", EventID: "event-001", PerformerID: performerID, Status: domain.BookingStatusCancelled, UpdatedAt: now},
			}, nil
		},
	}

	svc := NewViewService(&MockEventStore{}, &MockSlotStore{}, bookingRepo, &MockB2BRequestStore{}, nil, nil)

	resp, err := svc.PerformerBookings(context.Background(), "performer-001", 20, 0)
	if err != nil {
		t.Fatalf("PerformerBookings() unexpected error = %v", err)
	}
	if len(resp.Runs) != 2 {
		t.Fatalf("PerformerBookings() got %d runs, want 2", len(resp.Runs))
	}

	if resp.Runs[0].GroupID != "group-b" || resp.Runs[0].Status != string(domain.BookingStatusConfirmed) {
		t.Errorf("first run = %s/%s, want group-b/confirmed", resp.Runs[0].GroupID, resp.Runs[0].Status)
	}
	if resp.Runs[1].GroupID != "group-a" || resp.Runs[1].SlotCount != 2 {
		t.Errorf("second run = %s with %d slots, want group-a with 2", resp.Runs[1].GroupID, resp.Runs[1].SlotCount)
	}
	if resp.Runs[1].Status != string(domain.BookingStatusCancelled) {
		t.Errorf("second run status = %s, want cancelled", resp.Runs[1].Status)
	}
}
