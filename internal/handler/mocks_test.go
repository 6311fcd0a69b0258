package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/slotstage/backend/internal/dto"
	"github.com/slotstage/backend/pkg/middleware"
)

// MockAllocatorService is a mock implementation of service.AllocatorService
type MockAllocatorService struct {
	BookSlotsFunc     func(ctx context.Context, performerID string, req *dto.BookSlotsRequest) (*dto.BookSlotsResponse, error)
	CancelBookingFunc func(ctx context.Context, bookingID, actingUserID string) (*dto.CancelBookingResponse, error)
	GetBookingFunc    func(ctx context.Context, bookingID string) (*dto.BookingResponse, error)
}

func (m *MockAllocatorService) BookSlots(ctx context.Context, performerID string, req *dto.BookSlotsRequest) (*dto.BookSlotsResponse, error) {
	if m.BookSlotsFunc != nil {
		return m.BookSlotsFunc(ctx, performerID, req)
	}
	return nil, nil
}

func (m *MockAllocatorService) CancelBooking(ctx context.Context, bookingID, actingUserID string) (*dto.CancelBookingResponse, error) {
	if m.CancelBookingFunc != nil {
		return m.CancelBookingFunc(ctx, bookingID, actingUserID)
	}
	return nil, nil
}

func (m *MockAllocatorService) GetBooking(ctx context.Context, bookingID string) (*dto.BookingResponse, error) {
	if m.GetBookingFunc != nil {
		return m.GetBookingFunc(ctx, bookingID)
	}
	return nil, nil
}

// MockPartnershipService is a mock implementation of service.PartnershipService
type MockPartnershipService struct {
	CreateRequestFunc      func(ctx context.Context, actingUserID string, req *dto.CreateB2BRequestRequest) (*dto.B2BRequestResponse, error)
	RespondFunc            func(ctx context.Context, requestID, actingUserID string, accept bool) (*dto.B2BRequestResponse, error)
	CancelFunc             func(ctx context.Context, requestID, actingUserID string) (*dto.B2BRequestResponse, error)
	LeaveFunc              func(ctx context.Context, requestID, actingUserID string) (*dto.B2BRequestResponse, error)
	PartnersForBookingFunc func(ctx context.Context, bookingID string) (*dto.PartnersResponse, error)
}

func (m *MockPartnershipService) CreateRequest(ctx context.Context, actingUserID string, req *dto.CreateB2BRequestRequest) (*dto.B2BRequestResponse, error) {
	if m.CreateRequestFunc != nil {
		return m.CreateRequestFunc(ctx, actingUserID, req)
	}
	return nil, nil
}

func (m *MockPartnershipService) Respond(ctx context.Context, requestID, actingUserID string, accept bool) (*dto.B2BRequestResponse, error) {
	if m.RespondFunc != nil {
		return m.RespondFunc(ctx, requestID, actingUserID, accept)
	}
	return nil, nil
}

func (m *MockPartnershipService) Cancel(ctx context.Context, requestID, actingUserID string) (*dto.B2BRequestResponse, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, requestID, actingUserID)
	}
	return nil, nil
}

func (m *MockPartnershipService) Leave(ctx context.Context, requestID, actingUserID string) (*dto.B2BRequestResponse, error) {
	if m.LeaveFunc != nil {
		return m.LeaveFunc(ctx, requestID, actingUserID)
	}
	return nil, nil
}

func (m *MockPartnershipService) PartnersForBooking(ctx context.Context, bookingID string) (*dto.PartnersResponse, error) {
	if m.PartnersForBookingFunc != nil {
		return m.PartnersForBookingFunc(ctx, bookingID)
	}
	return nil, nil
}

// MockViewService is a mock implementation of service.ViewService
type MockViewService struct {
	EventLineupFunc       func(ctx context.Context, eventID string) (*dto.EventLineupResponse, error)
	AvailableSlotsFunc    func(ctx context.Context, eventID string) (*dto.AvailableSlotsResponse, error)
	PerformerBookingsFunc func(ctx context.Context, performerID string, limit, offset int) (*dto.PerformerBookingsResponse, error)
}

func (m *MockViewService) EventLineup(ctx context.Context, eventID string) (*dto.EventLineupResponse, error) {
	if m.EventLineupFunc != nil {
		return m.EventLineupFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *MockViewService) AvailableSlots(ctx context.Context, eventID string) (*dto.AvailableSlotsResponse, error) {
	if m.AvailableSlotsFunc != nil {
		return m.AvailableSlotsFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *MockViewService) PerformerBookings(ctx context.Context, performerID string, limit, offset int) (*dto.PerformerBookingsResponse, error) {
	if m.PerformerBookingsFunc != nil {
		return m.PerformerBookingsFunc(ctx, performerID, limit, offset)
	}
	return nil, nil
}

// MockEventService is a mock implementation of service.EventService
type MockEventService struct {
	CreateEventFunc    func(ctx context.Context, hostID string, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	PublishEventFunc   func(ctx context.Context, eventID, hostID string) (*dto.PublishEventResponse, error)
	GetEventFunc       func(ctx context.Context, eventID string) (*dto.EventResponse, error)
	ListHostEventsFunc func(ctx context.Context, hostID string, limit, offset int) ([]*dto.EventResponse, error)
}

func (m *MockEventService) CreateEvent(ctx context.Context, hostID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(ctx, hostID, req)
	}
	return nil, nil
}

func (m *MockEventService) PublishEvent(ctx context.Context, eventID, hostID string) (*dto.PublishEventResponse, error) {
	if m.PublishEventFunc != nil {
		return m.PublishEventFunc(ctx, eventID, hostID)
	}
	return nil, nil
}

func (m *MockEventService) GetEvent(ctx context.Context, eventID string) (*dto.EventResponse, error) {
	if m.GetEventFunc != nil {
		return m.GetEventFunc(ctx, eventID)
	}
	return nil, nil
}

func (m *MockEventService) ListHostEvents(ctx context.Context, hostID string, limit, offset int) ([]*dto.EventResponse, error) {
	if m.ListHostEventsFunc != nil {
		return m.ListHostEventsFunc(ctx, hostID, limit, offset)
	}
	return nil, nil
}

// authAs injects an authenticated user the way the JWT middleware would
func authAs(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Next()
	}
}
