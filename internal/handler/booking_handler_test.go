package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/slotstage/backend/internal/domain"
	"github.com/slotstage/backend/internal/dto"
	"github.com/slotstage/backend/pkg/response"
)

func setupBookingRouter(h *BookingHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if userID != "" {
		router.Use(authAs(userID))
	}

	bookings := router.Group("/bookings")
	{
		bookings.POST("", h.BookSlots)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.GET("", h.GetMyBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("/:id/partners", h.GetPartners)
	}
	return router
}

func decodeResponse(t *testing.T, body *bytes.Buffer) *response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return &resp
}

func TestBookingHandler_BookSlots(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		body       interface{}
		setupMocks func(*MockAllocatorService)
		wantStatus int
		wantCode   string
	}{
		{
			name:   "successful claim",
			userID: "performer-001",
			body:   dto.BookSlotsRequest{SlotIDs: []string{"slot-0", "slot-1"}},
			setupMocks: func(as *MockAllocatorService) {
				as.BookSlotsFunc = func(ctx context.Context, performerID string, req *dto.BookSlotsRequest) (*dto.BookSlotsResponse, error) {
					if performerID != "performer-001" {
						t.Errorf("BookSlots() performer = %s, want performer-001", performerID)
					}
					return &dto.BookSlotsResponse{GroupID: "group-001", EventID: "event-001"}, nil
				}
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unauthenticated",
			userID:     "",
			body:       dto.BookSlotsRequest{SlotIDs: []string{"slot-0"}},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty slot list rejected by binding",
			userID:     "performer-001",
			body:       map[string]interface{}{"slot_ids": []string{}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "slot already taken",
			userID: "performer-001",
			body:   dto.BookSlotsRequest{SlotIDs: []string{"slot-0"}},
			setupMocks: func(as *MockAllocatorService) {
				as.BookSlotsFunc = func(ctx context.Context, performerID string, req *dto.BookSlotsRequest) (*dto.BookSlotsResponse, error) {
					return nil, domain.ErrSlotUnavailable
				}
			},
			wantStatus: http.StatusConflict,
			wantCode:   "STATE_CONFLICT",
		},
		{
			name:   "non consecutive slots",
			userID: "performer-001",
			body:   dto.BookSlotsRequest{SlotIDs: []string{"slot-0", "slot-2"}},
			setupMocks: func(as *MockAllocatorService) {
				as.BookSlotsFunc = func(ctx context.Context, performerID string, req *dto.BookSlotsRequest) (*dto.BookSlotsResponse, error) {
					return nil, domain.ErrNonConsecutiveSlots
				}
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:   "unknown slot",
			userID: "performer-001",
			body:   dto.BookSlotsRequest{SlotIDs: []string{"slot-x"}},
			setupMocks: func(as *MockAllocatorService) {
				as.BookSlotsFunc = func(ctx context.Context, performerID string, req *dto.BookSlotsRequest) (*dto.BookSlotsResponse, error) {
					return nil, domain.ErrSlotNotFound
				}
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocator := &MockAllocatorService{}
			if tt.setupMocks != nil {
				tt.setupMocks(allocator)
			}
			h := NewBookingHandler(allocator, &MockPartnershipService{}, &MockViewService{})
			router := setupBookingRouter(h, tt.userID)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("BookSlots status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantCode != "" {
				resp := decodeResponse(t, w.Body)
				if resp.Error == nil || resp.Error.Code != tt.wantCode {
					t.Errorf("BookSlots error code = %v, want %s", resp.Error, tt.wantCode)
				}
			}
		})
	}
}

func TestBookingHandler_CancelBooking(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		setupMocks func(*MockAllocatorService)
		wantStatus int
		wantCode   string
	}{
		{
			name:   "successful cancel",
			userID: "performer-001",
			setupMocks: func(as *MockAllocatorService) {
				as.CancelBookingFunc = func(ctx context.Context, bookingID, actingUserID string) (*dto.CancelBookingResponse, error) {
					return &dto.CancelBookingResponse{
						BookingID:         bookingID,
						Status:            "cancelled",
						CancelledRequests: 1,
					}, nil
				}
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "not the performer",
			userID: "performer-999",
			setupMocks: func(as *MockAllocatorService) {
				as.CancelBookingFunc = func(ctx context.Context, bookingID, actingUserID string) (*dto.CancelBookingResponse, error) {
					return nil, domain.ErrUnauthorized
				}
			},
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:   "already cancelled",
			userID: "performer-001",
			setupMocks: func(as *MockAllocatorService) {
				as.CancelBookingFunc = func(ctx context.Context, bookingID, actingUserID string) (*dto.CancelBookingResponse, error) {
					return nil, domain.ErrBookingAlreadyCancelled
				}
			},
			wantStatus: http.StatusConflict,
			wantCode:   "STATE_CONFLICT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocator := &MockAllocatorService{}
			if tt.setupMocks != nil {
				tt.setupMocks(allocator)
			}
			h := NewBookingHandler(allocator, &MockPartnershipService{}, &MockViewService{})
			router := setupBookingRouter(h, tt.userID)

			req := httptest.NewRequest(http.MethodPost, "/bookings/booking-001/cancel", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("CancelBooking status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantCode != "" {
				resp := decodeResponse(t, w.Body)
				if resp.Error == nil || resp.Error.Code != tt.wantCode {
					t.Errorf("CancelBooking error code = %v, want %s", resp.Error, tt.wantCode)
				}
			}
		})
	}
}

func TestBookingHandler_GetMyBookings(t *testing.T) {
	view := &MockViewService{
		PerformerBookingsFunc: func(ctx context.Context, performerID string, limit, offset int) (*dto.PerformerBookingsResponse, error) {
			if limit != 5 || offset != 10 {
				t.Errorf("PerformerBookings limit/offset = %d/%d, want 5/10", limit, offset)
			}
			return &dto.PerformerBookingsResponse{PerformerID: performerID}, nil
		},
	}
	h := NewBookingHandler(&MockAllocatorService{}, &MockPartnershipService{}, view)
	router := setupBookingRouter(h, "performer-001")

	req := httptest.NewRequest(http.MethodGet, "/bookings?limit=5&offset=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("GetMyBookings status = %d, want 200", w.Code)
	}
}

func TestBookingHandler_GetPartners(t *testing.T) {
	partnership := &MockPartnershipService{
		PartnersForBookingFunc: func(ctx context.Context, bookingID string) (*dto.PartnersResponse, error) {
			if bookingID != "booking-001" {
				return nil, domain.ErrBookingNotFound
			}
			return &dto.PartnersResponse{BookingID: bookingID, Partners: []string{"performer-002"}}, nil
		},
	}
	h := NewBookingHandler(&MockAllocatorService{}, partnership, &MockViewService{})
	router := setupBookingRouter(h, "performer-001")

	req := httptest.NewRequest(http.MethodGet, "/bookings/booking-001/partners", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("GetPartners status = %d, want 200", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/bookings/booking-999/partners", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("GetPartners status = %d, want 404", w.Code)
	}
}
