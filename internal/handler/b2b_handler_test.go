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
)

func setupB2BRouter(h *B2BHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if userID != "" {
		router.Use(authAs(userID))
	}

	b2b := router.Group("/b2b/requests")
	{
		b2b.POST("", h.CreateRequest)
		b2b.POST("/:id/respond", h.Respond)
		b2b.POST("/:id/cancel", h.Cancel)
		b2b.POST("/:id/leave", h.Leave)
	}
	return router
}

func TestB2BHandler_CreateRequest(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		body       interface{}
		setupMocks func(*MockPartnershipService)
		wantStatus int
		wantCode   string
	}{
		{
			name:   "successful request",
			userID: "performer-001",
			body: dto.CreateB2BRequestRequest{
				BookingID:   "booking-001",
				RequesteeID: "performer-002",
				InitiatedBy: "booker",
			},
			setupMocks: func(ps *MockPartnershipService) {
				ps.CreateRequestFunc = func(ctx context.Context, actingUserID string, req *dto.CreateB2BRequestRequest) (*dto.B2BRequestResponse, error) {
					return &dto.B2BRequestResponse{ID: "req-001", Status: "pending"}, nil
				}
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:   "invalid initiator rejected by binding",
			userID: "performer-001",
			body: map[string]string{
				"booking_id":   "booking-001",
				"requestee_id": "performer-002",
				"initiated_by": "host",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "event forbids partnerships",
			userID: "performer-001",
			body: dto.CreateB2BRequestRequest{
				BookingID:   "booking-001",
				RequesteeID: "performer-002",
				InitiatedBy: "booker",
			},
			setupMocks: func(ps *MockPartnershipService) {
				ps.CreateRequestFunc = func(ctx context.Context, actingUserID string, req *dto.CreateB2BRequestRequest) (*dto.B2BRequestResponse, error) {
					return nil, domain.ErrB2BNotAllowed
				}
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:   "partnership full",
			userID: "performer-001",
			body: dto.CreateB2BRequestRequest{
				BookingID:   "booking-001",
				RequesteeID: "performer-002",
				InitiatedBy: "booker",
			},
			setupMocks: func(ps *MockPartnershipService) {
				ps.CreateRequestFunc = func(ctx context.Context, actingUserID string, req *dto.CreateB2BRequestRequest) (*dto.B2BRequestResponse, error) {
					return nil, domain.ErrPartnershipFull
				}
			},
			wantStatus: http.StatusConflict,
			wantCode:   "STATE_CONFLICT",
		},
		{
			name:   "unauthenticated",
			userID: "",
			body: dto.CreateB2BRequestRequest{
				BookingID:   "booking-001",
				RequesteeID: "performer-002",
				InitiatedBy: "booker",
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			partnership := &MockPartnershipService{}
			if tt.setupMocks != nil {
				tt.setupMocks(partnership)
			}
			h := NewB2BHandler(partnership)
			router := setupB2BRouter(h, tt.userID)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/b2b/requests", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("CreateRequest status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantCode != "" {
				resp := decodeResponse(t, w.Body)
				if resp.Error == nil || resp.Error.Code != tt.wantCode {
					t.Errorf("CreateRequest error code = %v, want %s", resp.Error, tt.wantCode)
				}
			}
		})
	}
}

func TestB2BHandler_Respond(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		setupMocks func(*MockPartnershipService)
		wantStatus int
		wantAccept bool
	}{
		{
			name: "accept",
			body: dto.RespondB2BRequestRequest{Decision: "accept"},
			setupMocks: func(ps *MockPartnershipService) {
				ps.RespondFunc = func(ctx context.Context, requestID, actingUserID string, accept bool) (*dto.B2BRequestResponse, error) {
					if !accept {
						t.Error("Respond() accept = false, want true")
					}
					return &dto.B2BRequestResponse{ID: requestID, Status: "accepted"}, nil
				}
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "decline",
			body: dto.RespondB2BRequestRequest{Decision: "decline"},
			setupMocks: func(ps *MockPartnershipService) {
				ps.RespondFunc = func(ctx context.Context, requestID, actingUserID string, accept bool) (*dto.B2BRequestResponse, error) {
					if accept {
						t.Error("Respond() accept = true, want false")
					}
					return &dto.B2BRequestResponse{ID: requestID, Status: "declined"}, nil
				}
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown decision rejected by binding",
			body:       map[string]string{"decision": "maybe"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "request already resolved",
			body: dto.RespondB2BRequestRequest{Decision: "accept"},
			setupMocks: func(ps *MockPartnershipService) {
				ps.RespondFunc = func(ctx context.Context, requestID, actingUserID string, accept bool) (*dto.B2BRequestResponse, error) {
					return nil, domain.ErrRequestNotPending
				}
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			partnership := &MockPartnershipService{}
			if tt.setupMocks != nil {
				tt.setupMocks(partnership)
			}
			h := NewB2BHandler(partnership)
			router := setupB2BRouter(h, "performer-002")

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/b2b/requests/req-001/respond", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Respond status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestB2BHandler_CancelAndLeave(t *testing.T) {
	partnership := &MockPartnershipService{
		CancelFunc: func(ctx context.Context, requestID, actingUserID string) (*dto.B2BRequestResponse, error) {
			if actingUserID != "performer-001" {
				return nil, domain.ErrUnauthorized
			}
			return &dto.B2BRequestResponse{ID: requestID, Status: "cancelled"}, nil
		},
		LeaveFunc: func(ctx context.Context, requestID, actingUserID string) (*dto.B2BRequestResponse, error) {
			return &dto.B2BRequestResponse{ID: requestID, Status: "cancelled"}, nil
		},
	}
	h := NewB2BHandler(partnership)

	router := setupB2BRouter(h, "performer-001")
	req := httptest.NewRequest(http.MethodPost, "/b2b/requests/req-001/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Cancel status = %d, want 200", w.Code)
	}

	router = setupB2BRouter(h, "performer-002")
	req = httptest.NewRequest(http.MethodPost, "/b2b/requests/req-001/cancel", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("Cancel by requestee status = %d, want 403", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/b2b/requests/req-001/leave", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Leave status = %d, want 200", w.Code)
	}
}
