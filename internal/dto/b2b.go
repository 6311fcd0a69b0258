package dto

import (
	"time"

	"github.com/slotstage/backend/internal/domain"
)

// CreateB2BRequestRequest opens a partnership request on a confirmed booking
type CreateB2BRequestRequest struct {
	BookingID   string `json:"booking_id" binding:"required"`
	RequesteeID string `json:"requestee_id" binding:"required"`
	InitiatedBy string `json:"initiated_by" binding:"required,oneof=booker requester"`
}

// RespondB2BRequestRequest answers a pending partnership request
type RespondB2BRequestRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accept decline"`
}

// B2BRequestResponse represents a partnership request in API responses
type B2BRequestResponse struct {
	ID          string    `json:"id"`
	BookingID   string    `json:"booking_id"`
	RequesterID string    `json:"requester_id"`
	RequesteeID string    `json:"requestee_id"`
	InitiatedBy string    `json:"initiated_by"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PartnersResponse lists the accepted partners on a booking
type PartnersResponse struct {
	BookingID string   `json:"booking_id"`
	Partners  []string `json:"partners"`
}

// B2BRequestFromDomain converts a domain B2BRequest to B2BRequestResponse
func B2BRequestFromDomain(r *domain.B2BRequest) *B2BRequestResponse {
	return &B2BRequestResponse{
		ID:          r.ID,
		BookingID:   r.BookingID,
		RequesterID: r.RequesterID,
		RequesteeID: r.RequesteeID,
		InitiatedBy: string(r.InitiatedBy),
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// B2BRequestsFromDomain converts a slice of domain B2BRequests
func B2BRequestsFromDomain(requests []*domain.B2BRequest) []*B2BRequestResponse {
	out := make([]*B2BRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, B2BRequestFromDomain(r))
	}
	return out
}
