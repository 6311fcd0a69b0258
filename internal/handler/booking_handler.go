package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/slotstage/backend/internal/dto"
	"github.com/slotstage/backend/internal/service"
	"github.com/slotstage/backend/pkg/middleware"
	"github.com/slotstage/backend/pkg/response"
	"github.com/slotstage/backend/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// BookingHandler handles booking HTTP requests
type BookingHandler struct {
	allocatorService   service.AllocatorService
	partnershipService service.PartnershipService
	viewService        service.ViewService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(
	allocatorService service.AllocatorService,
	partnershipService service.PartnershipService,
	viewService service.ViewService,
) *BookingHandler {
	return &BookingHandler{
		allocatorService:   allocatorService,
		partnershipService: partnershipService,
		viewService:        viewService,
	}
}

// BookSlots handles POST /bookings
func (h *BookingHandler) BookSlots(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.book_slots")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	performerID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.BookSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	span.SetAttributes(
		attribute.String("performer_id", performerID),
		attribute.Int("slot_count", len(req.SlotIDs)),
	)

	result, err := h.allocatorService.BookSlots(ctx, performerID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("group_id", result.GroupID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, result)
}

// CancelBooking handles POST /bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.cancel")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	bookingID := c.Param("id")
	span.SetAttributes(
		attribute.String("booking_id", bookingID),
		attribute.String("user_id", userID),
	)

	result, err := h.allocatorService.CancelBooking(ctx, bookingID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// GetBooking handles GET /bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	bookingID := c.Param("id")
	span.SetAttributes(attribute.String("booking_id", bookingID))

	result, err := h.allocatorService.GetBooking(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// GetMyBookings handles GET /bookings
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.list_mine")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	performerID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	span.SetAttributes(attribute.String("performer_id", performerID))

	result, err := h.viewService.PerformerBookings(ctx, performerID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// GetPartners handles GET /bookings/:id/partners
func (h *BookingHandler) GetPartners(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.booking.partners")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	bookingID := c.Param("id")
	span.SetAttributes(attribute.String("booking_id", bookingID))

	result, err := h.partnershipService.PartnersForBooking(ctx, bookingID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}
