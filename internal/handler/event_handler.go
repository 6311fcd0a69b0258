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

// EventHandler handles event HTTP requests
type EventHandler struct {
	eventService service.EventService
	viewService  service.ViewService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService service.EventService, viewService service.ViewService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		viewService:  viewService,
	}
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.create")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	hostID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	span.SetAttributes(attribute.String("host_id", hostID))

	result, err := h.eventService.CreateEvent(ctx, hostID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("event_id", result.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, result)
}

// PublishEvent handles POST /events/:id/publish
func (h *EventHandler) PublishEvent(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.publish")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	hostID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	eventID := c.Param("id")
	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.String("host_id", hostID),
	)

	result, err := h.eventService.PublishEvent(ctx, eventID, hostID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("slot_count", result.SlotCount))
	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// GetEvent handles GET /events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.get")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	eventID := c.Param("id")
	span.SetAttributes(attribute.String("event_id", eventID))

	result, err := h.eventService.GetEvent(ctx, eventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// ListMyEvents handles GET /events
func (h *EventHandler) ListMyEvents(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.list_mine")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	hostID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := h.eventService.ListHostEvents(ctx, hostID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// GetLineup handles GET /events/:id/lineup
func (h *EventHandler) GetLineup(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.lineup")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	eventID := c.Param("id")
	span.SetAttributes(attribute.String("event_id", eventID))

	result, err := h.viewService.EventLineup(ctx, eventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// GetAvailableSlots handles GET /events/:id/slots
func (h *EventHandler) GetAvailableSlots(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.available_slots")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	eventID := c.Param("id")
	span.SetAttributes(attribute.String("event_id", eventID))

	result, err := h.viewService.AvailableSlots(ctx, eventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}
