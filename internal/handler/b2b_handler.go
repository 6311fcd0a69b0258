package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/slotstage/backend/internal/dto"
	"github.com/slotstage/backend/internal/service"
	"github.com/slotstage/backend/pkg/middleware"
	"github.com/slotstage/backend/pkg/response"
	"github.com/slotstage/backend/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// B2BHandler handles back-to-back partnership HTTP requests
type B2BHandler struct {
	partnershipService service.PartnershipService
}

// NewB2BHandler creates a new B2B handler
func NewB2BHandler(partnershipService service.PartnershipService) *B2BHandler {
	return &B2BHandler{partnershipService: partnershipService}
}

// CreateRequest handles POST /b2b/requests
func (h *B2BHandler) CreateRequest(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.b2b.create_request")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.CreateB2BRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	span.SetAttributes(
		attribute.String("booking_id", req.BookingID),
		attribute.String("user_id", userID),
		attribute.String("initiated_by", req.InitiatedBy),
	)

	result, err := h.partnershipService.CreateRequest(ctx, userID, &req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("request_id", result.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, result)
}

// Respond handles POST /b2b/requests/:id/respond
func (h *B2BHandler) Respond(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.b2b.respond")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	var req dto.RespondB2BRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, err.Error())
		return
	}

	requestID := c.Param("id")
	accept := req.Decision == "accept"
	span.SetAttributes(
		attribute.String("request_id", requestID),
		attribute.String("user_id", userID),
		attribute.Bool("accept", accept),
	)

	result, err := h.partnershipService.Respond(ctx, requestID, userID, accept)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// Cancel handles POST /b2b/requests/:id/cancel
func (h *B2BHandler) Cancel(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.b2b.cancel")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	requestID := c.Param("id")
	span.SetAttributes(
		attribute.String("request_id", requestID),
		attribute.String("user_id", userID),
	)

	result, err := h.partnershipService.Cancel(ctx, requestID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// Leave handles POST /b2b/requests/:id/leave
func (h *B2BHandler) Leave(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.b2b.leave")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "authentication required")
		return
	}

	requestID := c.Param("id")
	span.SetAttributes(
		attribute.String("request_id", requestID),
		attribute.String("user_id", userID),
	)

	result, err := h.partnershipService.Leave(ctx, requestID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}
