// Package http provides HTTP handlers for the event log.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	eventDomain "github.com/allisson/coursehook/internal/event/domain"
	"github.com/allisson/coursehook/internal/event/http/dto"
	eventUseCase "github.com/allisson/coursehook/internal/event/usecase"
	"github.com/allisson/coursehook/internal/httputil"
	customValidation "github.com/allisson/coursehook/internal/validation"
)

// EventHandler handles HTTP requests for recording and inspecting course change-events.
type EventHandler struct {
	eventUseCase eventUseCase.EventUseCase
	logger       *slog.Logger
}

// NewEventHandler creates a new event handler with required dependencies.
func NewEventHandler(eventUseCase eventUseCase.EventUseCase, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		eventUseCase: eventUseCase,
		logger:       logger,
	}
}

// AppendHandler records a new event for later webhook delivery.
// POST /v1/events - Returns 201 Created with the stored event.
func (h *EventHandler) AppendHandler(c *gin.Context) {
	var req dto.AppendEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	event, err := h.eventUseCase.Append(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapEventToResponse(event))
}

// ListHandler lists events ordered by creation time.
// GET /v1/events?state=ABANDONED&offset=0&limit=50 - Returns 200 OK.
func (h *EventHandler) ListHandler(c *gin.Context) {
	page, err := httputil.ParsePage(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var state *eventDomain.DeliveryState
	if stateStr := c.Query("state"); stateStr != "" {
		if err := customValidation.OneOf(eventDomain.DeliveryStates...).Validate(stateStr); err != nil {
			httputil.HandleValidationErrorGin(
				c,
				fmt.Errorf("invalid state parameter: must be one of PENDING, DELIVERED, FAILED, ABANDONED"),
				h.logger,
			)
			return
		}
		s := eventDomain.DeliveryState(stateStr)
		state = &s
	}

	events, err := h.eventUseCase.List(c.Request.Context(), state, page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEventsToListResponse(events))
}

// GetHandler retrieves a single event with its delivery state.
// GET /v1/events/:id - Returns 200 OK.
func (h *EventHandler) GetHandler(c *gin.Context) {
	eventID, ok := h.parseEventID(c)
	if !ok {
		return
	}

	event, err := h.eventUseCase.Get(c.Request.Context(), eventID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEventToResponse(event))
}

// RequeueHandler moves an abandoned event back to PENDING.
// POST /v1/events/:id/requeue - Returns 200 OK, or 409 Conflict when the event is not abandoned.
func (h *EventHandler) RequeueHandler(c *gin.Context) {
	eventID, ok := h.parseEventID(c)
	if !ok {
		return
	}

	event, err := h.eventUseCase.Requeue(c.Request.Context(), eventID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("event requeued",
		slog.String("event_id", event.ID.String()),
		slog.String("course_id", event.CourseID),
		slog.Int("attempt_count", event.AttemptCount),
	)

	c.JSON(http.StatusOK, dto.MapEventToResponse(event))
}

func (h *EventHandler) parseEventID(c *gin.Context) (uuid.UUID, bool) {
	eventID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return uuid.Nil, false
	}
	return eventID, true
}
