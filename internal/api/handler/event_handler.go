package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uventlo/event-platform/internal/api/metrics"
	"github.com/uventlo/event-platform/internal/core/domain"
	"github.com/uventlo/event-platform/internal/core/ports"
)

// EventHandler handles HTTP requests for events and their statistics.
type EventHandler struct {
	service ports.EventService
}

func NewEventHandler(service ports.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// Create handles POST /v1/events. The owner is always the authenticated
// caller; the plan quota is enforced by the service.
//
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEventRequest  true  "Event details"
// @Success      201   {object}  eventResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.service.Create(c.Request().Context(), ports.CreateEventInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		Tasks:       toTaskInputs(req.Tasks),
	})
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			metrics.EventsCreatedTotal.WithLabelValues("quota_exceeded").Inc()
		} else {
			metrics.EventsCreatedTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.EventsCreatedTotal.WithLabelValues("created").Inc()

	return c.JSON(http.StatusCreated, toEventResponse(event))
}

// Get handles GET /v1/events/:id.
//
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Event ID"
// @Success      200  {object}  eventResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	event, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(event))
}

// List handles GET /v1/events.
//
// @Summary      List all events
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  eventResponse
// @Router       /v1/events [get]
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// ListByOwner handles GET /v1/events/user/:id. The owner account must be
// active.
//
// @Summary      List events organized by an account
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Account ID"
// @Success      200  {array}   eventResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/events/user/{id} [get]
func (h *EventHandler) ListByOwner(c echo.Context) error {
	events, err := h.service.ListByOwner(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponses(events))
}

// Update handles PUT /v1/events/:id. Only the owner or an admin may modify an
// event.
//
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Event ID"
// @Param        body  body      updateEventRequest  true  "Fields to change"
// @Success      200   {object}  eventResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	eventID := c.Param("id")
	if err := h.requireOwnerOrAdmin(c, eventID); err != nil {
		return err
	}

	var req updateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.service.Update(c.Request().Context(), eventID, ports.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		Tasks:       toTaskInputs(req.Tasks),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(event))
}

// Delete handles DELETE /v1/events/:id. Only the owner or an admin may delete
// an event.
//
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Event ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	eventID := c.Param("id")
	if err := h.requireOwnerOrAdmin(c, eventID); err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), eventID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "event deleted"})
}

// Attendance handles GET /v1/events/statistics/attendance/:id.
//
// @Summary      Attendance statistics for an event
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Event ID"
// @Success      200  {object}  attendanceResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/events/statistics/attendance/{id} [get]
func (h *EventHandler) Attendance(c echo.Context) error {
	eventID := c.Param("id")
	stats, err := h.service.Attendance(c.Request().Context(), eventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attendanceResponse{
		EventID: eventID,
		Total:   stats.Total,
		ByType:  stats.ByType,
	})
}

// NextEventDate handles GET /v1/events/statistics/next-date/:id.
//
// @Summary      Date of the next event after the given one
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Event ID"
// @Success      200  {object}  nextDateResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/events/statistics/next-date/{id} [get]
func (h *EventHandler) NextEventDate(c echo.Context) error {
	next, err := h.service.NextEventDate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nextDateResponse{NextEventDate: next})
}

// LastEventTasks handles GET /v1/events/statistics/tasks.
//
// @Summary      Remaining work on the most recent event
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  taskReportResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/events/statistics/tasks [get]
func (h *EventHandler) LastEventTasks(c echo.Context) error {
	report, err := h.service.LastEventTasks(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, taskReportResponse{
		Accomplishment:  report.OverallAccomplishment,
		RemainingTotal:  report.RemainingTotal,
		RemainingTitles: report.RemainingTitles,
		TagPercentages:  report.TagPercentages,
	})
}

func (h *EventHandler) requireOwnerOrAdmin(c echo.Context, eventID string) error {
	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if role == domain.RoleAdmin {
		return nil
	}
	event, err := h.service.Get(c.Request().Context(), eventID)
	if err != nil {
		return err
	}
	if event.OwnerID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return nil
}

func toEventResponses(events []*domain.Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}
