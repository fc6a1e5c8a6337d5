package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uventlo/event-platform/internal/core/ports"
)

// ContactHandler handles HTTP requests for the mutual contact list.
type ContactHandler struct {
	service ports.ContactService
}

func NewContactHandler(service ports.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// Add handles POST /v1/users/:id/contacts. Both accounts gain a contact entry
// pointing at the other.
//
// @Summary      Add a contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Account ID"
// @Param        body  body      addContactRequest  true  "Contact to link"
// @Success      201   {object}  contactResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/users/{id}/contacts [post]
func (h *ContactHandler) Add(c echo.Context) error {
	accountID := c.Param("id")
	if err := requireSelfOrAdmin(c, accountID); err != nil {
		return err
	}

	var req addContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contact, err := h.service.Add(c.Request().Context(), accountID, req.ContactID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toContactResponse(contact))
}

// List handles GET /v1/users/:id/contacts.
//
// @Summary      List an account's contacts
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Account ID"
// @Success      200  {array}   contactResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id}/contacts [get]
func (h *ContactHandler) List(c echo.Context) error {
	accountID := c.Param("id")
	if err := requireSelfOrAdmin(c, accountID); err != nil {
		return err
	}

	contacts, err := h.service.List(c.Request().Context(), accountID)
	if err != nil {
		return err
	}
	out := make([]contactResponse, 0, len(contacts))
	for _, ct := range contacts {
		out = append(out, toContactResponse(ct))
	}
	return c.JSON(http.StatusOK, out)
}
