package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kinoteka/internal/validation"
)

// Tickets handlers

// ListTickets - GET /tickets?userId=
func (h *Handlers) ListTickets(c *gin.Context) {
	userID, err := validation.ParseUserTicketsQuery(c.Query("userId"))
	if err != nil {
		respondError(c, err)
		return
	}

	tickets, err := h.services.Tickets.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tickets)
}

// CreateTicket - POST /tickets
// The only path that creates tickets: every request goes through the
// booking service admission check.
func (h *Handlers) CreateTicket(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	req, err := validation.ParseCreateTicket(body)
	if err != nil {
		respondError(c, err)
		return
	}

	ticket, err := h.services.Bookings.RequestTicket(c.Request.Context(), req.UserID, req.ScreeningID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}
