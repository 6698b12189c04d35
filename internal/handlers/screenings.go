package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"kinoteka/internal/middleware"
	"kinoteka/internal/validation"
)

// Screenings handlers

// CreateScreening - POST /screenings
// Admin-gated. The booking service runs the ordered checks (role, array
// shape, structure, timing, movie existence) so every failure keeps its
// own message.
func (h *Handlers) CreateScreening(c *gin.Context) {
	actor, _ := middleware.ActorFromContext(c)

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	screening, err := h.services.Bookings.CreateScreening(c.Request.Context(), actor, body)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.valkeyClient != nil {
		h.valkeyClient.InvalidateScreeningsList(c.Request.Context())
	}

	c.JSON(http.StatusCreated, screening)
}

// ListScreenings - GET /screenings
func (h *Handlers) ListScreenings(c *gin.Context) {
	// Serve the cached raw JSON when available
	if h.valkeyClient != nil {
		rawJSON, err := h.valkeyClient.GetScreeningsListRaw(c.Request.Context())
		if err == nil {
			c.Data(http.StatusOK, "application/json", rawJSON)
			return
		}
	}

	screenings, err := h.services.Screenings.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if h.valkeyClient != nil {
		h.valkeyClient.SetScreeningsList(c.Request.Context(), screenings)
	}

	c.JSON(http.StatusOK, screenings)
}

// GetScreening - GET /screenings/:id
func (h *Handlers) GetScreening(c *gin.Context) {
	id, err := validation.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid screening ID"})
		return
	}

	screening, err := h.services.Screenings.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, screening)
}

// DeleteScreening - DELETE /screenings/:id
// Admin-gated. Deletion is unconditional; the deleted row is returned.
func (h *Handlers) DeleteScreening(c *gin.Context) {
	id, err := validation.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid screening ID"})
		return
	}

	actor, _ := middleware.ActorFromContext(c)

	deleted, err := h.services.Bookings.DeleteScreening(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.valkeyClient != nil {
		h.valkeyClient.InvalidateScreeningsList(c.Request.Context())
	}

	slog.Info("Screening deleted", "screening_id", deleted.ID)
	c.JSON(http.StatusOK, deleted)
}
