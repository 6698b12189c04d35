package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"kinoteka/internal/cache"
	"kinoteka/internal/errors"
	"kinoteka/internal/service"
)

type Handlers struct {
	services     *service.Services
	valkeyClient *cache.ValkeyClient
}

func NewHandlers(services *service.Services, valkeyClient *cache.ValkeyClient) *Handlers {
	return &Handlers{
		services:     services,
		valkeyClient: valkeyClient,
	}
}

// respondError maps the error taxonomy onto HTTP responses. Anything
// outside the taxonomy is a storage or programming failure and surfaces as
// an opaque 500.
func respondError(c *gin.Context, err error) {
	var validationErr *errors.ValidationError
	if errors.As(err, &validationErr) {
		body := gin.H{"message": validationErr.Message}
		if len(validationErr.Fields) > 0 {
			body["errors"] = validationErr.Fields
		}
		c.JSON(http.StatusBadRequest, body)
		return
	}

	var notFoundErr *errors.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundErr.Message})
		return
	}

	var capacityErr *errors.CapacityError
	if errors.As(err, &capacityErr) {
		c.JSON(http.StatusBadRequest, gin.H{"message": capacityErr.Message})
		return
	}

	var constraintErr *errors.ConstraintError
	if errors.As(err, &constraintErr) {
		c.JSON(http.StatusBadRequest, gin.H{"message": constraintErr.Message})
		return
	}

	var invalidArgErr *errors.InvalidArgumentError
	if errors.As(err, &invalidArgErr) {
		c.JSON(http.StatusBadRequest, gin.H{"message": invalidArgErr.Message})
		return
	}

	if errors.Is(err, errors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
		return
	}

	slog.Error("Request failed", "error", err, "path", c.Request.URL.Path)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
