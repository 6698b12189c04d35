package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kinoteka/internal/middleware"
	"kinoteka/internal/models"
	"kinoteka/internal/validation"
)

// Movies handlers

// CreateMovie - POST /movies
func (h *Handlers) CreateMovie(c *gin.Context) {
	var req models.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	actor, _ := middleware.ActorFromContext(c)

	movie, err := h.services.Movies.Create(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, movie)
}

// ListMovies - GET /movies?query=
func (h *Handlers) ListMovies(c *gin.Context) {
	movies, err := h.services.Movies.List(c.Request.Context(), c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, movies)
}

// GetMovie - GET /movies/:id
func (h *Handlers) GetMovie(c *gin.Context) {
	id, err := validation.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid movie ID"})
		return
	}

	movie, err := h.services.Movies.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, movie)
}

// GetUser - GET /users/:id
func (h *Handlers) GetUser(c *gin.Context) {
	id, err := validation.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user ID"})
		return
	}

	user, err := h.services.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
