package service

import (
	"context"
	"fmt"

	"kinoteka/internal/errors"
	"kinoteka/internal/logger"
	"kinoteka/internal/models"
)

// MovieService exposes the movie catalog. Text search goes through the
// Elasticsearch index when one is wired; without it, queries fall back to
// the plain listing.
type MovieService struct {
	movies MovieStore
	search MovieSearch
}

func NewMovieService(movies MovieStore, search MovieSearch) *MovieService {
	return &MovieService{movies: movies, search: search}
}

func (s *MovieService) Create(ctx context.Context, actor models.Actor, req *models.CreateMovieRequest) (*models.Movie, error) {
	if !actor.IsAdmin() {
		return nil, errors.ErrForbidden
	}

	movie := &models.Movie{
		Title:    req.Title,
		Director: req.Director,
		Year:     req.Year,
	}
	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	if s.search != nil {
		if err := s.search.IndexMovie(ctx, *movie); err != nil {
			logger.WithContext(ctx).Error("Failed to index movie",
				"error", err,
				"movie_id", movie.ID)
		}
	}

	return movie, nil
}

func (s *MovieService) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	if movie == nil {
		return nil, errors.NewNotFound("Movie not found")
	}
	return movie, nil
}

func (s *MovieService) List(ctx context.Context, query string) ([]models.Movie, error) {
	if query != "" && s.search != nil {
		movies, err := s.search.Search(ctx, query)
		if err == nil {
			return movies, nil
		}
		logger.WithContext(ctx).Error("Movie search failed, falling back to catalog listing",
			"error", err,
			"query", query)
	}

	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	if movies == nil {
		movies = []models.Movie{}
	}
	return movies, nil
}
