package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"kinoteka/internal/database"
	"kinoteka/internal/models"
)

type MovieRepository struct {
	db *database.DB
}

func NewMovieRepository(db *database.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	query := `
		INSERT INTO movies (title, director, year)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		movie.Title,
		movie.Director,
		movie.Year,
	).Scan(&movie.ID, &movie.CreatedAt)
}

func (r *MovieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	movie := &models.Movie{}
	query := `
		SELECT id, title, director, year, created_at
		FROM movies
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Director,
		&movie.Year,
		&movie.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return movie, err
}

func (r *MovieRepository) List(ctx context.Context) ([]models.Movie, error) {
	var movies []models.Movie
	query := `
		SELECT id, title, director, year, created_at
		FROM movies
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var movie models.Movie
		err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Director,
			&movie.Year,
			&movie.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}

	return movies, rows.Err()
}

// GetByIDs loads the movies referenced by a batch of ids, keyed by id.
// Used by the consumers when reindexing search documents.
func (r *MovieRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]models.Movie, error) {
	result := make(map[int64]models.Movie, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT id, title, director, year, created_at
		FROM movies
		WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var movie models.Movie
		err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Director,
			&movie.Year,
			&movie.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		result[movie.ID] = movie
	}

	return result, rows.Err()
}
