package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lib/pq"

	"kinoteka/internal/database"
	"kinoteka/internal/errors"
	"kinoteka/internal/models"
)

// Postgres error codes surfaced as constraint violations.
const (
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
)

// ScreeningRepository owns persistence access for screenings. It carries no
// business rules beyond what the SQL constraints express.
type ScreeningRepository struct {
	db *database.DB
}

func NewScreeningRepository(db *database.DB) *ScreeningRepository {
	return &ScreeningRepository{db: db}
}

func (r *ScreeningRepository) Create(ctx context.Context, screening *models.Screening) error {
	query := `
		INSERT INTO screenings (movie_id, starts_at, ticket_allocation)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		screening.MovieID,
		screening.StartsAt,
		screening.TicketAllocation,
	).Scan(&screening.ID, &screening.CreatedAt)

	return translateConstraint(err)
}

func (r *ScreeningRepository) GetByID(ctx context.Context, id int64) (*models.Screening, error) {
	screening := &models.Screening{}
	query := `
		SELECT id, movie_id, starts_at, ticket_allocation, created_at
		FROM screenings
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&screening.ID,
		&screening.MovieID,
		&screening.StartsAt,
		&screening.TicketAllocation,
		&screening.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return screening, err
}

func (r *ScreeningRepository) List(ctx context.Context) ([]models.Screening, error) {
	var screenings []models.Screening
	query := `
		SELECT id, movie_id, starts_at, ticket_allocation, created_at
		FROM screenings
		ORDER BY starts_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var screening models.Screening
		err := rows.Scan(
			&screening.ID,
			&screening.MovieID,
			&screening.StartsAt,
			&screening.TicketAllocation,
			&screening.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		screenings = append(screenings, screening)
	}

	return screenings, rows.Err()
}

// Delete removes a screening and returns the deleted row, or nil when no
// screening with the id exists.
func (r *ScreeningRepository) Delete(ctx context.Context, id int64) (*models.Screening, error) {
	screening := &models.Screening{}
	query := `
		DELETE FROM screenings
		WHERE id = $1
		RETURNING id, movie_id, starts_at, ticket_allocation, created_at`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&screening.ID,
		&screening.MovieID,
		&screening.StartsAt,
		&screening.TicketAllocation,
		&screening.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return screening, err
}

// translateConstraint maps Postgres integrity violations to the error
// taxonomy so the service can answer with a 400 instead of a 500.
func translateConstraint(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqForeignKeyViolation:
			return errors.NewConstraintViolation(fkViolationMessage(pqErr.Constraint))
		case pqCheckViolation:
			return errors.NewConstraintViolation("ticketAllocation must be a positive integer")
		}
	}

	return err
}

// fkViolationMessage names the referenced entity from the violated
// constraint. Screenings carry a movie FK; tickets carry user and
// screening FKs.
func fkViolationMessage(constraint string) string {
	switch {
	case strings.Contains(constraint, "user_id"):
		return "UserId not in the database"
	case strings.Contains(constraint, "screening_id"):
		return "ScreeningId not in the database"
	default:
		return "MovieId not in the database"
	}
}
