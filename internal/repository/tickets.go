package repository

import (
	"context"
	"database/sql"

	"kinoteka/internal/database"
	"kinoteka/internal/errors"
	"kinoteka/internal/models"
)

// TicketRepository owns persistence access for tickets and the aggregate
// used by capacity checks. Every id argument is re-validated here: the
// repository may be invoked by callers that skip the validation layer.
type TicketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func requireID(field string, id int64) error {
	if id <= 0 {
		return errors.NewInvalidArgument(field + " must be a positive integer")
	}
	return nil
}

// Create inserts one or more tickets and returns the created rows. Bulk
// insert is an internal convenience; the admission path always passes a
// single record.
func (r *TicketRepository) Create(ctx context.Context, records ...models.Ticket) ([]models.Ticket, error) {
	if len(records) == 0 {
		return nil, nil
	}

	for _, record := range records {
		if err := requireID("userId", record.UserID); err != nil {
			return nil, err
		}
		if err := requireID("screeningId", record.ScreeningID); err != nil {
			return nil, err
		}
	}

	query := `
		INSERT INTO tickets (user_id, screening_id)
		VALUES ($1, $2)
		RETURNING id, user_id, screening_id, created_at`

	created := make([]models.Ticket, 0, len(records))
	for _, record := range records {
		var ticket models.Ticket
		err := r.db.QueryRowContext(ctx, query, record.UserID, record.ScreeningID).Scan(
			&ticket.ID,
			&ticket.UserID,
			&ticket.ScreeningID,
			&ticket.CreatedAt,
		)
		if err != nil {
			return nil, translateConstraint(err)
		}
		created = append(created, ticket)
	}

	return created, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*models.Ticket, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}

	ticket := &models.Ticket{}
	query := `
		SELECT id, user_id, screening_id, created_at
		FROM tickets
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.ScreeningID,
		&ticket.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return ticket, err
}

func (r *TicketRepository) ListByUserID(ctx context.Context, userID int64) ([]models.Ticket, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}

	var tickets []models.Ticket
	query := `
		SELECT id, user_id, screening_id, created_at
		FROM tickets
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ticket models.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.UserID,
			&ticket.ScreeningID,
			&ticket.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}

// Delete removes a ticket and returns the deleted row, or nil when absent.
// Freeing capacity is implicit: a lower count simply allows more future
// admissions.
func (r *TicketRepository) Delete(ctx context.Context, id int64) (*models.Ticket, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}

	ticket := &models.Ticket{}
	query := `
		DELETE FROM tickets
		WHERE id = $1
		RETURNING id, user_id, screening_id, created_at`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.ScreeningID,
		&ticket.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return ticket, err
}

// CountByScreeningID returns the number of tickets issued against a
// screening. The booking service compares it to the allocation.
func (r *TicketRepository) CountByScreeningID(ctx context.Context, screeningID int64) (int, error) {
	if err := requireID("screeningId", screeningID); err != nil {
		return 0, err
	}

	var count int
	query := `SELECT COUNT(*) FROM tickets WHERE screening_id = $1`

	err := r.db.QueryRowContext(ctx, query, screeningID).Scan(&count)
	return count, err
}

// CountAllByScreening returns issued counts for every screening that has
// tickets. Used by the reconciliation job.
func (r *TicketRepository) CountAllByScreening(ctx context.Context) (map[int64]int, error) {
	counts := make(map[int64]int)
	query := `
		SELECT screening_id, COUNT(*)
		FROM tickets
		GROUP BY screening_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var screeningID int64
		var count int
		if err := rows.Scan(&screeningID, &count); err != nil {
			return nil, err
		}
		counts[screeningID] = count
	}

	return counts, rows.Err()
}
