package service

import (
	"context"
	"fmt"
	"time"

	"kinoteka/internal/errors"
	"kinoteka/internal/logger"
	"kinoteka/internal/metrics"
	"kinoteka/internal/models"
	"kinoteka/internal/validation"
)

// BookingService owns the capacity invariant: a screening never has more
// tickets issued against it than its allocation. It is the sole writer
// permitted to create tickets; the raw ticket store must not be exposed to
// handlers without going through RequestTicket.
type BookingService struct {
	screenings ScreeningStore
	tickets    TicketStore
	movies     MovieStore
	publisher  Publisher
	locks      *screeningLocks
}

func NewBookingService(screenings ScreeningStore, tickets TicketStore, movies MovieStore, publisher Publisher) *BookingService {
	return &BookingService{
		screenings: screenings,
		tickets:    tickets,
		movies:     movies,
		publisher:  publisher,
		locks:      newScreeningLocks(),
	}
}

// RequestTicket is the single-shot admission decision: admit or reject, no
// intermediate states, no retries. The count-then-insert section is held
// under the per-screening lock so two requests racing for the last seat
// cannot both observe it free.
func (s *BookingService) RequestTicket(ctx context.Context, userID, screeningID int64) (*models.Ticket, error) {
	s.locks.Lock(screeningID)
	defer s.locks.Unlock(screeningID)

	screening, err := s.screenings.GetByID(ctx, screeningID)
	if err != nil {
		return nil, fmt.Errorf("failed to get screening: %w", err)
	}
	if screening == nil {
		return nil, errors.NewNotFound("Screening not found")
	}

	issued, err := s.tickets.CountByScreeningID(ctx, screeningID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	// remaining <= 0 covers both the exactly-full and the oversold case.
	remaining := screening.TicketAllocation - issued
	if remaining <= 0 {
		metrics.AdmissionsRejected.Inc()
		return nil, errors.NewCapacityExceeded("No tickets left for this screening")
	}

	created, err := s.tickets.Create(ctx, models.Ticket{UserID: userID, ScreeningID: screeningID})
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	ticket := created[0]

	metrics.TicketsIssued.Inc()

	s.publish(ctx, models.EventTicketIssued, models.TicketIssuedEvent{
		TicketID:    ticket.ID,
		ScreeningID: screeningID,
		UserID:      userID,
		Remaining:   remaining - 1,
		Timestamp:   time.Now(),
	})

	return &ticket, nil
}

// CreateScreening validates and inserts a screening. The checks run in a
// fixed order so each failure mode keeps its own message: role, array
// shape, structure, timing, movie existence, insert.
func (s *BookingService) CreateScreening(ctx context.Context, actor models.Actor, body []byte) (*models.Screening, error) {
	if !actor.IsAdmin() {
		return nil, errors.ErrForbidden
	}

	if validation.IsArrayBody(body) {
		return nil, errors.NewValidationError("Expected a single screening object, not an array")
	}

	insertable, err := validation.ParseInsertableScreening(body)
	if err != nil {
		return nil, err
	}

	if !insertable.StartsAt.After(time.Now()) {
		return nil, errors.NewValidationError("Screening timestamp must be in the future")
	}

	movie, err := s.movies.GetByID(ctx, insertable.MovieID)
	if err != nil {
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	if movie == nil {
		return nil, errors.NewConstraintViolation("MovieId not in the database")
	}

	screening := &models.Screening{
		MovieID:          insertable.MovieID,
		StartsAt:         insertable.StartsAt,
		TicketAllocation: insertable.TicketAllocation,
	}
	if err := s.screenings.Create(ctx, screening); err != nil {
		return nil, err
	}

	s.publish(ctx, models.EventScreeningCreated, models.ScreeningCreatedEvent{
		ScreeningID: screening.ID,
		MovieID:     screening.MovieID,
		StartsAt:    screening.StartsAt,
		Allocation:  screening.TicketAllocation,
		Timestamp:   time.Now(),
	})

	return screening, nil
}

// DeleteScreening removes a screening unconditionally; issued tickets go
// with it (ON DELETE CASCADE).
func (s *BookingService) DeleteScreening(ctx context.Context, actor models.Actor, id int64) (*models.Screening, error) {
	if !actor.IsAdmin() {
		return nil, errors.ErrForbidden
	}

	deleted, err := s.screenings.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete screening: %w", err)
	}
	if deleted == nil {
		return nil, errors.NewNotFound("Screening not found")
	}

	s.publish(ctx, models.EventScreeningDeleted, models.ScreeningDeletedEvent{
		ScreeningID: deleted.ID,
		Timestamp:   time.Now(),
	})

	return deleted, nil
}

func (s *BookingService) publish(ctx context.Context, subject string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err,
			"event_type", subject)
	}
}
