package models

import "time"

// NATS event subjects
const (
	EventScreeningCreated = "screening.created"
	EventScreeningDeleted = "screening.deleted"
	EventTicketIssued     = "ticket.issued"
)

// ScreeningCreatedEvent is published after a screening row is inserted
type ScreeningCreatedEvent struct {
	ScreeningID int64     `json:"screening_id"`
	MovieID     int64     `json:"movie_id"`
	StartsAt    time.Time `json:"starts_at"`
	Allocation  int       `json:"allocation"`
	Timestamp   time.Time `json:"timestamp"`
}

// ScreeningDeletedEvent is published after a screening row is deleted
type ScreeningDeletedEvent struct {
	ScreeningID int64     `json:"screening_id"`
	Timestamp   time.Time `json:"timestamp"`
}

// TicketIssuedEvent is published after an admission succeeds. Remaining is
// the capacity left after this ticket.
type TicketIssuedEvent struct {
	TicketID    int64     `json:"ticket_id"`
	ScreeningID int64     `json:"screening_id"`
	UserID      int64     `json:"user_id"`
	Remaining   int       `json:"remaining"`
	Timestamp   time.Time `json:"timestamp"`
}
