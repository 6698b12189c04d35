package models

import (
	"time"
)

// User roles. Role gates screening creation and deletion.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Movie represents a catalog entry screenings reference
type Movie struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Director  *string   `json:"director" db:"director"`
	Year      *int      `json:"year" db:"year"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// User represents a registered user
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	DisplayName  string    `json:"displayName" db:"display_name"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Screening is a scheduled showing of a movie with a fixed ticket
// allocation. The allocation is immutable after creation.
type Screening struct {
	ID               int64     `json:"id" db:"id"`
	MovieID          int64     `json:"movieId" db:"movie_id"`
	StartsAt         time.Time `json:"timestamp" db:"starts_at"`
	TicketAllocation int       `json:"ticketAllocation" db:"ticket_allocation"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}

// Ticket is a pooled-capacity admission against a screening. Tickets are
// only created through the booking service admission check.
type Ticket struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"`
	ScreeningID int64     `json:"screeningId" db:"screening_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	ID   int64
	Role string
}

// IsAdmin reports whether the actor may perform admin-gated operations.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
