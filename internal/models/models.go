package models

import "time"

// InsertableScreening is a validated screening creation payload. It is the
// screening entity minus the generated fields.
type InsertableScreening struct {
	MovieID          int64     `json:"movieId"`
	StartsAt         time.Time `json:"timestamp"`
	TicketAllocation int       `json:"ticketAllocation"`
}

// CreateTicketRequest is a validated ticket creation payload
type CreateTicketRequest struct {
	UserID      int64 `json:"userId"`
	ScreeningID int64 `json:"screeningId"`
}

// CreateMovieRequest - payload for adding a movie to the catalog
type CreateMovieRequest struct {
	Title    string  `json:"title" binding:"required"`
	Director *string `json:"director,omitempty"`
	Year     *int    `json:"year,omitempty"`
}

// ListMoviesResponse - movie catalog listing
type ListMoviesResponse []Movie

// ListScreeningsResponse - screening listing
type ListScreeningsResponse []Screening

// ListTicketsResponse - tickets held by one user
type ListTicketsResponse []Ticket
