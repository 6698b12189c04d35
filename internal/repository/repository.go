package repository

import (
	"kinoteka/internal/database"
)

type Repositories struct {
	Movies     *MovieRepository
	Users      *UserRepository
	Screenings *ScreeningRepository
	Tickets    *TicketRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Movies:     NewMovieRepository(db),
		Users:      NewUserRepository(db),
		Screenings: NewScreeningRepository(db),
		Tickets:    NewTicketRepository(db),
	}
}
