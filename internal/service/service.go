package service

import (
	"context"

	"kinoteka/internal/models"
	"kinoteka/internal/repository"
)

// Store interfaces are satisfied by the repository types. Services depend
// on them rather than the concrete repositories so tests can inject
// in-memory fakes.

type MovieStore interface {
	Create(ctx context.Context, movie *models.Movie) error
	GetByID(ctx context.Context, id int64) (*models.Movie, error)
	List(ctx context.Context) ([]models.Movie, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type ScreeningStore interface {
	Create(ctx context.Context, screening *models.Screening) error
	GetByID(ctx context.Context, id int64) (*models.Screening, error)
	List(ctx context.Context) ([]models.Screening, error)
	Delete(ctx context.Context, id int64) (*models.Screening, error)
}

type TicketStore interface {
	Create(ctx context.Context, records ...models.Ticket) ([]models.Ticket, error)
	ListByUserID(ctx context.Context, userID int64) ([]models.Ticket, error)
	CountByScreeningID(ctx context.Context, screeningID int64) (int, error)
}

// Publisher decouples services from the messaging client. Publishing is
// best-effort: services log failures and continue.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// MovieSearch is the movie catalog search index.
type MovieSearch interface {
	IndexMovie(ctx context.Context, movie models.Movie) error
	Search(ctx context.Context, query string) ([]models.Movie, error)
}

type Services struct {
	Movies     *MovieService
	Users      *UserService
	Screenings *ScreeningService
	Tickets    *TicketService
	Bookings   *BookingService
}

func NewServices(repos *repository.Repositories, publisher Publisher, search MovieSearch) *Services {
	movieService := NewMovieService(repos.Movies, search)
	userService := NewUserService(repos.Users)
	screeningService := NewScreeningService(repos.Screenings)
	ticketService := NewTicketService(repos.Tickets)
	bookingService := NewBookingService(repos.Screenings, repos.Tickets, repos.Movies, publisher)

	return &Services{
		Movies:     movieService,
		Users:      userService,
		Screenings: screeningService,
		Tickets:    ticketService,
		Bookings:   bookingService,
	}
}
