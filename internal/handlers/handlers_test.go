package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kinoteka/internal/middleware"
	"kinoteka/internal/models"
	"kinoteka/internal/service"
)

// In-memory stores backing the service layer under test. No database, no
// cache, no broker: the handlers see the same service surface either way.

type memStore struct {
	mu         sync.Mutex
	nextID     int64
	movies     map[int64]models.Movie
	users      map[int64]models.User
	screenings map[int64]models.Screening
	tickets    []models.Ticket
}

func newMemStore() *memStore {
	return &memStore{
		nextID:     1,
		movies:     make(map[int64]models.Movie),
		users:      make(map[int64]models.User),
		screenings: make(map[int64]models.Screening),
	}
}

func (m *memStore) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *memStore) Create(_ context.Context, movie *models.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	movie.ID = m.id()
	movie.CreatedAt = time.Now()
	m.movies[movie.ID] = *movie
	return nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (*models.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	movie, ok := m.movies[id]
	if !ok {
		return nil, nil
	}
	return &movie, nil
}

func (m *memStore) List(_ context.Context) ([]models.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Movie, 0, len(m.movies))
	for _, movie := range m.movies {
		out = append(out, movie)
	}
	return out, nil
}

type userStore struct{ store *memStore }

func (s userStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	user, ok := s.store.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

type screeningStore struct{ store *memStore }

func (s screeningStore) Create(_ context.Context, screening *models.Screening) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	screening.ID = s.store.id()
	screening.CreatedAt = time.Now()
	s.store.screenings[screening.ID] = *screening
	return nil
}

func (s screeningStore) GetByID(_ context.Context, id int64) (*models.Screening, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	screening, ok := s.store.screenings[id]
	if !ok {
		return nil, nil
	}
	return &screening, nil
}

func (s screeningStore) List(_ context.Context) ([]models.Screening, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	out := make([]models.Screening, 0, len(s.store.screenings))
	for _, screening := range s.store.screenings {
		out = append(out, screening)
	}
	return out, nil
}

func (s screeningStore) Delete(_ context.Context, id int64) (*models.Screening, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	screening, ok := s.store.screenings[id]
	if !ok {
		return nil, nil
	}
	delete(s.store.screenings, id)
	return &screening, nil
}

type ticketStore struct{ store *memStore }

func (s ticketStore) Create(_ context.Context, records ...models.Ticket) ([]models.Ticket, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	created := make([]models.Ticket, 0, len(records))
	for _, record := range records {
		record.ID = s.store.id()
		record.CreatedAt = time.Now()
		s.store.tickets = append(s.store.tickets, record)
		created = append(created, record)
	}
	return created, nil
}

func (s ticketStore) ListByUserID(_ context.Context, userID int64) ([]models.Ticket, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	var out []models.Ticket
	for _, ticket := range s.store.tickets {
		if ticket.UserID == userID {
			out = append(out, ticket)
		}
	}
	return out, nil
}

func (s ticketStore) CountByScreeningID(_ context.Context, screeningID int64) (int, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	count := 0
	for _, ticket := range s.store.tickets {
		if ticket.ScreeningID == screeningID {
			count++
		}
	}
	return count, nil
}

type testEnv struct {
	store  *memStore
	router *gin.Engine
}

// setupRouter wires handlers onto in-memory services with a fixed actor
// injected in place of basic auth.
func setupRouter(actor models.Actor) *testEnv {
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	movies := store
	screenings := screeningStore{store: store}
	tickets := ticketStore{store: store}
	users := userStore{store: store}

	services := &service.Services{
		Movies:     service.NewMovieService(movies, nil),
		Users:      service.NewUserService(users),
		Screenings: service.NewScreeningService(screenings),
		Tickets:    service.NewTicketService(tickets),
		Bookings:   service.NewBookingService(screenings, tickets, movies, nil),
	}

	h := NewHandlers(services, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetActor(c, actor)
		c.Next()
	})

	r.POST("/movies", h.CreateMovie)
	r.GET("/movies", h.ListMovies)
	r.GET("/movies/:id", h.GetMovie)
	r.POST("/screenings", h.CreateScreening)
	r.GET("/screenings", h.ListScreenings)
	r.GET("/screenings/:id", h.GetScreening)
	r.DELETE("/screenings/:id", h.DeleteScreening)
	r.POST("/tickets", h.CreateTicket)
	r.GET("/tickets", h.ListTickets)
	r.GET("/users/:id", h.GetUser)

	return &testEnv{store: store, router: r}
}

func (e *testEnv) request(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) addMovie(title string) int64 {
	movie := &models.Movie{Title: title}
	_ = e.store.Create(context.Background(), movie)
	return movie.ID
}

func (e *testEnv) addScreening(movieID int64, startsAt time.Time, allocation int) int64 {
	screening := &models.Screening{MovieID: movieID, StartsAt: startsAt, TicketAllocation: allocation}
	_ = (screeningStore{store: e.store}).Create(context.Background(), screening)
	return screening.ID
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

var admin = models.Actor{ID: 1, Role: models.RoleAdmin}
var regular = models.Actor{ID: 2, Role: models.RoleUser}

func futureTimestamp() string {
	return time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339)
}

func TestCreateScreening(t *testing.T) {
	env := setupRouter(admin)
	movieID := env.addMovie("Stalker")

	body := fmt.Sprintf(`{"movieId": %d, "timestamp": %q, "ticketAllocation": 40}`, movieID, futureTimestamp())
	w := env.request(t, "POST", "/screenings", body)

	assert.Equal(t, http.StatusCreated, w.Code)

	var screening models.Screening
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &screening))
	assert.Equal(t, movieID, screening.MovieID)
	assert.Equal(t, 40, screening.TicketAllocation)
	assert.NotZero(t, screening.ID)
}

func TestCreateScreening_Forbidden(t *testing.T) {
	env := setupRouter(regular)
	movieID := env.addMovie("Stalker")

	body := fmt.Sprintf(`{"movieId": %d, "timestamp": %q, "ticketAllocation": 40}`, movieID, futureTimestamp())
	w := env.request(t, "POST", "/screenings", body)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", message(t, w))
}

func TestCreateScreening_ArrayBody(t *testing.T) {
	env := setupRouter(admin)
	movieID := env.addMovie("Stalker")

	body := fmt.Sprintf(`[{"movieId": %d, "timestamp": %q, "ticketAllocation": 40}]`, movieID, futureTimestamp())
	w := env.request(t, "POST", "/screenings", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Expected a single screening object, not an array", message(t, w))
}

func TestCreateScreening_PastTimestamp(t *testing.T) {
	env := setupRouter(admin)
	movieID := env.addMovie("Stalker")

	body := fmt.Sprintf(`{"movieId": %d, "timestamp": "2020-01-01T12:00:00Z", "ticketAllocation": 40}`, movieID)
	w := env.request(t, "POST", "/screenings", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Screening timestamp must be in the future", message(t, w))
}

func TestCreateScreening_InvalidTimestamp(t *testing.T) {
	env := setupRouter(admin)
	movieID := env.addMovie("Stalker")

	body := fmt.Sprintf(`{"movieId": %d, "timestamp": "whenever", "ticketAllocation": 40}`, movieID)
	w := env.request(t, "POST", "/screenings", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid timestamp", message(t, w))
}

func TestCreateScreening_UnknownMovie(t *testing.T) {
	env := setupRouter(admin)

	body := fmt.Sprintf(`{"movieId": 999, "timestamp": %q, "ticketAllocation": 40}`, futureTimestamp())
	w := env.request(t, "POST", "/screenings", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MovieId not in the database", message(t, w))
}

func TestListScreenings(t *testing.T) {
	env := setupRouter(regular)
	movieID := env.addMovie("Playtime")
	env.addScreening(movieID, time.Now().Add(-time.Hour), 10)
	upcomingID := env.addScreening(movieID, time.Now().Add(time.Hour), 10)

	w := env.request(t, "GET", "/screenings", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var screenings []models.Screening
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &screenings))
	require.Len(t, screenings, 1)
	assert.Equal(t, upcomingID, screenings[0].ID)
}

func TestListScreenings_Empty(t *testing.T) {
	env := setupRouter(regular)

	w := env.request(t, "GET", "/screenings", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No screenings found", message(t, w))
}

func TestGetScreening(t *testing.T) {
	env := setupRouter(regular)
	movieID := env.addMovie("Playtime")
	screeningID := env.addScreening(movieID, time.Now().Add(time.Hour), 25)

	w := env.request(t, "GET", fmt.Sprintf("/screenings/%d", screeningID), "")

	assert.Equal(t, http.StatusOK, w.Code)

	var screening models.Screening
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &screening))
	assert.Equal(t, screeningID, screening.ID)
	assert.Equal(t, 25, screening.TicketAllocation)
}

func TestGetScreening_InvalidID(t *testing.T) {
	env := setupRouter(regular)

	w := env.request(t, "GET", "/screenings/abc", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid screening ID", message(t, w))
}

func TestGetScreening_NotFound(t *testing.T) {
	env := setupRouter(regular)

	w := env.request(t, "GET", "/screenings/404", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Screening not found", message(t, w))
}

func TestDeleteScreening(t *testing.T) {
	env := setupRouter(admin)
	movieID := env.addMovie("Playtime")
	screeningID := env.addScreening(movieID, time.Now().Add(time.Hour), 25)

	w := env.request(t, "DELETE", fmt.Sprintf("/screenings/%d", screeningID), "")

	assert.Equal(t, http.StatusOK, w.Code)

	var deleted models.Screening
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deleted))
	assert.Equal(t, screeningID, deleted.ID)

	w = env.request(t, "GET", fmt.Sprintf("/screenings/%d", screeningID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteScreening_NotFound(t *testing.T) {
	env := setupRouter(admin)

	w := env.request(t, "DELETE", "/screenings/404", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Screening not found", message(t, w))
}

func TestDeleteScreening_Forbidden(t *testing.T) {
	env := setupRouter(regular)
	movieID := env.addMovie("Playtime")
	screeningID := env.addScreening(movieID, time.Now().Add(time.Hour), 25)

	w := env.request(t, "DELETE", fmt.Sprintf("/screenings/%d", screeningID), "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", message(t, w))
}

func TestCreateTicket(t *testing.T) {
	env := setupRouter(regular)
	movieID := env.addMovie("Seven Samurai")
	screeningID := env.addScreening(movieID, time.Now().Add(time.Hour), 2)

	w := env.request(t, "POST", "/tickets", fmt.Sprintf(`{"userId": 2, "screeningId": %d}`, screeningID))

	assert.Equal(t, http.StatusCreated, w.Code)

	var ticket models.Ticket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))
	assert.Equal(t, int64(2), ticket.UserID)
	assert.Equal(t, screeningID, ticket.ScreeningID)
	assert.NotZero(t, ticket.ID)
}

func TestCreateTicket_SoldOut(t *testing.T) {
	env := setupRouter(regular)
	movieID := env.addMovie("Seven Samurai")
	screeningID := env.addScreening(movieID, time.Now().Add(time.Hour), 1)

	w := env.request(t, "POST", "/tickets", fmt.Sprintf(`{"userId": 2, "screeningId": %d}`, screeningID))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, "POST", "/tickets", fmt.Sprintf(`{"userId": 3, "screeningId": %d}`, screeningID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No tickets left for this screening", message(t, w))
}

func TestCreateTicket_UnknownScreening(t *testing.T) {
	env := setupRouter(regular)

	w := env.request(t, "POST", "/tickets", `{"userId": 2, "screeningId": 404}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Screening not found", message(t, w))
}

func TestCreateTicket_InvalidBody(t *testing.T) {
	env := setupRouter(regular)

	for _, body := range []string{
		`not json`,
		`{"userId": "2", "screeningId": 1}`,
		`{"screeningId": 1}`,
		`{"userId": -2, "screeningId": 1}`,
	} {
		w := env.request(t, "POST", "/tickets", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body=%s", body)
		assert.Equal(t, "Invalid request body", message(t, w), "body=%s", body)
	}
}

func TestListTickets(t *testing.T) {
	env := setupRouter(regular)
	movieID := env.addMovie("Seven Samurai")
	screeningID := env.addScreening(movieID, time.Now().Add(time.Hour), 5)

	w := env.request(t, "POST", "/tickets", fmt.Sprintf(`{"userId": 8, "screeningId": %d}`, screeningID))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, "GET", "/tickets?userId=8", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var tickets []models.Ticket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tickets))
	require.Len(t, tickets, 1)
	assert.Equal(t, int64(8), tickets[0].UserID)
}

func TestListTickets_EmptyIsOK(t *testing.T) {
	env := setupRouter(regular)

	w := env.request(t, "GET", "/tickets?userId=8", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestListTickets_InvalidUserID(t *testing.T) {
	env := setupRouter(regular)

	for _, query := range []string{"", "abc", "0", "-1"} {
		w := env.request(t, "GET", "/tickets?userId="+query, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "userId=%q", query)
		assert.Equal(t, "Invalid userId", message(t, w), "userId=%q", query)
	}
}

func TestCreateMovie(t *testing.T) {
	env := setupRouter(admin)

	w := env.request(t, "POST", "/movies", `{"title": "The Third Man", "director": "Carol Reed", "year": 1949}`)

	assert.Equal(t, http.StatusCreated, w.Code)

	var movie models.Movie
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movie))
	assert.Equal(t, "The Third Man", movie.Title)
	require.NotNil(t, movie.Director)
	assert.Equal(t, "Carol Reed", *movie.Director)
}

func TestCreateMovie_MissingTitle(t *testing.T) {
	env := setupRouter(admin)

	w := env.request(t, "POST", "/movies", `{"director": "Carol Reed"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", message(t, w))
}

func TestCreateMovie_Forbidden(t *testing.T) {
	env := setupRouter(regular)

	w := env.request(t, "POST", "/movies", `{"title": "The Third Man"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", message(t, w))
}

func TestGetMovie_NotFound(t *testing.T) {
	env := setupRouter(regular)

	w := env.request(t, "GET", "/movies/404", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Movie not found", message(t, w))
}

func TestGetUser_NotFound(t *testing.T) {
	env := setupRouter(regular)

	w := env.request(t, "GET", "/users/404", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", message(t, w))
}
