package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kinoteka/internal/cache"
	"kinoteka/internal/config"
	"kinoteka/internal/database"
	"kinoteka/internal/handlers"
	"kinoteka/internal/logger"
	"kinoteka/internal/messaging"
	"kinoteka/internal/middleware"
	"kinoteka/internal/repository"
	"kinoteka/internal/search"
	"kinoteka/internal/service"
)

// Server wires the HTTP API together
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

// NewServer builds a fully wired server instance
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Valkey, Elasticsearch and NATS are optional collaborators: the API
	// degrades to uncached, unsearchable, event-less operation without them.
	valkeyClient, err := cache.NewValkeyClient()
	if err != nil {
		slog.Warn("Valkey unavailable, running without cache", "error", err)
		valkeyClient = nil
	}

	var movieSearch service.MovieSearch
	esClient, err := search.NewElasticsearchClient(config.LoadElasticsearchConfig())
	if err != nil {
		slog.Warn("Elasticsearch unavailable, movie search disabled", "error", err)
	} else {
		movieSearch = esClient
	}

	var publisher service.Publisher
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		slog.Warn("NATS unavailable, events disabled", "error", err)
		natsClient = nil
	} else {
		publisher = natsClient
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, publisher, movieSearch)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.valkey)

	authed := s.router.Group("/")
	authed.Use(middleware.BasicAuth(s.repos.Users, s.valkey))
	{
		movies := authed.Group("/movies")
		{
			movies.POST("", middleware.RequireAdmin(), h.CreateMovie)
			movies.GET("", h.ListMovies)
			movies.GET("/:id", h.GetMovie)
		}

		screenings := authed.Group("/screenings")
		{
			screenings.POST("", h.CreateScreening)
			screenings.GET("", h.ListScreenings)
			screenings.GET("/:id", h.GetScreening)
			screenings.DELETE("/:id", h.DeleteScreening)
		}

		tickets := authed.Group("/tickets")
		{
			tickets.POST("", h.CreateTicket)
			tickets.GET("", h.ListTickets)
		}

		users := authed.Group("/users")
		{
			users.GET("/:id", h.GetUser)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "kinoteka-api",
		"version": "1.0.0",
	})
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests and the main package
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes external connections
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			slog.Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
