package consumers

import (
	"context"
	"log/slog"

	"kinoteka/internal/cache"
	"kinoteka/internal/config"
	"kinoteka/internal/database"
	"kinoteka/internal/messaging"
	"kinoteka/internal/models"
	"kinoteka/internal/repository"
	"kinoteka/internal/search"
)

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	valkeyClient, err := cache.NewValkeyClient()
	if err != nil {
		slog.Warn("Valkey unavailable, counter sync disabled", "error", err)
		valkeyClient = nil
	}

	searchClient, err := search.NewElasticsearchClient(config.LoadElasticsearchConfig())
	if err != nil {
		slog.Warn("Elasticsearch unavailable, index sync disabled", "error", err)
		searchClient = nil
	}

	repos := repository.NewRepositories(db)
	handlers := NewHandlers(repos, valkeyClient, searchClient)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	_, err := cs.nats.SubscribeQueue(models.EventTicketIssued, "consumers", cs.handlers.HandleTicketIssued)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventScreeningCreated, "consumers", cs.handlers.HandleScreeningCreated)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventScreeningDeleted, "consumers", cs.handlers.HandleScreeningDeleted)
	if err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

// Repositories exposes the repository set for background jobs
func (cs *ConsumerService) Repositories() *repository.Repositories {
	return cs.repos
}

// Valkey exposes the cache client for background jobs
func (cs *ConsumerService) Valkey() *cache.ValkeyClient {
	return cs.valkey
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.valkey != nil {
		if err := cs.valkey.Close(); err != nil {
			slog.Error("Error closing Valkey connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
