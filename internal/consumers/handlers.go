package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/stan.go"

	"kinoteka/internal/cache"
	"kinoteka/internal/models"
	"kinoteka/internal/repository"
	"kinoteka/internal/search"
)

type Handlers struct {
	repos  *repository.Repositories
	valkey *cache.ValkeyClient
	search *search.ElasticsearchClient
}

func NewHandlers(repos *repository.Repositories, valkeyClient *cache.ValkeyClient, searchClient *search.ElasticsearchClient) *Handlers {
	return &Handlers{
		repos:  repos,
		valkey: valkeyClient,
		search: searchClient,
	}
}

// HandleTicketIssued keeps the per-screening issued counter in Valkey
// roughly in step with the database. The counter is advisory; the
// reconciliation job corrects any drift.
func (h *Handlers) HandleTicketIssued(m *stan.Msg) {
	var event models.TicketIssuedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal ticket issued event", "error", err)
		return
	}

	slog.Info("Processing ticket issued event",
		"ticket_id", event.TicketID, "screening_id", event.ScreeningID)

	if h.valkey != nil {
		if err := h.valkey.IncrIssued(context.Background(), event.ScreeningID); err != nil {
			slog.Error("Failed to increment issued counter",
				"screening_id", event.ScreeningID, "error", err)
			return
		}
	}

	m.Ack()
}

// HandleScreeningCreated drops the cached screening list and refreshes
// the movie document in the search index.
func (h *Handlers) HandleScreeningCreated(m *stan.Msg) {
	var event models.ScreeningCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal screening created event", "error", err)
		return
	}

	slog.Info("Processing screening created event",
		"screening_id", event.ScreeningID, "movie_id", event.MovieID)

	ctx := context.Background()

	if h.valkey != nil {
		h.valkey.InvalidateScreeningsList(ctx)
	}

	if h.search != nil {
		movie, err := h.repos.Movies.GetByID(ctx, event.MovieID)
		if err != nil {
			slog.Error("Failed to load movie for indexing", "movie_id", event.MovieID, "error", err)
			return
		}
		if movie != nil {
			if err := h.search.IndexMovie(ctx, *movie); err != nil {
				slog.Error("Failed to index movie", "movie_id", movie.ID, "error", err)
				return
			}
		}
	}

	m.Ack()
}

// HandleScreeningDeleted drops the cached screening list and the issued
// counter of the deleted screening.
func (h *Handlers) HandleScreeningDeleted(m *stan.Msg) {
	var event models.ScreeningDeletedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal screening deleted event", "error", err)
		return
	}

	slog.Info("Processing screening deleted event", "screening_id", event.ScreeningID)

	if h.valkey != nil {
		ctx := context.Background()
		h.valkey.InvalidateScreeningsList(ctx)
		if err := h.valkey.SetIssuedCount(ctx, event.ScreeningID, 0); err != nil {
			slog.Error("Failed to reset issued counter",
				"screening_id", event.ScreeningID, "error", err)
		}
	}

	m.Ack()
}
