package service

import (
	"context"
	"fmt"

	"kinoteka/internal/models"
)

type TicketService struct {
	tickets TicketStore
}

func NewTicketService(tickets TicketStore) *TicketService {
	return &TicketService{tickets: tickets}
}

// ListByUser returns the tickets held by one user, newest first. An empty
// result is a valid answer, not an error.
func (s *TicketService) ListByUser(ctx context.Context, userID int64) ([]models.Ticket, error) {
	tickets, err := s.tickets.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	return tickets, nil
}
