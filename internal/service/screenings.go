package service

import (
	"context"
	"fmt"
	"time"

	"kinoteka/internal/errors"
	"kinoteka/internal/models"
)

// ScreeningService covers the read side of screenings. Writes go through
// the booking service so the admin gates sit in one place.
type ScreeningService struct {
	screenings ScreeningStore
}

func NewScreeningService(screenings ScreeningStore) *ScreeningService {
	return &ScreeningService{screenings: screenings}
}

// List returns upcoming screenings. The store stays rule-free; the
// future-only filter lives here.
func (s *ScreeningService) List(ctx context.Context) ([]models.Screening, error) {
	screenings, err := s.screenings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list screenings: %w", err)
	}

	now := time.Now()
	upcoming := make([]models.Screening, 0, len(screenings))
	for _, screening := range screenings {
		if screening.StartsAt.After(now) {
			upcoming = append(upcoming, screening)
		}
	}

	if len(upcoming) == 0 {
		return nil, errors.NewNotFound("No screenings found")
	}

	return upcoming, nil
}

func (s *ScreeningService) GetByID(ctx context.Context, id int64) (*models.Screening, error) {
	screening, err := s.screenings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get screening: %w", err)
	}
	if screening == nil {
		return nil, errors.NewNotFound("Screening not found")
	}
	return screening, nil
}
