package parking

import (
	"context"
	"fmt"

	"parkwise/models"
)

func (s *DefaultParkingService) GetSession(ctx context.Context, id string) (*models.ParkingSession, error) {
	session, err := s.Sessions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	if session == nil {
		return nil, models.ErrSessionNotFound
	}
	return session, nil
}

func (s *DefaultParkingService) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.ParkingSession, error) {
	sessions, err := s.Sessions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}
