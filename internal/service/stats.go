package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/repository"
)

// StatsService computes the dashboard counters.
type StatsService struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
	messages repository.MessageRepository
}

// NewStatsService creates a new StatsService.
func NewStatsService(projects repository.ProjectRepository, users repository.UserRepository, messages repository.MessageRepository) *StatsService {
	return &StatsService{projects: projects, users: users, messages: messages}
}

// Get runs the three counts concurrently.
func (s *StatsService) Get(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.projects.Count(ctx)
		if err != nil {
			return fmt.Errorf("counting projects: %w", err)
		}
		stats.Projects = n
		return nil
	})
	g.Go(func() error {
		n, err := s.users.Count(ctx)
		if err != nil {
			return fmt.Errorf("counting users: %w", err)
		}
		stats.Members = n
		return nil
	})
	g.Go(func() error {
		n, err := s.messages.Count(ctx)
		if err != nil {
			return fmt.Errorf("counting messages: %w", err)
		}
		stats.Messages = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.Stats{}, err
	}
	return stats, nil
}
