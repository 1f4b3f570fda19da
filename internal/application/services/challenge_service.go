package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/lifebooster/core/internal/application/store"
	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/ports"
)

// ChallengeService handles personal challenges.
type ChallengeService struct {
	store  *store.Store
	logger *logger.Logger
}

// NewChallengeService creates a new challenge service
func NewChallengeService(st *store.Store, appLogger *logger.Logger) *ChallengeService {
	return &ChallengeService{
		store:  st,
		logger: appLogger,
	}
}

// CreateChallenge appends a challenge for a calendar day.
func (s *ChallengeService) CreateChallenge(ctx context.Context, req ports.CreateChallengeRequest) (*entities.Challenge, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, entities.ErrEmptyText
	}

	challenge := entities.Challenge{
		ID:    entities.NewID(),
		Text:  text,
		Notes: req.Notes,
		Date:  req.Date,
	}

	snap := s.store.Snapshot()
	next := append(snap.Challenges, challenge)

	if err := s.store.Apply(ctx, store.Patch{Challenges: &next}); err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	s.logger.Info("Challenge created", "challenge_id", challenge.ID, "date", challenge.Date)

	return &challenge, nil
}

// ToggleChallenge flips a challenge's completed flag.
func (s *ChallengeService) ToggleChallenge(ctx context.Context, id string) (*entities.Challenge, error) {
	snap := s.store.Snapshot()

	var toggled *entities.Challenge
	next := make([]entities.Challenge, len(snap.Challenges))
	for i, c := range snap.Challenges {
		c := c
		if c.ID == id {
			c.Completed = !c.Completed
			toggled = &c
		}
		next[i] = c
	}
	if toggled == nil {
		return nil, entities.ErrChallengeNotFound
	}

	if err := s.store.Apply(ctx, store.Patch{Challenges: &next}); err != nil {
		return nil, fmt.Errorf("failed to toggle challenge: %w", err)
	}

	return toggled, nil
}

// ChallengesForDay returns the challenges whose calendar day matches.
func (s *ChallengeService) ChallengesForDay(ctx context.Context, day string) []entities.Challenge {
	var out []entities.Challenge
	for _, c := range s.store.Snapshot().Challenges {
		if c.Date == day {
			out = append(out, c)
		}
	}
	return out
}
