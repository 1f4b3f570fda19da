package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lifebooster/core/internal/application/store"
	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/ports"
)

// MistakeService handles self-reported mistakes.
type MistakeService struct {
	store  *store.Store
	logger *logger.Logger
}

// NewMistakeService creates a new mistake service
func NewMistakeService(st *store.Store, appLogger *logger.Logger) *MistakeService {
	return &MistakeService{
		store:  st,
		logger: appLogger,
	}
}

// CreateMistake logs a mistake on the given calendar day, stamped with the
// current clock time on that day.
func (s *MistakeService) CreateMistake(ctx context.Context, req ports.CreateMistakeRequest) (*entities.Mistake, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, entities.ErrEmptyText
	}

	day, err := time.ParseInLocation(entities.DayLayout, req.Date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse mistake date: %w", err)
	}
	now := time.Now()
	stamp := time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.Local)

	mistake := entities.Mistake{
		ID:   entities.NewID(),
		Text: text,
		Tag:  req.Tag,
		Date: stamp.Format(time.RFC3339),
	}

	snap := s.store.Snapshot()
	next := append(snap.Mistakes, mistake)

	if err := s.store.Apply(ctx, store.Patch{Mistakes: &next}); err != nil {
		return nil, fmt.Errorf("failed to log mistake: %w", err)
	}

	s.logger.Info("Mistake logged", "mistake_id", mistake.ID)

	return &mistake, nil
}

// MistakesForDay returns the mistakes whose timestamp falls on the given
// calendar day.
func (s *MistakeService) MistakesForDay(ctx context.Context, day string) []entities.Mistake {
	var out []entities.Mistake
	for _, m := range s.store.Snapshot().Mistakes {
		if entities.SameDay(m.Date, day) {
			out = append(out, m)
		}
	}
	return out
}
