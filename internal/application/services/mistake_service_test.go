package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/ports"
)

func TestCreateMistakeStampsSelectedDay(t *testing.T) {
	st, _ := newTestStore(t)
	svc := NewMistakeService(st, logger.NewNop())
	ctx := context.Background()

	mistake, err := svc.CreateMistake(ctx, ports.CreateMistakeRequest{
		Text: "Overslept", Date: "2025-03-01", Tag: "sleep",
	})
	require.NoError(t, err)

	stamp, err := time.Parse(time.RFC3339, mistake.Date)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", entities.DayOf(stamp))
	assert.Equal(t, "sleep", mistake.Tag)

	listed := svc.MistakesForDay(ctx, "2025-03-01")
	require.Len(t, listed, 1)
	assert.Equal(t, mistake.ID, listed[0].ID)

	assert.Empty(t, svc.MistakesForDay(ctx, "2025-03-02"))
}

func TestCreateMistakeValidation(t *testing.T) {
	st, _ := newTestStore(t)
	svc := NewMistakeService(st, logger.NewNop())
	ctx := context.Background()

	_, err := svc.CreateMistake(ctx, ports.CreateMistakeRequest{Text: " ", Date: "2025-03-01"})
	assert.ErrorIs(t, err, entities.ErrEmptyText)

	_, err = svc.CreateMistake(ctx, ports.CreateMistakeRequest{Text: "x", Date: "March 1st"})
	assert.Error(t, err)
}

func TestCreateChallengeAndToggle(t *testing.T) {
	st, _ := newTestStore(t)
	svc := NewChallengeService(st, logger.NewNop())
	ctx := context.Background()

	challenge, err := svc.CreateChallenge(ctx, ports.CreateChallengeRequest{
		Text: "No sugar", Date: "2025-03-01", Notes: "week one",
	})
	require.NoError(t, err)
	assert.Equal(t, "week one", challenge.Notes)

	toggled, err := svc.ToggleChallenge(ctx, challenge.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	_, err = svc.ToggleChallenge(ctx, "nope")
	assert.ErrorIs(t, err, entities.ErrChallengeNotFound)

	listed := svc.ChallengesForDay(ctx, "2025-03-01")
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Completed)
}

func TestToggleChallengeReturnsMatchedChallenge(t *testing.T) {
	st, _ := newTestStore(t)
	svc := NewChallengeService(st, logger.NewNop())
	ctx := context.Background()

	first, err := svc.CreateChallenge(ctx, ports.CreateChallengeRequest{Text: "No sugar", Date: "2025-03-01"})
	require.NoError(t, err)
	_, err = svc.CreateChallenge(ctx, ports.CreateChallengeRequest{Text: "Run daily", Date: "2025-03-01"})
	require.NoError(t, err)

	toggled, err := svc.ToggleChallenge(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, toggled.ID)
	assert.Equal(t, "No sugar", toggled.Text)
	assert.True(t, toggled.Completed)

	for _, c := range svc.ChallengesForDay(ctx, "2025-03-01") {
		assert.Equal(t, c.ID == first.ID, c.Completed)
	}
}
