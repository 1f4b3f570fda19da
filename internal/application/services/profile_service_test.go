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

func newProfileService(t *testing.T) (*ProfileService, *NotificationService) {
	t.Helper()
	st, _ := newTestStore(t)
	notifications := NewNotificationService(st, logger.NewNop())
	return NewProfileService(st, notifications, logger.NewNop()), notifications
}

func TestOnboard(t *testing.T) {
	svc, notifications := newProfileService(t)
	ctx := context.Background()

	require.NoError(t, svc.Onboard(ctx, ports.OnboardRequest{
		Name: "Lina", Gender: "female", Currency: "usd",
	}))

	doc := svc.Profile(ctx)
	assert.True(t, doc.HasOnboarded)
	assert.Equal(t, "Lina", doc.Name)
	assert.Equal(t, entities.GenderFemale, doc.Gender)
	assert.Equal(t, "USD", doc.Currency)
	assert.NotEmpty(t, doc.JoinDate)

	feed := notifications.List(ctx)
	require.Len(t, feed, 1)
	assert.Equal(t, "Welcome to Life Booster!", feed[0].Title)
	assert.Equal(t, entities.NotificationSuccess, feed[0].Type)
}

func TestOnboardEmptyName(t *testing.T) {
	svc, _ := newProfileService(t)

	err := svc.Onboard(context.Background(), ports.OnboardRequest{
		Name: "  ", Gender: "male", Currency: "AED",
	})
	assert.ErrorIs(t, err, entities.ErrEmptyText)
}

func TestUpdateSettingsPatchesOnlyProvidedFields(t *testing.T) {
	svc, _ := newProfileService(t)
	ctx := context.Background()

	require.NoError(t, svc.Onboard(ctx, ports.OnboardRequest{
		Name: "Lina", Gender: "female", Currency: "USD",
	}))

	good := "Morning walk"
	require.NoError(t, svc.UpdateSettings(ctx, ports.UpdateSettingsRequest{
		DailyGoodThing: &good,
	}))

	doc := svc.Profile(ctx)
	assert.Equal(t, "Morning walk", doc.DailyGoodThing)
	assert.Equal(t, "Lina", doc.Name)
	assert.Equal(t, "USD", doc.Currency)

	name := "Lina A."
	currency := "eur"
	require.NoError(t, svc.UpdateSettings(ctx, ports.UpdateSettingsRequest{
		Name: &name, Currency: &currency,
	}))

	doc = svc.Profile(ctx)
	assert.Equal(t, "Lina A.", doc.Name)
	assert.Equal(t, "EUR", doc.Currency)
	assert.Equal(t, "Morning walk", doc.DailyGoodThing)
}

func TestUpdateSettingsRejectsBadValues(t *testing.T) {
	svc, _ := newProfileService(t)
	ctx := context.Background()

	blank := " "
	assert.ErrorIs(t, svc.UpdateSettings(ctx, ports.UpdateSettingsRequest{Name: &blank}), entities.ErrEmptyText)

	other := "other"
	assert.Error(t, svc.UpdateSettings(ctx, ports.UpdateSettingsRequest{Gender: &other}))
}

func TestResetWipesEverything(t *testing.T) {
	svc, notifications := newProfileService(t)
	ctx := context.Background()

	require.NoError(t, svc.Onboard(ctx, ports.OnboardRequest{
		Name: "Lina", Gender: "female", Currency: "USD",
	}))

	require.NoError(t, svc.Reset(ctx))

	doc := svc.Profile(ctx)
	assert.False(t, doc.HasOnboarded)
	assert.Empty(t, doc.Name)
	assert.Equal(t, entities.DefaultCurrency, doc.Currency)
	assert.Empty(t, notifications.List(ctx))
}

func TestTouchLastActive(t *testing.T) {
	svc, _ := newProfileService(t)
	ctx := context.Background()

	require.NoError(t, svc.TouchLastActive(ctx))

	doc := svc.Profile(ctx)
	require.NotEmpty(t, doc.LastActiveDate)
	_, err := time.Parse(time.RFC3339, doc.LastActiveDate)
	assert.NoError(t, err)
}
