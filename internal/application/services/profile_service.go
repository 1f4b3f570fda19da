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

// ProfileService handles onboarding, settings, and document lifecycle.
type ProfileService struct {
	store         *store.Store
	notifications *NotificationService
	logger        *logger.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(st *store.Store, notifications *NotificationService, appLogger *logger.Logger) *ProfileService {
	return &ProfileService{
		store:         st,
		notifications: notifications,
		logger:        appLogger,
	}
}

// Onboard completes first-run onboarding and records a welcome notification.
func (s *ProfileService) Onboard(ctx context.Context, req ports.OnboardRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return entities.ErrEmptyText
	}

	gender := entities.Gender(req.Gender)
	if !gender.IsValid() {
		gender = entities.DefaultGender
	}

	onboarded := true
	currency := strings.ToUpper(req.Currency)
	joinDate := time.Now().Format(time.RFC3339)

	patch := store.Patch{
		HasOnboarded: &onboarded,
		Name:         &name,
		Gender:       &gender,
		Currency:     &currency,
		JoinDate:     &joinDate,
	}
	if err := s.store.Apply(ctx, patch); err != nil {
		return fmt.Errorf("failed to complete onboarding: %w", err)
	}

	if _, err := s.notifications.Add(ctx, "Welcome to Life Booster!", "Your private journey starts now.", entities.NotificationSuccess); err != nil {
		s.logger.Warnw("Failed to record welcome notification", "error", err)
	}

	s.logger.LogUserAction("onboarded", map[string]interface{}{"currency": currency})

	return nil
}

// UpdateSettings patches the provided profile fields; nil fields are left
// untouched.
func (s *ProfileService) UpdateSettings(ctx context.Context, req ports.UpdateSettingsRequest) error {
	patch := store.Patch{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return entities.ErrEmptyText
		}
		patch.Name = &name
	}
	if req.Gender != nil {
		gender := entities.Gender(*req.Gender)
		if !gender.IsValid() {
			return fmt.Errorf("invalid gender %q", *req.Gender)
		}
		patch.Gender = &gender
	}
	if req.Currency != nil {
		currency := strings.ToUpper(*req.Currency)
		patch.Currency = &currency
	}
	if req.DailyGoodThing != nil {
		patch.DailyGoodThing = req.DailyGoodThing
	}

	if err := s.store.Apply(ctx, patch); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	return nil
}

// TouchLastActive stamps the document with the current time.
func (s *ProfileService) TouchLastActive(ctx context.Context) error {
	stamp := time.Now().Format(time.RFC3339)
	if err := s.store.Apply(ctx, store.Patch{LastActiveDate: &stamp}); err != nil {
		return fmt.Errorf("failed to update last active date: %w", err)
	}
	return nil
}

// Profile returns the profile fields of the document.
func (s *ProfileService) Profile(ctx context.Context) *entities.AppData {
	return s.store.Snapshot()
}

// Reset wipes all data: the default document is reinstalled and the storage
// slot cleared. There is no undo.
func (s *ProfileService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset data: %w", err)
	}

	s.logger.LogUserAction("reset_all_data", nil)

	return nil
}
