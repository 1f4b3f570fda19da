package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lifebooster/core/internal/application/store"
	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
)

// NotificationService manages the durable in-app notification feed.
type NotificationService struct {
	store  *store.Store
	logger *logger.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(st *store.Store, appLogger *logger.Logger) *NotificationService {
	return &NotificationService{
		store:  st,
		logger: appLogger,
	}
}

// Add prepends an in-app notification, newest first.
func (s *NotificationService) Add(ctx context.Context, title, message string, typ entities.NotificationType) (*entities.Notification, error) {
	if !typ.IsValid() {
		typ = entities.NotificationInfo
	}

	notif := entities.Notification{
		ID:      entities.NewID(),
		Title:   title,
		Message: message,
		Date:    time.Now().Format(time.RFC3339),
		Read:    false,
		Type:    typ,
	}

	snap := s.store.Snapshot()
	next := append([]entities.Notification{notif}, snap.Notifications...)

	if err := s.store.Apply(ctx, store.Patch{Notifications: &next}); err != nil {
		return nil, fmt.Errorf("failed to add notification: %w", err)
	}

	return &notif, nil
}

// MarkAllRead flags every notification as read.
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	snap := s.store.Snapshot()

	next := make([]entities.Notification, len(snap.Notifications))
	for i, n := range snap.Notifications {
		n.Read = true
		next[i] = n
	}

	if err := s.store.Apply(ctx, store.Patch{Notifications: &next}); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return nil
}

// List returns the feed, newest first.
func (s *NotificationService) List(ctx context.Context) []entities.Notification {
	return s.store.Snapshot().Notifications
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context) int {
	count := 0
	for _, n := range s.store.Snapshot().Notifications {
		if !n.Read {
			count++
		}
	}
	return count
}
