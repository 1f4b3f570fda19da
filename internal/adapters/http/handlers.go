package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lifebooster/core/internal/application/services"
	"github.com/lifebooster/core/internal/domain/entities"
	"github.com/lifebooster/core/internal/infrastructure/logger"
	"github.com/lifebooster/core/internal/ports"
)

// ProfileHandler handles profile and onboarding requests
type ProfileHandler struct {
	profileService *services.ProfileService
	logger         *logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService, logger *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// GetProfile returns the full document and stamps the last-active date
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	if err := h.profileService.TouchLastActive(c.Request().Context()); err != nil {
		h.logger.Error("Touch last active failed", "error", err)
	}
	return c.JSON(http.StatusOK, h.profileService.Profile(c.Request().Context()))
}

// Onboard completes first-run onboarding
func (h *ProfileHandler) Onboard(c echo.Context) error {
	var req ports.OnboardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.profileService.Onboard(c.Request().Context(), req); err != nil {
		h.logger.Error("Onboarding failed", "error", err)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, h.profileService.Profile(c.Request().Context()))
}

// UpdateSettings patches profile fields
func (h *ProfileHandler) UpdateSettings(c echo.Context) error {
	var req ports.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.profileService.UpdateSettings(c.Request().Context(), req); err != nil {
		h.logger.Error("Update settings failed", "error", err)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, h.profileService.Profile(c.Request().Context()))
}

// ResetData wipes the document back to its initial state
func (h *ProfileHandler) ResetData(c echo.Context) error {
	if err := h.profileService.Reset(c.Request().Context()); err != nil {
		h.logger.Error("Reset failed", "error", err)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "All data has been reset"})
}

// NotificationHandler handles in-app notification requests
type NotificationHandler struct {
	notificationService *services.NotificationService
	logger              *logger.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// ListNotifications returns all notifications, newest first
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	items := h.notificationService.List(c.Request().Context())
	return c.JSON(http.StatusOK, NotificationListResponse{
		Data:   items,
		Unread: h.notificationService.UnreadCount(c.Request().Context()),
	})
}

// MarkAllRead flags every notification as read
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.notificationService.MarkAllRead(c.Request().Context()); err != nil {
		h.logger.Error("Mark notifications read failed", "error", err)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "All notifications marked as read"})
}

// TrashHandler handles soft-delete requests
type TrashHandler struct {
	trashService *services.TrashService
	logger       *logger.Logger
}

// NewTrashHandler creates a new trash handler
func NewTrashHandler(trashService *services.TrashService, logger *logger.Logger) *TrashHandler {
	return &TrashHandler{
		trashService: trashService,
		logger:       logger,
	}
}

// ListTrash returns all trashed items, newest first
func (h *TrashHandler) ListTrash(c echo.Context) error {
	return c.JSON(http.StatusOK, h.trashService.List(c.Request().Context()))
}

// MoveToTrash soft-deletes a live item
func (h *TrashHandler) MoveToTrash(c echo.Context) error {
	kind := entities.TrashKind(c.Param("kind"))
	if !kind.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid trash kind")
	}

	id := c.Param("id")
	if err := h.trashService.Move(c.Request().Context(), kind, id); err != nil {
		h.logger.Error("Move to trash failed", "error", err, "kind", kind, "id", id)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Item moved to trash"})
}

// RestoreFromTrash puts a trashed item back in its collection
func (h *TrashHandler) RestoreFromTrash(c echo.Context) error {
	id := c.Param("id")
	if err := h.trashService.Restore(c.Request().Context(), id); err != nil {
		h.logger.Error("Restore from trash failed", "error", err, "id", id)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Item restored"})
}

// DeletePermanently removes a trashed item for good
func (h *TrashHandler) DeletePermanently(c echo.Context) error {
	id := c.Param("id")
	if err := h.trashService.Purge(c.Request().Context(), id); err != nil {
		h.logger.Error("Permanent delete failed", "error", err, "id", id)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Item deleted permanently"})
}

// serviceError maps domain errors onto HTTP statuses. Unknown errors stay 500
// so callers cannot distinguish internal failures.
func serviceError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, entities.ErrTaskNotFound),
		errors.Is(err, entities.ErrChallengeNotFound),
		errors.Is(err, entities.ErrExpenseNotFound),
		errors.Is(err, entities.ErrIncomeNotFound),
		errors.Is(err, entities.ErrLoanNotFound),
		errors.Is(err, entities.ErrMistakeNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, entities.ErrEmptyText),
		errors.Is(err, entities.ErrInvalidAmount),
		errors.Is(err, entities.ErrInvalidTrashKind):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, entities.ErrScanInProgress):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, entities.ErrScanFailed), errors.Is(err, entities.ErrMissingAPIKey):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}

// Response types
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type NotificationListResponse struct {
	Data   []entities.Notification `json:"data"`
	Unread int                     `json:"unread"`
}
