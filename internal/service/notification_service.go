package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/herafna/marketplace/internal/events"
)

// NotificationService surfaces booking lifecycle events to the log. A real
// delivery channel (email, push) would hang off the same handlers.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventBookingCreated, n.handleBookingCreated)
	n.dispatcher.Subscribe(events.EventBookingStatusChanged, n.handleBookingStatusChanged)
	n.dispatcher.Subscribe(events.EventExperiencePublished, n.handleExperiencePublished)
	n.dispatcher.Subscribe(events.EventProfileProvisioned, n.handleProfileProvisioned)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
}

func (n *NotificationService) handleBookingCreated(_ context.Context, event events.Event) error {
	n.logger.Info("BookingCreated", zap.String("booking_id", event.SubjectID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleBookingStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("BookingStatusChanged", zap.String("booking_id", event.SubjectID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleExperiencePublished(_ context.Context, event events.Event) error {
	n.logger.Info("ExperiencePublished", zap.String("experience_id", event.SubjectID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleProfileProvisioned(_ context.Context, event events.Event) error {
	n.logger.Info("ProfileProvisioned", zap.String("uid", event.SubjectID), zap.Any("payload", event.Payload))
	return nil
}

// handlePasswordResetRequested stands in for the reset email: the logged
// payload carries the token the mail would link to.
func (n *NotificationService) handlePasswordResetRequested(_ context.Context, event events.Event) error {
	n.logger.Info("PasswordResetRequested", zap.String("uid", event.SubjectID), zap.Any("payload", event.Payload))
	return nil
}
