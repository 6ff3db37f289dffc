package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/civic-stack/grievance-service/internal/config"
	"github.com/civic-stack/grievance-service/internal/events"
)

// NotificationService emits notifications for domain events. Delivery is
// fire-and-forget: a failure here is logged and never surfaces as a failure
// of the operation that produced the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleCreated)
	n.dispatcher.Subscribe(events.EventComplaintResolved, n.handleResolved)
	n.dispatcher.Subscribe(events.EventComplaintEscalated, n.handleEscalated)
	n.dispatcher.Subscribe(events.EventComplaintAssigned, n.handleAssigned)
}

func (n *NotificationService) handleCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintCreated", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	n.sendEmailStub(ctx, event)
	return nil
}

// handleResolved delivers the resolution notification to the submitter's
// contact email (the tracking code lets them look up the resolution note).
func (n *NotificationService) handleResolved(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintResolved", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	n.sendEmailStub(ctx, event)
	n.sendWebhookStub(ctx, event)
	return nil
}

// handleEscalated alerts the department's administrators.
func (n *NotificationService) handleEscalated(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintEscalated", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("ComplaintAssigned", zap.String("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	n.sendWebhookStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("complaint_id", event.ComplaintID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("complaint_id", event.ComplaintID),
		zap.String("event_type", string(event.Type)))
}
