package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/aftersales-service/internal/config"
	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/events"
	"github.com/spec-kit/aftersales-service/internal/repository"
)

// NotificationService describes client notifications. Delivery itself is
// stubbed; the service logs what would be sent and exposes the derived
// notification feed.
type NotificationService struct {
	cases      repository.CaseRepository
	history    repository.CaseHistoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(cases repository.CaseRepository, history repository.CaseHistoryRepository, dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		cases:      cases,
		history:    history,
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// List derives the notification feed from the current case set, most recent
// first.
func (n *NotificationService) List(ctx context.Context) ([]domain.Notification, error) {
	cases, err := loadCasesWithHistory(ctx, n.cases, n.history)
	if err != nil {
		return nil, err
	}
	return domain.DeriveNotifications(cases), nil
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventCaseCreated, n.handleCaseCreated)
	n.dispatcher.Subscribe(events.EventCaseStatusChanged, n.handleCaseStatusChanged)
	n.dispatcher.Subscribe(events.EventScheduleUpdated, n.handleScheduleUpdated)
	n.dispatcher.Subscribe(events.EventNPSSubmitted, n.handleNPSSubmitted)
}

func (n *NotificationService) handleCaseCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("CaseCreated", zap.String("case_number", event.CaseNumber), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCaseStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("CaseStatusChanged", zap.String("case_number", event.CaseNumber), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleScheduleUpdated(ctx context.Context, event events.Event) error {
	n.logger.Info("ScheduleUpdated", zap.String("case_number", event.CaseNumber), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleNPSSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("NPSSubmitted", zap.String("case_number", event.CaseNumber), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("case_id", event.CaseID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("case_id", event.CaseID),
		zap.String("event_type", string(event.Type)))
}
