package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/guildkit/guild-api/internal/config"
	"github.com/guildkit/guild-api/internal/events"
)

// NotificationService posts guild-configuration change events to the
// configured webhook. Deliveries ride the shared HTTP client and are
// best-effort; a failed delivery never fails the originating request.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotifyConfig
	client     *http.Client
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotifyConfig, client *http.Client) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		client:     client,
	}
}

// RegisterHandlers subscribes to config change events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventGuildConfigCreated, n.handleConfigChanged)
	n.dispatcher.Subscribe(events.EventGuildConfigUpdated, n.handleConfigChanged)
	n.dispatcher.Subscribe(events.EventGuildConfigDeleted, n.handleConfigChanged)
}

func (n *NotificationService) handleConfigChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("guild config changed",
		zap.String("event_type", string(event.Type)),
		zap.Int64("guild_id", event.GuildID))

	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("webhook delivery failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.logger.Warn("webhook delivery rejected", zap.Int("status", resp.StatusCode))
	}
	return nil
}
