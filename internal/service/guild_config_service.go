package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/guildkit/guild-api/internal/domain"
	"github.com/guildkit/guild-api/internal/events"
	"github.com/guildkit/guild-api/internal/repository"
	"github.com/guildkit/guild-api/pkg/util/errorutil"
)

// GuildConfigService fronts the guild-configuration store. The repository
// reports absence and conflict as nil results; this layer adds the
// fetch-or-fail convenience and publishes change events after successful
// mutations.
type GuildConfigService struct {
	configs    repository.GuildConfigRepository
	dispatcher events.Dispatcher
}

// NewGuildConfigService creates the service.
func NewGuildConfigService(configs repository.GuildConfigRepository, dispatcher events.Dispatcher) *GuildConfigService {
	return &GuildConfigService{configs: configs, dispatcher: dispatcher}
}

// Fetch returns the configuration, or nil when the guild has none.
func (s *GuildConfigService) Fetch(ctx context.Context, guildID int64) (*domain.GuildConfig, error) {
	return s.configs.Fetch(ctx, guildID)
}

// FetchOrFail returns the configuration or a NotFound fault naming the guild.
func (s *GuildConfigService) FetchOrFail(ctx context.Context, guildID int64) (*domain.GuildConfig, error) {
	cfg, err := s.configs.Fetch(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errorutil.NewNotFound(
			fmt.Sprintf("Guild with ID %d doesn't exist or doesn't have a configuration.", guildID))
	}
	return cfg, nil
}

// Create inserts a new configuration. A nil result means a configuration for
// the guild already exists; the caller decides whether that is an error.
func (s *GuildConfigService) Create(ctx context.Context, cfg domain.GuildConfig, actorID *int64) (*domain.GuildConfig, error) {
	created, err := s.configs.Create(ctx, cfg)
	if err != nil || created == nil {
		return created, err
	}
	s.publish(ctx, events.EventGuildConfigCreated, *created, actorID)
	return created, nil
}

// Update merges the partial fields over the stored aggregate. A nil result
// means the guild has no configuration to update.
func (s *GuildConfigService) Update(ctx context.Context, guildID int64, patch domain.GuildConfigPatch, actorID *int64) (*domain.GuildConfig, error) {
	updated, err := s.configs.Update(ctx, guildID, patch)
	if err != nil || updated == nil {
		return updated, err
	}
	s.publish(ctx, events.EventGuildConfigUpdated, *updated, actorID)
	return updated, nil
}

// Delete removes the configuration, returning the last known snapshot. A nil
// result means nothing existed to delete.
func (s *GuildConfigService) Delete(ctx context.Context, guildID int64, actorID *int64) (*domain.GuildConfig, error) {
	deleted, err := s.configs.Delete(ctx, guildID)
	if err != nil || deleted == nil {
		return deleted, err
	}
	s.publish(ctx, events.EventGuildConfigDeleted, *deleted, actorID)
	return deleted, nil
}

func (s *GuildConfigService) publish(ctx context.Context, eventType events.EventType, cfg domain.GuildConfig, actorID *int64) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		GuildID:   cfg.GuildID,
		ActorID:   actorID,
		Timestamp: domain.Timestamp(time.Now()),
		Config:    cfg,
	})
}
