package events

import (
	"github.com/guildkit/guild-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventGuildConfigCreated EventType = "guild_config_created"
	EventGuildConfigUpdated EventType = "guild_config_updated"
	EventGuildConfigDeleted EventType = "guild_config_deleted"
)

// Event represents a domain event emitted when a guild's configuration changes.
type Event struct {
	ID        string             `json:"id"`
	Type      EventType          `json:"type"`
	GuildID   int64              `json:"guild_id"`
	ActorID   *int64             `json:"actor_id,omitempty"`
	Timestamp domain.Timestamp   `json:"timestamp"`
	Config    domain.GuildConfig `json:"config"`
}
