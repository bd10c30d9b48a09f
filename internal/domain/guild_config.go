package domain

import "fmt"

// VerificationType enumerates how a guild verifies new members.
type VerificationType string

const (
	VerificationDiscordIntegrated         VerificationType = "DISCORD_INTEGRATED"
	VerificationDiscordCode               VerificationType = "DISCORD_CODE"
	VerificationDiscordIntegratedCode     VerificationType = "DISCORD_INTEGRATED_CODE"
	VerificationDiscordCaptcha            VerificationType = "DISCORD_CAPTCHA"
	VerificationDiscordIntegratedCaptcha  VerificationType = "DISCORD_INTEGRATED_CAPTCHA"
	VerificationDiscordReaction           VerificationType = "DISCORD_REACTION"
	VerificationDiscordIntegratedReaction VerificationType = "DISCORD_INTEGRATED_REACTION"
)

// VerificationTypes lists every recognized variant.
var VerificationTypes = []VerificationType{
	VerificationDiscordIntegrated,
	VerificationDiscordCode,
	VerificationDiscordIntegratedCode,
	VerificationDiscordCaptcha,
	VerificationDiscordIntegratedCaptcha,
	VerificationDiscordReaction,
	VerificationDiscordIntegratedReaction,
}

// Valid reports whether v is one of the recognized variants.
func (v VerificationType) Valid() bool {
	for _, known := range VerificationTypes {
		if v == known {
			return true
		}
	}
	return false
}

// ParseVerificationType converts external input into a VerificationType.
// Anything outside the closed set is rejected here, at the boundary.
func ParseVerificationType(s string) (VerificationType, error) {
	v := VerificationType(s)
	if !v.Valid() {
		return "", fmt.Errorf("verification_type must be one of %v", VerificationTypes)
	}
	return v, nil
}

// GuildConfig is the per-guild configuration aggregate. One row per guild,
// mutated only as a whole unit.
type GuildConfig struct {
	GuildID               int64
	XPEnabled             bool
	XPMultiplier          float64
	EcoEnabled            bool
	MutedRoleID           *int64
	DoLogging             bool
	LogChannelID          *int64
	DoVerification        bool
	VerificationType      VerificationType
	VerificationChannelID *int64
}

// NewGuildConfig returns a config for the guild with every field at its default.
func NewGuildConfig(guildID int64) GuildConfig {
	return GuildConfig{
		GuildID:          guildID,
		XPMultiplier:     1.0,
		VerificationType: VerificationDiscordIntegrated,
	}
}

// OptionalID is a tri-state BIGINT field for partial updates: absent, explicit
// null, or a value.
type OptionalID struct {
	Set   bool
	Valid bool
	Value int64
}

// ID builds an OptionalID carrying a value.
func ID(v int64) OptionalID {
	return OptionalID{Set: true, Valid: true, Value: v}
}

// NullID builds an OptionalID carrying an explicit null.
func NullID() OptionalID {
	return OptionalID{Set: true}
}

// Apply merges the field over the current pointer value.
func (o OptionalID) Apply(current *int64) *int64 {
	if !o.Set {
		return current
	}
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// GuildConfigPatch holds a partial update. Nil (or unset) fields retain the
// aggregate's current value.
type GuildConfigPatch struct {
	XPEnabled             *bool
	XPMultiplier          *float64
	EcoEnabled            *bool
	MutedRoleID           OptionalID
	DoLogging             *bool
	LogChannelID          OptionalID
	DoVerification        *bool
	VerificationType      *string
	VerificationChannelID OptionalID
}

// Merge applies the patch over a copy of current. VerificationType must be
// validated by the caller before merging.
func (p GuildConfigPatch) Merge(current GuildConfig) GuildConfig {
	merged := current
	if p.XPEnabled != nil {
		merged.XPEnabled = *p.XPEnabled
	}
	if p.XPMultiplier != nil {
		merged.XPMultiplier = *p.XPMultiplier
	}
	if p.EcoEnabled != nil {
		merged.EcoEnabled = *p.EcoEnabled
	}
	merged.MutedRoleID = p.MutedRoleID.Apply(current.MutedRoleID)
	if p.DoLogging != nil {
		merged.DoLogging = *p.DoLogging
	}
	merged.LogChannelID = p.LogChannelID.Apply(current.LogChannelID)
	if p.DoVerification != nil {
		merged.DoVerification = *p.DoVerification
	}
	if p.VerificationType != nil {
		merged.VerificationType = VerificationType(*p.VerificationType)
	}
	merged.VerificationChannelID = p.VerificationChannelID.Apply(current.VerificationChannelID)
	return merged
}
