package dto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/guildkit/guild-api/internal/domain"
)

// FlexInt is a numeric identifier accepted as either a JSON number or a
// numeric string. Snowflake ids overflow JavaScript numbers, so clients
// routinely send them quoted; anything non-numeric is rejected.
type FlexInt int64

// UnmarshalJSON coerces a number or numeric string to int64.
func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := string(b)
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid numeric identifier %s", s)
		}
		s = unquoted
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric identifier %q", s)
	}
	*f = FlexInt(v)
	return nil
}

// NullableID is a tri-state FlexInt for partial updates: the field may be
// absent, explicitly null, or carry a value.
type NullableID struct {
	Set   bool
	Valid bool
	Value int64
}

// UnmarshalJSON is only invoked when the key is present, which is what makes
// the absent/null distinction observable.
func (n *NullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		return nil
	}
	var f FlexInt
	if err := f.UnmarshalJSON(b); err != nil {
		return err
	}
	n.Valid = true
	n.Value = int64(f)
	return nil
}

// Domain converts to the domain-level optional field.
func (n NullableID) Domain() domain.OptionalID {
	return domain.OptionalID{Set: n.Set, Valid: n.Valid, Value: n.Value}
}

// GuildConfigCreateRequest is the POST payload. Unspecified toggles and the
// multiplier fall back to aggregate defaults.
type GuildConfigCreateRequest struct {
	XPEnabled             *bool      `json:"xp_enabled"`
	XPMultiplier          *float64   `json:"xp_multiplier"`
	EcoEnabled            *bool      `json:"eco_enabled"`
	MutedRoleID           NullableID `json:"muted_role_id"`
	DoLogging             *bool      `json:"do_logging"`
	LogChannelID          NullableID `json:"log_channel_id"`
	DoVerification        *bool      `json:"do_verification"`
	VerificationType      *string    `json:"verification_type"`
	VerificationChannelID NullableID `json:"verification_channel_id"`
}

// ToDomain applies the request over a default aggregate for the guild.
func (r GuildConfigCreateRequest) ToDomain(guildID int64) domain.GuildConfig {
	cfg := domain.NewGuildConfig(guildID)
	if r.XPEnabled != nil {
		cfg.XPEnabled = *r.XPEnabled
	}
	if r.XPMultiplier != nil {
		cfg.XPMultiplier = *r.XPMultiplier
	}
	if r.EcoEnabled != nil {
		cfg.EcoEnabled = *r.EcoEnabled
	}
	cfg.MutedRoleID = r.MutedRoleID.Domain().Apply(nil)
	if r.DoLogging != nil {
		cfg.DoLogging = *r.DoLogging
	}
	cfg.LogChannelID = r.LogChannelID.Domain().Apply(nil)
	if r.DoVerification != nil {
		cfg.DoVerification = *r.DoVerification
	}
	if r.VerificationType != nil {
		cfg.VerificationType = domain.VerificationType(*r.VerificationType)
	}
	cfg.VerificationChannelID = r.VerificationChannelID.Domain().Apply(nil)
	return cfg
}

// GuildConfigUpdateRequest is the PATCH payload; omitted fields retain the
// aggregate's current value.
type GuildConfigUpdateRequest struct {
	XPEnabled             *bool      `json:"xp_enabled"`
	XPMultiplier          *float64   `json:"xp_multiplier"`
	EcoEnabled            *bool      `json:"eco_enabled"`
	MutedRoleID           NullableID `json:"muted_role_id"`
	DoLogging             *bool      `json:"do_logging"`
	LogChannelID          NullableID `json:"log_channel_id"`
	DoVerification        *bool      `json:"do_verification"`
	VerificationType      *string    `json:"verification_type"`
	VerificationChannelID NullableID `json:"verification_channel_id"`
}

// ToPatch converts to the domain partial-update value.
func (r GuildConfigUpdateRequest) ToPatch() domain.GuildConfigPatch {
	return domain.GuildConfigPatch{
		XPEnabled:             r.XPEnabled,
		XPMultiplier:          r.XPMultiplier,
		EcoEnabled:            r.EcoEnabled,
		MutedRoleID:           r.MutedRoleID.Domain(),
		DoLogging:             r.DoLogging,
		LogChannelID:          r.LogChannelID.Domain(),
		DoVerification:        r.DoVerification,
		VerificationType:      r.VerificationType,
		VerificationChannelID: r.VerificationChannelID.Domain(),
	}
}

// GuildConfigResponse is the wire shape of the aggregate.
type GuildConfigResponse struct {
	GuildID               int64   `json:"guild_id"`
	XPEnabled             bool    `json:"xp_enabled"`
	XPMultiplier          float64 `json:"xp_multiplier"`
	EcoEnabled            bool    `json:"eco_enabled"`
	MutedRoleID           *int64  `json:"muted_role_id"`
	DoLogging             bool    `json:"do_logging"`
	LogChannelID          *int64  `json:"log_channel_id"`
	DoVerification        bool    `json:"do_verification"`
	VerificationType      string  `json:"verification_type"`
	VerificationChannelID *int64  `json:"verification_channel_id"`
}

// NewGuildConfigResponse maps the domain aggregate to its wire shape.
func NewGuildConfigResponse(cfg domain.GuildConfig) GuildConfigResponse {
	return GuildConfigResponse{
		GuildID:               cfg.GuildID,
		XPEnabled:             cfg.XPEnabled,
		XPMultiplier:          cfg.XPMultiplier,
		EcoEnabled:            cfg.EcoEnabled,
		MutedRoleID:           cfg.MutedRoleID,
		DoLogging:             cfg.DoLogging,
		LogChannelID:          cfg.LogChannelID,
		DoVerification:        cfg.DoVerification,
		VerificationType:      string(cfg.VerificationType),
		VerificationChannelID: cfg.VerificationChannelID,
	}
}
