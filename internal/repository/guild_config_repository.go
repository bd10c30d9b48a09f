package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guildkit/guild-api/internal/domain"
	"github.com/guildkit/guild-api/pkg/util/errorutil"
)

// GuildConfigRepository owns the guild-configuration aggregate. Absence and
// conflict are reported as a nil config, not an error; every mutation is a
// single atomic statement so concurrent callers for the same guild race
// safely without application-level locking.
type GuildConfigRepository interface {
	Fetch(ctx context.Context, guildID int64) (*domain.GuildConfig, error)
	Create(ctx context.Context, cfg domain.GuildConfig) (*domain.GuildConfig, error)
	Update(ctx context.Context, guildID int64, patch domain.GuildConfigPatch) (*domain.GuildConfig, error)
	Delete(ctx context.Context, guildID int64) (*domain.GuildConfig, error)
}

type guildConfigRepository struct {
	pool *pgxpool.Pool
}

// NewGuildConfigRepository instantiates the postgres-backed repository.
func NewGuildConfigRepository(pool *pgxpool.Pool) GuildConfigRepository {
	return &guildConfigRepository{pool: pool}
}

const guildConfigColumns = `guild_id, xp_enabled, xp_multiplier, eco_enabled, muted_role_id,
               do_logging, log_channel_id, do_verification, verification_type, verification_channel_id`

func (r *guildConfigRepository) Fetch(ctx context.Context, guildID int64) (*domain.GuildConfig, error) {
	const query = `
        SELECT ` + guildConfigColumns + `
        FROM guildconfigs WHERE guild_id = $1`
	cfg, err := scanGuildConfig(r.pool.QueryRow(ctx, query, guildID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return cfg, nil
}

func (r *guildConfigRepository) Create(ctx context.Context, cfg domain.GuildConfig) (*domain.GuildConfig, error) {
	if _, err := domain.ParseVerificationType(string(cfg.VerificationType)); err != nil {
		return nil, errorutil.NewValidation(err.Error())
	}

	// Conflict-safe insert: a duplicate guild_id performs no mutation and
	// yields no row. The storage engine resolves the race, not the app.
	const query = `
        INSERT INTO guildconfigs (` + guildConfigColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT DO NOTHING
        RETURNING ` + guildConfigColumns
	created, err := scanGuildConfig(r.pool.QueryRow(ctx, query,
		cfg.GuildID,
		cfg.XPEnabled,
		cfg.XPMultiplier,
		cfg.EcoEnabled,
		cfg.MutedRoleID,
		cfg.DoLogging,
		cfg.LogChannelID,
		cfg.DoVerification,
		cfg.VerificationType,
		cfg.VerificationChannelID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, errorutil.NewNotFound(fmt.Sprintf("Guild with ID %d doesn't exist.", cfg.GuildID))
		}
		return nil, err
	}
	return created, nil
}

func (r *guildConfigRepository) Update(ctx context.Context, guildID int64, patch domain.GuildConfigPatch) (*domain.GuildConfig, error) {
	if patch.VerificationType != nil {
		if _, err := domain.ParseVerificationType(*patch.VerificationType); err != nil {
			return nil, errorutil.NewValidation(err.Error())
		}
	}

	current, err := r.Fetch(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	merged := patch.Merge(*current)

	// Whole-aggregate write; the merge happened in memory, so a single UPDATE
	// is the only mutating statement.
	const query = `
        UPDATE guildconfigs
        SET xp_enabled = $2,
            xp_multiplier = $3,
            eco_enabled = $4,
            muted_role_id = $5,
            do_logging = $6,
            log_channel_id = $7,
            do_verification = $8,
            verification_type = $9,
            verification_channel_id = $10
        WHERE guild_id = $1
        RETURNING ` + guildConfigColumns
	updated, err := scanGuildConfig(r.pool.QueryRow(ctx, query,
		guildID,
		merged.XPEnabled,
		merged.XPMultiplier,
		merged.EcoEnabled,
		merged.MutedRoleID,
		merged.DoLogging,
		merged.LogChannelID,
		merged.DoVerification,
		merged.VerificationType,
		merged.VerificationChannelID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return updated, nil
}

func (r *guildConfigRepository) Delete(ctx context.Context, guildID int64) (*domain.GuildConfig, error) {
	const query = `
        DELETE FROM guildconfigs
        WHERE guild_id = $1
        RETURNING ` + guildConfigColumns
	deleted, err := scanGuildConfig(r.pool.QueryRow(ctx, query, guildID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return deleted, nil
}

func scanGuildConfig(row pgx.Row) (*domain.GuildConfig, error) {
	var cfg domain.GuildConfig
	if err := row.Scan(
		&cfg.GuildID,
		&cfg.XPEnabled,
		&cfg.XPMultiplier,
		&cfg.EcoEnabled,
		&cfg.MutedRoleID,
		&cfg.DoLogging,
		&cfg.LogChannelID,
		&cfg.DoVerification,
		&cfg.VerificationType,
		&cfg.VerificationChannelID,
	); err != nil {
		return nil, err
	}
	return &cfg, nil
}
