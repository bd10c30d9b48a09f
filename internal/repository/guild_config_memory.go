package repository

import (
	"context"
	"sync"

	"github.com/guildkit/guild-api/internal/domain"
	"github.com/guildkit/guild-api/pkg/util/errorutil"
)

// MemoryGuildConfigRepository is a map-backed GuildConfigRepository. It keeps
// the same absence/conflict contract as the postgres implementation and backs
// tests and no-database development runs.
type MemoryGuildConfigRepository struct {
	mu      sync.RWMutex
	configs map[int64]domain.GuildConfig
}

// NewMemoryGuildConfigRepository builds an empty in-memory repository.
func NewMemoryGuildConfigRepository() *MemoryGuildConfigRepository {
	return &MemoryGuildConfigRepository{configs: make(map[int64]domain.GuildConfig)}
}

func (r *MemoryGuildConfigRepository) Fetch(ctx context.Context, guildID int64) (*domain.GuildConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[guildID]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

func (r *MemoryGuildConfigRepository) Create(ctx context.Context, cfg domain.GuildConfig) (*domain.GuildConfig, error) {
	if _, err := domain.ParseVerificationType(string(cfg.VerificationType)); err != nil {
		return nil, errorutil.NewValidation(err.Error())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.configs[cfg.GuildID]; exists {
		return nil, nil
	}
	r.configs[cfg.GuildID] = cfg
	created := cfg
	return &created, nil
}

func (r *MemoryGuildConfigRepository) Update(ctx context.Context, guildID int64, patch domain.GuildConfigPatch) (*domain.GuildConfig, error) {
	if patch.VerificationType != nil {
		if _, err := domain.ParseVerificationType(*patch.VerificationType); err != nil {
			return nil, errorutil.NewValidation(err.Error())
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.configs[guildID]
	if !ok {
		return nil, nil
	}
	merged := patch.Merge(current)
	r.configs[guildID] = merged
	return &merged, nil
}

func (r *MemoryGuildConfigRepository) Delete(ctx context.Context, guildID int64) (*domain.GuildConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[guildID]
	if !ok {
		return nil, nil
	}
	delete(r.configs, guildID)
	return &cfg, nil
}
