package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/guildkit/guild-api/internal/auth"
	"github.com/guildkit/guild-api/internal/config"
	"github.com/guildkit/guild-api/internal/domain"
	"github.com/guildkit/guild-api/internal/persistence"
	"github.com/guildkit/guild-api/internal/repository"
	"github.com/guildkit/guild-api/pkg/util/errorutil"
)

const oauthStateTTL = 10 * time.Minute

// AuthService runs the login flow: OAuth code exchange, user upsert, token
// issue. OAuth state nonces are parked in Redis so each is single-use.
type AuthService struct {
	tokens  *auth.TokenManager
	discord *DiscordProvider
	users   repository.UserRepository
	redis   *persistence.Redis
}

// NewAuthService wires dependencies.
func NewAuthService(cfg config.AuthConfig, discord *DiscordProvider, users repository.UserRepository, redis *persistence.Redis) *AuthService {
	return &AuthService{
		tokens:  auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTLMinutes),
		discord: discord,
		users:   users,
		redis:   redis,
	}
}

// TokenManager exposes the codec for the auth middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// BeginLogin stores a fresh state nonce and returns the Discord redirect URL.
func (s *AuthService) BeginLogin(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.redis.Client.Set(ctx, stateKey(state), "1", oauthStateTTL).Err(); err != nil {
		return "", err
	}
	return s.discord.AuthURL(state), nil
}

// CompleteLogin verifies and consumes the state nonce, exchanges the code,
// upserts the user row and issues a signed token.
func (s *AuthService) CompleteLogin(ctx context.Context, code, state string) (*domain.User, string, time.Time, error) {
	if err := s.redis.Client.GetDel(ctx, stateKey(state)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", time.Time{}, errorutil.NewUnauthorized("unknown or expired oauth state")
		}
		return nil, "", time.Time{}, err
	}

	discordUser, err := s.discord.Exchange(ctx, code)
	if err != nil {
		return nil, "", time.Time{}, errorutil.NewUnauthorized("oauth exchange failed")
	}

	user, err := s.users.Upsert(ctx, *discordUser)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expiresAt, nil
}

func stateKey(state string) string {
	return "oauth_state:" + state
}
