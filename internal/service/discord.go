package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"

	"github.com/guildkit/guild-api/internal/config"
	"github.com/guildkit/guild-api/internal/domain"
)

const discordAPIBase = "https://discord.com/api/v10"

var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/api/oauth2/authorize",
	TokenURL: discordAPIBase + "/oauth2/token",
}

// discordUser is the slice of the Discord /users/@me response we care about.
type discordUser struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Discriminator string  `json:"discriminator"`
	Avatar        *string `json:"avatar"`
}

// DiscordProvider runs the OAuth authorization-code flow against Discord. All
// outbound calls go through the process-wide shared HTTP client.
type DiscordProvider struct {
	config *oauth2.Config
	client *http.Client
}

// NewDiscordProvider wires OAuth credentials to the shared client.
func NewDiscordProvider(cfg config.DiscordConfig, client *http.Client) *DiscordProvider {
	return &DiscordProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"identify"},
			Endpoint:     discordEndpoint,
		},
		client: client,
	}
}

// AuthURL returns the Discord authorization URL carrying the given state nonce.
func (p *DiscordProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades the authorization code for the Discord user behind it.
func (p *DiscordProvider) Exchange(ctx context.Context, code string) (*domain.User, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange oauth code: %w", err)
	}

	resp, err := p.config.Client(ctx, token).Get(discordAPIBase + "/users/@me")
	if err != nil {
		return nil, fmt.Errorf("fetch discord user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discord /users/@me returned status %d", resp.StatusCode)
	}

	var du discordUser
	if err := json.NewDecoder(resp.Body).Decode(&du); err != nil {
		return nil, fmt.Errorf("decode discord user: %w", err)
	}

	id, err := strconv.ParseInt(du.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("discord returned invalid user id %q", du.ID)
	}

	return &domain.User{
		ID:            id,
		Username:      du.Username,
		Discriminator: du.Discriminator,
		Avatar:        du.Avatar,
		Type:          domain.UserTypeMember,
	}, nil
}
