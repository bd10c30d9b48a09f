package dto

import "github.com/guildkit/guild-api/internal/domain"

// AuthResponse standard response for the OAuth callback.
type AuthResponse struct {
	Token     string           `json:"token"`
	ExpiresAt domain.Timestamp `json:"expires_at"`
}

// UserResponse is the wire shape of a user record.
type UserResponse struct {
	ID            int64   `json:"id"`
	Username      string  `json:"username"`
	Discriminator string  `json:"discriminator"`
	Avatar        *string `json:"avatar"`
	Type          string  `json:"type"`
}

// NewUserResponse maps the domain user to its wire shape.
func NewUserResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Username:      user.Username,
		Discriminator: user.Discriminator,
		Avatar:        user.Avatar,
		Type:          user.Type,
	}
}

// RoleResponse is the wire shape of a role record.
type RoleResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Position    int    `json:"position"`
	Permissions int64  `json:"permissions"`
}

// NewRoleResponse maps the domain role to its wire shape.
func NewRoleResponse(role domain.Role) RoleResponse {
	return RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Color:       role.Color,
		Position:    role.Position,
		Permissions: role.Permissions,
	}
}
