package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guildkit/guild-api/internal/domain"
)

// UserRepository persists Discord accounts referenced by tokens and role grants.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Upsert(ctx context.Context, user domain.User) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
        SELECT id, username, discriminator, avatar, type
        FROM users WHERE id = $1`
	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Upsert refreshes the cached profile on every login.
func (r *userRepository) Upsert(ctx context.Context, user domain.User) (*domain.User, error) {
	const query = `
        INSERT INTO users (id, username, discriminator, avatar, type)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (id) DO UPDATE
        SET username = EXCLUDED.username,
            discriminator = EXCLUDED.discriminator,
            avatar = EXCLUDED.avatar
        RETURNING id, username, discriminator, avatar, type`
	return scanUser(r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Discriminator,
		user.Avatar,
		user.Type,
	))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Discriminator,
		&user.Avatar,
		&user.Type,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
