package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guildkit/guild-api/internal/domain"
	"github.com/guildkit/guild-api/pkg/util/errorutil"
)

// RoleRepository reads role records and manages member role grants. Grants go
// through database functions that enforce permission rules server-side; their
// raised errors are mapped to declared fault kinds here.
type RoleRepository interface {
	List(ctx context.Context) ([]domain.Role, error)
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
	GrantToMember(ctx context.Context, roleID, memberID int64, actorID *int64) error
	RevokeFromMember(ctx context.Context, roleID, memberID int64, actorID *int64) error
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository instantiates repository.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) List(ctx context.Context) ([]domain.Role, error) {
	const query = `
        SELECT id, name, color, position, permissions
        FROM roles ORDER BY position DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Color, &role.Position, &role.Permissions); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}

func (r *roleRepository) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	const query = `
        SELECT id, name, color, position, permissions
        FROM roles WHERE id = $1`
	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&role.ID, &role.Name, &role.Color, &role.Position, &role.Permissions,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) GrantToMember(ctx context.Context, roleID, memberID int64, actorID *int64) error {
	const query = `SELECT * FROM add_role_to_member($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, query, roleID, memberID, actorID); err != nil {
		return mapRoleGrantError(err)
	}
	return nil
}

func (r *roleRepository) RevokeFromMember(ctx context.Context, roleID, memberID int64, actorID *int64) error {
	const query = `SELECT * FROM remove_role_from_member($1, $2, $3)`
	if _, err := r.pool.Exec(ctx, query, roleID, memberID, actorID); err != nil {
		return mapRoleGrantError(err)
	}
	return nil
}

// mapRoleGrantError translates SQLSTATEs raised by the grant functions:
// data/permission raises become 403, a duplicate grant becomes 400.
func mapRoleGrantError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case strings.HasPrefix(pgErr.Code, "22"), pgErr.Code == "P0001":
		return errorutil.NewForbidden("Missing Permissions")
	case pgErr.Code == "23505":
		return errorutil.NewBadRequest("User already has that role")
	default:
		return err
	}
}
