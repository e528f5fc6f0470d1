package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/worshipops/rosterd/internal/domain"
)

type pgUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgUserRepository returns a UserRepository backed by PostgreSQL.
func NewPgUserRepository(pool *pgxpool.Pool) UserRepository {
	return &pgUserRepository{pool: pool}
}

func (r *pgUserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, phone_number, roles, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Name, u.Email, u.PhoneNumber, u.Roles.Strings(), u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *pgUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, phone_number, roles, created_at
		FROM users WHERE id = $1`, id)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

func (r *pgUserRepository) List(ctx context.Context, role *domain.Role) ([]*domain.User, error) {
	query := `
		SELECT id, name, email, phone_number, roles, created_at
		FROM users`
	args := []any{}
	if role != nil {
		query += ` WHERE $1 = ANY(roles)`
		args = append(args, string(*role))
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *pgUserRepository) UpdateRoles(ctx context.Context, id string, roles domain.RoleSet) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET roles = $1 WHERE id = $2`, roles.Strings(), id)
	if err != nil {
		return fmt.Errorf("update user roles: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var roles []string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &roles, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Roles = domain.RoleSetFromStrings(roles)
	return &u, nil
}
