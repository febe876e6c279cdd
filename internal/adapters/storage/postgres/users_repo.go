package postgres

import (
	"context"
	"database/sql"
	"strings"

	"ambulance-dispatch/internal/domain/units"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (units.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return units.User{}, units.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, role, display_name, email
		FROM users
		WHERE id = $1
	`, id)

	var u units.User
	var role string
	if err := row.Scan(&u.ID, &role, &u.DisplayName, &u.Email); err != nil {
		if err == sql.ErrNoRows {
			return units.User{}, units.ErrNotFound
		}
		return units.User{}, err
	}
	u.Role = units.Role(role)
	return u, nil
}

func (r *UsersRepo) ListByRole(ctx context.Context, role units.Role) ([]units.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, role, display_name, email
		FROM users
		WHERE role = $1
		ORDER BY display_name
	`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]units.User, 0)
	for rows.Next() {
		var u units.User
		var rr string
		if err := rows.Scan(&u.ID, &rr, &u.DisplayName, &u.Email); err != nil {
			return nil, err
		}
		u.Role = units.Role(rr)
		out = append(out, u)
	}
	return out, rows.Err()
}
