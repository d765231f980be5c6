package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/vacationhub/internal/domain/role"
	"github.com/geocoder89/vacationhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type RolesRepo struct {
	metered
	db DB
}

func NewRolesRepo(db DB, prom *observability.Prom) *RolesRepo {
	return &RolesRepo{metered: metered{prom: prom}, db: db}
}

func translateRoleErr(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return role.ErrNotFound
	case IsUniqueViolation(err):
		return role.ErrNameExists
	case IsForeignKeyViolation(err):
		return role.ErrInUse
	default:
		return err
	}
}

func (r *RolesRepo) List(ctx context.Context) ([]role.Role, error) {
	out := make([]role.Role, 0, 2)

	err := r.observe("roles.list", func() error {
		rows, err := r.db.Query(ctx, `SELECT role_id, role_name FROM roles ORDER BY role_id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var ro role.Role
			if err := rows.Scan(&ro.ID, &ro.Name); err != nil {
				return err
			}
			out = append(out, ro)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RolesRepo) GetByID(ctx context.Context, id int64) (role.Role, error) {
	var ro role.Role

	err := r.observe("roles.get_by_id", func() error {
		return r.db.QueryRow(ctx, `SELECT role_id, role_name FROM roles WHERE role_id = $1`, id).Scan(&ro.ID, &ro.Name)
	})
	if err != nil {
		return role.Role{}, translateRoleErr(err)
	}
	return ro, nil
}

func (r *RolesRepo) Create(ctx context.Context, name string) (role.Role, error) {
	ro := role.Role{Name: name}

	err := r.observe("roles.create", func() error {
		return r.db.QueryRow(ctx, `INSERT INTO roles (role_name) VALUES ($1) RETURNING role_id`, name).Scan(&ro.ID)
	})
	if err != nil {
		return role.Role{}, translateRoleErr(err)
	}
	return ro, nil
}

func (r *RolesRepo) Update(ctx context.Context, id int64, name string) (role.Role, error) {
	var ro role.Role

	err := r.observe("roles.update", func() error {
		return r.db.QueryRow(ctx,
			`UPDATE roles SET role_name = $2 WHERE role_id = $1 RETURNING role_id, role_name`,
			id, name,
		).Scan(&ro.ID, &ro.Name)
	})
	if err != nil {
		return role.Role{}, translateRoleErr(err)
	}
	return ro, nil
}

// Delete fails with role.ErrInUse while users still reference the role.
func (r *RolesRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := r.observe("roles.delete", func() error {
		var e error
		tag, e = r.db.Exec(ctx, `DELETE FROM roles WHERE role_id = $1`, id)
		return e
	})
	if err != nil {
		return translateRoleErr(err)
	}

	if tag.RowsAffected() == 0 {
		return role.ErrNotFound
	}
	return nil
}
