package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/vacationhub/internal/domain/user"
	"github.com/geocoder89/vacationhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type UsersRepo struct {
	metered
	db DB
}

func NewUsersRepo(db DB, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{metered: metered{prom: prom}, db: db}
}

const userColumns = `user_id, first_name, last_name, email, password_hash, role_id`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.RoleID)
	return u, err
}

// translateUserErr maps constraint violations on users to domain errors.
func translateUserErr(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return user.ErrNotFound
	case IsUniqueViolation(err):
		return user.ErrEmailExists
	case IsForeignKeyViolation(err):
		return user.ErrRoleNotFound
	default:
		return err
	}
}

// Create inserts u and relies on the unique email index for duplicate detection.
func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	err := r.observe("users.create", func() error {
		return r.db.QueryRow(ctx,
			`INSERT INTO users (first_name, last_name, email, password_hash, role_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING user_id`,
			u.FirstName, u.LastName, u.Email, u.PasswordHash, u.RoleID,
		).Scan(&u.ID)
	})
	if err != nil {
		return user.User{}, translateUserErr(err)
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		var e error
		u, e = scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
		return e
	})
	if err != nil {
		return user.User{}, translateUserErr(err)
	}
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		var e error
		u, e = scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id))
		return e
	})
	if err != nil {
		return user.User{}, translateUserErr(err)
	}
	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	out := make([]user.User, 0)

	err := r.observe("users.list", func() error {
		rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY user_id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			out = append(out, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Update replaces the profile columns of the user identified by u.ID in a
// single statement. A nil roleID keeps the stored role; u.RoleID is ignored.
func (r *UsersRepo) Update(ctx context.Context, u user.User, roleID *int64) (user.User, error) {
	var out user.User

	err := r.observe("users.update", func() error {
		var e error
		out, e = scanUser(r.db.QueryRow(ctx,
			`UPDATE users
				SET first_name = $2,
					last_name = $3,
					email = $4,
					password_hash = $5,
					role_id = COALESCE($6, role_id)
			WHERE user_id = $1
			RETURNING `+userColumns,
			u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash, roleID,
		))
		return e
	})
	if err != nil {
		return user.User{}, translateUserErr(err)
	}

	return out, nil
}

// Delete removes the user; likes go with it through ON DELETE CASCADE.
func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := r.observe("users.delete", func() error {
		var e error
		tag, e = r.db.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id)
		return e
	})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}
