package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/geocoder89/vacationhub/internal/config"
	"github.com/geocoder89/vacationhub/internal/domain/role"
	"github.com/geocoder89/vacationhub/internal/domain/user"
	"github.com/geocoder89/vacationhub/internal/security"
)

// SeedRoles inserts the two system roles with their fixed ids and moves the
// role sequence past them so API-created roles never collide.
func SeedRoles(ctx context.Context, conn Conn) error {
	_, err := conn.Exec(ctx,
		`INSERT INTO roles (role_id, role_name) VALUES ($1, $2), ($3, $4)
		ON CONFLICT (role_id) DO NOTHING`,
		role.UserID, role.UserName, role.AdminID, role.AdminName,
	)
	if err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	_, err = conn.Exec(ctx,
		`SELECT setval(pg_get_serial_sequence('roles', 'role_id'), GREATEST((SELECT MAX(role_id) FROM roles), $1))`,
		role.AdminID,
	)
	if err != nil {
		return fmt.Errorf("advance role sequence: %w", err)
	}

	return nil
}

// EnsureAdminUser creates the configured admin account once. An existing
// account with the same email is left untouched. The email is stored in the
// same normalized form the login path looks up.
func EnsureAdminUser(ctx context.Context, conn Conn, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	first, last, email := user.Normalize(cfg.AdminFirstName, cfg.AdminLastName, cfg.AdminEmail)
	if !user.ValidEmail(email) {
		return fmt.Errorf("admin email %q: %w", cfg.AdminEmail, user.ErrInvalidEmail)
	}
	if err := security.ValidatePassword(cfg.AdminPassword); err != nil {
		return fmt.Errorf("admin password: %w", err)
	}

	hash, err := security.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	tag, err := conn.Exec(ctx,
		`INSERT INTO users (first_name, last_name, email, password_hash, role_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING`,
		first, last, email, hash, role.AdminID,
	)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if tag.RowsAffected() > 0 {
		slog.Default().InfoContext(ctx, "admin_user_created", "email", email)
	}
	return nil
}
