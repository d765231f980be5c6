// Package accounts is the credential store: registration, authentication and
// admin-side user maintenance on top of a user repository.
package accounts

import (
	"context"
	"errors"

	"github.com/geocoder89/vacationhub/internal/domain/role"
	"github.com/geocoder89/vacationhub/internal/domain/user"
	"github.com/geocoder89/vacationhub/internal/security"
)

type UserRepo interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	Update(ctx context.Context, u user.User, roleID *int64) (user.User, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	users UserRepo
	hash  func(string) (string, error)
}

func NewService(users UserRepo) *Service {
	return &Service{users: users, hash: security.HashPassword}
}

type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// validate runs before any hashing so bad input never costs a bcrypt round.
func (p Profile) validate() (Profile, error) {
	p.FirstName, p.LastName, p.Email = user.Normalize(p.FirstName, p.LastName, p.Email)

	if p.FirstName == "" || p.LastName == "" {
		return p, user.ErrBlankName
	}
	if !user.ValidEmail(p.Email) {
		return p, user.ErrInvalidEmail
	}
	if err := security.ValidatePassword(p.Password); err != nil {
		return p, err
	}
	return p, nil
}

// Register always creates a User-role account. Duplicate emails are detected
// by the unique index, not by a lookup beforehand.
func (s *Service) Register(ctx context.Context, p Profile) (user.User, error) {
	return s.create(ctx, p, role.UserID)
}

// Create is the admin insert path. The admin role cannot be granted here.
func (s *Service) Create(ctx context.Context, p Profile, roleID *int64) (user.User, error) {
	rid := role.UserID
	if roleID != nil {
		rid = *roleID
	}
	if rid == role.AdminID {
		return user.User{}, user.ErrRoleEscalation
	}
	return s.create(ctx, p, rid)
}

func (s *Service) create(ctx context.Context, p Profile, roleID int64) (user.User, error) {
	p, err := p.validate()
	if err != nil {
		return user.User{}, err
	}

	hash, err := s.hash(p.Password)
	if err != nil {
		return user.User{}, err
	}

	return s.users.Create(ctx, user.User{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		PasswordHash: hash,
		RoleID:       roleID,
	})
}

// Authenticate returns user.ErrInvalidCredentials for both an unknown email
// and a wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	_, _, email = user.Normalize("", "", email)

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, user.ErrInvalidCredentials
		}
		return user.User{}, err
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return user.User{}, user.ErrInvalidCredentials
	}

	return u, nil
}

// Update replaces the profile of user id and re-hashes the password. A nil
// roleID keeps the current role; the admin role can never be assigned.
func (s *Service) Update(ctx context.Context, id int64, p Profile, roleID *int64) (user.User, error) {
	if roleID != nil && *roleID == role.AdminID {
		return user.User{}, user.ErrRoleEscalation
	}

	p, err := p.validate()
	if err != nil {
		return user.User{}, err
	}

	hash, err := s.hash(p.Password)
	if err != nil {
		return user.User{}, err
	}

	return s.users.Update(ctx, user.User{
		ID:           id,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		PasswordHash: hash,
	}, roleID)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

// Lookup resolves a user by id; used by the request guard.
func (s *Service) Lookup(ctx context.Context, id int64) (user.User, error) {
	return s.users.GetByID(ctx, id)
}
