package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/khoahotran/soundfolio/internal/domain/user"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/auth"
)

type OwnerInput struct {
	Email    string
	Password string
	Name     string
}

// EnsureOwner creates the owner account unless one with the same email
// exists. It reports whether an account was created.
func EnsureOwner(ctx context.Context, repo user.Repository, in OwnerInput) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return false, apperror.NewValidation("owner", "email and password are required")
	}

	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return false, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return false, apperror.NewInternal("cannot hash password", err)
	}
	u := &user.User{ID: uuid.New(), Email: email, PasswordHash: hash}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = &name
	}
	if err := repo.Create(ctx, u); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
