package service

import (
	"context"

	"github.com/khoahotran/soundfolio/internal/domain/user"
)

// IdentityProvider is the external OAuth collaborator.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (user.Identity, error)
}
