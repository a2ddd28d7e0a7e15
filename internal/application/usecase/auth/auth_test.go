package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/soundfolio/internal/domain/user"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/auth"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

type stubUserRepo struct {
	users map[string]*user.User
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, apperror.NewNotFound("user", email)
}

func (r *stubUserRepo) Create(_ context.Context, u *user.User) error {
	r.users[u.Email] = u
	return nil
}

type stubProvider struct {
	id  user.Identity
	err error
}

func (p stubProvider) AuthCodeURL(state string) string { return "https://idp.example/authorize?state=" + state }

func (p stubProvider) Exchange(context.Context, string) (user.Identity, error) { return p.id, p.err }

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("s3cret!")
	require.NoError(t, err)
	name := "Carla Bass"
	u := &user.User{ID: uuid.New(), Email: "carla@example.com", Name: &name, PasswordHash: hash}
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	uc := NewLoginUseCase(&stubUserRepo{users: map[string]*user.User{u.Email: u}}, jwtSvc, logger.NewNop())

	out, err := uc.Execute(context.Background(), LoginInput{Email: " Carla@Example.com ", Password: "s3cret!"})
	require.NoError(t, err)
	claims, err := jwtSvc.ValidateToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, "Carla Bass", claims.DisplayName)

	_, err = uc.Execute(context.Background(), LoginInput{Email: u.Email, Password: "wrong"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = uc.Execute(context.Background(), LoginInput{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = uc.Execute(context.Background(), LoginInput{Email: "", Password: ""})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestOAuth(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	uc := NewOAuthUseCase(stubProvider{id: user.Identity{UserID: "google-123", DisplayName: "Dee"}}, jwtSvc, logger.NewNop())

	start := uc.Start()
	assert.NotEmpty(t, start.State)
	assert.Contains(t, start.RedirectURL, start.State)

	out, err := uc.Callback(context.Background(), OAuthCallbackInput{Code: "c", State: start.State, ExpectedState: start.State})
	require.NoError(t, err)
	assert.Equal(t, "google-123", out.Identity.UserID)

	_, err = uc.Callback(context.Background(), OAuthCallbackInput{Code: "c", State: "forged", ExpectedState: start.State})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	failing := NewOAuthUseCase(stubProvider{err: errors.New("invalid_grant")}, jwtSvc, logger.NewNop())
	_, err = failing.Callback(context.Background(), OAuthCallbackInput{Code: "c", State: "s", ExpectedState: "s"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestEnsureOwner(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*user.User{}}
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)

	created, err := EnsureOwner(context.Background(), repo, OwnerInput{Email: "Owner@Example.com", Password: "pw", Name: "Owner"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureOwner(context.Background(), repo, OwnerInput{Email: "owner@example.com", Password: "other"})
	require.NoError(t, err)
	assert.False(t, created)

	out, err := NewLoginUseCase(repo, jwtSvc, logger.NewNop()).Execute(context.Background(), LoginInput{Email: "owner@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Owner", out.Identity.DisplayName)

	_, err = EnsureOwner(context.Background(), repo, OwnerInput{Email: "", Password: "pw"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
