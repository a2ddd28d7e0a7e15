package auth

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/internal/application/service"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/auth"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

// OAuthUseCase signs users in through the external identity provider and
// issues the same token as local login.
type OAuthUseCase struct {
	provider service.IdentityProvider
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewOAuthUseCase(p service.IdentityProvider, jwtSvc *auth.JWTService, log logger.Logger) *OAuthUseCase {
	return &OAuthUseCase{provider: p, jwtSvc: jwtSvc, logger: log}
}

type OAuthStart struct {
	RedirectURL string
	State       string
}

func (uc *OAuthUseCase) Start() OAuthStart {
	state := uuid.NewString()
	return OAuthStart{RedirectURL: uc.provider.AuthCodeURL(state), State: state}
}

type OAuthCallbackInput struct {
	Code          string
	State         string
	ExpectedState string
}

func (uc *OAuthUseCase) Callback(ctx context.Context, in OAuthCallbackInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "auth.OAuthCallback")
	defer span.End()

	if in.State == "" || in.State != in.ExpectedState {
		return nil, apperror.NewUnauthorized("oauth state mismatch", nil)
	}
	if in.Code == "" {
		return nil, apperror.NewValidation("code", "authorization code is required")
	}

	id, err := uc.provider.Exchange(ctx, in.Code)
	if err != nil {
		span.RecordError(err)
		uc.logger.Warn("OAuth exchange failed", zap.Error(err))
		return nil, apperror.NewUnauthorized("oauth exchange failed", err)
	}
	if id.IsZero() {
		return nil, apperror.NewUnauthorized("identity provider returned no subject", nil)
	}

	token, err := uc.jwtSvc.GenerateToken(id.UserID, id.DisplayName)
	if err != nil {
		return nil, apperror.NewInternal("failed to generate token", err)
	}
	return &LoginOutput{AccessToken: token, Identity: id}, nil
}
