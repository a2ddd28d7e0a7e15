package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/soundfolio/internal/application/usecase/auth"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

const oauthStateCookie = "soundfolio_oauth_state"

type AuthHandler struct {
	loginUseCase *auth.LoginUseCase
	oauthUseCase *auth.OAuthUseCase
	logger       logger.Logger
}

// NewAuthHandler builds the handler. oauthUC may be nil when no provider is
// configured.
func NewAuthHandler(loginUC *auth.LoginUseCase, oauthUC *auth.OAuthUseCase, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		loginUseCase: loginUC,
		oauthUseCase: oauthUC,
		logger:       log,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid login request", err))
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: output.AccessToken,
		UserID:      output.Identity.UserID,
		DisplayName: output.Identity.DisplayName,
	})
}

func (h *AuthHandler) OAuthStart(c *gin.Context) {
	if h.oauthUseCase == nil {
		c.Error(apperror.NewUnavailable("oauth sign-in"))
		return
	}
	start := h.oauthUseCase.Start()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, start.State, 600, "/", "", false, true)
	c.Redirect(http.StatusFound, start.RedirectURL)
}

func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	if h.oauthUseCase == nil {
		c.Error(apperror.NewUnavailable("oauth sign-in"))
		return
	}
	expected, _ := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	output, err := h.oauthUseCase.Callback(c.Request.Context(), auth.OAuthCallbackInput{
		Code:          c.Query("code"),
		State:         c.Query("state"),
		ExpectedState: expected,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: output.AccessToken,
		UserID:      output.Identity.UserID,
		DisplayName: output.Identity.DisplayName,
	})
}
