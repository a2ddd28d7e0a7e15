package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/soundfolio/internal/application/usecase/editor"
	"github.com/khoahotran/soundfolio/internal/application/usecase/public"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

// ProfileHandler covers the profile header, theme and social links of the
// editor, plus the public read of a published profile.
type ProfileHandler struct {
	registry *editor.Registry
	publicUC *public.GetPublicProfileUseCase
	feedUC   *public.FeedUseCase
	logger   logger.Logger
}

func NewProfileHandler(registry *editor.Registry, publicUC *public.GetPublicProfileUseCase, feedUC *public.FeedUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		registry: registry,
		publicUC: publicUC,
		feedUC:   feedUC,
		logger:   log,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(session.View().Profile))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile update", err))
		return
	}
	profile, err := session.UpdateProfile(c.Request.Context(), req.ToDomain())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToProfileDTO(profile))
}

func (h *ProfileHandler) SetTheme(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for theme", err))
		return
	}
	if err := session.SetTheme(c.Request.Context(), req.ToDomain()); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, session.View().Theme)
}

func (h *ProfileHandler) ListSocialLinks(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.View().SocialLinks)
}

func (h *ProfileHandler) AddSocialLink(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	var req SocialLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for social link", err))
		return
	}
	link, err := session.AddSocialLink(req.Platform, req.URL)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *ProfileHandler) UpdateSocialLink(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	var req SocialLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for social link", err))
		return
	}
	link, err := session.UpdateSocialLink(c.Param("linkId"), req.Platform, req.URL)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *ProfileHandler) DeleteSocialLink(c *gin.Context) {
	session, ok := currentSession(c, h.registry)
	if !ok {
		return
	}
	if err := session.DeleteSocialLink(c.Param("linkId")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.publicUC.Execute(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetPublicFeed(c *gin.Context) {
	feed, err := h.feedUC.Execute(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	if err := feed.WriteRss(c.Writer); err != nil {
		h.logger.Error("Failed to write RSS feed to response", err)
	}
}
