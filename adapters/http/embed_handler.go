package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	embedUC "github.com/khoahotran/soundfolio/internal/application/usecase/embed"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

type EmbedHandler struct {
	embedUseCase *embedUC.EmbedUseCase
	logger       logger.Logger
}

func NewEmbedHandler(uc *embedUC.EmbedUseCase, log logger.Logger) *EmbedHandler {
	return &EmbedHandler{embedUseCase: uc, logger: log}
}

func (h *EmbedHandler) ListEmbeds(c *gin.Context) {
	identity, ok := GetIdentityFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("identity not found in context", nil))
		return
	}
	embeds, err := h.embedUseCase.List(c.Request.Context(), identity.UserID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, embeds)
}

func (h *EmbedHandler) CreateEmbed(c *gin.Context) {
	identity, ok := GetIdentityFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("identity not found in context", nil))
		return
	}
	var req CreateEmbedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for embed", err))
		return
	}
	e, err := h.embedUseCase.Create(c.Request.Context(), identity.UserID, embedUC.CreateEmbedInput{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		EmbedCode:   req.EmbedCode,
		ImageURL:    req.ImageURL,
		Link:        req.Link,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *EmbedHandler) UpdateEmbed(c *gin.Context) {
	identity, ok := GetIdentityFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("identity not found in context", nil))
		return
	}
	var req UpdateEmbedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for embed update", err))
		return
	}
	e, err := h.embedUseCase.Update(c.Request.Context(), identity.UserID, c.Param("embedId"), req.ToPatch())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EmbedHandler) DeleteEmbed(c *gin.Context) {
	identity, ok := GetIdentityFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("identity not found in context", nil))
		return
	}
	if err := h.embedUseCase.Delete(c.Request.Context(), identity.UserID, c.Param("embedId")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
