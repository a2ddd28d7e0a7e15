package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	mediaUC "github.com/khoahotran/soundfolio/internal/application/usecase/media"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

type MediaHandler struct {
	uploadImageUC *mediaUC.UploadImageUseCase
	logger        logger.Logger
}

func NewMediaHandler(uploadUC *mediaUC.UploadImageUseCase, log logger.Logger) *MediaHandler {
	return &MediaHandler{
		uploadImageUC: uploadUC,
		logger:        log,
	}
}

func (h *MediaHandler) UploadImage(c *gin.Context) {
	identity, ok := GetIdentityFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("identity not found in context", nil))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewInvalidInput("'file' is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	output, err := h.uploadImageUC.Execute(c.Request.Context(), mediaUC.UploadImageInput{
		UserID:   identity.UserID,
		Filename: fileHeader.Filename,
		File:     file,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, UploadResponse{
		URL:        output.URL,
		PublicID:   output.PublicID,
		UploadedAt: time.Now().UTC(),
	})
}
