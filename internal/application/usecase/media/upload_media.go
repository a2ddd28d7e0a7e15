package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/internal/application/service"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

var allowedImageExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true,
}

// UploadImageUseCase stores an avatar, cover or gallery image and returns
// the URL boxes and projects reference it by.
type UploadImageUseCase struct {
	uploader service.Uploader
	logger   logger.Logger
}

func NewUploadImageUseCase(u service.Uploader, log logger.Logger) *UploadImageUseCase {
	return &UploadImageUseCase{uploader: u, logger: log}
}

type UploadImageInput struct {
	UserID   string
	Filename string
	File     io.Reader
}

type UploadImageOutput struct {
	URL      string
	PublicID string
}

func (uc *UploadImageUseCase) Execute(ctx context.Context, input UploadImageInput) (*UploadImageOutput, error) {
	if uc.uploader == nil {
		return nil, apperror.NewUnavailable("media storage")
	}
	ext := strings.ToLower(filepath.Ext(input.Filename))
	if !allowedImageExt[ext] {
		return nil, apperror.NewValidation("file", fmt.Sprintf("unsupported image type '%s'", ext))
	}

	folder := fmt.Sprintf("users/%s/images", input.UserID)
	publicID := uuid.NewString()

	url, err := uc.uploader.Upload(ctx, input.File, folder, publicID)
	if err != nil {
		uc.logger.Error("Image upload failed", err, zap.String("user_id", input.UserID))
		return nil, apperror.NewPersistence("failed to upload image", err)
	}
	return &UploadImageOutput{URL: url, PublicID: folder + "/" + publicID}, nil
}
