package backup

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/internal/application/service"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

const archiveFolder = "backups/portfolios"

// BackupUseCase archives a user's durable portfolio blob to media storage.
type BackupUseCase struct {
	durable  service.Tier
	uploader service.Uploader
	logger   logger.Logger
	now      func() time.Time
}

func NewBackupUseCase(durable service.Tier, uploader service.Uploader, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		durable:  durable,
		uploader: uploader,
		logger:   log,
		now:      time.Now,
	}
}

// Execute uploads the current profile blob and returns its URL.
func (uc *BackupUseCase) Execute(ctx context.Context, userID string) (string, error) {
	blob, found, err := uc.durable.Read(ctx, service.ProfileKey(userID))
	if err != nil {
		return "", apperror.NewPersistence("failed to read portfolio for backup", err)
	}
	if !found {
		return "", apperror.NewNotFound("portfolio", userID)
	}

	timestamp := uc.now().UTC().Format("2006-01-02_15-04-05")
	publicID := fmt.Sprintf("%s/%s/portfolio-%s.json", archiveFolder, userID, timestamp)

	url, err := uc.uploader.Upload(ctx, bytes.NewReader(blob), archiveFolder, publicID)
	if err != nil {
		uc.logger.Error("Failed to upload portfolio backup", err, zap.String("user_id", userID))
		return "", apperror.NewPersistence("failed to upload backup", err)
	}

	uc.logger.Info("Portfolio backup uploaded",
		zap.String("user_id", userID),
		zap.String("url", url),
		zap.String("public_id", publicID),
	)
	return url, nil
}
