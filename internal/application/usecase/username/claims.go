package username

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/khoahotran/soundfolio/internal/application/service"
	"github.com/khoahotran/soundfolio/pkg/apperror"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

// maxSuffix bounds the search for a free derived handle.
const maxSuffix = 1000

// Claims reserves public handles in the durable tier. A handle belongs to
// the first user that claims it and is never handed to anyone else.
//
// The tier has no compare-and-set, so the read and the write are serialized
// within this process only.
type Claims struct {
	durable service.Tier
	logger  logger.Logger

	mu sync.Mutex
}

func NewClaims(durable service.Tier, log logger.Logger) *Claims {
	return &Claims{durable: durable, logger: log}
}

// Owner returns the user id holding username.
func (c *Claims) Owner(ctx context.Context, username string) (string, bool, error) {
	raw, found, err := c.durable.Read(ctx, service.UsernameKey(username))
	if err != nil {
		return "", false, apperror.NewPersistence("failed to read username claim", err)
	}
	if !found || len(raw) == 0 {
		return "", false, nil
	}
	return string(raw), true, nil
}

// Claim reserves username for userID. Claiming a handle the user already
// holds is a no-op; a handle held by another user is a conflict.
func (c *Claims) Claim(ctx context.Context, username, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.claim(ctx, username, userID)
	return err
}

func (c *Claims) claim(ctx context.Context, username, userID string) (bool, error) {
	owner, found, err := c.Owner(ctx, username)
	if err != nil {
		return false, err
	}
	if found {
		if owner != userID {
			return false, apperror.NewConflict("username", "username", username)
		}
		return false, nil
	}
	if err := c.durable.Write(ctx, service.UsernameKey(username), []byte(userID)); err != nil {
		return false, apperror.NewPersistence("failed to reserve username", err)
	}
	return true, nil
}

// Derive claims base for userID, or the first of base2, base3, ... that is
// free or already held by userID, and returns the handle it got.
func (c *Claims) Derive(ctx context.Context, base, userID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for n := 1; n <= maxSuffix; n++ {
		candidate := base
		if n > 1 {
			candidate = base + strconv.Itoa(n)
		}
		claimed, err := c.claim(ctx, candidate, userID)
		if errors.Is(err, apperror.ErrConflict) {
			continue
		}
		if err != nil {
			return "", err
		}
		if claimed {
			c.logger.Info("Username reserved",
				zap.String("user_id", userID),
				zap.String("username", candidate),
			)
		}
		return candidate, nil
	}
	return "", apperror.NewConflict("username", "username", base)
}
