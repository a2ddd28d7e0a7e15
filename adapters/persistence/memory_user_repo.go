package persistence

import (
	"context"
	"strings"
	"sync"

	"github.com/khoahotran/soundfolio/internal/domain/user"
	"github.com/khoahotran/soundfolio/pkg/apperror"
)

// MemoryUserRepo keeps accounts in process memory for storage.driver=memory.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]user.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]user.User)}
}

var _ user.Repository = (*MemoryUserRepo)(nil)

func (r *MemoryUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, apperror.NewNotFound("user", email)
	}
	return &u, nil
}

func (r *MemoryUserRepo) Create(_ context.Context, u *user.User) error {
	key := strings.ToLower(u.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[key]; exists {
		return apperror.NewConflict("user", "email", u.Email)
	}
	r.users[key] = *u
	return nil
}
