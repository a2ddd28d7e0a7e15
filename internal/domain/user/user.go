package user

import (
	"context"

	"github.com/google/uuid"
)

// Identity is all the editor knows about who is signed in.
type Identity struct {
	UserID      string
	DisplayName string
}

func (i Identity) IsZero() bool { return i.UserID == "" }

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	PasswordHash string    `json:"-"`
}

func (u *User) Identity() Identity {
	name := ""
	if u.Name != nil {
		name = *u.Name
	}
	return Identity{UserID: u.ID.String(), DisplayName: name}
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
}
