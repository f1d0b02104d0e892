package auth

import "context"

type StoreAPI interface {
	CreateUser(ctx context.Context, user User) error
	FindUserByEmail(ctx context.Context, email string) (User, error)
	GetUser(ctx context.Context, userID string) (User, error)
	// SetMFA replaces the sealed TOTP secret and its enabled flag.
	SetMFA(ctx context.Context, userID string, secret []byte, enabled bool) error
}
