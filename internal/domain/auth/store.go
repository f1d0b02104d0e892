package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"staffhive/internal/platform/db"
)

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) CreateUser(ctx context.Context, user User) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO users (id, email, password_hash, role, employee_id, created_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, user.ID, strings.ToLower(user.Email), user.PasswordHash, user.Role, db.NullIfEmpty(user.EmployeeID), user.CreatedAt)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateUser
	}
	return err
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (User, error) {
	return s.findOne(ctx, "email = $1", strings.ToLower(email))
}

func (s *Store) GetUser(ctx context.Context, userID string) (User, error) {
	return s.findOne(ctx, "id = $1", userID)
}

func (s *Store) findOne(ctx context.Context, where string, arg any) (User, error) {
	var out User
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, password_hash, role, COALESCE(employee_id, ''), mfa_enabled, mfa_secret_enc, created_at
    FROM users
    WHERE `+where, arg).Scan(&out.ID, &out.Email, &out.PasswordHash, &out.Role, &out.EmployeeID, &out.MFAEnabled, &out.MFASecret, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return out, err
}

func (s *Store) SetMFA(ctx context.Context, userID string, secret []byte, enabled bool) error {
	tag, err := s.DB.Exec(ctx, "UPDATE users SET mfa_secret_enc = $1, mfa_enabled = $2 WHERE id = $3", secret, enabled, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
