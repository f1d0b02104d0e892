package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const mfaIssuer = "Staff Hive"

// Sealer protects TOTP secrets at rest.
type Sealer interface {
	Configured() bool
	Encrypt(plain []byte) ([]byte, error)
	Decrypt(sealed []byte) ([]byte, error)
}

type Service struct {
	store  StoreAPI
	sealer Sealer
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewService(store StoreAPI, secret string, ttl time.Duration) *Service {
	return &Service{store: store, secret: secret, ttl: ttl, now: time.Now}
}

// SetSealer enables MFA enrolment. Without a configured sealer the MFA
// operations fail with ErrMFAUnavailable.
func (s *Service) SetSealer(sealer Sealer) {
	s.sealer = sealer
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type MFASetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauthUrl"`
}

// Login verifies the credentials and issues a signed access token. Unknown
// emails and wrong passwords fail the same way. Users with MFA enabled must
// also pass a current TOTP code.
func (s *Service) Login(ctx context.Context, email, password, mfaCode string) (LoginResult, error) {
	user, err := s.store.FindUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, ErrUserNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if user.MFAEnabled {
		if strings.TrimSpace(mfaCode) == "" {
			return LoginResult{}, ErrMFARequired
		}
		if err := s.checkCode(user, mfaCode); err != nil {
			return LoginResult{}, err
		}
	}

	token, err := GenerateToken(s.secret, Claims{UserID: user.ID, EmployeeID: user.EmployeeID, RoleName: user.Role}, s.ttl)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}
	return LoginResult{Token: token, ExpiresAt: s.now().Add(s.ttl), User: user}, nil
}

func (s *Service) CreateUser(ctx context.Context, email, password, role, employeeID string) (User, error) {
	if !ValidRole(role) {
		return User{}, ErrUnknownRole
	}
	if len(password) < 8 {
		return User{}, ErrWeakPassword
	}
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         role,
		EmployeeID:   employeeID,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (User, error) {
	return s.store.GetUser(ctx, userID)
}

func (s *Service) FindUserByEmail(ctx context.Context, email string) (User, error) {
	return s.store.FindUserByEmail(ctx, email)
}

// HasPermission satisfies the router's permission check using the in-code role map.
func (s *Service) HasPermission(ctx context.Context, role, permission string) (bool, error) {
	return RoleHasPermission(role, permission), nil
}

// SetupMFA issues a fresh TOTP secret for the user. MFA stays disabled until
// EnableMFA confirms a code generated from it.
func (s *Service) SetupMFA(ctx context.Context, userID string) (MFASetup, error) {
	if s.sealer == nil || !s.sealer.Configured() {
		return MFASetup{}, ErrMFAUnavailable
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return MFASetup{}, err
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      mfaIssuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
	})
	if err != nil {
		return MFASetup{}, fmt.Errorf("generate mfa secret: %w", err)
	}
	sealed, err := s.sealer.Encrypt([]byte(key.Secret()))
	if err != nil {
		return MFASetup{}, fmt.Errorf("seal mfa secret: %w", err)
	}
	if err := s.store.SetMFA(ctx, user.ID, sealed, false); err != nil {
		return MFASetup{}, err
	}
	return MFASetup{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

func (s *Service) EnableMFA(ctx context.Context, userID, code string) (User, error) {
	return s.toggleMFA(ctx, userID, code, true)
}

// DisableMFA clears the secret after checking a current code.
func (s *Service) DisableMFA(ctx context.Context, userID, code string) (User, error) {
	return s.toggleMFA(ctx, userID, code, false)
}

func (s *Service) toggleMFA(ctx context.Context, userID, code string, enable bool) (User, error) {
	if s.sealer == nil || !s.sealer.Configured() {
		return User{}, ErrMFAUnavailable
	}
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if err := s.checkCode(user, code); err != nil {
		return User{}, err
	}
	secret := user.MFASecret
	if !enable {
		secret = nil
	}
	if err := s.store.SetMFA(ctx, user.ID, secret, enable); err != nil {
		return User{}, err
	}
	user.MFAEnabled = enable
	user.MFASecret = secret
	return user, nil
}

func (s *Service) checkCode(user User, code string) error {
	if len(user.MFASecret) == 0 {
		return ErrMFANotSetUp
	}
	if s.sealer == nil || !s.sealer.Configured() {
		return ErrMFAUnavailable
	}
	secret, err := s.sealer.Decrypt(user.MFASecret)
	if err != nil {
		return fmt.Errorf("open mfa secret: %w", err)
	}
	valid, err := totp.ValidateCustom(strings.TrimSpace(code), string(secret), s.now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil || !valid {
		return ErrMFAInvalid
	}
	return nil
}
