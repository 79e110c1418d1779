package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/docease/docease/internal/platform/auth"
)

// ErrInvalidCredentials is returned for any sign-in failure. It deliberately
// does not distinguish unknown email from wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// MinPasswordLength matches the registration form's minimum.
const MinPasswordLength = 6

type Service struct {
	accounts Repository
	tokens   *auth.TokenIssuer
}

func NewService(accounts Repository, tokens *auth.TokenIssuer) *Service {
	return &Service{accounts: accounts, tokens: tokens}
}

// RegisterRequest carries the sign-up form fields.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Mobile   string `json:"mobile"`
}

// Register creates an account and its profile. Returns ErrEmailTaken when the
// email is already registered.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Account, *Profile, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	req.Mobile = strings.TrimSpace(req.Mobile)

	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, nil, fmt.Errorf("a valid email is required")
	}
	if len(req.Password) < MinPasswordLength {
		return nil, nil, fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if req.Username == "" {
		return nil, nil, fmt.Errorf("username is required")
	}
	if req.Mobile == "" {
		return nil, nil, fmt.Errorf("mobile is required")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	acct := &Account{Email: req.Email, PasswordHash: hash}
	profile := &Profile{Username: req.Username, Mobile: req.Mobile}
	if err := s.accounts.CreateWithProfile(ctx, acct, profile); err != nil {
		return nil, nil, err
	}
	return acct, profile, nil
}

// SignIn verifies the credentials and issues a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, *Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(acct.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(acct.ID.String(), acct.Email)
	if err != nil {
		return "", nil, err
	}
	return token, acct, nil
}

// CurrentUser resolves the session's account and profile. Any lookup failure
// means the session is not usable: callers must treat it as unauthenticated.
func (s *Service) CurrentUser(ctx context.Context, accountID uuid.UUID) (*Account, *Profile, error) {
	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.accounts.GetProfile(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	return acct, profile, nil
}

// GetProfile returns the account's profile.
func (s *Service) GetProfile(ctx context.Context, accountID uuid.UUID) (*Profile, error) {
	return s.accounts.GetProfile(ctx, accountID)
}
