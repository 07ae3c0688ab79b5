package auth

import (
	"context"
	"errors"

	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/MishalHQ/aevon-console/internal/audit"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// CredentialSource is the slice of the user store the service and guard use.
type CredentialSource interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

// AuditRecorder is satisfied by *audit.Recorder; tests use fakes.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// Service runs the login flow: lookup, active check, password comparison,
// token issue, with an audit record for every outcome.
type Service struct {
	store  CredentialSource
	tokens *TokenService
	audit  AuditRecorder
	logger *slog.Logger
}

func NewService(store CredentialSource, tokens *TokenService, recorder AuditRecorder, logger *slog.Logger) *Service {
	return &Service{store: store, tokens: tokens, audit: recorder, logger: logger}
}

// Authenticate returns the user and a fresh token, or one of
// ErrInvalidCredentials / ErrAccountDisabled. Unknown email and wrong
// password are indistinguishable to the caller; the audit trail keeps the
// real reason.
func (s *Service) Authenticate(ctx context.Context, email, password, sourceIP string) (*User, string, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, "", err
		}
		s.audit.Record(ctx, audit.Entry{
			Action:    audit.ActionLoginFailed,
			UserEmail: email,
			Detail:    "User not found",
			IPAddress: sourceIP,
		})
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		s.audit.Record(ctx, audit.Entry{
			Action:    audit.ActionLoginFailed,
			UserID:    user.ID,
			UserEmail: user.Email,
			Detail:    "Account disabled",
			IPAddress: sourceIP,
		})
		return nil, "", ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.audit.Record(ctx, audit.Entry{
			Action:    audit.ActionLoginFailed,
			UserID:    user.ID,
			UserEmail: user.Email,
			Detail:    "Invalid password",
			IPAddress: sourceIP,
		})
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}

	s.audit.Record(ctx, audit.Entry{
		Action:    audit.ActionUserLogin,
		UserID:    user.ID,
		UserEmail: user.Email,
		Detail:    "Login successful",
		IPAddress: sourceIP,
	})
	return user, token, nil
}
