package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service orchestrates the credential and session lifecycle: registration,
// login, token refresh and the checks consumers run against the identity
// record. All identity state lives in the signed tokens or in the Store;
// the service itself holds nothing mutable per session.
type Service struct {
	store  Store
	issuer *TokenIssuer
	now    func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs a Service over the given store and token issuer.
func NewService(store Store, issuer *TokenIssuer, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issuer exposes the token issuer, primarily so the HTTP layer can derive
// cookie lifetimes from the configured TTLs.
func (s *Service) Issuer() *TokenIssuer {
	return s.issuer
}

// Register validates the input, creates a new identity and issues its first
// token pair. Duplicate emails surface as ErrDuplicateEmail straight from
// the store's unique constraint; there is no read-before-write check, so
// concurrent registrations with the same email cannot both succeed.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, TokenPair, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)
	if err := validateUsername(username); err != nil {
		return nil, TokenPair{}, err
	}
	if err := validateEmail(email); err != nil {
		return nil, TokenPair{}, err
	}
	if err := validatePassword(password); err != nil {
		return nil, TokenPair{}, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("hash password: %w", err)
	}
	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Login authenticates email and password and issues a fresh token pair.
// Unknown email and wrong password both return ErrInvalidCredentials, so
// callers cannot distinguish the two.
func (s *Service) Login(ctx context.Context, email, password string) (*User, TokenPair, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	user, err := s.store.FindByEmailWithSecret(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, err
	}
	if !user.IsActive {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	now := s.now().UTC()
	if err := s.store.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, TokenPair{}, err
	}
	user.LastLoginAt = &now
	pair, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// VerifyAccess validates an access token and returns the subject it was
// issued to. This is a pure check against the token itself; it does not
// touch the store.
func (s *Service) VerifyAccess(token string) (Subject, error) {
	claims, err := s.issuer.Verify(token, ScopeAccess)
	if err != nil {
		return Subject{}, err
	}
	return subjectFromClaims(claims), nil
}

// Refresh verifies a refresh token and rotates a brand-new access/refresh
// pair bound to the same subject. The old refresh token is not invalidated
// server-side; it stays cryptographically valid until its own expiry.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*User, TokenPair, error) {
	claims, err := s.issuer.Verify(refreshToken, ScopeRefresh)
	if err != nil {
		return nil, TokenPair{}, err
	}
	user, err := s.consultIdentity(ctx, subjectFromClaims(claims))
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// CurrentUser resolves the authenticated subject to its identity record.
// Returns ErrNotFound when the identity was deleted after the token was
// issued, and ErrUnauthorized when the token predates the subject's last
// password change.
func (s *Service) CurrentUser(ctx context.Context, sub Subject) (*User, error) {
	return s.consultIdentity(ctx, sub)
}

// UpdateProfile applies username/email changes. Secret changes are
// excluded from this path and go through ChangePassword.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd UserUpdate) (*User, error) {
	if upd.Username != nil {
		trimmed := strings.TrimSpace(*upd.Username)
		if err := validateUsername(trimmed); err != nil {
			return nil, err
		}
		upd.Username = &trimmed
	}
	if upd.Email != nil {
		normalized := NormalizeEmail(*upd.Email)
		if err := validateEmail(normalized); err != nil {
			return nil, err
		}
		upd.Email = &normalized
	}
	return s.store.Update(ctx, userID, upd)
}

// ChangePassword verifies the current secret before rehashing the new one.
// Recording password_changed_at invalidates every token issued earlier.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	withSecret, err := s.store.FindByEmailWithSecret(ctx, user.Email)
	if err != nil {
		return err
	}
	if err := VerifyPassword(withSecret.PasswordHash, current); err != nil {
		return ErrInvalidCredentials
	}
	if err := validatePassword(next); err != nil {
		return err
	}
	hash, err := HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	// Truncated to seconds to match JWT issued-at precision, so a token
	// minted in the same instant as the change is not spuriously rejected.
	return s.store.UpdatePassword(ctx, userID, hash, s.now().UTC().Truncate(time.Second))
}

// CurrentUserWithFreshTokens reloads the identity and issues a brand-new
// token pair. Used after a password change, which staled every token the
// caller held.
func (s *Service) CurrentUserWithFreshTokens(ctx context.Context, userID string) (*User, TokenPair, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// DeleteAccount removes the identity record. Outstanding tokens keep
// verifying cryptographically but no longer resolve to an identity.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, userID)
}

// consultIdentity loads the subject's record and applies the checks that
// only the store can answer: existence, active flag, and the password
// change cutoff for tokens minted before the secret last changed.
func (s *Service) consultIdentity(ctx context.Context, sub Subject) (*User, error) {
	user, err := s.store.FindByID(ctx, sub.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUnauthorized
	}
	if user.PasswordChangedAt != nil && sub.TokenIssuedAt.Before(*user.PasswordChangedAt) {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func subjectFromClaims(claims *Claims) Subject {
	sub := Subject{UserID: claims.Subject}
	if claims.IssuedAt != nil {
		sub.TokenIssuedAt = claims.IssuedAt.Time
	}
	return sub
}
