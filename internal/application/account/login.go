package account

import (
	"context"
	"strings"
	"time"

	"github.com/iusta/account-service/internal/domain"
)

type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
}

type LoginResult struct {
	User        domain.User
	SessionID   string
	SessionTTL  time.Duration
	AccessToken string
	ExpiresIn   int64  // seconds
	RedirectTo  string // role-specific landing area
}

// Login authenticates an account and establishes a session.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration);
// a single lookup with an early return on absence.
func (s *Service) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))

	if email == "" || in.Password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Hide not-found behind invalid credentials
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	// The confirmed-email check is authoritative and comes before credential
	// verification: an unconfirmed account cannot sign in at all.
	if !u.EmailConfirmed {
		return LoginResult{}, domain.ErrEmailNotConfirmed()
	}

	if err := s.hasher.Compare(u.PasswordHash, in.Password); err != nil {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	// Lockout / not-allowed outcomes are reserved for future policy and
	// currently pass through without failing the login.
	// if u.Locked { return LoginResult{}, domain.ErrAccountLocked() }

	ttl := s.sessionTTL
	if in.RememberMe {
		ttl = s.rememberTTL
	}
	sid, err := s.sessions.Create(ctx, u.ID, ttl)
	if err != nil {
		return LoginResult{}, err
	}

	access, err := s.signer.SignAccessToken(u.ID, u.Role, s.accessTTL)
	if err != nil {
		return LoginResult{}, err
	}

	s.audit("account.login", map[string]string{"user_id": u.ID})

	return LoginResult{
		User:        u,
		SessionID:   sid,
		SessionTTL:  ttl,
		AccessToken: access,
		ExpiresIn:   int64(s.accessTTL.Seconds()),
		RedirectTo:  domain.LandingPath(u.Role),
	}, nil
}
