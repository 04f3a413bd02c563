package account

import (
	"context"
	"time"

	"github.com/iusta/account-service/internal/domain"
)

/*
UserRepo
--------
Persistence port for accounts.
Only describes WHAT the lifecycle flows need, not HOW it's stored.
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// Updates needed by business flows
	SetRole(ctx context.Context, userID string, role string) error
	SetEmailConfirmed(ctx context.Context, userID string) error
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error
}

/*
PasswordHasher
--------------
Abstracts bcrypt / argon2.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies access tokens (JWT).
Used by service + handlers that want a bearer token alongside the session.
*/
type TokenClaims struct {
	UserID string
	Role   string
	Exp    time.Time
}

type TokenSigner interface {
	SignAccessToken(userID string, role string, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
}

/*
SessionStore
------------
Server-side session management. A session is created at Login, read by the
authorization boundary, and destroyed at Logout. Backed by Redis or memory.
*/
type Session struct {
	ID     string
	UserID string
}

type SessionStore interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (sessionID string, err error)
	Get(ctx context.Context, sessionID string) (Session, error)
	Revoke(ctx context.Context, sessionID string) error
	RevokeAll(ctx context.Context, userID string) error
}

/*
OneTimeTokenStore
-----------------
Opaque one-time tokens for:
- email confirmation
- password reset
Purpose-bound, TTL-bounded, consumed at most once.
*/
type TokenPurpose string

const (
	PurposeConfirmEmail  TokenPurpose = "confirm_email"
	PurposePasswordReset TokenPurpose = "password_reset"
)

type OneTimeTokenStore interface {
	Save(ctx context.Context, purpose TokenPurpose, token string, userID string, ttl time.Duration) error
	Consume(ctx context.Context, purpose TokenPurpose, token string) (userID string, err error)
	Peek(ctx context.Context, purpose TokenPurpose, token string) (userID string, err error) // reset-form display step
}

/*
MailSender
----------
Delivers a single email. Fire-and-forget from the caller's perspective:
no delivery confirmation is consumed.
*/
type MailSender interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}

/*
EventPublisher
--------------
Publishes account lifecycle events to the broker, synchronously within the
request. Failures are logged, never surfaced to the user.
*/
type EventPublisher interface {
	PublishRegistered(ctx context.Context, evt RegisteredEvent) error
	PublishEmailConfirmed(ctx context.Context, evt EmailConfirmedEvent) error
	PublishPasswordReset(ctx context.Context, evt PasswordResetEvent) error
}

type RegisteredEvent struct {
	UserID string
	Email  string
	Role   string
}

type EmailConfirmedEvent struct {
	UserID string
	Email  string
}

type PasswordResetEvent struct {
	UserID string
	Email  string
}
