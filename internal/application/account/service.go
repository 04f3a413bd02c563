package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/url"
	"time"

	"github.com/iusta/account-service/internal/domain"
)

type Service struct {
	users    UserRepo
	hasher   PasswordHasher
	signer   TokenSigner
	sessions SessionStore
	ott      OneTimeTokenStore
	mail     MailSender
	pub      EventPublisher

	accessTTL   time.Duration
	sessionTTL  time.Duration
	rememberTTL time.Duration
	confirmTTL  time.Duration
	resetTTL    time.Duration
	confirmURL  string // e.g. https://app.example.com/account/confirm-email
	resetURL    string // e.g. https://app.example.com/account/reset-password
	audit       func(action string, fields map[string]string)
}

type Config struct {
	AccessTTL             time.Duration
	SessionTTL            time.Duration
	RememberMeTTL         time.Duration
	ConfirmEmailBaseURL   string
	PasswordResetBaseURL  string
	ConfirmEmailTokenTTL  time.Duration
	PasswordResetTokenTTL time.Duration
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	sessions SessionStore,
	ott OneTimeTokenStore,
	mail MailSender,
	pub EventPublisher,
	cfg Config,
) *Service {
	confirmTTL := cfg.ConfirmEmailTokenTTL
	if confirmTTL <= 0 {
		confirmTTL = 24 * time.Hour
	}
	resetTTL := cfg.PasswordResetTokenTTL
	if resetTTL <= 0 {
		resetTTL = 30 * time.Minute
	}
	sessionTTL := cfg.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	rememberTTL := cfg.RememberMeTTL
	if rememberTTL <= 0 {
		rememberTTL = 30 * 24 * time.Hour
	}
	return &Service{
		users:    users,
		hasher:   hasher,
		signer:   signer,
		sessions: sessions,
		ott:      ott,
		mail:     mail,
		pub:      pub,
		audit:    func(string, map[string]string) {},

		accessTTL:   cfg.AccessTTL,
		sessionTTL:  sessionTTL,
		rememberTTL: rememberTTL,
		confirmTTL:  confirmTTL,
		resetTTL:    resetTTL,
		confirmURL:  cfg.ConfirmEmailBaseURL,
		resetURL:    cfg.PasswordResetBaseURL,
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// GetUserByID serves the authenticated "me" endpoint.
func (s *Service) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// tokenLink builds the emailed link: <base>?token=<tok>&email=<email>.
// Token and email travel together so the confirmation step can re-bind the
// token to the account it was issued for.
func tokenLink(base, token, email string) string {
	v := url.Values{}
	v.Set("token", token)
	v.Set("email", email)
	return base + "?" + v.Encode()
}

// newOpaqueToken returns a URL-safe opaque token.
func newOpaqueToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// notFound hides the real cause of a token-flow failure behind the generic
// not-found state the caller renders.
func notFound(err error) error {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind == domain.KindInfrastructure {
		return err
	}
	return domain.ErrNotFound()
}
