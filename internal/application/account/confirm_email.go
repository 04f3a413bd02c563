package account

import (
	"context"
	"strings"

	"github.com/iusta/account-service/internal/domain"
)

// ConfirmEmail consumes the confirmation token and marks the account
// confirmed. The account is looked up by email first; an unknown email is a
// not-found state. Token failures (expired, invalid, already used, issued for
// a different account) all collapse into the same generic error so the caller
// cannot distinguish the cause.
func (s *Service) ConfirmEmail(ctx context.Context, token, email string) error {
	token = strings.TrimSpace(token)
	email = strings.TrimSpace(strings.ToLower(email))
	if token == "" || email == "" {
		return domain.ErrNotFound()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return notFound(err)
	}

	userID, err := s.ott.Consume(ctx, PurposeConfirmEmail, token)
	if err != nil {
		return notFound(err)
	}
	if userID != u.ID {
		// Token was issued for another account; it is burnt either way.
		return domain.ErrNotFound()
	}

	if err := s.users.SetEmailConfirmed(ctx, u.ID); err != nil {
		return err
	}

	s.audit("account.email_confirmed", map[string]string{"user_id": u.ID})
	_ = s.pub.PublishEmailConfirmed(ctx, EmailConfirmedEvent{UserID: u.ID, Email: u.Email})
	return nil
}
