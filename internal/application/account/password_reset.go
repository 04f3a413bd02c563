package account

import (
	"context"
	"strings"
	"unicode"

	"github.com/iusta/account-service/internal/domain"
)

// ResetForm is the pre-filled view state for the reset-password form.
type ResetForm struct {
	Token string
	Email string
}

// ForgotPassword issues a reset token and mails the reset link. A blank or
// unknown email renders the same not-found state; the two causes are
// deliberately conflated.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return domain.ErrNotFound()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return notFound(err)
	}

	token, err := newOpaqueToken(32)
	if err != nil {
		return domain.ErrRandomFailed(err)
	}
	if err := s.ott.Save(ctx, PurposePasswordReset, token, u.ID, s.resetTTL); err != nil {
		return err
	}

	link := tokenLink(s.resetURL, token, u.Email)
	if err := s.mail.Send(ctx, []string{u.Email}, "Reset Password", link); err != nil {
		return domain.ErrMailUnavailable(err)
	}

	s.audit("account.password_reset_requested", map[string]string{"user_id": u.ID})
	return nil
}

// ResetPasswordForm validates the token for the display step WITHOUT
// consuming it, so the form can be shown and submitted later.
func (s *Service) ResetPasswordForm(ctx context.Context, token, email string) (ResetForm, error) {
	token = strings.TrimSpace(token)
	email = strings.TrimSpace(strings.ToLower(email))
	if token == "" || email == "" {
		return ResetForm{}, domain.ErrNotFound()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return ResetForm{}, notFound(err)
	}

	userID, err := s.ott.Peek(ctx, PurposePasswordReset, token)
	if err != nil {
		return ResetForm{}, notFound(err)
	}
	if userID != u.ID {
		return ResetForm{}, domain.ErrNotFound()
	}

	return ResetForm{Token: token, Email: u.Email}, nil
}

// ResetPassword consumes the token and sets the new credential. Any failure
// (invalid/expired/consumed token, binding mismatch, policy rejection) renders
// the same not-found state. The consume both validates and burns the token, so
// a policy rejection afterwards still leaves the token spent.
func (s *Service) ResetPassword(ctx context.Context, token, email, newPassword string) error {
	token = strings.TrimSpace(token)
	email = strings.TrimSpace(strings.ToLower(email))
	if token == "" || email == "" || newPassword == "" {
		return domain.ErrNotFound()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return notFound(err)
	}

	userID, err := s.ott.Consume(ctx, PurposePasswordReset, token)
	if err != nil {
		return notFound(err)
	}
	if userID != u.ID {
		return domain.ErrNotFound()
	}

	// The policy check comes after the consume: a rejected password still
	// burns the token.
	if !passwordMeetsPolicy(newPassword) {
		return domain.ErrNotFound()
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return notFound(domain.ErrHashFailed(err))
	}
	if err := s.users.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return err
	}

	// Existing sessions die with the old credential.
	_ = s.sessions.RevokeAll(ctx, u.ID)

	s.audit("account.password_reset", map[string]string{"user_id": u.ID})
	_ = s.pub.PublishPasswordReset(ctx, PasswordResetEvent{UserID: u.ID, Email: u.Email})
	return nil
}

// passwordMeetsPolicy mirrors the registration rules: 6 to 128 characters
// with at least one uppercase letter, one lowercase letter and one digit.
func passwordMeetsPolicy(p string) bool {
	if len(p) < 6 || len(p) > 128 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range p {
		if unicode.IsUpper(r) {
			upper = true
		}
		if unicode.IsLower(r) {
			lower = true
		}
		if unicode.IsNumber(r) {
			digit = true
		}
	}
	return upper && lower && digit
}
