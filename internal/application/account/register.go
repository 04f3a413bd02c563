package account

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/iusta/account-service/internal/domain"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
	City     string
}

type RegisterResult struct {
	User domain.User
}

// Register creates the account, assigns the requested role and sends the
// confirmation link. The existence pre-check is best-effort only; the store's
// uniqueness constraint is authoritative, so a concurrent duplicate still
// surfaces as the same conflict error.
func (s *Service) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Username = strings.TrimSpace(in.Username)

	if in.Username == "" {
		return RegisterResult{}, domain.ErrMissingField("username")
	}
	if in.Email == "" {
		return RegisterResult{}, domain.ErrMissingField("email")
	}
	if in.Password == "" {
		return RegisterResult{}, domain.ErrMissingField("password")
	}
	if !domain.IsValidRole(in.Role) {
		return RegisterResult{}, domain.ErrInvalidRole(in.Role)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return RegisterResult{}, domain.ErrEmailAlreadyRegistered()
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return RegisterResult{}, domain.ErrHashFailed(err)
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		City:         in.City,
		PhotoURL:     domain.DefaultProfilePhotoURL,
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		return RegisterResult{}, err
	}

	if err := s.users.SetRole(ctx, created.ID, in.Role); err != nil {
		return RegisterResult{}, err
	}
	created.Role = in.Role

	token, err := newOpaqueToken(32)
	if err != nil {
		return RegisterResult{}, domain.ErrRandomFailed(err)
	}
	if err := s.ott.Save(ctx, PurposeConfirmEmail, token, created.ID, s.confirmTTL); err != nil {
		return RegisterResult{}, err
	}

	link := tokenLink(s.confirmURL, token, created.Email)
	if err := s.mail.Send(ctx, []string{created.Email}, "Confirm Email", link); err != nil {
		return RegisterResult{}, domain.ErrMailUnavailable(err)
	}

	s.audit("account.registered", map[string]string{
		"user_id": created.ID,
		"email":   created.Email,
		"role":    created.Role,
	})
	_ = s.pub.PublishRegistered(ctx, RegisteredEvent{
		UserID: created.ID,
		Email:  created.Email,
		Role:   created.Role,
	})

	return RegisterResult{User: created}, nil
}
