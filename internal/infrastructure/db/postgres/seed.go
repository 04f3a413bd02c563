package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/iusta/account-service/internal/domain"
	"github.com/iusta/account-service/internal/logger"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
}

// SeedUsers creates one pre-confirmed account per role for local development.
func SeedUsers(ctx context.Context, repo SeederRepo, hasher SeederHasher) {
	type seedUser struct {
		Username string
		Email    string
		Role     string
		City     string
		Pass     string
	}

	seeds := []seedUser{
		{Username: "acme", Email: "employer@example.com", Role: string(domain.RoleEmployer), City: "Istanbul", Pass: "EmployerPassword123!"},
		{Username: "worker", Email: "worker@example.com", Role: string(domain.RoleWorker), City: "Ankara", Pass: "WorkerPassword123!"},
	}

	for _, s := range seeds {
		hash, err := hasher.Hash(s.Pass)
		if err != nil {
			logger.Logger.Warn().Err(err).Str("email", s.Email).Msg("seed hash failed")
			continue
		}

		u := domain.User{
			ID:             uuid.NewString(),
			Username:       s.Username,
			Email:          s.Email,
			PasswordHash:   hash,
			Role:           s.Role,
			City:           s.City,
			PhotoURL:       domain.DefaultProfilePhotoURL,
			EmailConfirmed: true,
		}

		_, err = repo.Create(ctx, u)
		if err != nil {
			// ignore duplicates (restart safe)
			continue
		}
	}

	logger.Logger.Info().Msg("dev users seeded")
}
