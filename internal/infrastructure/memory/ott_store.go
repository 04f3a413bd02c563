package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iusta/account-service/internal/application/account"
	"github.com/iusta/account-service/internal/domain"
)

type ottEntry struct {
	userID    string
	expiresAt time.Time
}

type OneTimeTokenStore struct {
	mu sync.RWMutex
	// purpose|token -> entry
	data map[string]ottEntry
}

func NewOneTimeTokenStore() *OneTimeTokenStore {
	return &OneTimeTokenStore{data: make(map[string]ottEntry)}
}

func key(purpose account.TokenPurpose, token string) string { return string(purpose) + "|" + token }

func (s *OneTimeTokenStore) Save(ctx context.Context, purpose account.TokenPurpose, token string, userID string, ttl time.Duration) error {
	if token == "" {
		return domain.ErrMissingField("token")
	}
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}
	if ttl <= 0 {
		return domain.ErrMissingField("ttl")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key(purpose, token)] = ottEntry{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *OneTimeTokenStore) Consume(ctx context.Context, purpose account.TokenPurpose, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(purpose, token)
	e, ok := s.data[k]
	if !ok {
		return "", domain.ErrTokenInvalid()
	}
	delete(s.data, k)
	if time.Now().After(e.expiresAt) {
		return "", domain.ErrTokenExpired()
	}
	return e.userID, nil
}

func (s *OneTimeTokenStore) Peek(ctx context.Context, purpose account.TokenPurpose, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key(purpose, token)]
	if !ok {
		return "", domain.ErrTokenInvalid()
	}
	if time.Now().After(e.expiresAt) {
		return "", domain.ErrTokenExpired()
	}
	return e.userID, nil
}
