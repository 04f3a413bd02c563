package memory

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/iusta/account-service/internal/application/account"
	"github.com/iusta/account-service/internal/domain"
)

type sessionEntry struct {
	userID    string
	expiresAt time.Time
}

type SessionStore struct {
	mu sync.RWMutex
	// sessionID -> entry
	sessions map[string]sessionEntry
	// userID -> set(sessionID)
	userSessions map[string]map[string]struct{}
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:     make(map[string]sessionEntry),
		userSessions: make(map[string]map[string]struct{}),
	}
}

func (s *SessionStore) Create(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", domain.ErrMissingField("user_id")
	}

	sid, err := newOpaqueID(32)
	if err != nil {
		return "", domain.ErrRandomFailed(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sid] = sessionEntry{
		userID:    userID,
		expiresAt: time.Now().Add(ttl),
	}
	if s.userSessions[userID] == nil {
		s.userSessions[userID] = make(map[string]struct{})
	}
	s.userSessions[userID][sid] = struct{}{}

	return sid, nil
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (account.Session, error) {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return account.Session{}, domain.ErrSessionInvalid()
	}
	if time.Now().After(e.expiresAt) {
		_ = s.Revoke(ctx, sessionID)
		return account.Session{}, domain.ErrSessionInvalid()
	}
	return account.Session{ID: sessionID, UserID: e.userID}, nil
}

func (s *SessionStore) Revoke(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	delete(s.sessions, sessionID)
	if set := s.userSessions[e.userID]; set != nil {
		delete(set, sessionID)
		if len(set) == 0 {
			delete(s.userSessions, e.userID)
		}
	}
	return nil
}

func (s *SessionStore) RevokeAll(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sid := range s.userSessions[userID] {
		delete(s.sessions, sid)
	}
	delete(s.userSessions, userID)
	return nil
}

func newOpaqueID(bytesLen int) (string, error) {
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
