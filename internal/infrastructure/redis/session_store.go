package redis

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/iusta/account-service/internal/application/account"
	"github.com/iusta/account-service/internal/domain"
)

// SessionStore implements account.SessionStore on Redis:
// - sess:<id> -> userID with TTL
// - usess:<userID> -> set of session ids (for RevokeAll)
// The per-user set can hold ids whose sess: key already expired; membership
// is never trusted on its own, only the sess: key is.
type SessionStore struct {
	rdb *goredis.Client

	sessPrefix string
	userPrefix string

	tokenBytes int // entropy bytes for the opaque session id
}

func NewSessionStore(c *Client) *SessionStore {
	var rdb *goredis.Client
	if c != nil {
		rdb = c.rdb
	}
	return &SessionStore{
		rdb:        rdb,
		sessPrefix: "sess:",
		userPrefix: "usess:",
		tokenBytes: 32, // 256-bit
	}
}

func (s *SessionStore) Create(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", domain.ErrMissingField("user_id")
	}
	if s.rdb == nil {
		return "", errors.New("redis session store not configured")
	}
	if ttl <= 0 {
		return "", domain.ErrMissingField("ttl")
	}

	sid, err := s.newSessionID()
	if err != nil {
		return "", domain.ErrRandomFailed(err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.sessPrefix+sid, userID, ttl)
	pipe.SAdd(ctx, s.userPrefix+userID, sid)
	// The set must outlive the longest live session, so the TTL only ever
	// extends. NX covers a freshly created set, GT an existing one.
	pipe.ExpireNX(ctx, s.userPrefix+userID, ttl)
	pipe.ExpireGT(ctx, s.userPrefix+userID, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}

	return sid, nil
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (account.Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return account.Session{}, domain.ErrSessionInvalid()
	}
	if s.rdb == nil {
		return account.Session{}, errors.New("redis session store not configured")
	}

	uid, err := s.rdb.Get(ctx, s.sessPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return account.Session{}, domain.ErrSessionInvalid()
		}
		return account.Session{}, err
	}
	return account.Session{ID: sessionID, UserID: uid}, nil
}

func (s *SessionStore) Revoke(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	if s.rdb == nil {
		return errors.New("redis session store not configured")
	}

	uid, err := s.rdb.Get(ctx, s.sessPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil // already gone; Logout stays idempotent
		}
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, s.sessPrefix+sessionID)
	pipe.SRem(ctx, s.userPrefix+uid, sessionID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *SessionStore) RevokeAll(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrMissingField("user_id")
	}
	if s.rdb == nil {
		return errors.New("redis session store not configured")
	}

	ids, err := s.rdb.SMembers(ctx, s.userPrefix+userID).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		return err
	}

	pipe := s.rdb.TxPipeline()
	for _, sid := range ids {
		pipe.Del(ctx, s.sessPrefix+sid)
	}
	pipe.Del(ctx, s.userPrefix+userID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *SessionStore) newSessionID() (string, error) {
	b := make([]byte, s.tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
