package middleware

import (
	"context"
	"net/http"

	"github.com/iusta/account-service/internal/application/account"
	"github.com/iusta/account-service/internal/domain"
	"github.com/iusta/account-service/internal/infrastructure/security"
	"github.com/iusta/account-service/internal/transport/http/response"
)

type ctxKey string

const (
	ctxUserID ctxKey = "user_id"
	ctxRole   ctxKey = "role"
)

// UserLookup resolves the account behind a session. Satisfied by the
// application service.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
}

// SessionAuth is the authorization boundary for authenticated routes. It
// resolves the session cookie to an account and rejects the request when no
// valid session exists.
type SessionAuth struct {
	sessions account.SessionStore
	users    UserLookup
}

func NewSessionAuth(sessions account.SessionStore, users UserLookup) *SessionAuth {
	return &SessionAuth{sessions: sessions, users: users}
}

func (a *SessionAuth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, err := security.ReadSessionCookie(r)
		if err != nil || sid == "" {
			response.WriteError(w, r, domain.ErrSessionMissing())
			return
		}

		sess, err := a.sessions.Get(r.Context(), sid)
		if err != nil {
			response.WriteError(w, r, domain.ErrSessionInvalid())
			return
		}

		u, err := a.users.GetUserByID(r.Context(), sess.UserID)
		if err != nil {
			// The account vanished underneath the session; treat as unauthenticated.
			response.WriteError(w, r, domain.ErrSessionInvalid())
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserID, u.ID)
		ctx = context.WithValue(ctx, ctxRole, u.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserID(r *http.Request) string {
	if v, ok := r.Context().Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func Role(r *http.Request) string {
	if v, ok := r.Context().Value(ctxRole).(string); ok {
		return v
	}
	return ""
}
