package account_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iusta/account-service/internal/application/account"
	"github.com/iusta/account-service/internal/infrastructure/memory"
	"github.com/iusta/account-service/internal/infrastructure/security"
)

// testEnv wires the service against in-memory collaborators so flows can be
// exercised end to end without external processes.
type testEnv struct {
	svc      *account.Service
	users    *memory.UserRepo
	sessions *memory.SessionStore
	ott      *memory.OneTimeTokenStore
	mailer   *memory.LogMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserRepo()
	sessions := memory.NewSessionStore()
	ott := memory.NewOneTimeTokenStore()
	mailer := memory.NewLogMailer(zerolog.Nop())

	svc := account.NewService(
		users,
		security.NewBcryptHasher(4), // min cost, keeps tests fast
		security.NewJWTSigner("test-secret", "account-service-test"),
		sessions,
		ott,
		mailer,
		memory.NewNoopPublisher(),
		account.Config{
			AccessTTL:            15 * time.Minute,
			ConfirmEmailBaseURL:  "http://localhost/account/v1/confirm-email",
			PasswordResetBaseURL: "http://localhost/account/v1/reset-password",
		},
	)

	return &testEnv{svc: svc, users: users, sessions: sessions, ott: ott, mailer: mailer}
}

// lastMailedToken pulls the token out of the most recent mailed link.
func (e *testEnv) lastMailedToken(t *testing.T) string {
	t.Helper()

	sent := e.mailer.Sent()
	require.NotEmpty(t, sent, "expected a mail to have been sent")

	link, err := url.Parse(sent[len(sent)-1].Body)
	require.NoError(t, err)

	token := link.Query().Get("token")
	require.NotEmpty(t, token, "mailed link carries no token")
	return token
}
