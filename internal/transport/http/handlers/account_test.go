package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iusta/account-service/internal/application/account"
	"github.com/iusta/account-service/internal/config"
	"github.com/iusta/account-service/internal/infrastructure/memory"
	"github.com/iusta/account-service/internal/infrastructure/security"
	"github.com/iusta/account-service/internal/transport/http/handlers"
	mw "github.com/iusta/account-service/internal/transport/http/middleware"
	"github.com/iusta/account-service/internal/transport/http/router"
)

/*
HTTP Handler Test Cases:

1. TestHTTP_Register_Created
2. TestHTTP_Register_ValidationError
3. TestHTTP_Register_Duplicate
4. TestHTTP_ConfirmEmail_ThenLogin
5. TestHTTP_Login_SetsSessionCookie
6. TestHTTP_Login_Unconfirmed
7. TestHTTP_Login_BadJSON
8. TestHTTP_Logout_RequiresSession
9. TestHTTP_Logout_ClearsCookie
10. TestHTTP_Me
11. TestHTTP_ForgotAndResetPassword
12. TestHTTP_ResetPassword_WeakPasswordReadsAsNotFound
13. TestHTTP_ResetPassword_ConfirmMismatchReadsAsNotFound
14. TestHTTP_ResetPasswordForm
15. TestHTTP_Healthz
*/

type httpEnv struct {
	srv    *httptest.Server
	mailer *memory.LogMailer
}

func newHTTPEnv(t *testing.T) *httpEnv {
	t.Helper()

	users := memory.NewUserRepo()
	sessions := memory.NewSessionStore()
	ott := memory.NewOneTimeTokenStore()
	mailer := memory.NewLogMailer(zerolog.Nop())

	svc := account.NewService(
		users,
		security.NewBcryptHasher(4),
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

	h := handlers.NewAccountHandler(svc, false)
	z := handlers.NewHealthHandler(nil)
	auth := mw.NewSessionAuth(sessions, svc)

	cfg := &config.Config{} // rate limiting off
	srv := httptest.NewServer(router.New(h, z, auth, cfg))
	t.Cleanup(srv.Close)

	return &httpEnv{srv: srv, mailer: mailer}
}

func (e *httpEnv) postJSON(t *testing.T, path, body string) *http.Response {
	t.Helper()
	res, err := http.Post(e.srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return res
}

func (e *httpEnv) lastMailedLink(t *testing.T) *url.URL {
	t.Helper()
	sent := e.mailer.Sent()
	require.NotEmpty(t, sent)
	u, err := url.Parse(sent[len(sent)-1].Body)
	require.NoError(t, err)
	return u
}

func (e *httpEnv) register(t *testing.T, email string) {
	t.Helper()
	res := e.postJSON(t, "/account/v1/register",
		`{"username":"alice","email":"`+email+`","password":"P@ssw0rd1","role":"worker","city":"NYC"}`)
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)
}

func (e *httpEnv) confirm(t *testing.T, email string) {
	t.Helper()
	link := e.lastMailedLink(t)
	res, err := http.Get(e.srv.URL + "/account/v1/confirm-email?token=" +
		url.QueryEscape(link.Query().Get("token")) + "&email=" + url.QueryEscape(email))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func (e *httpEnv) login(t *testing.T, email, password string) *http.Response {
	t.Helper()
	return e.postJSON(t, "/account/v1/login",
		`{"email":"`+email+`","password":"`+password+`"}`)
}

func sessionCookie(res *http.Response) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == security.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestHTTP_Register_Created(t *testing.T) {
	env := newHTTPEnv(t)

	res := env.postJSON(t, "/account/v1/register",
		`{"username":"alice","email":"a@x.com","password":"P@ssw0rd1","role":"worker","city":"NYC"}`)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode)

	var body struct {
		Data struct {
			Subject string `json:"subject"`
			Detail  string `json:"detail"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "Successfully registered", body.Data.Subject)
	assert.Contains(t, body.Data.Detail, "a@x.com")
}

func TestHTTP_Register_ValidationError(t *testing.T) {
	env := newHTTPEnv(t)

	res := env.postJSON(t, "/account/v1/register",
		`{"username":"alice","email":"not-an-email","password":"P@ssw0rd1","role":"worker"}`)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestHTTP_Register_Duplicate(t *testing.T) {
	env := newHTTPEnv(t)
	env.register(t, "a@x.com")

	res := env.postJSON(t, "/account/v1/register",
		`{"username":"alice2","email":"a@x.com","password":"P@ssw0rd1","role":"worker"}`)
	defer res.Body.Close()

	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestHTTP_ConfirmEmail_ThenLogin(t *testing.T) {
	env := newHTTPEnv(t)
	env.register(t, "a@x.com")
	env.confirm(t, "a@x.com")

	res := env.login(t, "a@x.com", "P@ssw0rd1")
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Data struct {
			RedirectTo  string `json:"redirect_to"`
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "/worker", body.Data.RedirectTo)
	assert.Equal(t, "Bearer", body.Data.TokenType)
	assert.NotEmpty(t, body.Data.AccessToken)
}

func TestHTTP_Login_SetsSessionCookie(t *testing.T) {
	env := newHTTPEnv(t)
	env.register(t, "a@x.com")
	env.confirm(t, "a@x.com")

	res := env.login(t, "a@x.com", "P@ssw0rd1")
	defer res.Body.Close()

	c := sessionCookie(res)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)
}

func TestHTTP_Login_Unconfirmed(t *testing.T) {
	env := newHTTPEnv(t)
	env.register(t, "a@x.com")

	res := env.login(t, "a@x.com", "P@ssw0rd1")
	defer res.Body.Close()

	require.Equal(t, http.StatusUnauthorized, res.StatusCode)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "email_not_confirmed", body.Error.Code)
}

func TestHTTP_Login_BadJSON(t *testing.T) {
	env := newHTTPEnv(t)

	res := env.postJSON(t, "/account/v1/login", `{broken`)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestHTTP_Logout_RequiresSession(t *testing.T) {
	env := newHTTPEnv(t)

	res, err := http.Get(env.srv.URL + "/account/v1/logout")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestHTTP_Logout_ClearsCookie(t *testing.T) {
	env := newHTTPEnv(t)
	env.register(t, "a@x.com")
	env.confirm(t, "a@x.com")

	login := env.login(t, "a@x.com", "P@ssw0rd1")
	login.Body.Close()
	c := sessionCookie(login)
	require.NotNil(t, c)

	req, _ := http.NewRequest(http.MethodGet, env.srv.URL+"/account/v1/logout", nil)
	req.AddCookie(c)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	cleared := sessionCookie(res)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)

	// The revoked session no longer authenticates.
	req, _ = http.NewRequest(http.MethodGet, env.srv.URL+"/account/v1/me", nil)
	req.AddCookie(c)
	res2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res2.StatusCode)
}

func TestHTTP_Me(t *testing.T) {
	env := newHTTPEnv(t)
	env.register(t, "a@x.com")
	env.confirm(t, "a@x.com")

	login := env.login(t, "a@x.com", "P@ssw0rd1")
	login.Body.Close()
	c := sessionCookie(login)
	require.NotNil(t, c)

	req, _ := http.NewRequest(http.MethodGet, env.srv.URL+"/account/v1/me", nil)
	req.AddCookie(c)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Data struct {
			Username       string `json:"username"`
			Email          string `json:"email"`
			Role           string `json:"role"`
			EmailConfirmed bool   `json:"email_confirmed"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "alice", body.Data.Username)
	assert.Equal(t, "a@x.com", body.Data.Email)
	assert.True(t, body.Data.EmailConfirmed)
}

func TestHTTP_ForgotAndResetPassword(t *testing.T) {
	env := newHTTPEnv(t)
	env.register(t, "a@x.com")
	env.confirm(t, "a@x.com")

	res, err := http.Get(env.srv.URL + "/account/v1/forgot-password?email=a@x.com")
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	token := env.lastMailedLink(t).Query().Get("token")
	require.NotEmpty(t, token)

	res = env.postJSON(t, "/account/v1/reset-password",
		`{"token":"`+token+`","email":"a@x.com","password":"NewP@ss1","confirm_password":"NewP@ss1"}`)
	res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	// Old password rejected, new password accepted.
	old := env.login(t, "a@x.com", "P@ssw0rd1")
	old.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, old.StatusCode)

	fresh := env.login(t, "a@x.com", "NewP@ss1")
	fresh.Body.Close()
	assert.Equal(t, http.StatusOK, fresh.StatusCode)
}

func TestHTTP_ResetPassword_WeakPasswordReadsAsNotFound(t *testing.T) {
	env := newHTTPEnv(t)
	env.register(t, "a@x.com")

	res, err := http.Get(env.srv.URL + "/account/v1/forgot-password?email=a@x.com")
	require.NoError(t, err)
	res.Body.Close()

	token := env.lastMailedLink(t).Query().Get("token")
	require.NotEmpty(t, token)

	res = env.postJSON(t, "/account/v1/reset-password",
		`{"token":"`+token+`","email":"a@x.com","password":"weakweak","confirm_password":"weakweak"}`)
	defer res.Body.Close()

	require.Equal(t, http.StatusNotFound, res.StatusCode)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, "not_found", body.Error.Code)

	// The rejected password still consumed the token.
	res2 := env.postJSON(t, "/account/v1/reset-password",
		`{"token":"`+token+`","email":"a@x.com","password":"StrongP@ss1","confirm_password":"StrongP@ss1"}`)
	res2.Body.Close()
	assert.Equal(t, http.StatusNotFound, res2.StatusCode)
}

func TestHTTP_ResetPassword_ConfirmMismatchReadsAsNotFound(t *testing.T) {
	env := newHTTPEnv(t)

	res := env.postJSON(t, "/account/v1/reset-password",
		`{"token":"tok","email":"a@x.com","password":"NewP@ss1","confirm_password":"Different1"}`)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestHTTP_ResetPasswordForm(t *testing.T) {
	env := newHTTPEnv(t)
	env.register(t, "a@x.com")

	res, err := http.Get(env.srv.URL + "/account/v1/forgot-password?email=a@x.com")
	require.NoError(t, err)
	res.Body.Close()

	token := env.lastMailedLink(t).Query().Get("token")

	res, err = http.Get(env.srv.URL + "/account/v1/reset-password?token=" +
		url.QueryEscape(token) + "&email=a@x.com")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Data struct {
			Token string `json:"token"`
			Email string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, token, body.Data.Token)
	assert.Equal(t, "a@x.com", body.Data.Email)

	// Unknown token renders not-found.
	res2, err := http.Get(env.srv.URL + "/account/v1/reset-password?token=forged&email=a@x.com")
	require.NoError(t, err)
	defer res2.Body.Close()
	assert.Equal(t, http.StatusNotFound, res2.StatusCode)
}

func TestHTTP_Healthz(t *testing.T) {
	env := newHTTPEnv(t)

	res, err := http.Get(env.srv.URL + "/healthz")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
}
