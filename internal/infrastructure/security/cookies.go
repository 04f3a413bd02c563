package security

import (
	"net/http"
	"time"
)

const SessionCookieName = "session"

// SetSessionCookie stores the session id in an HttpOnly cookie. A persistent
// cookie (MaxAge set) is used only when the user asked to be remembered;
// otherwise the cookie dies with the browser session.
func SetSessionCookie(w http.ResponseWriter, sessionID string, ttl time.Duration, remember, secure bool) {
	name := SessionCookieName
	if secure {
		name = "__Host-" + SessionCookieName
	}
	c := &http.Cookie{
		Name:     name,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure, // prod=true, dev=false
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		c.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, c)
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	name := SessionCookieName
	if secure {
		name = "__Host-" + SessionCookieName
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func ReadSessionCookie(r *http.Request) (string, error) {
	if c, err := r.Cookie("__Host-" + SessionCookieName); err == nil {
		return c.Value, nil
	}
	// Fallback for local non-HTTPS development.
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}
