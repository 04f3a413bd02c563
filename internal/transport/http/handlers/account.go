package handlers

import (
	"net/http"

	"github.com/iusta/account-service/internal/application/account"
	"github.com/iusta/account-service/internal/domain"
	"github.com/iusta/account-service/internal/infrastructure/security"
	"github.com/iusta/account-service/internal/logger"
	"github.com/iusta/account-service/internal/transport/http/dto"
	"github.com/iusta/account-service/internal/transport/http/middleware"
	"github.com/iusta/account-service/internal/transport/http/response"
)

// AccountHandler exposes the account lifecycle over HTTP.
type AccountHandler struct {
	svc          *account.Service
	cookieSecure bool
}

func NewAccountHandler(svc *account.Service, cookieSecure bool) *AccountHandler {
	return &AccountHandler{svc: svc, cookieSecure: cookieSecure}
}

// Register handles POST /account/v1/register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Register(r.Context(), account.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		City:     req.City,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Created(w, dto.SuccessView{
		Subject: "Successfully registered",
		Detail:  "We sent a mail confirmation link to " + res.User.Email,
	})
}

// ConfirmEmail handles GET /account/v1/confirm-email?token=...&email=...
// following the link from the confirmation mail.
func (h *AccountHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	email := r.URL.Query().Get("email")

	if err := h.svc.ConfirmEmail(r.Context(), token, email); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.SuccessView{
		Subject: "Mail confirmed",
		Detail:  "login is enabled",
	})
}

// Login handles POST /account/v1/login. A successful login sets the session
// cookie and returns a bearer token plus the role-specific landing path.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := dto.Validate(req); err != nil {
		// Malformed login input reads the same as a failed login.
		response.WriteError(w, r, domain.ErrInvalidCredentials())
		return
	}

	res, err := h.svc.Login(r.Context(), account.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	security.SetSessionCookie(w, res.SessionID, res.SessionTTL, req.RememberMe, h.cookieSecure)

	response.OK(w, dto.LoginData{
		User:        dto.NewUserView(res.User),
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   res.ExpiresIn,
		RedirectTo:  res.RedirectTo,
	})
}

// Logout handles GET /account/v1/logout. Requires an authenticated session;
// revokes it and clears the cookie.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sid, err := security.ReadSessionCookie(r)
	if err == nil && sid != "" {
		if err := h.svc.Logout(r.Context(), sid); err != nil {
			logger.WithCtx(r.Context()).Warn().Err(err).Msg("session revoke failed")
		}
	}

	security.ClearSessionCookie(w, h.cookieSecure)

	response.OK(w, map[string]string{"redirect_to": "/login"})
}

// ForgotPassword handles GET /account/v1/forgot-password?email=...
func (h *AccountHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	if err := h.svc.ForgotPassword(r.Context(), email); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.SuccessView{
		Subject: "Check your email",
		Detail:  "We sent a password reset link to " + email,
	})
}

// ResetPasswordForm handles GET /account/v1/reset-password?token=...&email=...
// It validates the link without consuming the token so the form can be shown.
func (h *AccountHandler) ResetPasswordForm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	email := r.URL.Query().Get("email")

	form, err := h.svc.ResetPasswordForm(r.Context(), token, email)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.ResetFormView{Token: form.Token, Email: form.Email})
}

// ResetPassword handles POST /account/v1/reset-password. Every failure of
// the flow renders the same not-found state; the password policy itself is
// checked by the service after the token is consumed.
func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if req.Password != req.ConfirmPassword {
		response.WriteError(w, r, domain.ErrNotFound())
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Token, req.Email, req.Password); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.SuccessView{
		Subject: "Password reset",
		Detail:  "login is enabled",
	})
}

// Me handles GET /account/v1/me for the authenticated account.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r)
	if uid == "" {
		response.WriteError(w, r, domain.ErrSessionMissing())
		return
	}

	u, err := h.svc.GetUserByID(r.Context(), uid)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.NewUserView(u))
}
