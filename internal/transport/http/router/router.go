package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/iusta/account-service/internal/config"
	"github.com/iusta/account-service/internal/transport/http/handlers"
	mw "github.com/iusta/account-service/internal/transport/http/middleware"
)

func New(
	h *handlers.AccountHandler,
	z *handlers.HealthHandler,
	auth *mw.SessionAuth,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.SecurityHeaders)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.AccessLog)

	if cfg.RLEnabled {
		r.Use(httprate.LimitByIP(cfg.RLLimit, cfg.RLWindow))
	}

	r.Get("/healthz", z.Healthz)
	r.Get("/readyz", z.Readyz)

	r.Route("/account/v1", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Get("/confirm-email", h.ConfirmEmail)
		r.Post("/login", h.Login)
		r.Get("/forgot-password", h.ForgotPassword)
		r.Get("/reset-password", h.ResetPasswordForm)
		r.Post("/reset-password", h.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(auth.Require)
			r.Get("/logout", h.Logout)
			r.Get("/me", h.Me)
		})
	})

	return r
}
