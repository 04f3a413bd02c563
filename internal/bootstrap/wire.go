package bootstrap

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/iusta/account-service/internal/application/account"
	"github.com/iusta/account-service/internal/config"
	"github.com/iusta/account-service/internal/infrastructure/db/postgres"
	"github.com/iusta/account-service/internal/infrastructure/email"
	"github.com/iusta/account-service/internal/infrastructure/memory"
	rabbitpub "github.com/iusta/account-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/iusta/account-service/internal/infrastructure/redis"
	"github.com/iusta/account-service/internal/infrastructure/security"
	"github.com/iusta/account-service/internal/logger"
	"github.com/iusta/account-service/internal/transport/http/handlers"
	mw "github.com/iusta/account-service/internal/transport/http/middleware"
	"github.com/iusta/account-service/internal/transport/http/router"
)

// App holds the wired service and the resources that need closing.
type App struct {
	Config *config.Config
	Server *http.Server
	DB     *sql.DB

	redis     *redis.Client
	publisher *rabbitpub.Publisher
}

// NewApp wires configuration into a runnable HTTP server. Redis, SMTP and
// RabbitMQ fall back to in-process substitutes in dev when unconfigured;
// config.Load has already rejected those gaps outside dev.
func NewApp(cfg *config.Config) (*App, error) {
	lg := logger.Logger

	db, err := config.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: db}

	repo := postgres.NewUserRepo(db)
	hasher := security.NewBcryptHasher(0)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	var sessions account.SessionStore
	var ott account.OneTimeTokenStore
	if cfg.RedisAddr != "" {
		rc := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rc.Ping(context.Background()); err != nil {
			_ = db.Close()
			return nil, err
		}
		app.redis = rc
		sessions = redis.NewSessionStore(rc)
		ott = redis.NewOneTimeTokenStore(rc)
		lg.Info().Str("addr", cfg.RedisAddr).Msg("redis stores ready")
	} else {
		sessions = memory.NewSessionStore()
		ott = memory.NewOneTimeTokenStore()
		lg.Warn().Msg("REDIS_ADDR empty: sessions and tokens are in-memory")
	}

	var mail account.MailSender
	if cfg.SMTPHost != "" {
		mail = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			Insecure: !cfg.SMTPTLS,
		}, lg)
	} else {
		mail = memory.NewLogMailer(lg)
		lg.Warn().Msg("SMTP_HOST empty: mails are logged, not delivered")
	}

	var pub account.EventPublisher = memory.NewNoopPublisher()
	if cfg.RabbitURL != "" {
		p, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			app.closeResources()
			return nil, err
		}
		app.publisher = p
		pub = p
		lg.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
	} else {
		lg.Warn().Msg("RABBIT_URL empty: account events will not be published")
	}

	svc := account.NewService(repo, hasher, signer, sessions, ott, mail, pub, account.Config{
		AccessTTL:             cfg.AccessTokenTTL,
		SessionTTL:            cfg.SessionTTL,
		RememberMeTTL:         cfg.RememberMeTTL,
		ConfirmEmailBaseURL:   cfg.ConfirmEmailURL,
		PasswordResetBaseURL:  cfg.ResetPasswordURL,
		ConfirmEmailTokenTTL:  cfg.ConfirmTokenTTL,
		PasswordResetTokenTTL: cfg.ResetTokenTTL,
	}).WithAudit(func(action string, fields map[string]string) {
		ev := lg.Info().Str("action", action)
		for k, v := range fields {
			ev = ev.Str(k, v)
		}
		ev.Msg("audit")
	})

	if cfg.SeedDev {
		postgres.SeedUsers(context.Background(), repo, hasher)
	}

	h := handlers.NewAccountHandler(svc, cfg.CookieSecure)
	z := handlers.NewHealthHandler(db)
	auth := mw.NewSessionAuth(sessions, svc)

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router.New(h, z, auth, cfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return app, nil
}

// Shutdown stops the HTTP server and releases backing resources.
func (a *App) Shutdown(ctx context.Context) error {
	var err error
	if a.Server != nil {
		err = a.Server.Shutdown(ctx)
	}
	a.closeResources()
	return err
}

func (a *App) closeResources() {
	if a.publisher != nil {
		_ = a.publisher.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
