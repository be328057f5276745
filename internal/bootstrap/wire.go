package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/auth"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/locker"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/terminal"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/user"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/config"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/infrastructure/db/postgres"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/infrastructure/memory"
	rabbitmq_pub "github.com/syedmuhammadazwar/EasyKey-Backend/internal/infrastructure/messaging/rabbitmq"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/infrastructure/oauth"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/infrastructure/redis"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/infrastructure/security"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/logger"
	http_handlers "github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/handlers"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/middleware"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/response"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing.
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string) (*sql.DB, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(rabbitURL string) (auth.EmailDispatcher, error)

	NewResolver func() auth.IdentityResolver

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db + migrations
	db, err := deps.NewDB(cfg.DBAddr)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	if err := postgres.RunMigrations(context.Background(), db); err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 2) repos
	userRepo := postgres.NewUserRepo(db)
	ledger := postgres.NewRefreshTokenRepo(db)
	terminalRepo := postgres.NewTerminalRepo(db)
	assignmentRepo := postgres.NewAssignmentRepo(db)
	lockerRepo := postgres.NewLockerRepo(db)
	keyRepo := postgres.NewKeyRepo(db)

	// startup sweep of long-dead ledger rows
	if n, err := ledger.PurgeExpired(context.Background(), time.Now()); err == nil && n > 0 {
		logger.Logger.Info().Int64("purged", n).Msg("expired refresh tokens removed")
	}

	// 3) redis (best-effort; rate limiting fails open without it)
	var redisCli RedisClient
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, "", 0)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; rate limiting disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 4) email dispatch
	var mail auth.EmailDispatcher
	if cfg.RabbitURL == "" {
		logger.Logger.Warn().Msg("rabbitmq not configured; email events logged only")
		mail = memory.NewLogDispatcher()
	} else {
		pub, err := deps.NewPublisher(cfg.RabbitURL)
		if err != nil {
			if cfg.Env == "dev" {
				logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; email events logged only")
				mail = memory.NewLogDispatcher()
			} else {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
		} else {
			mail = pub
			if c, ok := pub.(interface{ Close() error }); ok {
				cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			}
		}
	}

	// 5) security + external identity
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer)

	var resolver auth.IdentityResolver
	if deps.NewResolver != nil {
		resolver = deps.NewResolver()
	} else {
		resolver = oauth.NewGoogleClient()
	}

	// 6) services
	audit := func(action string, fields map[string]string) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("action", action)
		for k, v := range fields {
			evt = evt.Str(k, v)
		}
		evt.Msg("audit")
	}

	authSvc := auth.NewService(
		userRepo,
		hasher,
		signer,
		ledger,
		mail,
		resolver,
		auth.Config{
			AccessTTL:           cfg.AccessTokenTTL,
			RefreshTTL:          cfg.RefreshTokenTTL,
			VerificationCodeTTL: cfg.VerificationCodeTTL,
			StrictEmail:         cfg.EmailStrict,
		},
	).WithAudit(audit)

	terminalSvc := terminal.NewService(terminalRepo, assignmentRepo, userRepo).WithAudit(audit)
	lockerSvc := locker.NewService(lockerRepo, keyRepo, terminalRepo).WithAudit(audit)
	userSvc := user.NewService(userRepo).WithAudit(audit)

	// 7) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc)
	terminalH := http_handlers.NewTerminalHandler(terminalSvc)
	lockerH := http_handlers.NewLockerHandler(lockerSvc)
	userH := http_handlers.NewUserHandler(userSvc)
	healthH := http_handlers.NewHealthHandler(db)

	authMW := middleware.Auth(signer, response.WriteError)
	pupAdminMW := middleware.RequireAtLeast(string(domain.RolePupAdmin), response.WriteError)
	adminMW := middleware.RequireAtLeast(string(domain.RoleAdmin), response.WriteError)

	// rate limit (fail-open)
	var fwLimiter *redis.FixedWindowLimiter
	if c, ok := redisCli.(*redis.Client); ok {
		fwLimiter = redis.NewFixedWindowLimiter(c)
	}

	rl := func(key string, limit int, window time.Duration) func(http.Handler) http.Handler {
		if fwLimiter == nil {
			return nil
		}
		return middleware.RateLimitFixedWindow(
			fwLimiter,
			middleware.FixedWindowConfig{
				RouteKey: key,
				Limit:    limit,
				Window:   window,
			},
			response.WriteError,
		)
	}

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:   healthH,
		Auth:     authH,
		Terminal: terminalH,
		Locker:   lockerH,
		User:     userH,

		AuthMW:     authMW,
		PupAdminMW: pupAdminMW,
		AdminMW:    adminMW,

		SignInLimitMW: rl("auth.signin", 5, time.Minute),
		SignUpLimitMW: rl("auth.signup", 3, time.Minute),

		Global: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.Metrics,
		},
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB: func(addr string) (*sql.DB, error) {
			return config.NewDB(addr)
		},
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url string) (auth.EmailDispatcher, error) {
			return rabbitmq_pub.NewPublisher(url)
		},
		NewRouter: func(d router.Deps) (http.Handler, error) {
			return router.New(d)
		},
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
