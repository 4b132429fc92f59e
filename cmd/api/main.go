package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"newswire/internal/config"
	hhttp "newswire/internal/handler/http"
	hauth "newswire/internal/handler/http/auth"
	"newswire/internal/handler/http/middleware"
	hnews "newswire/internal/handler/http/news"
	"newswire/internal/handler/http/requestid"
	pgRepo "newswire/internal/infra/adapter/persistence/postgres"
	"newswire/internal/infra/db"
	"newswire/internal/infra/worker"
	"newswire/internal/observability/logging"
	"newswire/internal/observability/tracing"
	"newswire/internal/resilience/circuitbreaker"
	"newswire/internal/scheduler"
	authservice "newswire/internal/service/auth"
	newsUC "newswire/internal/usecase/news"
	"newswire/internal/usecase/notify"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	secret := validateJWTSecret(logger, cfg.Auth.JWT.SecretEnv)

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	// DBアクセスはサーキットブレーカー経由
	breaker := circuitbreaker.NewDBCircuitBreaker(database)
	newsRepo := pgRepo.NewNewsRepo(breaker)
	userRepo := pgRepo.NewUserRepo(breaker)

	bus := notify.NewBus(logger)
	sched := scheduler.New(logger)
	newsSvc := newsUC.NewService(newsRepo, bus, sched, logger)
	authSvc := authservice.NewAuthService(userRepo, secret,
		time.Duration(cfg.Auth.JWT.ExpiryHours)*time.Hour)

	stats := worker.NewStatsCollector(newsRepo, database, logger)
	if err := stats.Start(cfg.Stats.Schedule); err != nil {
		logger.Error("failed to start stats collector", slog.Any("error", err))
		os.Exit(1)
	}
	defer stats.Stop()

	handler := setupRoutes(cfg, secret, database, newsSvc, bus, authSvc, logger)
	handler = applyMiddleware(cfg, logger, handler)

	runServer(cfg, logger, handler)
}

// validateJWTSecret enforces minimum strength requirements on the token
// signing secret before the server starts.
func validateJWTSecret(logger *slog.Logger, envKey string) []byte {
	secret := os.Getenv(envKey)
	if secret == "" {
		logger.Error("token signing secret must be set", slog.String("env", envKey))
		os.Exit(1)
	}
	// セキュリティ: 最小32文字（256ビット）を強制
	if len(secret) < 32 {
		logger.Error("token signing secret must be at least 32 characters (256 bits)")
		os.Exit(1)
	}
	// セキュリティ: よくある弱い秘密鍵を拒否
	weakSecrets := []string{"secret", "password", "test", "admin", "default"}
	for _, weak := range weakSecrets {
		if secret == weak || secret == weak+"123" {
			logger.Error("token signing secret must not be a common weak value",
				slog.String("weak_value", weak))
			os.Exit(1)
		}
	}
	return []byte(secret)
}

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database, err := db.Open()
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupRoutes registers all HTTP routes (public and protected).
func setupRoutes(
	cfg *config.AppConfig,
	secret []byte,
	database *sql.DB,
	newsSvc *newsUC.Service,
	bus *notify.Bus,
	authSvc *authservice.AuthService,
	logger *slog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// レート制限: 認証エンドポイントのみ
	authLimiter := middleware.NewIPRateLimiter(cfg.Auth.RateLimit.RPS, cfg.Auth.RateLimit.Burst)
	mux.Handle("POST   /registration", authLimiter.Limit(hauth.RegistrationHandler(authSvc)))
	mux.Handle("POST   /login", authLimiter.Limit(hauth.LoginHandler(authSvc)))

	// ヘルスチェックエンドポイント（認証不要）
	mux.Handle("GET    /health", &hhttp.HealthHandler{DB: database, Version: getVersion()})
	mux.Handle("GET    /ready", hhttp.ReadinessHandler(database))
	mux.Handle("GET    /live", hhttp.LivenessHandler())
	mux.Handle("GET    /metrics", hhttp.MetricsHandler())

	hnews.Register(mux, newsSvc, bus, hauth.Authz(secret), logger)

	return mux
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: Request ID → Tracing → Recovery → Logging → Body Limit → Metrics.
func applyMiddleware(cfg *config.AppConfig, logger *slog.Logger, handler http.Handler) http.Handler {
	return hhttp.Chain(handler,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Recover(logger),
		hhttp.Logging(logger),
		hhttp.LimitRequestBody(cfg.Server.MaxBodyBytes),
		hhttp.MetricsMiddleware,
	)
}

// runServer starts the HTTP server and handles graceful shutdown on
// SIGINT/SIGTERM.
func runServer(cfg *config.AppConfig, logger *slog.Logger, handler http.Handler) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.Server.Addr),
			slog.String("version", getVersion()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
