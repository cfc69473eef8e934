// Command membergate runs the members-site authorization gateway.
//
// Configuration comes from the environment (a .env file is honored when
// present):
//
//	LISTEN_ADDR       address to serve on (default :8080)
//	REDIS_ADDR        Redis address (default localhost:6379)
//	REDIS_PASSWORD    Redis password (default empty)
//	EMBEDDED_REDIS    run an in-process miniredis instead (default false)
//	SESSION_TTL       session lifetime (default 168h)
//	RATE_MAX_ATTEMPTS login attempts per window (default 10)
//	RATE_COOLDOWN     attempt window (default 15m)
//	SECURE_COOKIES    set the Secure cookie attribute (default true)
//	AUDIT_LOG         file for JSON audit lines, empty for none
//
// EMBEDDED_REDIS exists for local development and demos only; it keeps
// all state in process memory.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	membergate "github.com/batdigest/membergate"
	"github.com/batdigest/membergate/httpapi"
	"github.com/batdigest/membergate/metrics/export/prometheus"
)

type config struct {
	ListenAddr      string        `env:"LISTEN_ADDR" envDefault:":8080"`
	RedisAddr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	EmbeddedRedis   bool          `env:"EMBEDDED_REDIS" envDefault:"false"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	RateMaxAttempts int           `env:"RATE_MAX_ATTEMPTS" envDefault:"10"`
	RateCooldown    time.Duration `env:"RATE_COOLDOWN" envDefault:"15m"`
	SecureCookies   bool          `env:"SECURE_COOKIES" envDefault:"true"`
	AuditLog        string        `env:"AUDIT_LOG"`
}

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logger.Fatal("config parse failed", zap.Error(err))
	}

	if err := run(logger, cfg); err != nil {
		logger.Fatal("gateway exited", zap.Error(err))
	}
}

func run(logger *zap.Logger, cfg config) error {
	redisAddr := cfg.RedisAddr
	if cfg.EmbeddedRedis {
		mr, err := miniredis.Run()
		if err != nil {
			return err
		}
		defer mr.Close()
		redisAddr = mr.Addr()
		logger.Warn("running with embedded redis, state is in-memory only",
			zap.String("addr", redisAddr))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: cfg.RedisPassword,
	})
	defer func() { _ = rdb.Close() }()

	engineCfg := membergate.DefaultConfig()
	engineCfg.Session.TTL = cfg.SessionTTL
	engineCfg.RateLimit.MaxAttempts = cfg.RateMaxAttempts
	engineCfg.RateLimit.Cooldown = cfg.RateCooldown

	builder := membergate.New().WithConfig(engineCfg).WithRedis(rdb)

	if cfg.AuditLog != "" {
		f, err := os.OpenFile(cfg.AuditLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		builder = builder.WithAuditSink(membergate.NewJSONWriterSink(f))
	}

	engine, err := builder.Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	server := httpapi.NewServer(engine, httpapi.Options{
		Logger:         logger,
		SessionTTL:     cfg.SessionTTL,
		SecureCookies:  cfg.SecureCookies,
		MetricsHandler: prometheus.NewPrometheusExporter(engine).Handler(),
	})

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", zap.String("addr", cfg.ListenAddr))
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
