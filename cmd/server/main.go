package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/southville8b/student-portal/config"
	"github.com/southville8b/student-portal/internal/email"
	"github.com/southville8b/student-portal/internal/health"
	"github.com/southville8b/student-portal/internal/infrastructure/postgres"
	ctxlog "github.com/southville8b/student-portal/internal/log"
	"github.com/southville8b/student-portal/internal/metrics"
	"github.com/southville8b/student-portal/internal/otp"
	"github.com/southville8b/student-portal/internal/ratelimit"
	"github.com/southville8b/student-portal/internal/storage"
	"github.com/southville8b/student-portal/internal/sweeper"
	"github.com/southville8b/student-portal/internal/token"
	httptransport "github.com/southville8b/student-portal/internal/transport/http"
	"github.com/southville8b/student-portal/internal/transport/http/handler"
	"github.com/southville8b/student-portal/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	studentRepo := postgres.NewStudentRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool)
	enrollmentRepo := postgres.NewEnrollmentRepository(pool)

	otpStore, err := newOTPStore(cfg, logger)
	if err != nil {
		stop()
		log.Fatalf("otp store: %v", err)
	}
	limiter := ratelimit.New()

	mailer := email.NewSender(cfg.ResendAPIKey, cfg.ResendFrom, logger)
	issuer := token.NewIssuer([]byte(cfg.JWTSecret))

	uploader, err := newUploader(cfg, logger)
	if err != nil {
		stop()
		log.Fatalf("uploader: %v", err)
	}

	// Outside production a missing mailer means codes are echoed in the
	// API response so local logins still work end to end.
	echoOTP := cfg.Env != "production" && cfg.ResendAPIKey == ""

	authUsecase := usecase.NewAuthUsecase(studentRepo, otpStore, limiter, mailer, issuer, logger,
		cfg.AutoHashPasswords, echoOTP)
	studentUsecase := usecase.NewStudentUsecase(studentRepo, logger)
	documentUsecase := usecase.NewDocumentUsecase(documentRepo, enrollmentRepo, uploader, logger)

	authHandler := handler.NewAuthHandler(authUsecase, logger)
	studentHandler := handler.NewStudentHandler(studentUsecase, logger)
	documentHandler := handler.NewDocumentHandler(documentUsecase, studentUsecase, logger)
	announcementHandler := handler.NewAnnouncementHandler()

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	sweep := sweeper.New(otpStore, limiter, logger)
	if err := sweep.Start(); err != nil {
		stop()
		log.Fatalf("sweeper: %v", err)
	}

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, issuer,
			authHandler, studentHandler, documentHandler, announcementHandler),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
	<-sweep.Stop().Done()
}

func newOTPStore(cfg *config.Config, logger *slog.Logger) (otp.Store, error) {
	if cfg.OTPStore == "redis" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, err
		}
		logger.Info("using redis otp store", "addr", cfg.RedisAddr)
		return otp.NewRedisStore(client), nil
	}
	return otp.NewMemoryStore(), nil
}

func newUploader(cfg *config.Config, logger *slog.Logger) (storage.Uploader, error) {
	if cfg.CloudinaryURL == "" {
		logger.Warn("no CLOUDINARY_URL set, uploads are logged but not stored")
		return storage.NewLogUploader(logger), nil
	}
	return storage.NewCloudinaryUploader(cfg.CloudinaryURL)
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
