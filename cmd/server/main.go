package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/worshipops/rosterd/internal/api"
	"github.com/worshipops/rosterd/internal/config"
	"github.com/worshipops/rosterd/internal/db"
	"github.com/worshipops/rosterd/internal/mailer"
	"github.com/worshipops/rosterd/internal/metrics"
	"github.com/worshipops/rosterd/internal/notify"
	"github.com/worshipops/rosterd/internal/queue"
	"github.com/worshipops/rosterd/internal/ratelimiter"
	"github.com/worshipops/rosterd/internal/repository"
	"github.com/worshipops/rosterd/internal/roster"
	"github.com/worshipops/rosterd/internal/worker"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ---- database ----
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	q := queue.New(cfg.QueueUrgentCap, cfg.QueueReminderCap)
	users := repository.NewPgUserRepository(pool)
	services := repository.NewPgServiceRepository(pool)

	renderer, err := mailer.NewRenderer()
	if err != nil {
		logger.Fatal("failed to load email templates", zap.Error(err))
	}
	mail := mailer.NewSMTPMailer(
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom,
		cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPTimeout,
	)
	limiter := ratelimiter.New(cfg.MailRateLimit)

	composer := notify.NewComposer(users, logger)
	notifier := notify.NewNotifier(composer, q, logger, m.DispatchHook())
	svc := roster.New(users, services, notifier, logger)

	scanner, err := worker.NewReminderScanner(
		services, composer, notifier,
		cfg.ReminderRecurrence, cfg.ReminderWindowDays, logger,
	)
	if err != nil {
		logger.Fatal("invalid reminder recurrence rule", zap.Error(err))
	}
	scanner.OnScanComplete = m.ScanHook()

	// ---- background workers ----
	// Context for all background goroutines; cancelled on shutdown signal.
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	onDelivered, onFailed := m.WorkerHooks()
	pool2 := worker.NewPool(cfg.Workers, q, renderer, mail, limiter, logger, worker.MetricHooks{
		OnDelivered: onDelivered,
		OnFailed:    onFailed,
	})
	pool2.Start(workerCtx)

	go scanner.Run(workerCtx)

	// Sample queue depths for the Prometheus gauges.
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				m.SetQueueDepths(q.Depths())
			}
		}
	}()

	// ---- HTTP server ----
	router := api.NewRouter(svc, scanner, q, reg, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Signal workers and the reminder scanner to stop.
	cancelWorkers()

	// 3. Wait for in-flight workers to finish their current message.
	pool2.Wait()

	logger.Info("server stopped cleanly")
}
