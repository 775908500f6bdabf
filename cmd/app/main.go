// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"translator-booking/internal/config"
	"translator-booking/internal/domain/ports/adapter"
	pg "translator-booking/internal/infra/db/postgres"
	"translator-booking/internal/infra/logging"
	"translator-booking/internal/infra/metrics"
	"translator-booking/internal/infra/notify"
	red "translator-booking/internal/infra/redis"
	"translator-booking/internal/infra/sched"
	"translator-booking/internal/infra/web"
	"translator-booking/internal/infra/worker"
	"translator-booking/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop notifiers)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	notifyCache := red.NewNotifyCache(redisClient)

	// ---- Repositories ----
	jobRepo := pg.NewJobRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	distanceRepo := pg.NewDistanceRepo(pool)

	// ---- Notifier adapters ----
	var (
		email adapter.EmailSender
		sms   adapter.SMSSender
	)
	if cfg.Runtime.Dev {
		noop := notify.NewNoopNotifier()
		email, sms = noop, noop
	} else {
		email, err = notify.NewEmailGateway(cfg.Notify.EmailGatewayURL, cfg.Notify.EmailAPIKey, cfg.Notify.FromAddress)
		if err != nil {
			log.Fatalf("email gateway: %v", err)
		}
		sms, err = notify.NewSMSGateway(cfg.Notify.SMSGatewayURL, cfg.Notify.SMSAPIKey)
		if err != nil {
			log.Fatalf("sms gateway: %v", err)
		}
	}

	// ---- Worker pool for fire-and-forget dispatch ----
	pool2 := worker.NewPool(cfg.Notify.Workers, logger)
	pool2.Start(ctx)
	defer pool2.Stop()

	// ---- Use cases ----
	notifUC := usecase.NewNotificationUseCase(jobRepo, userRepo, notifyCache, email, sms, cfg.Notify.DedupWindow, logger)
	bookingUC := usecase.NewBookingUseCase(jobRepo, userRepo, notifUC, pg.NewTxManager(pool), pool2, logger)
	telemetryUC := usecase.NewTelemetryUseCase(distanceRepo, jobRepo, logger)

	// ---- Metrics ----
	metrics.MustRegister()

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Server.JWTSecret, 12*time.Hour)
	server := web.NewServer(bookingUC, telemetryUC, notifUC, auth, logger)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", server.Router(cfg.Server.RequestTimeout))

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: mux,
	}
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Scheduled workers ----
	go func() {
		_ = sched.NewRebroadcastWorker(cfg.Sched.RebroadcastInterval, cfg.Sched.RebroadcastAfter, bookingUC, logger).Run(ctx)
	}()
	go func() {
		_ = sched.NewExpiryWorker(cfg.Sched.ExpiryInterval, bookingUC, logger).Run(ctx)
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
