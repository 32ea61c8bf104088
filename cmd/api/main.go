package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kindfi-org/kindfi-sub007/config"
	httpHandler "github.com/kindfi-org/kindfi-sub007/internal/adapter/http/handler"
	kycClient "github.com/kindfi-org/kindfi-sub007/internal/adapter/kyc"
	ledgerClient "github.com/kindfi-org/kindfi-sub007/internal/adapter/ledger"
	pgStorage "github.com/kindfi-org/kindfi-sub007/internal/adapter/storage/postgres"
	redisStorage "github.com/kindfi-org/kindfi-sub007/internal/adapter/storage/redis"
	"github.com/kindfi-org/kindfi-sub007/internal/core/ports"
	"github.com/kindfi-org/kindfi-sub007/internal/service"
	"github.com/kindfi-org/kindfi-sub007/pkg/logger"

	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting KindFi Escrow Engine")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	escrowRepo := pgStorage.NewEscrowRepo(pool)
	milestoneRepo := pgStorage.NewMilestoneRepo(pool)
	reviewRepo := pgStorage.NewReviewRepo(pool)
	disputeRepo := pgStorage.NewDisputeRepo(pool)
	evidenceRepo := pgStorage.NewEvidenceRepo(pool)
	credentialRepo := pgStorage.NewCredentialRepo(pool)
	releaseRepo := pgStorage.NewReleaseRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	challengeStore := redisStorage.NewChallengeStore(rdb)
	submissionCache := redisStorage.NewSubmissionCache(rdb)

	// Initialize external clients
	ledger := ledgerClient.NewClient(cfg.Ledger, log)

	var kyc ports.KYCChecker
	if cfg.KYC.BaseURL != "" {
		kyc = kycClient.NewClient(cfg.KYC, log)
	} else {
		log.Warn().Msg("KYC base URL not configured, eligibility checks disabled")
		kyc = kycClient.AllowAll{}
	}

	var notifier ports.Notifier = service.NewWebhookNotifier(
		cfg.Notify.WebhookURL,
		&http.Client{Timeout: cfg.Notify.Timeout},
		log,
	)

	// Initialize core services
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	escrowSvc := service.NewEscrowService(
		escrowRepo,
		milestoneRepo,
		ledger,
		submissionCache,
		kyc,
		notifier,
		transactor,
		cfg.Sync.Parallelism,
		log,
	)
	reviewSvc := service.NewReviewService(milestoneRepo, escrowRepo, reviewRepo, releaseRepo, notifier, transactor, log)
	disputeSvc := service.NewDisputeService(disputeRepo, evidenceRepo, escrowRepo, milestoneRepo, releaseRepo, ledger, notifier, transactor, log)
	passkeySvc := service.NewPasskeyService(credentialRepo, challengeStore, cfg.WebAuthn, log)

	// Background workers
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	releaseWorker := service.NewReleaseWorker(
		releaseRepo,
		escrowRepo,
		milestoneRepo,
		ledger,
		notifier,
		cfg.Release.PollInterval,
		cfg.Release.MaxAttempts,
		cfg.Release.Parallelism,
		log,
	)
	go releaseWorker.Run(workerCtx)

	go runSyncLoop(workerCtx, escrowSvc, cfg.Sync.Interval, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		EscrowSvc:      escrowSvc,
		ReviewSvc:      reviewSvc,
		DisputeSvc:     disputeSvc,
		PasskeySvc:     passkeySvc,
		TokenSvc:       tokenSvc,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// runSyncLoop periodically reconciles every non-terminal contract against the
// ledger, so missed webhooks or external state changes converge.
func runSyncLoop(ctx context.Context, escrowSvc ports.EscrowService, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = 2 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := escrowSvc.SyncAll(ctx); err != nil {
				log.Error().Err(err).Msg("ledger sync pass failed")
			}
		}
	}
}
