package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"insurevis/internal/config"
	"insurevis/internal/events"
	"insurevis/internal/handler"
	"insurevis/internal/logging"
	"insurevis/internal/notify"
	"insurevis/internal/repository/postgres"
	"insurevis/internal/router"
	"insurevis/internal/service"
	s3storage "insurevis/internal/storage/s3"
)

// @title InsureVis Claims Review API
// @version 1.0
// @description Car company and insurance company review of vehicle insurance claims.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	slog.SetDefault(logging.New(cfg.Log, os.Stdout))
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	claimRepo := postgres.NewClaimRepo(db)
	docRepo := postgres.NewDocumentRepo(db)
	auditRepo := postgres.NewClaimAuditRepo(db)

	// Initialize storage, events and notification channels
	s3Client, err := s3storage.NewS3Client(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	publisher, err := events.NewPublisher(cfg.Events)
	if err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	channels, err := notify.Channels(ctx, cfg, userRepo)
	if err != nil {
		return fmt.Errorf("failed to initialize notification channels: %w", err)
	}
	dispatcher := service.NewNotificationDispatcher(channels, service.NotificationDispatcherConfig{
		QueueSize:   cfg.Notify.QueueSize,
		Concurrency: cfg.Notify.Concurrency,
		Timeout:     cfg.Notify.Timeout,
	})

	// Initialize services
	reviewOpts := service.ReviewOptions{
		StoreTimeout:    cfg.Review.StoreTimeout,
		BulkConcurrency: cfg.Review.BulkConcurrency,
		SweepBatchSize:  cfg.Review.ReconcileBatchSize,
	}
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	userSvc := service.NewUserService(userRepo)
	reconcileSvc := service.NewReconciliationService(claimRepo, docRepo, auditRepo, publisher, reviewOpts)
	verificationSvc := service.NewVerificationService(docRepo, claimRepo, auditRepo, publisher, reconcileSvc, reviewOpts)
	decisionSvc := service.NewDecisionService(claimRepo, docRepo, auditRepo, publisher, dispatcher, reviewOpts)
	claimSvc := service.NewClaimService(claimRepo, docRepo, auditRepo, reviewOpts)
	accessSvc := service.NewDocumentAccessService(docRepo, s3Client, service.DocumentAccessConfig{
		DefaultBucket: cfg.S3.Bucket,
		PresignExpiry: cfg.S3.PresignExpiry,
	})

	// Background workers. The dispatcher stops only after the HTTP server has drained.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()
	var workers, dispatchWorker sync.WaitGroup
	dispatchWorker.Add(1)
	go func() {
		defer dispatchWorker.Done()
		dispatcher.Start(dispatchCtx)
	}()
	workers.Add(1)
	go func() {
		defer workers.Done()
		service.NewReconcileWorker(reconcileSvc, service.ReconcileWorkerConfig{
			Interval:     cfg.Review.ReconcileInterval,
			SweepTimeout: cfg.Review.ReconcileInterval,
		}).Start(ctx)
	}()

	// Initialize handlers and router
	r := router.Setup(authSvc, router.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		User:     handler.NewUserHandler(userSvc),
		Review:   handler.NewReviewHandler(claimSvc, verificationSvc, decisionSvc, reconcileSvc),
		Document: handler.NewDocumentHandler(accessSvc),
		Health:   handler.NewHealthHandler(db),
	}, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		workers.Wait()
		stopDispatch()
		dispatchWorker.Wait()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	gracefulShutdown(shutdownCtx, srv, stopDispatch, &dispatchWorker)
	workers.Wait()
	return nil
}
