package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cv-platform-backend/config"
	_ "cv-platform-backend/docs" // Important for Swagger
	v1 "cv-platform-backend/internal/delivery/http/v1"
	"cv-platform-backend/internal/delivery/http/middleware"
	"cv-platform-backend/internal/repository/postgres"
	"cv-platform-backend/internal/usecase"
	"cv-platform-backend/pkg/auth"
	"cv-platform-backend/pkg/database"
	"cv-platform-backend/pkg/logger"
	"cv-platform-backend/pkg/pdf"
	cvredis "cv-platform-backend/pkg/redis"
	"cv-platform-backend/pkg/security"
	"cv-platform-backend/pkg/storage"
	"cv-platform-backend/pkg/validation"

	goredis "github.com/redis/go-redis/v9"
)

// @title           CV Platform API
// @version         1.0
// @description     Candidate CV submission, PDF generation and recruiter discovery.
// @host            localhost:5000
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting CV platform backend", "port", cfg.Port, "environment", cfg.Environment)

	if err := run(cfg); err != nil {
		logger.Log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
	logger.Log.Info("Server exiting")
}

// run wires every dependency and blocks until the server stops.
func run(cfg *config.Config) error {
	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer dbPool.Close()

	if err := database.RunMigrations(ctx, dbPool); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// 4. Setup Redis (optional) and security services
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cvredis.NewClient(ctx, cvredis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory and login throttling is off", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	securityLogger := security.NewSecurityLogger(cfg.ServiceName, cfg.Environment)
	defer securityLogger.Sync()

	trackerCfg := security.DefaultLoginTrackerConfig()
	trackerCfg.MaxAttempts = cfg.FailedLoginMaxAttempts
	trackerCfg.BlockDuration = time.Duration(cfg.FailedLoginBlockMinutes) * time.Minute
	loginTracker := security.NewLoginTracker(redisClient, trackerCfg, securityLogger)
	rateLimiter := middleware.NewRateLimiter(redisClient, securityLogger)

	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.TokenExpire)

	// 5. Setup Storage
	localStore, err := storage.NewLocalStore(cfg.StaticDir, cfg.BaseURL, cfg.StaticPrefix)
	if err != nil {
		return fmt.Errorf("prepare static directory %s: %w", cfg.StaticDir, err)
	}

	s3Cfg := storage.S3Config{
		Provider:        storage.S3Provider(cfg.S3Provider),
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		Endpoint:        cfg.S3Endpoint,
		PublicURL:       cfg.S3PublicURL,
		KeyPrefix:       cfg.S3KeyPrefix,
	}
	var putter storage.ObjectPutter
	if cfg.S3Configured() {
		s3Client, err := storage.NewS3Client(ctx, s3Cfg)
		if err != nil {
			logger.Log.Warn("S3 client setup failed, CVs will be served locally", "error", err)
		} else {
			putter = s3Client
		}
	}
	uploader := storage.NewUploader(putter, s3Cfg, localStore)

	// 6. Setup Renderer
	var renderer pdf.Renderer = pdf.NewFPDFRenderer()
	if cfg.Renderer == "chromedp" {
		renderer = pdf.NewChromedpRenderer(cfg.ChromePath)
	}
	logger.Log.Info("CV pipeline ready", "renderer", cfg.Renderer, "remote_storage", uploader.RemoteEnabled())

	// 7. Setup Repositories
	accountRepo := postgres.NewAccountRepository(dbPool)
	candidateRepo := postgres.NewCandidateRepository(dbPool)

	// 8. Setup UseCases
	validate := validation.New()
	authUC := usecase.NewAuthUsecase(accountRepo, tokenService, loginTracker, securityLogger, validate)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, accountRepo, renderer, uploader, securityLogger, validate, cfg.RenderDir)

	optional := map[string]usecase.Pinger{}
	if redisClient != nil {
		optional["redis"] = usecase.PingFunc(func(ctx context.Context) error {
			return cvredis.HealthCheck(ctx, redisClient)
		})
	}
	healthUC := usecase.NewHealthUsecase(map[string]usecase.Pinger{"database": dbPool}, optional)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:      authUC,
		CandidateUC: candidateUC,
		HealthUC:    healthUC,
		Tokens:      tokenService,
		RateLimiter: rateLimiter,
		Audit:       securityLogger,
		Config:      cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return serve(srv, quit, 5*time.Second)
}

// serve runs srv until it fails to listen or a signal arrives on quit, then
// drains in-flight requests for at most timeout.
func serve(srv *http.Server, quit <-chan os.Signal, timeout time.Duration) error {
	listenErr := make(chan error, 1)
	go func() {
		listenErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-listenErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case <-quit:
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
