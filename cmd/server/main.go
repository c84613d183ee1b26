package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/application/account"
	"github.com/sitesync/backend/internal/application/payment"
	"github.com/sitesync/backend/internal/application/sync"
	"github.com/sitesync/backend/internal/infrastructure/alert"
	"github.com/sitesync/backend/internal/infrastructure/auth"
	"github.com/sitesync/backend/internal/infrastructure/cache"
	"github.com/sitesync/backend/internal/infrastructure/config"
	"github.com/sitesync/backend/internal/infrastructure/event"
	"github.com/sitesync/backend/internal/infrastructure/logger"
	"github.com/sitesync/backend/internal/infrastructure/persistence"
	"github.com/sitesync/backend/internal/infrastructure/scheduler"
	"github.com/sitesync/backend/internal/infrastructure/weebly"
	"github.com/sitesync/backend/internal/interfaces/http/handler"
	"github.com/sitesync/backend/internal/interfaces/http/middleware"
	"github.com/sitesync/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting sitesync backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	userRepo := persistence.NewGormSiteUserRepository(db.DB)
	siteRepo := persistence.NewGormSiteRepository(db.DB)
	credentialRepo := persistence.NewGormCredentialRepository(db.DB)
	pageRepo := persistence.NewGormPageRepository(db.DB)
	blogRepo := persistence.NewGormBlogRepository(db.DB)
	postRepo := persistence.NewGormBlogPostRepository(db.DB)
	productRepo := persistence.NewGormStoreProductRepository(db.DB)
	optionRepo := persistence.NewGormStoreProductOptionRepository(db.DB)
	categoryRepo := persistence.NewGormStoreCategoryRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentNotificationRepository(db.DB)

	// Redis is optional. Without it the refresh lock and the token
	// revocation list fall back to in-process implementations.
	var syncGuard cache.SyncGuard = cache.NewInMemorySyncGuard()
	var revocations auth.RevocationList = auth.NewInMemoryRevocationList()
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
		syncGuard = cache.NewRedisSyncGuard(redisClient)
		revocations = auth.NewRedisRevocationList(redisClient)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Platform gateway and services
	gateway := weebly.NewClient(&cfg.Weebly, log)
	notifier := alert.NewNotifier(&cfg.Alert, log)
	jwtService := auth.NewJWTService(cfg.JWT)
	embedTokens := auth.NewEmbedTokenService(&cfg.Weebly)

	syncService := sync.NewService(sync.Repositories{
		Users:       userRepo,
		Sites:       siteRepo,
		Credentials: credentialRepo,
		Pages:       pageRepo,
		Blogs:       blogRepo,
		Posts:       postRepo,
		Products:    productRepo,
		Options:     optionRepo,
		Categories:  categoryRepo,
	}, gateway, syncGuard, notifier, eventBus, log)
	paymentService := payment.NewService(paymentRepo, siteRepo, userRepo, credentialRepo, gateway, eventBus, cfg, log)
	accountService := account.NewService(userRepo, siteRepo, credentialRepo, gateway, embedTokens, cfg, log)

	// Background jobs
	jobs, err := scheduler.New(cfg.Scheduler, log)
	if err != nil {
		log.Fatal("Failed to create scheduler", zap.Error(err))
	}
	jobs.Register("refresh", cfg.Scheduler.RefreshInterval, syncService.RefreshAllSites)
	jobs.Register("notify", cfg.Scheduler.NotifyInterval, paymentService.NotifyUnnotified)
	if err := jobs.Start(context.Background()); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// HTTP server
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		middleware.CORS(corsCfg),
		logger.GinMiddleware(log),
		logger.Recovery(log),
	)

	r := router.New(engine)
	r.Register(&router.APIRoutes{
		AdminAuth:   middleware.AdminAuth(jwtService, revocations, log),
		System:      handler.NewSystemHandler(db, jobs, version, log),
		Auth:        handler.NewAuthHandler(cfg.Admin, jwtService, revocations, log),
		Users:       handler.NewUserHandler(userRepo, siteRepo, log),
		Sites:       handler.NewSiteHandler(siteRepo, pageRepo, blogRepo, postRepo, productRepo, optionRepo, categoryRepo, log),
		Sync:        handler.NewSyncHandler(syncService, log),
		Account:     handler.NewAccountHandler(accountService, log),
		Payments:    handler.NewPaymentHandler(paymentService, paymentRepo, log),
		Credentials: handler.NewCredentialHandler(credentialRepo, log),
	})
	r.Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Error("Scheduler shutdown failed", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus shutdown failed", zap.Error(err))
	}
	log.Info("Shutdown complete")
}
