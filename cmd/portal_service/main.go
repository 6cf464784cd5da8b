package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	activityApi "github.com/ridloal/blood-portal/internal/activity/api"
	activityRepository "github.com/ridloal/blood-portal/internal/activity/repository"
	activityService "github.com/ridloal/blood-portal/internal/activity/service"
	allocationApi "github.com/ridloal/blood-portal/internal/allocation/api"
	allocationService "github.com/ridloal/blood-portal/internal/allocation/service"
	bloodRequestApi "github.com/ridloal/blood-portal/internal/bloodrequest/api"
	bloodRequestService "github.com/ridloal/blood-portal/internal/bloodrequest/service"
	donorApi "github.com/ridloal/blood-portal/internal/donor/api"
	donorService "github.com/ridloal/blood-portal/internal/donor/service"
	fulfillmentApi "github.com/ridloal/blood-portal/internal/fulfillment/api"
	fulfillmentService "github.com/ridloal/blood-portal/internal/fulfillment/service"
	institutionApi "github.com/ridloal/blood-portal/internal/institution/api"
	institutionService "github.com/ridloal/blood-portal/internal/institution/service"
	notificationApi "github.com/ridloal/blood-portal/internal/notification/api"
	notificationService "github.com/ridloal/blood-portal/internal/notification/service"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
	"github.com/ridloal/blood-portal/internal/platform/cache"
	"github.com/ridloal/blood-portal/internal/platform/config"
	"github.com/ridloal/blood-portal/internal/platform/database"
	"github.com/ridloal/blood-portal/internal/platform/logger"
	"github.com/ridloal/blood-portal/internal/platform/realtime"
	"github.com/ridloal/blood-portal/internal/platform/scheduler"
	"github.com/ridloal/blood-portal/internal/platform/session"
	"github.com/ridloal/blood-portal/internal/platform/sse"
	stockApi "github.com/ridloal/blood-portal/internal/stock/api"
	stockService "github.com/ridloal/blood-portal/internal/stock/service"
	verificationApi "github.com/ridloal/blood-portal/internal/verification/api"
	verificationService "github.com/ridloal/blood-portal/internal/verification/service"
)

func main() {
	// Load Config
	cfg, err := config.LoadPortalConfig()
	if err != nil {
		logger.Error("Failed to load Portal Service config", err, nil)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting Portal Service...")

	// Activity journal (opsional): tanpa database portal tetap jalan
	var activityRepo activityRepository.ActivityRepository
	db, err := database.Connect(cfg.ActivityDSN)
	if err != nil {
		logger.Warn("Activity journal disabled: %v", err)
	} else {
		defer db.Close()
		repo := activityRepository.NewPostgresActivityRepository(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Error("Activity journal disabled: schema setup failed", err, nil)
		} else {
			activityRepo = repo
		}
		cancel()
	}

	// Summary cache
	var summaryCache cache.SummaryCache
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()
		summaryCache = cache.NewRedisCache(rdb, "portal:")
		logger.Info("Summary cache: redis at %s", cfg.RedisAddr)
	} else {
		summaryCache = cache.NewMemory()
		logger.Info("Summary cache: in-memory")
	}

	// Realtime change feed
	var subscriber realtime.Subscriber = realtime.NoopSubscriber{}
	if cfg.RealtimeURL != "" {
		subscriber = realtime.NewWebsocketSubscriber(cfg.RealtimeURL, "")
		logger.Info("Realtime feed: %s", cfg.RealtimeURL)
	} else {
		logger.Warn("REALTIME_URL not set, notifications rely on polling only")
	}

	sched := scheduler.New()
	defer sched.Stop()
	hub := sse.NewHub()
	api := apiclient.New(cfg.BloodAPIBaseURL, cfg.BloodAPITimeout)

	// Setup Dependencies
	actService := activityService.NewActivityService(activityRepo)
	allocService := allocationService.NewAllocationService(allocationService.NewHTTPAllocationClient(api), summaryCache, cfg.SummaryCacheTTL, actService)
	brService := bloodRequestService.NewBloodRequestService(bloodRequestService.NewHTTPBloodRequestClient(api), allocService, actService)
	ffService := fulfillmentService.NewFulfillmentService(fulfillmentService.NewHTTPFulfillmentClient(api), actService, hub, sched, cfg.FulfillmentPollInterval)
	dnService := donorService.NewDonorService(donorService.NewHTTPDonorClient(api), actService)
	ntService := notificationService.NewNotificationService(notificationService.NewHTTPNotificationClient(api), subscriber, hub, sched, actService, cfg.NotificationFeedLimit, cfg.NotificationPollInterval)
	stService := stockService.NewStockService(stockService.NewHTTPStockClient(api))
	instService := institutionService.NewInstitutionService(institutionService.NewHTTPInstitutionClient(api))
	verService := verificationService.NewVerificationService(verificationService.NewHTTPVerificationClient(api), actService)

	// Setup Gin Router
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	// SSE streams are excluded from compression so frames flush immediately
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{".*/stream$"})))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	portal := router.Group("/api/v1/portal", session.Middleware([]byte(cfg.JWTSecret)))
	bloodRequestApi.NewBloodRequestHandler(brService).RegisterRoutes(portal)
	notificationApi.NewNotificationHandler(ntService, hub).RegisterRoutes(portal)
	stockApi.NewStockHandler(stService).RegisterRoutes(portal)
	institutionApi.NewInstitutionHandler(instService).RegisterRoutes(portal)
	activityApi.NewActivityHandler(actService).RegisterRoutes(portal)

	pmi := portal.Group("", session.RequireType(session.TypePMI))
	fulfillmentApi.NewFulfillmentHandler(ffService, hub).RegisterRoutes(pmi)
	allocationApi.NewAllocationHandler(allocService).RegisterRoutes(pmi)
	donorApi.NewDonorHandler(dnService).RegisterRoutes(pmi)
	verificationApi.NewVerificationHandler(verService).RegisterRoutes(pmi)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout 0 untuk koneksi SSE
	}

	go func() {
		logger.Info("Portal Service running on port %s", cfg.Port)
		logger.Info("Portal Service connecting to Blood API at %s", cfg.BloodAPIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to run Portal Service server", err, nil)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down Portal Service...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Portal Service forced to shutdown", err, nil)
	}
	logger.Info("Portal Service exited")
}
