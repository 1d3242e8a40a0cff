package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "hrsuite/api/swagger" // swagger docs
	"hrsuite/internal/auth"
	"hrsuite/internal/config"
	"hrsuite/internal/database"
	"hrsuite/internal/handler"
	"hrsuite/internal/localstore"
	"hrsuite/internal/logger"
	"hrsuite/internal/middleware"
	"hrsuite/internal/provider"
	"hrsuite/internal/repository"
	"hrsuite/internal/service"
	"hrsuite/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           HR Suite API
// @version         1.0
// @description     Authentication, role based access and HR records (employees, attendance, leave, expenses, announcements).
// @description     Every request is bound to a device through the hr_device cookie or the X-Device-ID header.
// @host            localhost:8080
// @BasePath        /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("hrsuite", nil).WithError(err).Fatal("invalid configuration")
	}
	log := logger.New("hrsuite", nil).WithLevel(cfg.LogLevel)

	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(cfg.DSN, log)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	log.Info("connected to PostgreSQL")

	// Per-device state lives in Redis when configured so it survives restarts
	var store localstore.Namespacer
	if cfg.RedisAddr != "" {
		client, err := localstore.NewRedisClient(localstore.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.WithError(err).Fatal("redis connection failed")
		}
		defer client.Close()
		store = localstore.NewRedisStore(client, "hrsuite:")
		log.Infof("using redis device store", map[string]interface{}{"addr": cfg.RedisAddr})
	} else {
		store = localstore.NewMemoryStore()
		log.Warn("REDIS_ADDR not set, device state is kept in memory")
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(log)
	go wsHub.Run(ctx)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	statisticsRepo := repository.NewStatisticsRepository(db)

	backend := provider.NewBackend(provider.Options{
		JWTSecret:       cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		AppURL:          cfg.AppURL,
		CallbackURL:     cfg.APIURL + "/api/auth/callback",
	}, userRepo, tokenRepo, store.Namespace("provider:"),
		provider.NewLogMailer(log), provider.NewLogSMSSender(log), log)

	creds := make(map[string]provider.OAuthCredentials, len(cfg.OAuth))
	for name, p := range cfg.OAuth {
		creds[name] = provider.OAuthCredentials{ClientID: p.ClientID, ClientSecret: p.ClientSecret, IssuerURL: p.IssuerURL}
	}
	if err := backend.ConfigureOAuth(ctx, creds); err != nil {
		log.WithError(err).Warn("some oauth providers could not be configured")
	}

	registry := auth.NewRegistry(auth.RegistryConfig{
		Size:     cfg.InstanceCacheSize,
		TTL:      cfg.InstanceTTL,
		DemoMode: cfg.DemoMode,
	}, store, backend, profileRepo, auditRepo, wsHub, log)

	employeeService := service.NewEmployeeService(txManager, employeeRepo, auditRepo)
	attendanceService := service.NewAttendanceService(txManager, attendanceRepo, auditRepo)
	leaveService := service.NewLeaveService(txManager, leaveRepo, auditRepo)
	expenseService := service.NewExpenseService(txManager, expenseRepo, auditRepo)
	announcementService := service.NewAnnouncementService(txManager, announcementRepo, auditRepo, wsHub)
	auditService := service.NewAuditService(auditRepo)
	userService := service.NewUserService(txManager, profileRepo, auditRepo)
	statisticsService := service.NewStatisticsService(statisticsRepo)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(cfg.AppURL, log)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)
	leaveHandler := handler.NewLeaveHandler(leaveService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	announcementHandler := handler.NewAnnouncementHandler(announcementService)
	auditHandler := handler.NewAuditHandler(auditService)
	userHandler := handler.NewUserHandler(userService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

	// Set up Gin Router
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", middleware.DeviceHeader}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "demo_mode": cfg.DemoMode, "oauth": backend.OAuthProviders()})
	})

	api := router.Group("")
	api.Use(middleware.Device(registry, middleware.DeviceOptions{Secure: cfg.Release}, log))

	// WebSocket endpoint
	api.GET("/api/ws", middleware.RequireIdentity(), func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.DeviceIDFrom(c))
	})

	// API Routing
	authHandler.RegisterRoutes(api)
	employeeHandler.RegisterRoutes(api)
	attendanceHandler.RegisterRoutes(api)
	leaveHandler.RegisterRoutes(api)
	expenseHandler.RegisterRoutes(api)
	announcementHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	statisticsHandler.RegisterRoutes(api)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("server listening", map[string]interface{}{"port": cfg.Port, "demo_mode": cfg.DemoMode})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
