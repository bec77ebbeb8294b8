package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/wfh-portal-api/api/swagger"
	"github.com/noah-isme/wfh-portal-api/internal/dates"
	"github.com/noah-isme/wfh-portal-api/internal/handler"
	"github.com/noah-isme/wfh-portal-api/internal/middleware"
	"github.com/noah-isme/wfh-portal-api/internal/models"
	"github.com/noah-isme/wfh-portal-api/internal/repository"
	"github.com/noah-isme/wfh-portal-api/internal/service"
	"github.com/noah-isme/wfh-portal-api/pkg/cache"
	"github.com/noah-isme/wfh-portal-api/pkg/config"
	"github.com/noah-isme/wfh-portal-api/pkg/database"
	"github.com/noah-isme/wfh-portal-api/pkg/jobs"
	"github.com/noah-isme/wfh-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/wfh-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/wfh-portal-api/pkg/middleware/requestid"
)

// @title WFH Portal API
// @version 1.0.0
// @description Work-from-home request, withdrawal and manager reassignment service
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Schedule views degrade to uncached reads without Redis.
		logr.Sugar().Warnw("redis unavailable, schedule caching disabled", "error", err)
		redisClient = nil
	}

	calendar, err := dates.New(cfg.Org.Timezone)
	if err != nil {
		logr.Sugar().Fatalw("invalid org timezone", "timezone", cfg.Org.Timezone, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	employeeRepo := repository.NewEmployeeRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	reassignmentRepo := repository.NewReassignmentRepository(db)
	actionLogRepo := repository.NewActionLogRepository(db)

	metricsSvc := service.NewMetricsService()

	notifySvc := service.NewNotificationService(service.NewLogNotifier(logr), jobs.QueueConfig{
		Workers:    cfg.Notify.Workers,
		BufferSize: cfg.Notify.BufferSize,
		MaxRetries: cfg.Notify.MaxRetries,
		RetryDelay: cfg.Notify.RetryDelay,
		Logger:     logr,
	}, metricsSvc, logr)
	notifySvc.Start(ctx)
	defer notifySvc.Stop()

	auditSvc := service.NewActionLogService(actionLogRepo, logr)
	authSvc := service.NewAuthService(employeeRepo, validator.New(), logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	employeeSvc := service.NewEmployeeService(employeeRepo, logr)
	requestSvc := service.NewRequestService(requestRepo, employeeRepo, reassignmentRepo, auditSvc, notifySvc, calendar, logr)
	withdrawalSvc := service.NewWithdrawalService(withdrawalRepo, requestRepo, reassignmentRepo, auditSvc, notifySvc, calendar, logr)
	reassignmentSvc := service.NewReassignmentService(reassignmentRepo, requestRepo, employeeRepo, auditSvc, notifySvc, calendar, logr)
	scheduleSvc := service.NewScheduleService(requestRepo, redisClient, metricsSvc, cfg.Schedule.CacheTTL, logr)

	sweeperSvc := service.NewSweeperService(requestSvc, withdrawalSvc, reassignmentSvc, metricsSvc, calendar, cfg.Sweeper.Hour, logr)
	if cfg.Sweeper.Enabled {
		go sweeperSvc.Run(ctx)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	employeeHandler := handler.NewEmployeeHandler(employeeSvc)
	requestHandler := handler.NewRequestHandler(requestSvc)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalSvc)
	reassignmentHandler := handler.NewReassignmentHandler(reassignmentSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	actionLogHandler := handler.NewActionLogHandler(auditSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	requests := protected.Group("/requests")
	{
		requests.POST("", requestHandler.Submit)
		requests.POST("/approve", requestHandler.Approve)
		requests.POST("/reject", requestHandler.Reject)
		requests.POST("/revoke", requestHandler.Revoke)
		requests.POST("/cancel", requestHandler.Cancel)
		requests.GET("/own", requestHandler.Own)
		requests.GET("/pending", requestHandler.Pending)
		requests.GET("/team", requestHandler.Team)
	}

	withdrawals := protected.Group("/withdrawals")
	{
		withdrawals.POST("", withdrawalHandler.Withdraw)
		withdrawals.POST("/approve", withdrawalHandler.Approve)
		withdrawals.POST("/reject", withdrawalHandler.Reject)
		withdrawals.GET("/own", withdrawalHandler.Own)
		withdrawals.GET("/pending", withdrawalHandler.Pending)
	}

	reassignments := protected.Group("/reassignments")
	{
		reassignments.POST("", reassignmentHandler.Create)
		reassignments.POST("/handle", reassignmentHandler.Handle)
		reassignments.GET("/requests", reassignmentHandler.Delegated)
		reassignments.GET("/pending", reassignmentHandler.IncomingPending)
		reassignments.GET("/own", reassignmentHandler.Own)
		reassignments.GET("/incoming", reassignmentHandler.Incoming)
	}

	schedule := protected.Group("/schedule")
	{
		schedule.GET("/own", scheduleHandler.Own)
		schedule.GET("/team", scheduleHandler.Team)
		schedule.GET("/department", middleware.RequireRoles(models.RoleHR), scheduleHandler.Department)
		schedule.GET("/department/export", middleware.RequireRoles(models.RoleHR), scheduleHandler.Export)
	}

	protected.GET("/logs", actionLogHandler.List)

	employees := protected.Group("/employees")
	{
		employees.GET("/me", employeeHandler.Me)
		employees.GET("/team", employeeHandler.Team)
		employees.GET("/department", middleware.RequireRoles(models.RoleHR), employeeHandler.Department)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
