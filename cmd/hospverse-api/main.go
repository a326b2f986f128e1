package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hospverse-api/internal/authn"
	"hospverse-api/internal/config"
	"hospverse-api/internal/database"
	"hospverse-api/internal/httpapi"
	"hospverse-api/internal/repository"
	"hospverse-api/internal/service"
	"hospverse-api/internal/store"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg)
	defer logger.Sync()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	kv := store.NewRedisKV(redisClient)

	var repos *repository.Repositories
	if cfg.DBEnabled {
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		defer db.Close()
		repos = repository.NewPostgres(db)
		logger.Info("DB enabled for hospverse-api")
	} else {
		repos = repository.NewMemory()
		logger.Warn("DB disabled, using memory repositories")
	}

	auth := authn.NewHTTPClient(cfg.Auth.URL, cfg.Auth.ServiceKey, logger)
	guard := httpapi.NewGuard(auth, repos.Users, kv, time.Duration(cfg.Auth.CacheTTL)*time.Second, logger)
	resolver := httpapi.NewTenantResolver(repos.Clients, repos.Logs, cfg.BaseDomain, cfg.Env, logger)

	router := httpapi.NewRouter(logger)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(auth, repos.Users, repos.Clients, kv, logger))
	router.RegisterTenantRoutes(httpapi.NewTenantHandler())
	router.RegisterSuperAdminRoutes(httpapi.NewSuperAdminHandler(repos.Clients, repos.Logs, repos.Support, logger), guard)
	router.RegisterReceptionRoutes(httpapi.NewReceptionHandler(repos.Patients, repos.Appointments, repos.Staff, logger), guard)
	router.RegisterDoctorRoutes(httpapi.NewDoctorHandler(repos.Appointments, repos.Patients, repos.Clinical, repos.Procedures, repos.Photos, repos.Staff, logger), guard)
	router.RegisterTechnicianRoutes(httpapi.NewTechnicianHandler(repos.Procedures, repos.Staff, logger), guard)
	router.RegisterInventoryRoutes(httpapi.NewInventoryHandler(repos.Inventory, logger), guard)
	router.RegisterBillingRoutes(httpapi.NewBillingHandler(repos.Billing, logger), guard)
	router.RegisterCRMRoutes(httpapi.NewCRMHandler(repos.Leads, repos.Users, logger), guard)
	router.RegisterHRRoutes(httpapi.NewHRHandler(repos.Staff, repos.Payroll, logger), guard)
	router.RegisterPayrollRoutes(httpapi.NewPayrollHandler(repos.Payroll, logger), guard)
	router.RegisterPhotoRoutes(httpapi.NewPhotoHandler(repos.Photos, logger), guard)
	router.RegisterAdminRoutes(httpapi.NewAdminHandler(repos.Billing, repos.Appointments, repos.Staff, repos.Inventory, repos.Leads, repos.Clinical, repos.Logs, logger), guard)

	handler := httpapi.MetricsMiddleware(resolver.Middleware(router))

	srv := service.NewServer(cfg.HTTP.Addr, handler, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if cfg.Log.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	if lvl, err := zapcore.ParseLevel(cfg.Log.Level); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := zcfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}
