package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"floor-backend/internal/archive"
	"floor-backend/internal/auth"
	"floor-backend/internal/cache"
	"floor-backend/internal/config"
	"floor-backend/internal/db"
	h "floor-backend/internal/http"
	"floor-backend/internal/handlers"
	"floor-backend/internal/health"
	"floor-backend/internal/logger"
	"floor-backend/internal/middleware"
	"floor-backend/internal/realtime"
	"floor-backend/internal/repositories"
	"floor-backend/internal/services"
	"floor-backend/internal/timeutil"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "floor-backend",
		File:    cfg.Log.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timeutil.SetLocation(cfg.Dashboard.Timezone)

	st, err := db.OpenStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Redis.Addr != "" {
		if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			log.Warn("redis unavailable, dashboard caching disabled", zap.Error(err))
		} else {
			defer cache.Close()
		}
	}

	var reports services.Archiver
	if cfg.Reports.Bucket != "" {
		a, err := archive.New(ctx, archive.Options{
			Bucket:    cfg.Reports.Bucket,
			Endpoint:  cfg.Reports.Endpoint,
			Region:    cfg.Reports.Region,
			AccessKey: cfg.Reports.AccessKey,
			SecretKey: cfg.Reports.SecretKey,
		}, log)
		if err != nil {
			return err
		}
		reports = a
	}

	hub := realtime.NewAlertHub(log)
	go hub.Run(ctx)

	// Repositories
	userRepo := repositories.NewUserRepository(st)
	lineRepo := repositories.NewLineRepository(st)
	machineRepo := repositories.NewMachineRepository(st)
	scheduleRepo := repositories.NewScheduleRepository(st)
	sessionRepo := repositories.NewSessionRepository(st)
	downtimeRepo := repositories.NewDowntimeRepository(st)
	qualityRepo := repositories.NewQualityRepository(st)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	userService := services.NewUserService(userRepo, jwtManager, log)
	dashboardService := services.NewDashboardService(downtimeRepo, qualityRepo, sessionRepo,
		cfg.CacheTTL(), time.Duration(cfg.Dashboard.MaxSessionHours)*time.Hour, log)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := userService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	router := h.NewRouter(h.Handlers{
		Auth:      handlers.NewAuthHandler(userService, log),
		Users:     handlers.NewUserHandler(userService, log),
		Lines:     handlers.NewLineHandler(services.NewLineService(lineRepo), log),
		Machines:  handlers.NewMachineHandler(services.NewMachineService(machineRepo), log),
		Schedules: handlers.NewScheduleHandler(services.NewScheduleService(scheduleRepo, lineRepo), log),
		Sessions:  handlers.NewSessionHandler(services.NewSessionService(sessionRepo, lineRepo, scheduleRepo, log), log),
		Downtime:  handlers.NewDowntimeHandler(services.NewDowntimeService(downtimeRepo, userService, hub, log), log),
		Quality:   handlers.NewQualityHandler(services.NewQualityService(qualityRepo, hub, log), log),
		Dashboard: handlers.NewDashboardHandler(dashboardService, log),
		Reports:   handlers.NewReportHandler(services.NewReportService(dashboardService, reports, log), log),
		Import:    handlers.NewImportHandler(services.NewImportService(machineRepo, lineRepo, log), log),
		Health:    handlers.NewHealthHandler(health.NewHealthChecker(st, cfg.Store.Backend)),
		Live:      realtime.NewLiveFeed(st, log),
		Alerts:    hub,
	}, middleware.NewAuthMiddleware(jwtManager, userRepo), middleware.NewCORS(cfg), log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("store", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
