package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"session-reconciler/config"
	calendarRepo "session-reconciler/internal/calendar/repository"
	documentRepo "session-reconciler/internal/document/repository"
	"session-reconciler/internal/httpserver"
	"session-reconciler/internal/middleware"
	"session-reconciler/internal/reconcile"
	"session-reconciler/internal/reconcile/usecase"
	rosterRepo "session-reconciler/internal/roster/repository"
	"session-reconciler/pkg/drivestore"
	"session-reconciler/pkg/gcalendar"
	"session-reconciler/pkg/log"
)

// @title       Session Reconciler API
// @description Reconciles tutor work-session claims against calendar events and generates invoice and timesheet documents.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Session Reconciler...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Declared timezone: %s", cfg.Reconciler.DeclaredTimezone)

	// 3. Roster sheet
	rosterRepository, err := rosterRepo.New(logger, cfg.Roster.Path)
	if err != nil {
		logger.Error(ctx, "Failed to load roster sheet: ", err)
		return
	}

	// 4. Google Calendar
	calendarClient, err := gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath)
	if err != nil {
		logger.Error(ctx, "Failed to initialize Google Calendar: ", err)
		logger.Warn(ctx, "→ Run `go run scripts/gcal-auth/main.go` to generate token.json")
		return
	}
	calendarRepository, err := calendarRepo.New(logger, calendarClient, calendarRepo.Config{
		CalendarID: cfg.GoogleCalendar.CalendarID,
		Timezone:   cfg.Reconciler.DeclaredTimezone,
		CacheSize:  cfg.GoogleCalendar.CacheSize,
		CacheTTL:   cfg.GoogleCalendar.CacheTTL,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize calendar repository: ", err)
		return
	}

	// 5. Document drive (Microsoft Graph)
	driveClient := drivestore.New(ctx, drivestore.Config{
		TenantID:     cfg.Drive.TenantID,
		ClientID:     cfg.Drive.ClientID,
		ClientSecret: cfg.Drive.ClientSecret,
		DriveID:      cfg.Drive.DriveID,
	})
	documentRepository := documentRepo.New(logger, driveClient)

	// 6. Reconciliation use case. Configuration problems are fatal here,
	// before the server accepts any batch.
	reconcileUC, err := usecase.New(logger, reconcile.Config{
		Timezone:         cfg.Reconciler.DeclaredTimezone,
		OverlapThreshold: cfg.Reconciler.MatchOverlapThreshold,
		ToleranceMinutes: cfg.Reconciler.MatchToleranceMinutes,
	}, calendarRepository, rosterRepository, documentRepository)
	if err != nil {
		logger.Error(ctx, "Failed to initialize reconciliation use case: ", err)
		return
	}

	// 7. HTTP Server
	mw := middleware.New(logger, middleware.Config{
		RateLimitPerMin: cfg.HTTPServer.RateLimitPerMin,
	})

	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		ReconcileUC: reconcileUC,
		Middleware:  mw,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 8. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
