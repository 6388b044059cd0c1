package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/salesbook/internal/config"
	"github.com/mamadbah2/salesbook/internal/repository/mongodb"
	"github.com/mamadbah2/salesbook/internal/repository/records"
	"github.com/mamadbah2/salesbook/internal/repository/sheets"
	"github.com/mamadbah2/salesbook/internal/scheduler"
	"github.com/mamadbah2/salesbook/internal/server/handlers"
	"github.com/mamadbah2/salesbook/internal/server/router"
	authsvc "github.com/mamadbah2/salesbook/internal/service/auth"
	calendarsvc "github.com/mamadbah2/salesbook/internal/service/calendar"
	notifysvc "github.com/mamadbah2/salesbook/internal/service/notify"
	reportingsvc "github.com/mamadbah2/salesbook/internal/service/reporting"
	salessvc "github.com/mamadbah2/salesbook/internal/service/sales"
	"github.com/mamadbah2/salesbook/pkg/clients/holidays"
	"github.com/mamadbah2/salesbook/pkg/clients/mailer"
	"github.com/mamadbah2/salesbook/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	location, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}

	table, err := newTable(cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init sales table", zap.Error(err))
	}

	store := records.NewStore(table, logger.Named(baseLogger, "repo.records"))
	reportingSvc := reportingsvc.NewService(store, logger.Named(baseLogger, "svc.reporting"))

	var salesOpts []salessvc.Option
	var reminder scheduler.Reminder
	if cfg.SMTP.Enabled() {
		mailClient := mailer.NewClient(cfg.SMTP, logger.Named(baseLogger, "client.mailer"))
		notifier := notifysvc.NewService(mailClient, cfg.SMTP.To, logger.Named(baseLogger, "svc.notify"))
		salesOpts = append(salesOpts, salessvc.WithNotifier(notifier))
		reminder = notifier
	} else {
		baseLogger.Warn("SMTP_SERVER not set, sales emails disabled")
	}

	if cfg.MongoDB.URI != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named(baseLogger, "repo.mongodb"))
		cancel()
		if err != nil {
			baseLogger.Warn("mongodb archive unavailable, continuing without it", zap.Error(err))
		} else {
			salesOpts = append(salesOpts, salessvc.WithArchive(mongoRepo))
			defer func() {
				if err := mongoRepo.Close(context.Background()); err != nil {
					baseLogger.Error("failed to close mongodb connection", zap.Error(err))
				}
			}()
		}
	}

	salesSvc := salessvc.NewService(store, reportingSvc, logger.Named(baseLogger, "svc.sales"), salesOpts...)
	calendarSvc := calendarsvc.NewService(holidays.NewClient(cfg.Holidays), location, logger.Named(baseLogger, "svc.calendar"))

	if len(cfg.Auth.Users) == 0 {
		baseLogger.Warn("no users configured, nobody can log in")
	}
	authSvc := authsvc.NewService(cfg.Auth, logger.Named(baseLogger, "svc.auth"))

	authHandler := handlers.NewAuthHandler(authSvc, logger.Named(baseLogger, "handlers.auth"))
	salesHandler := handlers.NewSalesHandler(salesSvc, calendarSvc, location, logger.Named(baseLogger, "handlers.sales"))
	engine := router.New(authHandler, salesHandler, logger.Named(baseLogger, "router"))

	if cfg.Reporting.ReminderEnabled {
		sched := scheduler.NewScheduler(cfg.Reporting, location, calendarSvc, store, reminder, logger.Named(baseLogger, "scheduler"))
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newTable(cfg *config.Config, baseLogger *zap.Logger) (sheets.Table, error) {
	if cfg.Store.Backend == config.BackendSheets {
		repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			return nil, err
		}
		return repo, nil
	}

	if _, err := os.Stat(cfg.Store.WorkbookPath); err != nil {
		baseLogger.Warn("workbook not readable yet, create it with initbook",
			zap.String("path", cfg.Store.WorkbookPath), zap.Error(err))
	}
	return sheets.NewWorkbookRepository(cfg.Store.WorkbookPath, logger.Named(baseLogger, "repo.workbook")), nil
}
