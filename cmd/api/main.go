package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/export"
	reportService "github.com/cmlabs-hris/hris-attendance-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	var holidays *holiday.Calendar
	if cfg.Attendance.HolidayFile != "" {
		holidays, err = holiday.Load(cfg.Attendance.HolidayFile)
		if err != nil {
			log.Fatal("Failed to load holiday calendar: ", err)
		}
	}

	var fileStorage *storage.LocalStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(
			cfg.Storage.BasePath,
			cfg.Storage.BaseURL,
		)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage types: ", cfg.Storage.Type)
	}

	clk := clock.RealClock{Location: cfg.Location()}
	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, holidays, clk, attendanceService.Options{
		WorkHours: attendance.WorkHours{
			Day:   cfg.Attendance.DayShiftHours,
			Night: cfg.Attendance.NightShiftHours,
		},
		AllowFutureDates: cfg.Attendance.AllowFutureDates,
		Tx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
	})
	reportSvc := reportService.NewReportService(attendanceSvc, reportRepo, export.NewArchiver(fileStorage))

	var filesPrefix string
	if u, err := url.Parse(cfg.Storage.BaseURL); err == nil {
		filesPrefix = u.Path
	}

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		DateRange:  appHTTP.NewDateRangeHandler(clk, cfg.Attendance.AllowFutureDates),
		Calendar:   appHTTP.NewCalendarHandler(clk, holidays),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
	}, appHTTP.RouterOptions{
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       cfg.SlogLevel(),
		FilesDir:       cfg.Storage.BasePath,
		FilesPrefix:    filesPrefix,
	})

	if cfg.Export.ArchiveEnabled {
		scheduler := cron.NewScheduler(ctx)
		cron.NewExportJobs(attendanceRepo, reportSvc, clk, cfg.Export.ArchiveInterval).RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		stop()
	}
	<-shutdownDone
	slog.Info("Server stopped")
}
