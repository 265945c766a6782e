package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/odpc9/attendance-backend-go/internal/config"
	"github.com/odpc9/attendance-backend-go/internal/domain/attendance"
	"github.com/odpc9/attendance-backend-go/internal/domain/leave"
	"github.com/odpc9/attendance-backend-go/internal/domain/travel"
	appHTTP "github.com/odpc9/attendance-backend-go/internal/handler/http"
	"github.com/odpc9/attendance-backend-go/internal/pkg/cache"
	"github.com/odpc9/attendance-backend-go/internal/pkg/cron"
	"github.com/odpc9/attendance-backend-go/internal/pkg/database"
	"github.com/odpc9/attendance-backend-go/internal/pkg/drive"
	"github.com/odpc9/attendance-backend-go/internal/pkg/jwt"
	"github.com/odpc9/attendance-backend-go/internal/pkg/storage"
	"github.com/odpc9/attendance-backend-go/internal/repository/postgresql"
	"github.com/odpc9/attendance-backend-go/internal/repository/workbook"
	attendanceService "github.com/odpc9/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/odpc9/attendance-backend-go/internal/service/auth"
	"github.com/odpc9/attendance-backend-go/internal/service/file"
	leaveService "github.com/odpc9/attendance-backend-go/internal/service/leave"
	"github.com/odpc9/attendance-backend-go/internal/service/reconcile"
	reportService "github.com/odpc9/attendance-backend-go/internal/service/report"
	travelService "github.com/odpc9/attendance-backend-go/internal/service/travel"
)

const version = "v1.0.0"

type repositories struct {
	leaves  leave.LeaveRepository
	travels travel.TravelRepository
	scans   attendance.ScanRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", "attendance-backend"),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := cron.NewScheduler()
	var closers []func() error

	var repos repositories
	switch cfg.Tables.Store {
	case config.StorePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.Database.MaxConns)
		if err != nil {
			log.Fatal("Error connecting to database: ", err)
		}
		closers = append(closers, func() error { db.Close(); return nil })

		if err := database.RunMigrations(db); err != nil {
			log.Fatal("Error running migrations: ", err)
		}

		repos = repositories{
			leaves:  postgresql.NewLeaveRepository(db),
			travels: postgresql.NewTravelRepository(db),
			scans:   postgresql.NewScanRepository(db),
		}

	case config.StoreDrive:
		driveClient, err := drive.NewClient(ctx, cfg.Drive.FolderID, cfg.Drive.CredentialsFile, cfg.Drive.CredentialsJSON)
		if err != nil {
			log.Fatal("Error connecting to Google Drive: ", err)
		}

		var store workbook.Store = driveClient
		if cfg.Redis.Addr != "" {
			redisClient, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
			if err != nil {
				log.Fatal("Error connecting to Redis: ", err)
			}
			closers = append(closers, redisClient.Close)

			cached := workbook.NewCachedStore(driveClient, redisClient)
			store = cached
			if cfg.Drive.RefreshInterval > 0 {
				cron.NewWorkbookJobs(cached, cfg.Drive.LeaveFile, cfg.Drive.TravelFile, cfg.Drive.ScanFile).
					RegisterJobs(scheduler, cfg.Drive.RefreshInterval)
			}
		}

		repos = repositories{
			leaves:  workbook.NewLeaveRepository(store, cfg.Drive.LeaveFile),
			travels: workbook.NewTravelRepository(store, cfg.Drive.TravelFile),
			scans:   workbook.NewScanRepository(store, cfg.Drive.ScanFile),
		}
	}

	var fileStorage storage.FileStorage
	uploadPath := ""
	switch cfg.Storage.Type {
	case config.StorageLocal:
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
		uploadPath = cfg.Storage.BasePath
	case config.StorageGCS:
		gcsStorage, err := storage.NewGCSStorage(ctx, cfg.Storage.Bucket, cfg.Storage.CredentialsJSON)
		if err != nil {
			log.Fatal("Failed to initialize GCS storage: ", err)
		}
		closers = append(closers, gcsStorage.Close)
		fileStorage = gcsStorage
	}
	fileService := file.NewFileService(fileStorage)

	workHours, err := reconcile.ParseWorkHours(cfg.Attendance.WorkStart, cfg.Attendance.WorkEnd)
	if err != nil {
		log.Fatal("Invalid work hours: ", err)
	}
	identity := reconcile.NewIdentity(reconcile.IdentityPolicy{
		Aliases:     reconcile.ParseAliases(cfg.Attendance.Aliases),
		StripTitles: cfg.Attendance.StripTitles,
	})
	engine := reconcile.NewEngine(identity, workHours)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if cfg.Admin.PasswordHash == "" {
		slog.Warn("ADMIN_PASSWORD_HASH is empty, admin login is disabled")
	}
	authService := serviceAuth.NewAuthService(cfg.Admin.PasswordHash, JWTService)
	leaveSvc := leaveService.NewLeaveService(repos.leaves, fileService)
	travelSvc := travelService.NewTravelService(repos.travels, fileService, identity)
	scanSvc := attendanceService.NewScanService(repos.scans, workbook.NewScanParser())
	reportSvc := reportService.NewReportService(repos.leaves, repos.travels, repos.scans, engine, reportService.Options{
		CollapseLeave: cfg.Attendance.CollapseLeaveSubtypes,
		Timeout:       cfg.Attendance.ReportTimeout,
	})

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Auth:   appHTTP.NewAuthHandler(authService),
		Leave:  appHTTP.NewLeaveHandler(leaveSvc),
		Travel: appHTTP.NewTravelHandler(travelSvc),
		Scan:   appHTTP.NewScanHandler(scanSvc),
		Report: appHTTP.NewReportHandler(reportSvc),
		Meta:   appHTTP.NewMetaHandler(),
	}, appHTTP.RouterOptions{
		Env:            cfg.App.Env,
		Version:        version,
		AllowedOrigins: cfg.App.AllowedOrigins,
		UploadPath:     uploadPath,
	})

	scheduler.Start(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Attendance.ReportTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", srv.Addr, "table_store", cfg.Tables.Store, "storage", cfg.Storage.Type)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	scheduler.Stop()

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			slog.Error("Close error", "error", err)
		}
	}
}
