package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cuti-dinas-backend/config"
	"cuti-dinas-backend/internal/auth"
	"cuti-dinas-backend/internal/handler"
	"cuti-dinas-backend/internal/notifier"
	"cuti-dinas-backend/internal/repository"
	"cuti-dinas-backend/internal/routes"
	"cuti-dinas-backend/internal/storage"
	"cuti-dinas-backend/internal/tracing"
	"cuti-dinas-backend/internal/usecase"
	"cuti-dinas-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

const serviceName = "cuti-dinas-api"

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: File .env tidak ditemukan, menggunakan environment variables sistem.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("konfigurasi tidak valid: %v", err)
	}
	logFile, logWriter := config.InitLogging(cfg.Environment)
	if logFile != nil {
		defer logFile.Close()
	}

	if cfg.TraceOutput != "" {
		if err := tracing.Init(serviceName, version, cfg.TraceOutput); err != nil {
			slog.Warn("tracing tidak aktif", "error", err)
		}
	}

	db, err := config.ConnectDB(cfg.DB, cfg.Environment)
	if err != nil {
		slog.Error("gagal koneksi database", "error", err)
		os.Exit(1)
	}
	if err := config.Migrate(db); err != nil {
		slog.Error("auto migrate gagal", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	files, err := storage.NewAFSStore(ctx, cfg.StorageURL)
	if err != nil {
		slog.Error("penyimpanan dokumen tidak siap", "storage_url", cfg.StorageURL, "error", err)
		os.Exit(1)
	}

	store := repository.NewStore(db)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	rules := validation.DefaultEvidenceRules()
	rules.MaxBytes = cfg.MaxUpload

	pengajuan := usecase.NewPengajuanUsecase(
		store,
		files,
		storage.NewURLSigner(cfg.URLSecret, cfg.URLTTL),
		notifier.New(cfg.SMTP),
		rules,
	)

	app := fiber.New(fiber.Config{
		AppName:      serviceName,
		BodyLimit:    int(cfg.MaxUpload) + 1<<20,
		ErrorHandler: handler.ErrorHandler,
	})

	// Middleware Global
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${latency} ${method} ${path}\n",
		Output: logWriter,
	}))

	routes.Setup(app, routes.Deps{
		Pengajuan: pengajuan,
		Auth:      usecase.NewAuthUsecase(store.Pegawai(), tokens),
		Tokens:    tokens,
		MaxUpload: cfg.MaxUpload,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("menghentikan server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Error("shutdown server gagal", "error", err)
		}
	}()

	slog.Info("server siap", "port", cfg.Port, "db_driver", cfg.DB.Driver)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server berhenti", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := tracing.Shutdown(shutdownCtx); err != nil {
		slog.Warn("flush trace gagal", "error", err)
	}
}
