package main

import (
	"log"
	"log/slog"
	"os"

	"cuti-dinas-backend/config"
	"cuti-dinas-backend/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env manual karena ini script terpisah
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: File .env tidak ditemukan, menggunakan environment variables sistem.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("konfigurasi tidak valid: %v", err)
	}
	config.InitLogging(cfg.Environment)

	fx, err := database.DefaultFixtures()
	if err != nil {
		slog.Error("fixture seed tidak valid", "error", err)
		os.Exit(1)
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
	if err := database.SeedAll(db, fx); err != nil {
		slog.Error("seeding gagal", "error", err)
		os.Exit(1)
	}
}
