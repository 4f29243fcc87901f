package config

import (
	"fmt"
	"log"

	"cuti-dinas-backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDB membuka koneksi sesuai DB_DRIVER. Log SQL ditulis ke LogWriter.
func ConnectDB(c DBConfig, environment string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.Driver {
	case "postgres":
		dialector = postgres.Open(c.DSN())
	default:
		dialector = mysql.Open(c.DSN())
	}

	// Di production log SQL ditekan kecuali DEBUG_SQL=true.
	logLevel := logger.Info
	if environment == "production" && !c.DebugSQL {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{LogLevel: logLevel, IgnoreRecordNotFoundError: true},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("koneksi database %s: %w", c.Driver, err)
	}
	return db, nil
}

// Migrate membuat tabel otomatis berdasarkan struct di folder model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Instansi{},
		&model.UnitKerja{},
		&model.Pegawai{},
		&model.PengajuanCuti{},
		&model.PengajuanDinas{},
		&model.DokumenPendukung{},
	)
}
