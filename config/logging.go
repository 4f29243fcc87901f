package config

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

// LogWriter is the writer used for application and database logs.
var LogWriter io.Writer = os.Stdout

func LogFilePath() string {
	return filepath.Join("logs", "cuti-dinas-api.log")
}

// InitLogging menyiapkan file log lalu memasang slog JSON sebagai logger
// default. Kegagalan membuka file hanya menurunkan output ke stdout.
func InitLogging(environment string) (*os.File, io.Writer) {
	level := slog.LevelDebug
	if environment == "production" {
		level = slog.LevelInfo
	}
	defer func() {
		slog.SetDefault(slog.New(slog.NewJSONHandler(LogWriter, &slog.HandlerOptions{Level: level})))
	}()

	if err := os.MkdirAll(filepath.Dir(LogFilePath()), os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	}
	logFile, err := os.OpenFile(LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
		LogWriter = os.Stdout
		log.SetOutput(LogWriter)
		return nil, LogWriter
	}

	LogWriter = io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(LogWriter)
	return logFile, LogWriter
}
