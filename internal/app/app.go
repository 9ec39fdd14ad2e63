package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"somni-backend/internal/api"
	"somni-backend/internal/config"
	"somni-backend/internal/store"
)

// Run boots the mock API server: load config, set up logging, open the JSON
// document store, wire the router and serve. It returns a process exit code.
func Run() int {
	cfg, err := config.Load()
	if err != nil {
		// slog is not yet configured, so use the default logger for this
		// critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	SetupLogger(cfg.LogLevel)
	logConfigSource()

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("Failed to open document store", "error", err, "path", cfg.DatabasePath)
		return 1
	}
	slog.Info("Document store ready", "path", cfg.DatabasePath)

	nlqProxy, err := api.NewNLQProxy(cfg.NLQURL)
	if err != nil {
		slog.Error("Failed to configure NLQ proxy", "error", err)
		return 1
	}

	storeHandler := api.NewStoreHandler(db)
	router := api.NewRouter(storeHandler, nlqProxy, cfg.StaticDir)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("Starting server", "port", cfg.AppPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Loaded configuration from file", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

// SetupLogger installs a JSON slog handler at the configured level as the
// process-wide default.
func SetupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
