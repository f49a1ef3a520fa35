package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"sentinel/internal/app/bootstrap"
	"sentinel/internal/app/version"
	"sentinel/internal/config"
)

func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	portFlag := flag.Int("port", config.DefaultPort, "Port for API server")
	productionFlag := flag.Bool("production", false, "Run in production mode")
	debugFlag := flag.Bool("debug", false, "Expose store failure details and log SQL")
	flag.Parse()

	cfg := config.Load(*productionFlag, *debugFlag)
	cfg.Port = resolvePort("PORT", "BACKEND_PORT", *portFlag)
	configureLogger(cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	info := version.Get()
	log.Info("Starting sentinel",
		"version", info.BuildVersion,
		"built_at", info.BuiltAt,
		"production", cfg.Production,
		"auth_mode", cfg.AuthMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := bootstrap.Setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := components.Close(); err != nil {
			log.Warn("error releasing resources", "error", err)
		}
	}()

	return components.Server.OpenRoutes(ctx, cfg.Port)
}

func configureLogger(cfg config.Config) {
	log.SetLevel(config.ParseLogLevel(cfg.LogLevel))
	log.SetReportTimestamp(true)
	if cfg.Production {
		log.SetFormatter(log.JSONFormatter)
	}
}

func resolvePort(primaryEnv, legacyEnv string, fallback int) int {
	if port := readPort(primaryEnv); port != 0 {
		return port
	}
	if port := readPort(legacyEnv); port != 0 {
		return port
	}
	return fallback
}

func readPort(envKey string) int {
	raw := os.Getenv(envKey)
	if raw == "" {
		return 0
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port == 0 {
		log.Warn("invalid port override", "env", envKey, "value", raw)
		return 0
	}
	return port
}
