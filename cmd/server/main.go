package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	ossignal "os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/innosenze88/ExpertAdvisor/internal/config"
	"github.com/innosenze88/ExpertAdvisor/internal/metrics"
	"github.com/innosenze88/ExpertAdvisor/internal/server"
	"github.com/innosenze88/ExpertAdvisor/internal/strategy"
	"github.com/innosenze88/ExpertAdvisor/internal/util"
)

const defaultConfigPath = "internal/config/config.yaml"

func main() {
	_ = godotenv.Load() // best-effort
	log := util.NewLogger("info")

	cfg, err := loadConfig(log)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.App.Pretty {
		log = util.NewConsoleLogger(cfg.App.LogLevel)
	} else {
		log = util.NewLogger(cfg.App.LogLevel)
	}

	ctx, cancel := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	strat, err := strategy.Build(cfg.Strategy.Mode, cfg.Strategy.StrategyParams())
	if err != nil {
		log.Fatal().Err(err).Msg("build strategy")
	}
	srv := server.New(cfg.Server, strat, log)
	if err := srv.Listen(ctx); err != nil {
		log.Fatal().Err(err).Msg("bind listener")
	}
	log.Info().Str("strategy", strat.Name()).Str("env", cfg.App.Env).Msg("signal engine loaded")

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.Serve(gctx)
	})
	if cfg.App.MetricsAddr != "" {
		runMetrics(gctx, group, cfg.App.MetricsAddr, log)
	}

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	log.Info().Msg("shut down")
}

func runMetrics(ctx context.Context, group *errgroup.Group, addr string, log zerolog.Logger) {
	ms := metrics.Serve(addr)
	group.Go(func() error {
		log.Info().Str("addr", addr).Msg("metrics up")
		if err := ms.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return ms.Shutdown(shutdownCtx)
	})
}

// loadConfig reads EA_CONFIG (or the default path) and applies EA_HOST, EA_PORT and EA_LOG_LEVEL.
// A missing file means the built-in defaults.
func loadConfig(log zerolog.Logger) (*config.Config, error) {
	path := getEnv("EA_CONFIG", defaultConfigPath)
	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info().Str("path", path).Msg("no config file, using defaults")
		def := config.Default()
		cfg = &def
	case err != nil:
		return nil, err
	}

	cfg.Server.Host = getEnv("EA_HOST", cfg.Server.Host)
	cfg.App.LogLevel = getEnv("EA_LOG_LEVEL", cfg.App.LogLevel)
	if raw := os.Getenv("EA_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("EA_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	return cfg, cfg.Validate()
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
