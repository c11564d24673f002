package main

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"courtscraper/internal/api"
	"courtscraper/internal/browser"
	"courtscraper/internal/config"
	"courtscraper/internal/monitoring"
	"courtscraper/internal/scraper"
	"courtscraper/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger, _ := zap.NewProduction()
		defer logger.Sync()
		logger.Fatal("could not load config", zap.Error(err))
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("scrape run failed", zap.Error(err))
	}
	logger.Info("scrape run complete")
}

// run holds every acquired resource behind a defer so teardown happens on
// all exit paths, including failures during login or page processing.
func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	var sink storage.RecordSink
	if cfg.PostgresURL != "" {
		pgSink, err := storage.NewPostgresSink(ctx, cfg.PostgresURL, cfg.TableName)
		if err != nil {
			return err
		}
		defer pgSink.Close()
		sink = pgSink
	} else {
		sink = storage.NewSupabaseSink(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.TableName)
	}

	var dedup *storage.RedisStore
	if cfg.RedisAddr != "" {
		dedup = storage.NewRedisStore(cfg.RedisAddr, time.Duration(cfg.DedupTTLDays)*24*time.Hour)
	}

	session := browser.NewSession(cfg.Headless, logger)
	defer session.Close()

	// Per-row downloads run on a plain HTTP channel keyed off the
	// browser's cookies; the browser itself stays single-threaded.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	download := resty.New().
		SetCookieJar(jar).
		SetTimeout(time.Duration(cfg.DownloadTimeoutMS) * time.Millisecond)

	auth := browser.NewAuth(session, cfg, jar, logger)
	walker, err := scraper.NewWalker(session, cfg.TargetURL, logger)
	if err != nil {
		return err
	}
	ingestor := scraper.NewIngestor(download, sink, dedup, metrics, logger, cfg.MaxContentChars)
	sched := scraper.NewScheduler(cfg, auth, walker, ingestor, metrics, logger)

	var ops *api.Server
	if cfg.ServerPort != "" {
		ops = api.NewServer(cfg.ServerPort, sink, dedup, logger)
		go func() {
			if err := ops.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("ops server stopped", zap.Error(err))
			}
		}()
		logger.Info("ops server started", zap.String("port", cfg.ServerPort))
	}

	runErr := sched.Run(ctx)

	if ops != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ops.Shutdown(shutdownCtx); err != nil {
			logger.Error("ops server shutdown failed", zap.Error(err))
		}
	}
	return runErr
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zcfg.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}
