package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gamearena"
	"gamearena/internal/arena"
	"gamearena/internal/coach"
	"gamearena/internal/config"
	"gamearena/internal/logging"
	"gamearena/internal/ratelimit"
	"gamearena/internal/server"
	"gamearena/internal/session"
	"gamearena/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("open database", zap.String("path", cfg.DBPath), zap.Error(err))
	}
	defer store.Close()

	registry := arena.DefaultRegistry()

	mgr := session.NewManager(registry, store, logger)
	if n, err := mgr.Reconcile(); err != nil {
		logger.Warn("reconcile sessions", zap.Error(err))
	} else if n > 0 {
		logger.Info("dropped stale sessions", zap.Int("count", n))
	}

	var limiter *ratelimit.Limiter
	if rdb := ratelimit.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger); rdb != nil {
		defer rdb.Close()
		limiter = ratelimit.New(rdb, cfg.CoachRateLimit, cfg.CoachRateWindow, logger)
	}

	var completer coach.Completer
	if cfg.OpenAIKey != "" {
		completer = coach.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.CoachModel)
	} else {
		logger.Info("no OpenAI key, coach will answer with fallback tips")
	}

	webFS, err := staticFS(cfg.WebDir)
	if err != nil {
		logger.Fatal("static files", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go mgr.CleanupLoop(ctx, cfg.CleanupInterval, cfg.SessionMaxAge)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: server.New(server.Deps{
			Registry: registry,
			Manager:  mgr,
			Store:    store,
			Coach:    coach.New(completer, cfg.CoachTimeout, logger),
			Limiter:  limiter,
			WebFS:    webFS,
			Logger:   logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// staticFS serves dir from disk when set, otherwise the embedded client.
func staticFS(dir string) (fs.FS, error) {
	if dir != "" {
		return os.DirFS(dir), nil
	}
	return fs.Sub(gamearena.WebFS, "web")
}
