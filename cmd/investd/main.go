package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yuanzh/investlib/internal/logging"
	"github.com/yuanzh/investlib/server"
)

func main() {
	logCfg := logging.DefaultConfig()
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		logCfg.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		logCfg.Format = v
	}
	log := logging.New(logCfg)
	defer log.Sync()

	var cache server.Cache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cache = server.NewRedisCache(addr)
		log.Info("using redis cache", zap.String("addr", addr))
	} else {
		cache = server.NewMemoryCache()
		log.Info("using in-memory cache")
	}

	handler := server.NewHandler(log, cache)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler.Mux(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error("server failed", zap.Error(err))
		os.Exit(1)
	case <-quit:
		log.Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
