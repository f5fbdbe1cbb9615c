package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nilsson-hagberg/warehouse/internal/allocator"
	httpapi "github.com/nilsson-hagberg/warehouse/internal/api/http"
	"github.com/nilsson-hagberg/warehouse/internal/config"
	"github.com/nilsson-hagberg/warehouse/internal/eventlog"
	"github.com/nilsson-hagberg/warehouse/internal/filter"
	"github.com/nilsson-hagberg/warehouse/internal/manager"
)

func main() {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	log := zap.Must(logConfig.Build())
	defer log.Sync()
	log = log.Named("main")

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	strategy := newStrategy(cfg.Allocator)

	chain := filter.NewChain()
	if cfg.MaxQuantity > 0 {
		chain.Append(filter.MaxQuantity{Max: cfg.MaxQuantity})
	}

	opts := []manager.Option{manager.WithLogger(log), manager.WithFilterChain(chain)}
	if cfg.RedisAddr != "" {
		rlog := eventlog.NewRedisLog(cfg.RedisAddr, cfg.RedisDB, log, eventlog.WithChannel(cfg.EventChannel))
		defer rlog.Close()
		opts = append(opts, manager.WithEventSink(eventlog.NewSink(log, rlog, nil)))
		log.Info("event log enabled", zap.String("addr", cfg.RedisAddr), zap.String("channel", cfg.EventChannel))
	}

	mgr := manager.New(cfg.Dims, strategy, opts...)
	log.Info("warehouse ready",
		zap.Int("rows", cfg.Dims.Rows),
		zap.Int("shelves", cfg.Dims.Shelves),
		zap.Int("zones", cfg.Dims.Zones),
		zap.String("allocator", string(cfg.Allocator)),
	)

	router := httpapi.NewRouter(log, mgr, httpapi.Options{Dev: cfg.Env == "dev"})

	srv := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 15,
		ErrorLog:       zap.NewStdLog(log.Named("http").WithOptions(zap.AddCallerSkip(1))),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("running HTTP server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newStrategy(name config.Allocator) allocator.Strategy {
	if name == config.AllocatorRoundRobin {
		return allocator.NewRoundRobin()
	}
	return allocator.NewProximity()
}
