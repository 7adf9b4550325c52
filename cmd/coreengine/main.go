package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"novacrypt-core/config"
	"novacrypt-core/internal/feed"
	"novacrypt-core/internal/logger"
	"novacrypt-core/internal/metrics"
	"novacrypt-core/internal/model"
	"novacrypt-core/internal/pipeline"
	redisstore "novacrypt-core/internal/store/redis"
)

func main() {
	cfg := config.Load()
	log := logger.Init("coreengine", logger.ParseLevel(cfg.LogLevel))
	log.Info("starting")

	prom := metrics.NewMetrics()
	metricsSrv := metrics.NewServer(cfg.MetricsAddr)
	metricsSrv.Start()

	pipe := pipeline.New(pipeline.Config{
		UpdateInterval: cfg.UpdateInterval,
		MaxQueueSize:   cfg.MaxQueueSize,
		HistorySize:    cfg.QualityHistorySize,
		SMAPeriods:     config.ParsePeriods(cfg.SMAPeriods),
		EMAPeriods:     config.ParsePeriods(cfg.EMAPeriods),
	}, prom)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional live snapshot publishing.
	if cfg.RedisAddr != "" {
		pub, err := redisstore.New(redisstore.PublisherConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			log.Warn("redis unavailable, continuing without publisher", "err", err)
		} else {
			defer pub.Close()
			pipe.OnMarketData(func(tick model.MarketTick) {
				pubCtx, pubCancel := context.WithTimeout(ctx, 2*time.Second)
				defer pubCancel()
				if err := pub.PublishFeatures(pubCtx, pipe.LatestFeatures()); err != nil {
					log.Warn("feature publish failed", "err", err)
				}
				if err := pub.PublishQuality(pubCtx, tick.Source, pipe.QualityMetrics(tick.Source)); err != nil {
					log.Warn("quality publish failed", "err", err)
				}
			})
		}
	}

	pipe.Start()
	defer pipe.Stop()

	binance := feed.NewBinance(cfg.BinanceSymbol, log)
	go func() {
		if err := binance.Run(ctx, pipe); err != nil && ctx.Err() == nil {
			log.Error("feed exited", "err", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutting down")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	metricsSrv.Stop(shutdownCtx)
}
