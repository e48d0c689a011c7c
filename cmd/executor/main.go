package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yanun0323/logs"

	"main/internal/config"
	"main/internal/ingest"
	"main/internal/order"
	binance "main/internal/order/delegator/binance"
	bybit "main/internal/order/delegator/bybit"
	"main/internal/publish"
	"main/pkg/conn"
)

const statsInterval = time.Minute

func main() {
	if err := run(); err != nil {
		logs.Errorf("executor: %+v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	logs.Infof("starting execution engine, redis: %s", cfg.RedisURL)

	if cfg.PyroscopeAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "xor.executor",
			ServerAddress:   cfg.PyroscopeAddr,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileInuseObjects,
			},
		})
		if err != nil {
			logs.Warnf("start profiler, err: %+v", err)
		} else {
			defer func() { _ = profiler.Stop() }()
		}
	}

	client, err := conn.New(ctx, conn.Option{URL: cfg.RedisURL})
	if err != nil {
		return err
	}
	defer client.Close()

	binanceDelegator := binance.NewDelegator(nil, binance.Credentials{
		Key:    cfg.Binance.APIKey,
		Secret: cfg.Binance.APISecret,
	}, cfg.EnableTestnet)
	bybitDelegator := bybit.NewDelegator(nil, bybit.Credentials{
		Key:    cfg.Bybit.APIKey,
		Secret: cfg.Bybit.APISecret,
	}, cfg.EnableTestnet)

	publisher := publish.NewPublisher(client.Redis(), cfg.ResultChannel)

	router := order.NewRouter(order.Config{
		QueueCapacity: cfg.QueueCapacity,
		MaxInFlight:   cfg.MaxInFlight,
		MaxOrderRate:  cfg.MaxOrderRate,
	}, binanceDelegator, bybitDelegator, publisher)
	defer router.Close()

	listener := ingest.NewListener(client.Redis(), cfg.OrderChannel, router.Handle)

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr)
	}
	go reportStats(ctx, router)
	go router.Run(ctx)

	// blocks until shutdown or the subscription dies
	if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	logs.Info("shutting down execution engine")
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logs.Infof("metrics listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logs.Errorf("metrics server, err: %+v", err)
	}
}

func reportStats(ctx context.Context, router *order.Router) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := router.Stats()
			logs.Infof("execution stats: orders=%d avg=%.2fms min=%dms max=%dms pending=%d",
				stats.TotalOrders, stats.AvgLatencyMs, stats.MinLatencyMs, stats.MaxLatencyMs, router.Pending())
		}
	}
}
