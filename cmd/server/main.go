package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/AzuraKiko/CBOE-log/internal/app/engine"
	depth "github.com/AzuraKiko/CBOE-log/internal/infrastructure/questdb/depth"
	"github.com/AzuraKiko/CBOE-log/internal/usecase/depthcache"
	"github.com/AzuraKiko/CBOE-log/internal/usecase/feedreader"
	"github.com/AzuraKiko/CBOE-log/pkg/config"
	"github.com/AzuraKiko/CBOE-log/pkg/logger"
	"github.com/AzuraKiko/CBOE-log/pkg/questdb"
	"github.com/AzuraKiko/CBOE-log/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		panic(err)
	}

	log = l
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	rclient := redis.NewClient(log, &cfg.Redis)
	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}

	qclient, err := questdb.NewClient(ctx, cfg.QuestDB)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_questdb",
		})
		return
	}

	repository := depth.NewRepository(qclient)
	if err := repository.EnsureTables(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "ensure_tables",
		})
		return
	}

	reader := feedreader.NewReader(cfg.Kafka, log)
	accumulator := feedreader.NewAccumulator()
	cache := depthcache.NewStore(rclient, log)

	engine := app.NewEngine(
		reader,
		accumulator,
		cache,
		repository,
		log,
		cfg,
	)

	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("Depth service started successfully", logger.Field{
		Key:   "topic",
		Value: cfg.Kafka.Topic,
	})

	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "disconnect_redis",
		})
	}

	qclient.Close()

	log.Info("Depth service shutdown complete")
}
