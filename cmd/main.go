// Package clearanced runs the payment clearance worker.
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clearops/clearanced/cmd/worker"
	"github.com/clearops/clearanced/internal/middleware"
	"github.com/clearops/clearanced/pkg/configpkg"
	"github.com/clearops/clearanced/pkg/dbpkg"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource, config.DBMaxOpenConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	rdb := redis.NewClient(&redis.Options{Addr: config.RedisAddress})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to redis")
	}

	conn, err := amqp.Dial(config.AMQPSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to broker")
	}
	defer conn.Close()

	w, err := worker.New(db, rdb, conn, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Msg("CLEARANCE WORKER HAS STARTED")

	if err := w.Run(ctx); err != nil && err != context.Canceled {
		logger.Error().Err(err).Msg("consumer stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := w.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("cannot shut down ops server")
	}
}
