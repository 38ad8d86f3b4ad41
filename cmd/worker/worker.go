// Package worker wires the clearance pipeline and its ops HTTP surface.
package worker

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/clearops/clearanced/internal/clearingservice"
	"github.com/clearops/clearanced/internal/consumer"
	"github.com/clearops/clearanced/internal/idemgate"
	"github.com/clearops/clearanced/internal/ledgerrepo"
	"github.com/clearops/clearanced/internal/notifier"
	"github.com/clearops/clearanced/pkg/configpkg"
)

// Worker runs the message consumer and the ops server.
type Worker struct {
	consumer *consumer.Consumer
	ops      *http.Server
	logger   zerolog.Logger
}

// New assembles the pipeline from its external collaborators.
func New(db *sql.DB, rdb *redis.Client, conn *amqp.Connection, logger zerolog.Logger, config configpkg.Config) (*Worker, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	if err := consumer.SetupTopology(ch, config.ConsumeQueue); err != nil {
		return nil, err
	}

	store := ledgerrepo.NewStorePGS(db)
	gate := idemgate.NewGateRDS(rdb, config.IdempotencyTTL)
	clearer := clearingservice.New(store)
	dispatcher := notifier.NewAMQPNotifier(ch, config.NotificationExchange)
	handler := consumer.NewHandler(gate, clearer, dispatcher)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := consumer.NewMetrics(registry)

	c := consumer.New(ch, config.ConsumeQueue, config.Concurrency, logger, metrics, handler.Process)

	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.GET("/healthz", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return &Worker{
		consumer: c,
		ops: &http.Server{
			Addr:    config.OpsAddress,
			Handler: engine,
		},
		logger: logger,
	}, nil
}

// Run blocks consuming messages until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	go func() {
		if err := w.ops.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			w.logger.Error().Err(err).Msg("ops server stopped")
		}
	}()

	return w.consumer.Run(ctx)
}

// Shutdown stops the ops server.
func (w *Worker) Shutdown(ctx context.Context) error {
	return w.ops.Shutdown(ctx)
}
