package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/metrics"
	"github.com/vladislavdragonenkov/backoffice/internal/service/backoffice"
	"github.com/vladislavdragonenkov/backoffice/internal/service/fulfillment"
)

// RunFulfillment выполняет один проход отгрузки по хранилищу из cfg и возвращает число отгруженных заказов.
// События жизненного цикла публикуются, если настроен Kafka.
func RunFulfillment(ctx context.Context, cfg Config) (int, error) {
	logger := log.WithField("component", "fulfill")

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return 0, err
	}
	defer deps.close(logger)

	publisher, producer := initPublisher(cfg, logger)
	defer closeKafka(producer, logger)

	svc, err := backoffice.New(ctx, deps.repos,
		backoffice.WithPublisher(publisher),
		backoffice.WithMetrics(metrics.NewEngineMetrics(prometheus.NewRegistry())),
	)
	if err != nil {
		return 0, fmt.Errorf("init backoffice service: %w", err)
	}

	return fulfillment.NewWorker(svc, fulfillment.WithLogger(logger)).RunOnce(ctx)
}
