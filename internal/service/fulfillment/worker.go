package fulfillment

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

const defaultInterval = time.Minute

var (
	fulfillmentRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_fulfillment_worker_runs_total",
		Help: "Total number of fulfillment worker runs grouped by result.",
	}, []string{"result"})
	fulfillmentLastShipped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "backoffice_fulfillment_worker_last_shipped",
		Help: "Number of orders shipped during the last worker run.",
	})
)

// Advancer переводит в shipped все заказы с наступившей датой отправки.
type Advancer interface {
	AdvanceDueOrders(ctx context.Context) (int, error)
}

// Options задает параметры воркера отгрузки.
type Options struct {
	Logger   *log.Entry
	Interval time.Duration
}

// Option настраивает Worker.
type Option func(*Options)

// WithLogger задает logger для воркера.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithInterval задает интервал между проходами.
func WithInterval(interval time.Duration) Option {
	return func(opts *Options) {
		opts.Interval = interval
	}
}

// Worker периодически отгружает заказы, у которых наступила дата отправки.
type Worker struct {
	advancer Advancer
	logger   *log.Entry
	interval time.Duration
}

// NewWorker создает воркер отгрузки.
func NewWorker(advancer Advancer, options ...Option) *Worker {
	opts := Options{Interval: defaultInterval}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "fulfillment-worker")
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}

	return &Worker{
		advancer: advancer,
		logger:   logger,
		interval: opts.Interval,
	}
}

// Run выполняет проход сразу и затем каждые interval до отмены ctx.
func (w *Worker) Run(ctx context.Context) {
	if w.advancer == nil {
		w.logger.Warn("fulfillment worker is disabled: advancer is nil")
		return
	}

	w.tick(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	if _, err := w.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
		w.logger.WithError(err).Warn("fulfillment run failed")
	}
}

// RunOnce выполняет один проход. Частичный сбой возвращает и число отгруженных, и ошибку.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	shipped, err := w.advancer.AdvanceDueOrders(ctx)
	fulfillmentLastShipped.Set(float64(shipped))

	switch {
	case err == nil:
		fulfillmentRunsTotal.WithLabelValues("ok").Inc()
	case errors.Is(err, context.Canceled):
		return shipped, err
	case shipped > 0:
		fulfillmentRunsTotal.WithLabelValues("partial").Inc()
	default:
		fulfillmentRunsTotal.WithLabelValues("error").Inc()
	}

	if shipped > 0 {
		w.logger.WithField("shipped", shipped).Info("fulfillment run completed")
	}
	return shipped, err
}
