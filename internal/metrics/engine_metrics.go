package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Причины отказа в удалении.
const (
	RejectReferenced = "referenced"
	RejectShipped    = "shipped"
)

// EngineMetrics содержит метрики движка заказов.
// Методы безопасны для nil-получателя: сервис может работать без метрик.
type EngineMetrics struct {
	// Каталог и клиенты
	itemsCreated          prometheus.Counter
	duplicateDescriptions prometheus.Counter
	customersRegistered   prometheus.Counter

	// Заказы
	ordersPlaced  prometheus.Counter
	ordersShipped prometheus.Counter
	ordersDeleted prometheus.Counter

	// Отказы удаления по сущности и причине
	deletionsRejected *prometheus.CounterVec

	// Прогоны AdvanceDueOrders
	advanceDuration prometheus.Histogram
	advanceRuns     *prometheus.CounterVec

	timelineEvents  prometheus.Counter
	eventsPublished *prometheus.CounterVec
}

// NewEngineMetrics регистрирует метрики в registerer (при nil используется DefaultRegisterer).
// Повторная регистрация возвращает уже существующие коллекторы.
func NewEngineMetrics(registerer prometheus.Registerer) *EngineMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &EngineMetrics{
		itemsCreated: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_items_created_total",
			Help: "Total number of catalog items created",
		})),
		duplicateDescriptions: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_item_duplicate_descriptions_total",
			Help: "Total number of items created with an already existing description",
		})),
		customersRegistered: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_customers_registered_total",
			Help: "Total number of customers registered",
		})),
		ordersPlaced: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_orders_placed_total",
			Help: "Total number of orders placed",
		})),
		ordersShipped: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_orders_shipped_total",
			Help: "Total number of orders transitioned to shipped",
		})),
		ordersDeleted: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_orders_deleted_total",
			Help: "Total number of pending orders deleted",
		})),
		deletionsRejected: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_deletions_rejected_total",
			Help: "Total number of rejected deletions grouped by entity and reason",
		}, []string{"entity", "reason"})),
		advanceDuration: register(registerer, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "backoffice_advance_duration_seconds",
			Help:    "Duration of advance-due-orders runs in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		})),
		advanceRuns: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_advance_runs_total",
			Help: "Total number of advance-due-orders runs grouped by result",
		}, []string{"result"})),
		timelineEvents: register(registerer, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "backoffice_timeline_events_total",
			Help: "Total number of order timeline events recorded",
		})),
		eventsPublished: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_events_published_total",
			Help: "Total number of lifecycle events handed to the publisher grouped by type and result",
		}, []string{"type", "result"})),
	}
}

// register регистрирует коллектор; при AlreadyRegisteredError отдаёт существующий того же типа.
func register[C prometheus.Collector](registerer prometheus.Registerer, collector C) C {
	err := registerer.Register(collector)
	if err == nil {
		return collector
	}

	var alreadyRegistered prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegistered) {
		existing, ok := alreadyRegistered.ExistingCollector.(C)
		if !ok {
			panic(fmt.Sprintf("collector already registered with unexpected type %T", alreadyRegistered.ExistingCollector))
		}
		return existing
	}
	panic(fmt.Sprintf("register collector: %v", err))
}

// RecordItemCreated учитывает созданный товар; duplicateDescription означает, что описание уже встречалось.
func (m *EngineMetrics) RecordItemCreated(duplicateDescription bool) {
	if m == nil {
		return
	}
	m.itemsCreated.Inc()
	if duplicateDescription {
		m.duplicateDescriptions.Inc()
	}
}

// RecordCustomerRegistered увеличивает счётчик зарегистрированных клиентов.
func (m *EngineMetrics) RecordCustomerRegistered() {
	if m == nil {
		return
	}
	m.customersRegistered.Inc()
}

// RecordOrderPlaced увеличивает счётчик оформленных заказов.
func (m *EngineMetrics) RecordOrderPlaced() {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
}

// RecordOrdersShipped добавляет число заказов, переведённых в shipped.
func (m *EngineMetrics) RecordOrdersShipped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ordersShipped.Add(float64(n))
}

// RecordOrderDeleted увеличивает счётчик удалённых заказов.
func (m *EngineMetrics) RecordOrderDeleted() {
	if m == nil {
		return
	}
	m.ordersDeleted.Inc()
}

// RecordDeletionRejected учитывает отказ в удалении.
func (m *EngineMetrics) RecordDeletionRejected(entity, reason string) {
	if m == nil {
		return
	}
	m.deletionsRejected.WithLabelValues(entity, reason).Inc()
}

// RecordAdvanceRun записывает длительность и результат прогона.
func (m *EngineMetrics) RecordAdvanceRun(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.advanceDuration.Observe(duration.Seconds())
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.advanceRuns.WithLabelValues(result).Inc()
}

// RecordTimelineEvent увеличивает счётчик событий timeline.
func (m *EngineMetrics) RecordTimelineEvent() {
	if m == nil {
		return
	}
	m.timelineEvents.Inc()
}

// RecordEventPublished учитывает попытку публикации события.
func (m *EngineMetrics) RecordEventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.eventsPublished.WithLabelValues(eventType, result).Inc()
}
