package domain

import (
	"context"
	"time"
)

// EventType определяет тип доменного события.
type EventType string

const (
	EventItemCreated        EventType = "item.created"
	EventItemDeleted        EventType = "item.deleted"
	EventCustomerRegistered EventType = "customer.registered"
	EventCustomerUpdated    EventType = "customer.updated"
	EventCustomerDeleted    EventType = "customer.deleted"
	EventOrderPlaced        EventType = "order.placed"
	EventOrderShipped       EventType = "order.shipped"
	EventOrderDeleted       EventType = "order.deleted"
)

// Event — уведомление о свершившемся изменении.
type Event struct {
	Type     EventType
	Key      string
	Payload  any
	Occurred time.Time
}

// EventPublisher передаёт доменные события наружу.
// Публикация best-effort: ошибка логируется и не отменяет уже выполненную операцию.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(ctx context.Context, event TimelineEvent) error
	List(ctx context.Context, orderNumber int64) ([]TimelineEvent, error)
}

// Clock возвращает текущее время; подменяется в тестах.
type Clock func() time.Time

// SystemClock — часы по умолчанию (UTC).
func SystemClock() time.Time {
	return time.Now().UTC()
}
