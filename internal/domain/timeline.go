package domain

import "time"

const (
	TimelineOrderPlaced  = "OrderPlaced"
	TimelineOrderShipped = "OrderShipped"
	TimelineOrderDeleted = "OrderDeleted"
)

// TimelineEvent описывает событие в жизненном цикле заказа.
type TimelineEvent struct {
	OrderNumber int64
	Type        string
	Reason      string
	Occurred    time.Time
}
