package backoffice

import (
	"context"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// ItemPayload — тело событий item.*.
type ItemPayload struct {
	Code            string `json:"code"`
	Description     string `json:"description"`
	Price           string `json:"price"`
	ShippingCost    string `json:"shipping_cost"`
	PreparationDays int    `json:"preparation_days"`
}

// CustomerPayload — тело событий customer.*.
type CustomerPayload struct {
	TaxID          string `json:"tax_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Kind           string `json:"kind"`
	MembershipCode string `json:"membership_code,omitempty"`
}

// OrderPayload — тело событий order.*.
type OrderPayload struct {
	Number       int64     `json:"number"`
	TaxID        string    `json:"tax_id"`
	ItemCode     string    `json:"item_code"`
	Quantity     int       `json:"quantity"`
	Subtotal     string    `json:"subtotal"`
	ShippingCost string    `json:"shipping_cost"`
	Total        string    `json:"total"`
	ShipDate     time.Time `json:"ship_date"`
	Status       string    `json:"status"`
}

func itemPayload(item domain.Item) ItemPayload {
	return ItemPayload{
		Code:            item.Code,
		Description:     item.Description,
		Price:           item.Price.StringFixed(2),
		ShippingCost:    item.ShippingCost.StringFixed(2),
		PreparationDays: item.PreparationDays,
	}
}

func customerPayload(c domain.Customer) CustomerPayload {
	return CustomerPayload{
		TaxID:          c.TaxID,
		Name:           c.Name,
		Email:          c.Email,
		Kind:           string(c.Kind),
		MembershipCode: c.Membership.Code,
	}
}

func orderPayload(o domain.Order) OrderPayload {
	summary := o.Summarize()
	return OrderPayload{
		Number:       o.Number,
		TaxID:        o.Customer.TaxID,
		ItemCode:     o.Item.Code,
		Quantity:     o.Quantity,
		Subtotal:     summary.Subtotal.StringFixed(2),
		ShippingCost: summary.ShippingCost.StringFixed(2),
		Total:        summary.Total.StringFixed(2),
		ShipDate:     summary.ShipDate,
		Status:       string(summary.Status),
	}
}

func orderKey(number int64) string {
	return strconv.FormatInt(number, 10)
}

// publish отправляет событие best-effort: ошибка логируется и не влияет на результат операции.
func (s *Service) publish(ctx context.Context, eventType domain.EventType, key string, payload any) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, domain.Event{
		Type:     eventType,
		Key:      key,
		Payload:  payload,
		Occurred: s.clock(),
	})
	s.metrics.RecordEventPublished(string(eventType), err)
	if err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"event_type": eventType,
			"key":        key,
		}).Warn("failed to publish lifecycle event")
	}
}

// recordTimeline дописывает событие в историю заказа; сбой только логируется.
func (s *Service) recordTimeline(ctx context.Context, number int64, eventType, reason string) {
	if s.timeline == nil {
		return
	}

	err := s.timeline.Append(ctx, domain.TimelineEvent{
		OrderNumber: number,
		Type:        eventType,
		Reason:      reason,
		Occurred:    s.clock(),
	})
	if err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_number": number,
			"event":        eventType,
		}).Warn("failed to append timeline event")
		return
	}
	s.metrics.RecordTimelineEvent()
}
