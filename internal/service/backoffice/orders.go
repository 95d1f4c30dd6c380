package backoffice

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/metrics"
)

const reasonShipDateReached = "ship date reached"

// OrderInput — данные для оформления заказа. Нулевая OrderDate означает "сейчас".
type OrderInput struct {
	TaxID     string
	ItemCode  string
	Quantity  int
	OrderDate time.Time
}

// PlaceOrder оформляет заказ клиента на товар и присваивает ему следующий номер.
func (s *Service) PlaceOrder(ctx context.Context, in OrderInput) (domain.Order, error) {
	if in.Quantity < 1 {
		return domain.Order{}, domain.ErrQuantityInvalid
	}
	orderDate := in.OrderDate
	if orderDate.IsZero() {
		orderDate = s.clock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	customer, err := s.customers.FindOne(ctx, in.TaxID)
	if err != nil {
		return domain.Order{}, persistenceError("find customer", err)
	}
	item, err := s.items.FindOne(ctx, in.ItemCode)
	if err != nil {
		return domain.Order{}, persistenceError("find item", err)
	}

	order := domain.NewOrder(customer, item, in.Quantity, orderDate)
	order.Number = s.lastNumber + 1
	if errs := order.Validate(); len(errs) > 0 {
		return domain.Order{}, validationError(errs)
	}

	saved, err := s.orders.Save(ctx, order)
	if err != nil {
		return domain.Order{}, persistenceError("save order", err)
	}
	s.lastNumber = saved.Number

	s.logger.WithFields(log.Fields{
		"order_number": saved.Number,
		"tax_id":       customer.TaxID,
		"item_code":    item.Code,
		"total":        saved.Total().StringFixed(2),
	}).Info("order placed")

	s.metrics.RecordOrderPlaced()
	s.recordTimeline(ctx, saved.Number, domain.TimelineOrderPlaced, "")
	s.publish(ctx, domain.EventOrderPlaced, orderKey(saved.Number), orderPayload(saved))

	return saved, nil
}

// FindOrder ищет заказ по номеру. Статус возвращается как сохранён и может отставать
// от даты отправки до следующего AdvanceDueOrders.
func (s *Service) FindOrder(ctx context.Context, number int64) (domain.Order, error) {
	order, err := s.orders.FindOne(ctx, number)
	if err != nil {
		return domain.Order{}, persistenceError("find order", err)
	}
	return order, nil
}

// OrderSummary считает показатели заказа.
func (s *Service) OrderSummary(ctx context.Context, number int64) (domain.Summary, error) {
	order, err := s.FindOrder(ctx, number)
	if err != nil {
		return domain.Summary{}, err
	}
	return order.Summarize(), nil
}

// ListOrders возвращает заказы, подходящие под фильтр.
func (s *Service) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrStatusFilterInvalid
	}

	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, persistenceError("list orders", err)
	}
	return filter.Apply(orders.Snapshot()), nil
}

// ListOrdersByShipDate возвращает заказы с датой отправки в [from, to], по возрастанию даты.
// Нулевая граница не ограничивает выборку.
func (s *Service) ListOrdersByShipDate(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, persistenceError("list orders", err)
	}
	return domain.FilterByShipDate(orders.Snapshot(), from, to), nil
}

// DeleteOrder удаляет заказ, пока он не отправлен.
// Перед проверкой заказ переоценивается: если дата отправки наступила, переход в shipped
// фиксируется, а удаление отклоняется.
func (s *Service) DeleteOrder(ctx context.Context, number int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.orders.FindOne(ctx, number)
	if err != nil {
		return persistenceError("find order", err)
	}

	if order.MarkShippedIfDue(s.clock()) {
		if err := s.commitShipped(ctx, order); err != nil {
			return err
		}
	}

	if err := order.CanDelete(); err != nil {
		s.metrics.RecordDeletionRejected("order", metrics.RejectShipped)
		s.logger.WithField("order_number", number).Info("refused to delete shipped order")
		return err
	}

	if err := s.orders.Delete(ctx, order.ID); err != nil {
		return persistenceError("delete order", err)
	}

	s.logger.WithField("order_number", number).Info("order deleted")
	s.metrics.RecordOrderDeleted()
	s.recordTimeline(ctx, number, domain.TimelineOrderDeleted, "")
	s.publish(ctx, domain.EventOrderDeleted, orderKey(number), orderPayload(order))
	return nil
}

// AdvanceDueOrders проверяет все заказы в порядке оформления и переводит в shipped те,
// у которых наступила дата отправки. Каждый переход сохраняется отдельно и учитывается
// только после успешной записи; сбои записи не прерывают обход и возвращаются вместе.
func (s *Service) AdvanceDueOrders(ctx context.Context) (int, error) {
	started := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	advanced, err := s.advanceDueOrders(ctx)
	s.metrics.RecordAdvanceRun(time.Since(started), err)

	if advanced > 0 {
		s.logger.WithField("count", advanced).Info("due orders shipped")
	}
	return advanced, err
}

func (s *Service) advanceDueOrders(ctx context.Context) (int, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return 0, persistenceError("list orders", err)
	}

	now := s.clock()
	advanced := 0
	var errs []error
	for order := range orders.Values() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if !order.MarkShippedIfDue(now) {
			continue
		}
		if err := s.commitShipped(ctx, order); err != nil {
			errs = append(errs, err)
			continue
		}
		advanced++
	}
	return advanced, errors.Join(errs...)
}

// commitShipped сохраняет переход заказа в shipped.
func (s *Service) commitShipped(ctx context.Context, order domain.Order) error {
	if _, err := s.orders.Save(ctx, order); err != nil {
		s.logger.WithError(err).WithField("order_number", order.Number).Error("failed to commit shipped order")
		return persistenceError("save shipped order", err)
	}

	s.metrics.RecordOrdersShipped(1)
	s.recordTimeline(ctx, order.Number, domain.TimelineOrderShipped, reasonShipDateReached)
	s.publish(ctx, domain.EventOrderShipped, orderKey(order.Number), orderPayload(order))
	return nil
}

// OrderTimeline возвращает историю заказа. История удалённого заказа сохраняется.
func (s *Service) OrderTimeline(ctx context.Context, number int64) ([]domain.TimelineEvent, error) {
	if s.timeline == nil {
		return []domain.TimelineEvent{}, nil
	}
	events, err := s.timeline.List(ctx, number)
	if err != nil {
		return nil, persistenceError("list timeline", err)
	}
	return events, nil
}
