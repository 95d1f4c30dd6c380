package backoffice

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/codegen"
	"github.com/vladislavdragonenkov/backoffice/internal/domain"
	"github.com/vladislavdragonenkov/backoffice/internal/metrics"
)

// ItemInput — данные для регистрации товара.
type ItemInput struct {
	Description     string
	Price           decimal.Decimal
	ShippingCost    decimal.Decimal
	PreparationDays int
}

// ItemCreation — результат регистрации товара.
// DuplicateDescription предупреждает, что такое описание уже есть в каталоге; создание при этом не блокируется.
type ItemCreation struct {
	Item                 domain.Item
	DuplicateDescription bool
}

// AddItem регистрирует товар и выдаёт ему уникальный код на основе описания.
func (s *Service) AddItem(ctx context.Context, in ItemInput) (ItemCreation, error) {
	item := domain.NewItem(in.Description, in.Price, in.ShippingCost, in.PreparationDays)

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.items.FindAll(ctx)
	if err != nil {
		return ItemCreation{}, persistenceError("list items", err)
	}

	taken := codegen.NewSet()
	duplicate := false
	for other := range existing.Values() {
		taken[other.Code] = struct{}{}
		if item.Description != "" && other.SameDescription(item.Description) {
			duplicate = true
		}
	}

	code, err := s.itemCodes.Next(item.Description, taken)
	if err != nil {
		return ItemCreation{}, fmt.Errorf("generate item code: %w", err)
	}
	item.Code = code

	if errs := item.Validate(); len(errs) > 0 {
		return ItemCreation{}, validationError(errs)
	}

	saved, err := s.items.Save(ctx, item)
	if err != nil {
		return ItemCreation{}, persistenceError("save item", err)
	}

	logger := s.logger.WithFields(log.Fields{
		"item_code":   saved.Code,
		"description": saved.Description,
	})
	if duplicate {
		logger.Warn("item with the same description already exists")
	}
	logger.Info("item created")

	s.metrics.RecordItemCreated(duplicate)
	s.publish(ctx, domain.EventItemCreated, saved.Code, itemPayload(saved))

	return ItemCreation{Item: saved, DuplicateDescription: duplicate}, nil
}

// ListItems возвращает снимок каталога в порядке регистрации.
func (s *Service) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.items.FindAll(ctx)
	if err != nil {
		return nil, persistenceError("list items", err)
	}
	return items.Snapshot(), nil
}

// FindItem ищет товар по коду.
func (s *Service) FindItem(ctx context.Context, code string) (domain.Item, error) {
	item, err := s.items.FindOne(ctx, code)
	if err != nil {
		return domain.Item{}, persistenceError("find item", err)
	}
	return item, nil
}

// DeleteItem удаляет товар, если на него не ссылается ни один заказ.
func (s *Service) DeleteItem(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.items.FindOne(ctx, code)
	if err != nil {
		return persistenceError("find item", err)
	}

	blocking, err := s.referencingOrders(ctx, func(o domain.Order) bool { return o.ReferencesItem(item.Code) })
	if err != nil {
		return err
	}
	if len(blocking) > 0 {
		s.metrics.RecordDeletionRejected("item", metrics.RejectReferenced)
		return &domain.ReferenceError{Entity: "item", Key: item.Code, Orders: blocking}
	}

	if err := s.items.Delete(ctx, item.ID); err != nil {
		return persistenceError("delete item", err)
	}

	s.logger.WithField("item_code", item.Code).Info("item deleted")
	s.publish(ctx, domain.EventItemDeleted, item.Code, itemPayload(item))
	return nil
}

// referencingOrders возвращает номера заказов, подходящих под match.
func (s *Service) referencingOrders(ctx context.Context, match func(domain.Order) bool) ([]int64, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, persistenceError("list orders", err)
	}

	var numbers []int64
	for o := range orders.Values() {
		if match(o) {
			numbers = append(numbers, o.Number)
		}
	}
	return numbers, nil
}
