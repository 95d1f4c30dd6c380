package domain

import (
	"slices"
	"time"
)

// StatusFilter задаёт выборку заказов по статусу.
type StatusFilter string

const (
	StatusFilterAll     StatusFilter = "all"
	StatusFilterPending StatusFilter = "pending"
	StatusFilterShipped StatusFilter = "shipped"
)

// Valid проверяет значение фильтра.
func (f StatusFilter) Valid() bool {
	switch f {
	case StatusFilterAll, StatusFilterPending, StatusFilterShipped:
		return true
	default:
		return false
	}
}

// OrderFilter объединяет критерии выборки. Пустые поля не ограничивают результат.
type OrderFilter struct {
	Status        StatusFilter
	CustomerTaxID string
}

// Apply возвращает новый срез заказов, подходящих под фильтр; входной срез не меняется.
// Для выборки shipped результат упорядочен по дате отправки по возрастанию.
func (f OrderFilter) Apply(orders []Order) []Order {
	result := orders
	if f.CustomerTaxID != "" {
		result = FilterByCustomer(result, f.CustomerTaxID)
	}
	status := f.Status
	if status == "" {
		status = StatusFilterAll
	}
	return FilterByStatus(result, status)
}

// FilterByCustomer оставляет заказы клиента с точным совпадением NIF.
func FilterByCustomer(orders []Order, taxID string) []Order {
	taxID = NormalizeTaxID(taxID)
	result := make([]Order, 0, len(orders))
	for _, o := range orders {
		if NormalizeTaxID(o.Customer.TaxID) == taxID {
			result = append(result, o)
		}
	}
	return result
}

// FilterByStatus оставляет заказы в заданном статусе. Отправленные сортируются по дате отправки.
func FilterByStatus(orders []Order, status StatusFilter) []Order {
	result := make([]Order, 0, len(orders))
	for _, o := range orders {
		switch status {
		case StatusFilterPending:
			if o.Shipped {
				continue
			}
		case StatusFilterShipped:
			if !o.Shipped {
				continue
			}
		}
		result = append(result, o)
	}
	if status == StatusFilterShipped {
		SortByShipDate(result)
	}
	return result
}

// FilterByShipDate оставляет заказы с датой отправки в [from, to] и сортирует их по ней.
// Нулевая граница не ограничивает выборку.
func FilterByShipDate(orders []Order, from, to time.Time) []Order {
	result := make([]Order, 0, len(orders))
	for _, o := range orders {
		shipDate := o.ShipDate()
		if !from.IsZero() && shipDate.Before(StartOfDay(from)) {
			continue
		}
		if !to.IsZero() && shipDate.After(StartOfDay(to)) {
			continue
		}
		result = append(result, o)
	}
	SortByShipDate(result)
	return result
}

// SortByShipDate сортирует срез на месте по дате отправки; при равенстве — по номеру.
func SortByShipDate(orders []Order) {
	slices.SortStableFunc(orders, func(a, b Order) int {
		if c := a.ShipDate().Compare(b.ShipDate()); c != 0 {
			return c
		}
		switch {
		case a.Number < b.Number:
			return -1
		case a.Number > b.Number:
			return 1
		default:
			return 0
		}
	})
}
