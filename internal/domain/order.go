package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает жизненный цикл заказа: pending → shipped, без возврата назад.
type OrderStatus string

const (
	// OrderStatusPending — заказ оформлен и ещё готовится к отправке.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusShipped — заказ отправлен; отменить его нельзя.
	OrderStatusShipped OrderStatus = "shipped"
)

// Order связывает клиента, товар и количество. Клиент и товар хранятся
// копиями на момент оформления: цена и скидка заказа от них и считаются.
type Order struct {
	ID        int64
	Number    int64
	Customer  Customer
	Item      Item
	Quantity  int
	OrderDate time.Time
	Shipped   bool
}

// Summary — рассчитанные показатели заказа для отображения.
type Summary struct {
	Number       int64
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Total        decimal.Decimal
	ShipDate     time.Time
	Status       OrderStatus
}

// NewOrder собирает заказ в статусе pending. Номер присваивает реестр.
func NewOrder(customer Customer, item Item, quantity int, orderDate time.Time) Order {
	return Order{
		Customer:  customer,
		Item:      item,
		Quantity:  quantity,
		OrderDate: orderDate.UTC(),
	}
}

// Status возвращает сохранённый статус заказа.
// Он может отставать от фактической даты отправки до следующей оценки IsDueForShipment.
func (o Order) Status() OrderStatus {
	if o.Shipped {
		return OrderStatusShipped
	}
	return OrderStatusPending
}

// Subtotal = количество * цена товара.
func (o Order) Subtotal() decimal.Decimal {
	return o.Item.Price.Mul(decimal.NewFromInt(int64(o.Quantity)))
}

// ShippingCost возвращает стоимость доставки с учётом скидки premium-клиента.
func (o Order) ShippingCost() decimal.Decimal {
	base := o.Item.ShippingCost
	return base.Sub(o.Customer.ShippingDiscount(base))
}

// Total = подытог + доставка.
func (o Order) Total() decimal.Decimal {
	return o.Subtotal().Add(o.ShippingCost())
}

// ShipDate — календарный день, начиная с которого заказ считается отправленным.
func (o Order) ShipDate() time.Time {
	return StartOfDay(o.OrderDate).AddDate(0, 0, o.Item.PreparationDays)
}

// IsDueForShipment сообщает, наступила ли дата отправки на момент now.
func (o Order) IsDueForShipment(now time.Time) bool {
	return !StartOfDay(now).Before(o.ShipDate())
}

// MarkShippedIfDue переводит заказ в shipped, если дата отправки наступила.
// Возвращает true только при фактическом переходе; повторный вызов ничего не меняет.
func (o *Order) MarkShippedIfDue(now time.Time) bool {
	if o.Shipped || !o.IsDueForShipment(now) {
		return false
	}
	o.Shipped = true
	return true
}

// CanDelete сообщает, можно ли удалить заказ. Удалять разрешено только pending.
func (o Order) CanDelete() error {
	if o.Shipped {
		return ErrOrderShipped
	}
	return nil
}

// Summarize считает показатели заказа.
func (o Order) Summarize() Summary {
	return Summary{
		Number:       o.Number,
		Subtotal:     o.Subtotal(),
		ShippingCost: o.ShippingCost(),
		Total:        o.Total(),
		ShipDate:     o.ShipDate(),
		Status:       o.Status(),
	}
}

// ReferencesCustomer проверяет, оформлен ли заказ на клиента с данным NIF.
func (o Order) ReferencesCustomer(taxID string) bool {
	return NormalizeTaxID(o.Customer.TaxID) == NormalizeTaxID(taxID)
}

// ReferencesItem проверяет, оформлен ли заказ на товар с данным кодом.
func (o Order) ReferencesItem(code string) bool {
	return o.Item.Code == code
}

// SameAs сравнивает заказы по номеру.
func (o Order) SameAs(other Order) bool {
	return o.Number == other.Number
}

// Validate проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) Validate() []error {
	var errs []error

	if o.Quantity < 1 {
		errs = append(errs, ErrQuantityInvalid)
	}
	if o.OrderDate.IsZero() {
		errs = append(errs, ErrOrderDateRequired)
	}
	if o.Customer.TaxID == "" {
		errs = append(errs, ErrOrderCustomerRequired)
	}
	if o.Item.Code == "" {
		errs = append(errs, ErrOrderItemRequired)
	}

	return errs
}

// StartOfDay отбрасывает время суток (в UTC).
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
