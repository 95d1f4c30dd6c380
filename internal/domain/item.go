package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ItemCodePrefix — префикс кода товара.
const ItemCodePrefix = "A"

// Денежные суммы хранятся с точностью до цента, ставки скидки до четырёх знаков.
const (
	MoneyScale        = 2
	DiscountRateScale = 4
)

// fitsScale сообщает, что у значения не больше places знаков после запятой.
func fitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// Item — позиция каталога.
type Item struct {
	ID              int64
	Code            string
	Description     string
	Price           decimal.Decimal
	ShippingCost    decimal.Decimal
	PreparationDays int
}

// NewItem собирает товар без кода; код присваивает генератор при регистрации.
func NewItem(description string, price, shippingCost decimal.Decimal, preparationDays int) Item {
	return Item{
		Description:     strings.TrimSpace(description),
		Price:           price,
		ShippingCost:    shippingCost,
		PreparationDays: preparationDays,
	}
}

// SameAs сравнивает товары по коду.
func (i Item) SameAs(other Item) bool {
	return i.Code == other.Code
}

// SameDescription сравнивает описания без учёта регистра и пробелов по краям.
func (i Item) SameDescription(description string) bool {
	return strings.EqualFold(strings.TrimSpace(i.Description), strings.TrimSpace(description))
}

// Validate проверяет инварианты товара. Код не проверяется: его может ещё не быть.
func (i *Item) Validate() []error {
	var errs []error

	if strings.TrimSpace(i.Description) == "" {
		errs = append(errs, ErrItemDescriptionRequired)
	}
	if i.Price.IsNegative() {
		errs = append(errs, ErrItemPriceNegative)
	}
	if i.ShippingCost.IsNegative() {
		errs = append(errs, ErrShippingCostNegative)
	}
	if !fitsScale(i.Price, MoneyScale) || !fitsScale(i.ShippingCost, MoneyScale) {
		errs = append(errs, ErrMoneyPrecision)
	}
	if i.PreparationDays < 0 {
		errs = append(errs, ErrPreparationDaysNegative)
	}

	return errs
}
