package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Категории ошибок. Конкретные ошибки ниже оборачивают одну из них,
// поэтому вызывающий код может проверять errors.Is на любом уровне детализации.
var (
	// ErrValidation — некорректные входные данные конструктора или мутатора.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate — нарушен инвариант уникальности.
	ErrDuplicate = errors.New("duplicate")
	// ErrReferentialIntegrity — удаление сущности, на которую ссылаются заказы.
	ErrReferentialIntegrity = errors.New("referential integrity violation")
	// ErrInvalidState — операция недопустима в текущем состоянии заказа.
	ErrInvalidState = errors.New("invalid state")
	// ErrNotFound — поиск по идентификатору или ключу ничего не нашёл.
	ErrNotFound = errors.New("not found")
	// ErrPersistence — сбой хранилища; результат операции считается неуспешным целиком.
	ErrPersistence = errors.New("persistence failure")
)

var (
	// Ошибка отсутствующего описания товара.
	ErrItemDescriptionRequired = fmt.Errorf("%w: item description is required", ErrValidation)
	// Ошибка отрицательной цены товара.
	ErrItemPriceNegative = fmt.Errorf("%w: item price must be non-negative", ErrValidation)
	// Ошибка отрицательной стоимости доставки.
	ErrShippingCostNegative = fmt.Errorf("%w: shipping cost must be non-negative", ErrValidation)
	// Ошибка отрицательного срока подготовки.
	ErrPreparationDaysNegative = fmt.Errorf("%w: preparation days must be non-negative", ErrValidation)
	// Ошибка денежной суммы с точностью мельче цента.
	ErrMoneyPrecision = fmt.Errorf("%w: money amounts allow at most 2 decimal places", ErrValidation)
	// Ошибка ставки скидки с точностью больше четырёх знаков.
	ErrDiscountRatePrecision = fmt.Errorf("%w: shipping discount rate allows at most 4 decimal places", ErrValidation)
	// Ошибка отсутствующего кода товара.
	ErrItemCodeRequired = fmt.Errorf("%w: item code is required", ErrValidation)

	// Ошибка отсутствующего имени клиента.
	ErrCustomerNameRequired = fmt.Errorf("%w: customer name is required", ErrValidation)
	// Ошибка отсутствующего NIF.
	ErrTaxIDRequired = fmt.Errorf("%w: customer tax id is required", ErrValidation)
	// Ошибка отсутствующего email.
	ErrEmailRequired = fmt.Errorf("%w: customer email is required", ErrValidation)
	// Ошибка неизвестного типа клиента.
	ErrCustomerKindInvalid = fmt.Errorf("%w: unknown customer kind", ErrValidation)
	// Ошибка некорректной ставки скидки на доставку (допустимо [0, 1]).
	ErrDiscountRateInvalid = fmt.Errorf("%w: shipping discount rate must be within [0, 1]", ErrValidation)
	// Ошибка отрицательного годового взноса.
	ErrAnnualFeeNegative = fmt.Errorf("%w: annual fee must be non-negative", ErrValidation)
	// Ошибка отсутствующего кода членства у premium-клиента.
	ErrMembershipCodeRequired = fmt.Errorf("%w: premium membership code is required", ErrValidation)

	// Ошибка при некорректном количестве товара (< 1).
	ErrQuantityInvalid = fmt.Errorf("%w: order quantity must be at least 1", ErrValidation)
	// Ошибка отсутствующей даты заказа.
	ErrOrderDateRequired = fmt.Errorf("%w: order date is required", ErrValidation)
	// Ошибка отсутствующего клиента в заказе.
	ErrOrderCustomerRequired = fmt.Errorf("%w: order customer is required", ErrValidation)
	// Ошибка отсутствующего товара в заказе.
	ErrOrderItemRequired = fmt.Errorf("%w: order item is required", ErrValidation)
	// Ошибка неизвестного фильтра статуса.
	ErrStatusFilterInvalid = fmt.Errorf("%w: unknown order status filter", ErrValidation)

	// ErrDuplicateTaxID возвращается, если клиент с таким NIF уже зарегистрирован.
	ErrDuplicateTaxID = fmt.Errorf("%w: customer tax id already registered", ErrDuplicate)
	// ErrDuplicateItemCode возвращается, если код товара уже занят.
	ErrDuplicateItemCode = fmt.Errorf("%w: item code already in use", ErrDuplicate)
	// ErrDuplicateOrderNumber возвращается при попытке повторно использовать номер заказа.
	ErrDuplicateOrderNumber = fmt.Errorf("%w: order number already in use", ErrDuplicate)

	// ErrOrderShipped — заказ уже отправлен, отменить его нельзя.
	ErrOrderShipped = fmt.Errorf("%w: order already shipped", ErrInvalidState)

	// ErrItemNotFound возвращается, если товар не найден.
	ErrItemNotFound = fmt.Errorf("item %w", ErrNotFound)
	// ErrCustomerNotFound возвращается, если клиент не найден.
	ErrCustomerNotFound = fmt.Errorf("customer %w", ErrNotFound)
	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = fmt.Errorf("order %w", ErrNotFound)
	// ErrAddressNotFound возвращается, если адрес не найден.
	ErrAddressNotFound = fmt.Errorf("address %w", ErrNotFound)
)

// ReferenceError сообщает, какие заказы блокируют удаление товара или клиента.
type ReferenceError struct {
	Entity string
	Key    string
	Orders []int64
}

func (e *ReferenceError) Error() string {
	numbers := make([]string, 0, len(e.Orders))
	for _, n := range e.Orders {
		numbers = append(numbers, strconv.FormatInt(n, 10))
	}
	return fmt.Sprintf("%s %q is referenced by %d order(s): %s",
		e.Entity, e.Key, len(e.Orders), strings.Join(numbers, ","))
}

// Unwrap позволяет проверять ReferenceError через errors.Is(err, ErrReferentialIntegrity).
func (e *ReferenceError) Unwrap() error {
	return ErrReferentialIntegrity
}

// IsNotFound проверяет, означает ли ошибка отсутствие сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate проверяет нарушение уникальности.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsValidation проверяет, является ли ошибка ошибкой валидации.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsReferentialIntegrity проверяет, заблокировано ли удаление ссылками из заказов.
func IsReferentialIntegrity(err error) bool {
	return errors.Is(err, ErrReferentialIntegrity)
}

// IsInvalidState проверяет, недопустима ли операция в текущем состоянии.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsPersistence проверяет, связана ли ошибка со сбоем хранилища.
func IsPersistence(err error) bool {
	return errors.Is(err, ErrPersistence)
}
