package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

type itemRepositoryInMemory struct {
	*table[domain.Item, string]
}

// NewItemRepository возвращает in-memory репозиторий товаров для локальной разработки и тестов.
func NewItemRepository() domain.ItemRepository {
	return &itemRepositoryInMemory{newTable(
		func(i domain.Item) int64 { return i.ID },
		func(i *domain.Item, id int64) { i.ID = id },
		func(i domain.Item) string { return i.Code },
		domain.ErrItemNotFound,
		domain.ErrDuplicateItemCode,
	)}
}

type customerRepositoryInMemory struct {
	*table[domain.Customer, string]
}

// NewCustomerRepository возвращает in-memory репозиторий клиентов с ключом по нормализованному NIF.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{newTable(
		func(c domain.Customer) int64 { return c.ID },
		func(c *domain.Customer, id int64) { c.ID = id },
		func(c domain.Customer) string { return domain.NormalizeTaxID(c.TaxID) },
		domain.ErrCustomerNotFound,
		domain.ErrDuplicateTaxID,
	)}
}

// FindOne ищет клиента по NIF без учёта регистра и пробелов.
func (r *customerRepositoryInMemory) FindOne(ctx context.Context, taxID string) (domain.Customer, error) {
	return r.table.FindOne(ctx, domain.NormalizeTaxID(taxID))
}

type orderRepositoryInMemory struct {
	*table[domain.Order, int64]

	mu      sync.Mutex
	highest int64
}

// NewOrderRepository возвращает in-memory репозиторий заказов с ключом по номеру заказа.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{table: newTable(
		func(o domain.Order) int64 { return o.ID },
		func(o *domain.Order, id int64) { o.ID = id },
		func(o domain.Order) int64 { return o.Number },
		domain.ErrOrderNotFound,
		domain.ErrDuplicateOrderNumber,
	)}
}

type addressRepositoryInMemory struct {
	*table[domain.Address, int64]
}

// NewAddressRepository возвращает in-memory репозиторий адресов.
func NewAddressRepository() domain.AddressRepository {
	return &addressRepositoryInMemory{newTable(
		func(a domain.Address) int64 { return a.ID },
		func(a *domain.Address, id int64) { a.ID = id },
		func(a domain.Address) int64 { return a.ID },
		domain.ErrAddressNotFound,
		nil,
	)}
}

// Save запоминает наибольший выданный номер: он переживает удаление заказа.
func (r *orderRepositoryInMemory) Save(ctx context.Context, order domain.Order) (domain.Order, error) {
	saved, err := r.table.Save(ctx, order)
	if err != nil {
		return saved, err
	}

	r.mu.Lock()
	r.highest = max(r.highest, saved.Number)
	r.mu.Unlock()
	return saved, nil
}

func (r *orderRepositoryInMemory) HighestNumber(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.highest, nil
}

var (
	_ domain.ItemRepository     = (*itemRepositoryInMemory)(nil)
	_ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
	_ domain.OrderRepository    = (*orderRepositoryInMemory)(nil)
	_ domain.AddressRepository  = (*addressRepositoryInMemory)(nil)
)
