package domain

import (
	"context"

	"github.com/vladislavdragonenkov/backoffice/internal/collection"
)

// Repository описывает требования к хранилищу сущностей одного типа.
// K — бизнес-ключ, по которому работает FindOne.
// Все методы могут завершиться ошибкой; отсутствие записи сообщается ошибкой, обёрнутой в ErrNotFound.
type Repository[T any, K comparable] interface {
	// FindAll возвращает все записи в порядке вставки.
	FindAll(ctx context.Context) (*collection.List[T], error)
	// FindByID ищет запись по суррогатному идентификатору.
	FindByID(ctx context.Context, id int64) (T, error)
	// FindOne ищет запись по бизнес-ключу.
	FindOne(ctx context.Context, key K) (T, error)
	// Save вставляет запись (ID == 0) или обновляет существующую и возвращает сохранённое состояние.
	Save(ctx context.Context, entity T) (T, error)
	// Delete удаляет запись по идентификатору.
	Delete(ctx context.Context, id int64) error
	// Count возвращает число записей.
	Count(ctx context.Context) (int, error)
	// GetLast возвращает последнюю вставленную запись.
	GetLast(ctx context.Context) (T, error)
	// ResetIDSequence сбрасывает генератор идентификаторов; допустимо только для пустого хранилища.
	ResetIDSequence(ctx context.Context) error
}

// ItemRepository хранит товары; ключ — код товара.
type ItemRepository interface {
	Repository[Item, string]
}

// CustomerRepository хранит клиентов; ключ — NIF.
type CustomerRepository interface {
	Repository[Customer, string]
}

// OrderRepository хранит заказы; ключ — номер заказа.
type OrderRepository interface {
	Repository[Order, int64]

	// HighestNumber возвращает наибольший номер, когда-либо сохранённый в хранилище,
	// включая номера уже удалённых заказов; 0, если заказов не было.
	HighestNumber(ctx context.Context) (int64, error)
}

// AddressRepository хранит адреса клиентов; ключ совпадает с идентификатором.
type AddressRepository interface {
	Repository[Address, int64]
}
