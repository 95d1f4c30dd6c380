package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vladislavdragonenkov/backoffice/internal/collection"
	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

const orderColumns = `id, number, customer_snapshot, item_snapshot, quantity, order_date, shipped`

type orderRepository struct {
	db    *sql.DB
	table sqlTable
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{
		db:    store.DB(),
		table: sqlTable{db: store.DB(), name: "orders", notFound: domain.ErrOrderNotFound},
	}
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		order        domain.Order
		customerJSON []byte
		itemJSON     []byte
		customer     customerSnapshot
		item         itemSnapshot
	)
	if err := row.Scan(&order.ID, &order.Number, &customerJSON, &itemJSON, &order.Quantity, &order.OrderDate, &order.Shipped); err != nil {
		return domain.Order{}, err
	}
	if err := json.Unmarshal(customerJSON, &customer); err != nil {
		return domain.Order{}, fmt.Errorf("decode customer snapshot of order %d: %w", order.Number, err)
	}
	if err := json.Unmarshal(itemJSON, &item); err != nil {
		return domain.Order{}, fmt.Errorf("decode item snapshot of order %d: %w", order.Number, err)
	}
	order.Customer = customer.toDomain()
	order.Item = item.toDomain()
	order.OrderDate = order.OrderDate.UTC()
	return order, nil
}

func orderArgs(order domain.Order) ([]any, error) {
	customerJSON, err := json.Marshal(snapshotCustomer(order.Customer))
	if err != nil {
		return nil, fmt.Errorf("encode customer snapshot: %w", err)
	}
	itemJSON, err := json.Marshal(snapshotItem(order.Item))
	if err != nil {
		return nil, fmt.Errorf("encode item snapshot: %w", err)
	}
	return []any{
		order.Number,
		domain.NormalizeTaxID(order.Customer.TaxID),
		order.Item.Code,
		string(customerJSON),
		string(itemJSON),
		order.Quantity,
		order.OrderDate.UTC(),
		order.Shipped,
	}, nil
}

func (r *orderRepository) FindAll(ctx context.Context) (*collection.List[domain.Order], error) {
	orders, err := queryList(ctx, r.db, scanOrder, domain.Order.SameAs, `SELECT `+orderColumns+` FROM orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (domain.Order, error) {
	order, err := queryOne(ctx, r.db, scanOrder, fmt.Errorf("id %d: %w", id, domain.ErrOrderNotFound),
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err != nil && !domain.IsNotFound(err) {
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	return order, err
}

// FindOne ищет заказ по номеру.
func (r *orderRepository) FindOne(ctx context.Context, number int64) (domain.Order, error) {
	order, err := queryOne(ctx, r.db, scanOrder, fmt.Errorf("number %d: %w", number, domain.ErrOrderNotFound),
		`SELECT `+orderColumns+` FROM orders WHERE number = $1`, number)
	if err != nil && !domain.IsNotFound(err) {
		return domain.Order{}, fmt.Errorf("select order by number: %w", err)
	}
	return order, err
}

func (r *orderRepository) Save(ctx context.Context, order domain.Order) (domain.Order, error) {
	args, err := orderArgs(order)
	if err != nil {
		return domain.Order{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if order.ID == 0 {
		// Вставка и сдвиг watermark — один оператор, номер не может потеряться между ними.
		err := r.db.QueryRowContext(ctx, `
			WITH inserted AS (
				INSERT INTO orders (
					number, customer_tax_id, item_code, customer_snapshot, item_snapshot, quantity, order_date, shipped
				) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
				RETURNING id, number
			), watermark AS (
				INSERT INTO order_number_watermark (singleton, highest)
				SELECT TRUE, number FROM inserted
				ON CONFLICT (singleton) DO UPDATE
				SET highest = GREATEST(order_number_watermark.highest, EXCLUDED.highest)
			)
			SELECT id FROM inserted
		`, args...).Scan(&order.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.Order{}, fmt.Errorf("number %d: %w", order.Number, domain.ErrDuplicateOrderNumber)
			}
			return domain.Order{}, fmt.Errorf("insert order: %w", err)
		}
		return order, nil
	}

	// shipped только растёт: OR не даст перезаписать true обратно в false.
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET number = $1, customer_tax_id = $2, item_code = $3, customer_snapshot = $4,
		    item_snapshot = $5, quantity = $6, order_date = $7, shipped = shipped OR $8
		WHERE id = $9
	`, append(args, order.ID)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Order{}, fmt.Errorf("number %d: %w", order.Number, domain.ErrDuplicateOrderNumber)
		}
		return domain.Order{}, fmt.Errorf("update order: %w", err)
	}
	if err := r.table.expectAffected(res, order.ID); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	return r.table.delete(ctx, id)
}

func (r *orderRepository) Count(ctx context.Context) (int, error) {
	return r.table.count(ctx)
}

func (r *orderRepository) GetLast(ctx context.Context) (domain.Order, error) {
	order, err := queryOne(ctx, r.db, scanOrder, fmt.Errorf("last order: %w", domain.ErrOrderNotFound),
		`SELECT `+orderColumns+` FROM orders ORDER BY id DESC LIMIT 1`)
	if err != nil && !domain.IsNotFound(err) {
		return domain.Order{}, fmt.Errorf("select last order: %w", err)
	}
	return order, err
}

// HighestNumber учитывает и watermark, и текущие строки: заказы, вставленные до появления
// watermark, тоже не переиспользуются.
func (r *orderRepository) HighestNumber(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var highest int64
	if err := r.db.QueryRowContext(ctx, `
		SELECT GREATEST(
			COALESCE((SELECT highest FROM order_number_watermark WHERE singleton), 0),
			COALESCE((SELECT MAX(number) FROM orders), 0)
		)
	`).Scan(&highest); err != nil {
		return 0, fmt.Errorf("select highest order number: %w", err)
	}
	return highest, nil
}

func (r *orderRepository) ResetIDSequence(ctx context.Context) error {
	return r.table.resetIDSequence(ctx)
}

var _ domain.OrderRepository = (*orderRepository)(nil)
