package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/backoffice/internal/collection"
	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

const itemColumns = `id, code, description, price, shipping_cost, preparation_days`

type itemRepository struct {
	db    *sql.DB
	table sqlTable
}

// NewItemRepository создаёт PostgreSQL-реализацию ItemRepository.
func NewItemRepository(store *Store) domain.ItemRepository {
	return &itemRepository{
		db:    store.DB(),
		table: sqlTable{db: store.DB(), name: "items", notFound: domain.ErrItemNotFound},
	}
}

func scanItem(row rowScanner) (domain.Item, error) {
	var item domain.Item
	err := row.Scan(&item.ID, &item.Code, &item.Description, &item.Price, &item.ShippingCost, &item.PreparationDays)
	return item, err
}

func (r *itemRepository) FindAll(ctx context.Context) (*collection.List[domain.Item], error) {
	items, err := queryList(ctx, r.db, scanItem, domain.Item.SameAs, `SELECT `+itemColumns+` FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (r *itemRepository) FindByID(ctx context.Context, id int64) (domain.Item, error) {
	item, err := queryOne(ctx, r.db, scanItem, fmt.Errorf("id %d: %w", id, domain.ErrItemNotFound),
		`SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
	if err != nil && !domain.IsNotFound(err) {
		return domain.Item{}, fmt.Errorf("select item: %w", err)
	}
	return item, err
}

func (r *itemRepository) FindOne(ctx context.Context, code string) (domain.Item, error) {
	item, err := queryOne(ctx, r.db, scanItem, fmt.Errorf("code %q: %w", code, domain.ErrItemNotFound),
		`SELECT `+itemColumns+` FROM items WHERE code = $1`, code)
	if err != nil && !domain.IsNotFound(err) {
		return domain.Item{}, fmt.Errorf("select item by code: %w", err)
	}
	return item, err
}

func (r *itemRepository) Save(ctx context.Context, item domain.Item) (domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if item.ID == 0 {
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO items (code, description, price, shipping_cost, preparation_days)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id
		`, item.Code, item.Description, item.Price, item.ShippingCost, item.PreparationDays).Scan(&item.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.Item{}, fmt.Errorf("code %q: %w", item.Code, domain.ErrDuplicateItemCode)
			}
			return domain.Item{}, fmt.Errorf("insert item: %w", err)
		}
		return item, nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET code = $1, description = $2, price = $3, shipping_cost = $4, preparation_days = $5
		WHERE id = $6
	`, item.Code, item.Description, item.Price, item.ShippingCost, item.PreparationDays, item.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Item{}, fmt.Errorf("code %q: %w", item.Code, domain.ErrDuplicateItemCode)
		}
		return domain.Item{}, fmt.Errorf("update item: %w", err)
	}
	if err := r.table.expectAffected(res, item.ID); err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	return r.table.delete(ctx, id)
}

func (r *itemRepository) Count(ctx context.Context) (int, error) {
	return r.table.count(ctx)
}

func (r *itemRepository) GetLast(ctx context.Context) (domain.Item, error) {
	item, err := queryOne(ctx, r.db, scanItem, fmt.Errorf("last item: %w", domain.ErrItemNotFound),
		`SELECT `+itemColumns+` FROM items ORDER BY id DESC LIMIT 1`)
	if err != nil && !domain.IsNotFound(err) {
		return domain.Item{}, fmt.Errorf("select last item: %w", err)
	}
	return item, err
}

func (r *itemRepository) ResetIDSequence(ctx context.Context) error {
	return r.table.resetIDSequence(ctx)
}

var _ domain.ItemRepository = (*itemRepository)(nil)
