package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/backoffice/internal/collection"
	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

const addressColumns = `id, street, city, region, postal_code, country`

type addressRepository struct {
	db    *sql.DB
	table sqlTable
}

// NewAddressRepository создаёт PostgreSQL-реализацию AddressRepository.
func NewAddressRepository(store *Store) domain.AddressRepository {
	return &addressRepository{
		db:    store.DB(),
		table: sqlTable{db: store.DB(), name: "addresses", notFound: domain.ErrAddressNotFound},
	}
}

func scanAddress(row rowScanner) (domain.Address, error) {
	var a domain.Address
	err := row.Scan(&a.ID, &a.Street, &a.City, &a.Region, &a.PostalCode, &a.Country)
	return a, err
}

func sameAddress(a, b domain.Address) bool { return a.ID == b.ID }

func (r *addressRepository) FindAll(ctx context.Context) (*collection.List[domain.Address], error) {
	addresses, err := queryList(ctx, r.db, scanAddress, sameAddress, `SELECT `+addressColumns+` FROM addresses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

func (r *addressRepository) FindByID(ctx context.Context, id int64) (domain.Address, error) {
	a, err := queryOne(ctx, r.db, scanAddress, fmt.Errorf("id %d: %w", id, domain.ErrAddressNotFound),
		`SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id)
	if err != nil && !domain.IsNotFound(err) {
		return domain.Address{}, fmt.Errorf("select address: %w", err)
	}
	return a, err
}

// FindOne — ключ адреса совпадает с идентификатором.
func (r *addressRepository) FindOne(ctx context.Context, id int64) (domain.Address, error) {
	return r.FindByID(ctx, id)
}

func (r *addressRepository) Save(ctx context.Context, a domain.Address) (domain.Address, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if a.ID == 0 {
		if err := r.db.QueryRowContext(ctx, `
			INSERT INTO addresses (street, city, region, postal_code, country)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id
		`, a.Street, a.City, a.Region, a.PostalCode, a.Country).Scan(&a.ID); err != nil {
			return domain.Address{}, fmt.Errorf("insert address: %w", err)
		}
		return a, nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE addresses
		SET street = $1, city = $2, region = $3, postal_code = $4, country = $5
		WHERE id = $6
	`, a.Street, a.City, a.Region, a.PostalCode, a.Country, a.ID)
	if err != nil {
		return domain.Address{}, fmt.Errorf("update address: %w", err)
	}
	if err := r.table.expectAffected(res, a.ID); err != nil {
		return domain.Address{}, err
	}
	return a, nil
}

func (r *addressRepository) Delete(ctx context.Context, id int64) error {
	return r.table.delete(ctx, id)
}

func (r *addressRepository) Count(ctx context.Context) (int, error) {
	return r.table.count(ctx)
}

func (r *addressRepository) GetLast(ctx context.Context) (domain.Address, error) {
	a, err := queryOne(ctx, r.db, scanAddress, fmt.Errorf("last address: %w", domain.ErrAddressNotFound),
		`SELECT `+addressColumns+` FROM addresses ORDER BY id DESC LIMIT 1`)
	if err != nil && !domain.IsNotFound(err) {
		return domain.Address{}, fmt.Errorf("select last address: %w", err)
	}
	return a, err
}

func (r *addressRepository) ResetIDSequence(ctx context.Context) error {
	return r.table.resetIDSequence(ctx)
}

var _ domain.AddressRepository = (*addressRepository)(nil)
