package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/backoffice/internal/collection"
	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// Адрес хранится отдельной строкой в addresses и подтягивается LEFT JOIN.
const customerSelect = `
	SELECT c.id, c.name, c.tax_id, c.email, c.kind,
	       c.membership_code, c.annual_fee, c.shipping_discount_rate,
	       COALESCE(a.id, 0), COALESCE(a.street, ''), COALESCE(a.city, ''),
	       COALESCE(a.region, ''), COALESCE(a.postal_code, ''), COALESCE(a.country, '')
	FROM customers c
	LEFT JOIN addresses a ON a.id = c.address_id`

type customerRepository struct {
	db    *sql.DB
	table sqlTable
}

// NewCustomerRepository создаёт PostgreSQL-реализацию CustomerRepository.
func NewCustomerRepository(store *Store) domain.CustomerRepository {
	return &customerRepository{
		db:    store.DB(),
		table: sqlTable{db: store.DB(), name: "customers", notFound: domain.ErrCustomerNotFound},
	}
}

func scanCustomer(row rowScanner) (domain.Customer, error) {
	var (
		c    domain.Customer
		kind string
		code sql.NullString
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.TaxID, &c.Email, &kind,
		&code, &c.Membership.AnnualFee, &c.Membership.ShippingDiscountRate,
		&c.Address.ID, &c.Address.Street, &c.Address.City,
		&c.Address.Region, &c.Address.PostalCode, &c.Address.Country,
	)
	if err != nil {
		return domain.Customer{}, err
	}
	c.Kind = domain.CustomerKind(kind)
	if !c.Kind.Valid() {
		return domain.Customer{}, fmt.Errorf("invalid customer kind %q for tax id %s", kind, c.TaxID)
	}
	c.Membership.Code = code.String
	return c, nil
}

// customerArgs раскладывает клиента в колонки; у standard-клиента членство пустое.
func customerArgs(c domain.Customer) []any {
	var (
		code      sql.NullString
		addressID sql.NullInt64
	)
	if c.IsPremium() {
		code = sql.NullString{String: c.Membership.Code, Valid: true}
	}
	if c.Address.ID != 0 {
		addressID = sql.NullInt64{Int64: c.Address.ID, Valid: true}
	}
	return []any{
		domain.NormalizeTaxID(c.TaxID), c.Name, c.Email, string(c.Kind), addressID,
		code, c.AnnualFee(), c.ShippingDiscountRate(),
	}
}

func (r *customerRepository) FindAll(ctx context.Context) (*collection.List[domain.Customer], error) {
	customers, err := queryList(ctx, r.db, scanCustomer, domain.Customer.SameAs, customerSelect+` ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (r *customerRepository) FindByID(ctx context.Context, id int64) (domain.Customer, error) {
	c, err := queryOne(ctx, r.db, scanCustomer, fmt.Errorf("id %d: %w", id, domain.ErrCustomerNotFound),
		customerSelect+` WHERE c.id = $1`, id)
	if err != nil && !domain.IsNotFound(err) {
		return domain.Customer{}, fmt.Errorf("select customer: %w", err)
	}
	return c, err
}

// FindOne ищет клиента по нормализованному NIF.
func (r *customerRepository) FindOne(ctx context.Context, taxID string) (domain.Customer, error) {
	taxID = domain.NormalizeTaxID(taxID)
	c, err := queryOne(ctx, r.db, scanCustomer, fmt.Errorf("tax id %q: %w", taxID, domain.ErrCustomerNotFound),
		customerSelect+` WHERE c.tax_id = $1`, taxID)
	if err != nil && !domain.IsNotFound(err) {
		return domain.Customer{}, fmt.Errorf("select customer by tax id: %w", err)
	}
	return c, err
}

func (r *customerRepository) Save(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	args := customerArgs(c)
	if c.ID == 0 {
		err := r.db.QueryRowContext(ctx, `
			INSERT INTO customers (
				tax_id, name, email, kind, address_id, membership_code, annual_fee, shipping_discount_rate
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			RETURNING id
		`, args...).Scan(&c.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.Customer{}, fmt.Errorf("tax id %q: %w", c.TaxID, domain.ErrDuplicateTaxID)
			}
			return domain.Customer{}, fmt.Errorf("insert customer: %w", err)
		}
		return c, nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET tax_id = $1, name = $2, email = $3, kind = $4, address_id = $5,
		    membership_code = $6, annual_fee = $7, shipping_discount_rate = $8
		WHERE id = $9
	`, append(args, c.ID)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Customer{}, fmt.Errorf("tax id %q: %w", c.TaxID, domain.ErrDuplicateTaxID)
		}
		return domain.Customer{}, fmt.Errorf("update customer: %w", err)
	}
	if err := r.table.expectAffected(res, c.ID); err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	return r.table.delete(ctx, id)
}

func (r *customerRepository) Count(ctx context.Context) (int, error) {
	return r.table.count(ctx)
}

func (r *customerRepository) GetLast(ctx context.Context) (domain.Customer, error) {
	c, err := queryOne(ctx, r.db, scanCustomer, fmt.Errorf("last customer: %w", domain.ErrCustomerNotFound),
		customerSelect+` ORDER BY c.id DESC LIMIT 1`)
	if err != nil && !domain.IsNotFound(err) {
		return domain.Customer{}, fmt.Errorf("select last customer: %w", err)
	}
	return c, err
}

func (r *customerRepository) ResetIDSequence(ctx context.Context) error {
	return r.table.resetIDSequence(ctx)
}

var _ domain.CustomerRepository = (*customerRepository)(nil)
