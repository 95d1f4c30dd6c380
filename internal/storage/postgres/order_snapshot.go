package postgres

import (
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// Заказ хранит копии клиента и товара на момент оформления в JSONB,
// чтобы последующие правки каталога не меняли цену уже оформленного заказа.

type addressSnapshot struct {
	ID         int64  `json:"id,omitempty"`
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

type customerSnapshot struct {
	ID                   int64           `json:"id"`
	Name                 string          `json:"name"`
	TaxID                string          `json:"tax_id"`
	Email                string          `json:"email"`
	Kind                 string          `json:"kind"`
	Address              addressSnapshot `json:"address"`
	MembershipCode       string          `json:"membership_code,omitempty"`
	AnnualFee            decimal.Decimal `json:"annual_fee"`
	ShippingDiscountRate decimal.Decimal `json:"shipping_discount_rate"`
}

type itemSnapshot struct {
	ID              int64           `json:"id"`
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	PreparationDays int             `json:"preparation_days"`
}

func snapshotCustomer(c domain.Customer) customerSnapshot {
	return customerSnapshot{
		ID:    c.ID,
		Name:  c.Name,
		TaxID: c.TaxID,
		Email: c.Email,
		Kind:  string(c.Kind),
		Address: addressSnapshot{
			ID:         c.Address.ID,
			Street:     c.Address.Street,
			City:       c.Address.City,
			Region:     c.Address.Region,
			PostalCode: c.Address.PostalCode,
			Country:    c.Address.Country,
		},
		MembershipCode:       c.Membership.Code,
		AnnualFee:            c.AnnualFee(),
		ShippingDiscountRate: c.ShippingDiscountRate(),
	}
}

func (s customerSnapshot) toDomain() domain.Customer {
	return domain.Customer{
		ID:    s.ID,
		Name:  s.Name,
		TaxID: s.TaxID,
		Email: s.Email,
		Kind:  domain.CustomerKind(s.Kind),
		Address: domain.Address{
			ID:         s.Address.ID,
			Street:     s.Address.Street,
			City:       s.Address.City,
			Region:     s.Address.Region,
			PostalCode: s.Address.PostalCode,
			Country:    s.Address.Country,
		},
		Membership: domain.Membership{
			Code:                 s.MembershipCode,
			AnnualFee:            s.AnnualFee,
			ShippingDiscountRate: s.ShippingDiscountRate,
		},
	}
}

func snapshotItem(i domain.Item) itemSnapshot {
	return itemSnapshot(i)
}

func (s itemSnapshot) toDomain() domain.Item {
	return domain.Item(s)
}
