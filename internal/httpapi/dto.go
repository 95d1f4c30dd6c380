package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

type createItemRequest struct {
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	PreparationDays int             `json:"preparation_days"`
}

type itemResponse struct {
	Code                 string `json:"code"`
	Description          string `json:"description"`
	Price                string `json:"price"`
	ShippingCost         string `json:"shipping_cost"`
	PreparationDays      int    `json:"preparation_days"`
	DuplicateDescription bool   `json:"duplicate_description,omitempty"`
}

func toItemResponse(item domain.Item) itemResponse {
	return itemResponse{
		Code:            item.Code,
		Description:     item.Description,
		Price:           item.Price.StringFixed(2),
		ShippingCost:    item.ShippingCost.StringFixed(2),
		PreparationDays: item.PreparationDays,
	}
}

type addressDTO struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

func (a addressDTO) toDomain() domain.Address {
	return domain.Address{
		Street:     a.Street,
		City:       a.City,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func fromAddress(a domain.Address) *addressDTO {
	if a.IsZero() {
		return nil
	}
	return &addressDTO{
		Street:     a.Street,
		City:       a.City,
		Region:     a.Region,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

type createCustomerRequest struct {
	Name                 string              `json:"name"`
	TaxID                string              `json:"tax_id"`
	Email                string              `json:"email"`
	Address              addressDTO          `json:"address"`
	Premium              bool                `json:"premium"`
	AnnualFee            decimal.NullDecimal `json:"annual_fee"`
	ShippingDiscountRate decimal.NullDecimal `json:"shipping_discount_rate"`
}

type updateCustomerRequest struct {
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Address addressDTO `json:"address"`
}

type customerResponse struct {
	TaxID                string      `json:"tax_id"`
	Name                 string      `json:"name"`
	Email                string      `json:"email"`
	Kind                 string      `json:"kind"`
	Address              *addressDTO `json:"address,omitempty"`
	MembershipCode       string      `json:"membership_code,omitempty"`
	AnnualFee            string      `json:"annual_fee"`
	ShippingDiscountRate string      `json:"shipping_discount_rate"`
}

func toCustomerResponse(c domain.Customer) customerResponse {
	return customerResponse{
		TaxID:                c.TaxID,
		Name:                 c.Name,
		Email:                c.Email,
		Kind:                 string(c.Kind),
		Address:              fromAddress(c.Address),
		MembershipCode:       c.Membership.Code,
		AnnualFee:            c.AnnualFee().StringFixed(2),
		ShippingDiscountRate: c.ShippingDiscountRate().String(),
	}
}

type placeOrderRequest struct {
	TaxID     string    `json:"tax_id"`
	ItemCode  string    `json:"item_code"`
	Quantity  int       `json:"quantity"`
	OrderDate time.Time `json:"order_date"`
}

type orderResponse struct {
	Number       int64     `json:"number"`
	TaxID        string    `json:"tax_id"`
	ItemCode     string    `json:"item_code"`
	Quantity     int       `json:"quantity"`
	OrderDate    time.Time `json:"order_date"`
	Subtotal     string    `json:"subtotal"`
	ShippingCost string    `json:"shipping_cost"`
	Total        string    `json:"total"`
	ShipDate     string    `json:"ship_date"`
	Status       string    `json:"status"`
}

const dateLayout = time.DateOnly

func toOrderResponse(o domain.Order) orderResponse {
	summary := o.Summarize()
	return orderResponse{
		Number:       o.Number,
		TaxID:        o.Customer.TaxID,
		ItemCode:     o.Item.Code,
		Quantity:     o.Quantity,
		OrderDate:    o.OrderDate,
		Subtotal:     summary.Subtotal.StringFixed(2),
		ShippingCost: summary.ShippingCost.StringFixed(2),
		Total:        summary.Total.StringFixed(2),
		ShipDate:     summary.ShipDate.Format(dateLayout),
		Status:       string(summary.Status),
	}
}

type timelineEventResponse struct {
	Type     string    `json:"type"`
	Reason   string    `json:"reason,omitempty"`
	Occurred time.Time `json:"occurred"`
}

func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
