package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CustomerKind различает варианты клиента.
type CustomerKind string

const (
	// CustomerKindStandard — обычный клиент, платит полную стоимость доставки.
	CustomerKindStandard CustomerKind = "standard"
	// CustomerKindPremium — клиент с платным членством и скидкой на доставку.
	CustomerKindPremium CustomerKind = "premium"
)

// MembershipCodePrefix — префикс кода членства premium-клиента.
const MembershipCodePrefix = "PREMIUM"

var (
	// DefaultPremiumAnnualFee — годовой взнос premium-клиента по умолчанию.
	DefaultPremiumAnnualFee = decimal.RequireFromString("30.00")
	// DefaultPremiumShippingDiscount — доля скидки на доставку по умолчанию.
	DefaultPremiumShippingDiscount = decimal.RequireFromString("0.20")
)

// Valid проверяет, что тип клиента поддерживается.
func (k CustomerKind) Valid() bool {
	switch k {
	case CustomerKindStandard, CustomerKindPremium:
		return true
	default:
		return false
	}
}

// Membership хранит параметры premium-членства.
type Membership struct {
	Code                 string
	AnnualFee            decimal.Decimal
	ShippingDiscountRate decimal.Decimal
}

// DefaultMembership возвращает членство со стандартными взносом и скидкой.
func DefaultMembership(code string) Membership {
	return Membership{
		Code:                 code,
		AnnualFee:            DefaultPremiumAnnualFee,
		ShippingDiscountRate: DefaultPremiumShippingDiscount,
	}
}

// Customer — клиент магазина. Общие поля лежат прямо в структуре,
// поведение варианта выбирается по Kind; Membership имеет смысл только для premium.
type Customer struct {
	ID         int64
	Name       string
	Address    Address
	TaxID      string
	Email      string
	Kind       CustomerKind
	Membership Membership
}

// NewStandardCustomer собирает обычного клиента.
func NewStandardCustomer(name, taxID, email string, address Address) Customer {
	return Customer{
		Name:    strings.TrimSpace(name),
		Address: address.Normalize(),
		TaxID:   NormalizeTaxID(taxID),
		Email:   strings.TrimSpace(email),
		Kind:    CustomerKindStandard,
	}
}

// NewPremiumCustomer собирает premium-клиента с заданным членством.
func NewPremiumCustomer(name, taxID, email string, address Address, membership Membership) Customer {
	c := NewStandardCustomer(name, taxID, email, address)
	c.Kind = CustomerKindPremium
	c.Membership = membership
	return c
}

// NormalizeTaxID приводит NIF к каноническому виду для сравнения.
func NormalizeTaxID(taxID string) string {
	return strings.ToUpper(strings.TrimSpace(taxID))
}

// IsPremium сообщает, является ли клиент premium.
func (c Customer) IsPremium() bool {
	return c.Kind == CustomerKindPremium
}

// AnnualFee возвращает годовой взнос клиента; у обычного клиента он нулевой.
func (c Customer) AnnualFee() decimal.Decimal {
	if c.IsPremium() {
		return c.Membership.AnnualFee
	}
	return decimal.Zero
}

// ShippingDiscountRate возвращает долю скидки на доставку.
func (c Customer) ShippingDiscountRate() decimal.Decimal {
	if c.IsPremium() {
		return c.Membership.ShippingDiscountRate
	}
	return decimal.Zero
}

// ShippingDiscount считает скидку на доставку для заданной базовой стоимости.
func (c Customer) ShippingDiscount(shippingCost decimal.Decimal) decimal.Decimal {
	switch c.Kind {
	case CustomerKindPremium:
		return shippingCost.Mul(c.Membership.ShippingDiscountRate)
	default:
		return decimal.Zero
	}
}

// SameAs сравнивает клиентов по бизнес-ключу (NIF).
func (c Customer) SameAs(other Customer) bool {
	return NormalizeTaxID(c.TaxID) == NormalizeTaxID(other.TaxID)
}

// Validate проверяет инварианты клиента и возвращает список замечаний.
func (c *Customer) Validate() []error {
	var errs []error

	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if strings.TrimSpace(c.TaxID) == "" {
		errs = append(errs, ErrTaxIDRequired)
	}
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, ErrEmailRequired)
	}
	if !c.Kind.Valid() {
		errs = append(errs, ErrCustomerKindInvalid)
	}
	if c.IsPremium() {
		if c.Membership.Code == "" {
			errs = append(errs, ErrMembershipCodeRequired)
		}
		if c.Membership.AnnualFee.IsNegative() {
			errs = append(errs, ErrAnnualFeeNegative)
		}
		if !fitsScale(c.Membership.AnnualFee, MoneyScale) {
			errs = append(errs, ErrMoneyPrecision)
		}
		rate := c.Membership.ShippingDiscountRate
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			errs = append(errs, ErrDiscountRateInvalid)
		}
		if !fitsScale(rate, DiscountRateScale) {
			errs = append(errs, ErrDiscountRatePrecision)
		}
	}

	return errs
}
