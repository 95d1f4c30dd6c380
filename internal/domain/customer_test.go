package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCustomerVariantBehavior(t *testing.T) {
	base := decimal.RequireFromString("10.0")

	standard := NewStandardCustomer(" Ana ", " 11111111a ", "ana@example.com", Address{})
	premium := NewPremiumCustomer("Luis", "12345678B", "luis@example.com", Address{}, DefaultMembership("PREMIUM1"))

	tests := []struct {
		name         string
		customer     Customer
		wantFee      string
		wantDiscount string
	}{
		{name: "standard", customer: standard, wantFee: "0", wantDiscount: "0"},
		{name: "premium", customer: premium, wantFee: "30", wantDiscount: "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.customer.AnnualFee(); !got.Equal(decimal.RequireFromString(tt.wantFee)) {
				t.Fatalf("AnnualFee() = %s, want %s", got, tt.wantFee)
			}
			if got := tt.customer.ShippingDiscount(base); !got.Equal(decimal.RequireFromString(tt.wantDiscount)) {
				t.Fatalf("ShippingDiscount() = %s, want %s", got, tt.wantDiscount)
			}
		})
	}

	if standard.TaxID != "11111111A" || standard.Name != "Ana" {
		t.Fatalf("constructor must normalize fields: %+v", standard)
	}
	if standard.ShippingDiscountRate().Sign() != 0 {
		t.Fatal("standard customers have no discount rate")
	}
}

func TestCustomerSameAs(t *testing.T) {
	a := NewStandardCustomer("Ana", "11111111A", "a@x", Address{})
	b := NewPremiumCustomer("Other", "11111111a", "b@x", Address{}, DefaultMembership("PREMIUM1"))
	if !a.SameAs(b) {
		t.Fatal("customers are identified by tax id")
	}
}

func TestCustomerValidate(t *testing.T) {
	tests := []struct {
		name     string
		customer Customer
		want     []error
	}{
		{
			name:     "valid standard",
			customer: NewStandardCustomer("Ana", "1A", "a@x", Address{}),
		},
		{
			name:     "valid premium",
			customer: NewPremiumCustomer("Ana", "1A", "a@x", Address{}, DefaultMembership("PREMIUM000001")),
		},
		{
			name:     "missing fields",
			customer: Customer{Kind: CustomerKindStandard},
			want:     []error{ErrCustomerNameRequired, ErrTaxIDRequired, ErrEmailRequired},
		},
		{
			name:     "unknown kind",
			customer: Customer{Name: "A", TaxID: "1", Email: "e", Kind: "gold"},
			want:     []error{ErrCustomerKindInvalid},
		},
		{
			name: "premium without code and bad rate",
			customer: NewPremiumCustomer("Ana", "1A", "a@x", Address{}, Membership{
				AnnualFee:            decimal.NewFromInt(-1),
				ShippingDiscountRate: decimal.RequireFromString("1.5"),
			}),
			want: []error{ErrMembershipCodeRequired, ErrAnnualFeeNegative, ErrDiscountRateInvalid},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.customer.Validate()
			if len(errs) != len(tt.want) {
				t.Fatalf("expected %d errors, got %d: %v", len(tt.want), len(errs), errs)
			}
			joined := errors.Join(errs...)
			for _, want := range tt.want {
				if !errors.Is(joined, want) {
					t.Fatalf("expected %v in %v", want, joined)
				}
			}
		})
	}
}

func TestItemValidate(t *testing.T) {
	valid := NewItem("Corbatero", decimal.RequireFromString("10.50"), decimal.RequireFromString("10"), 1)
	if errs := valid.Validate(); len(errs) != 0 {
		t.Fatalf("expected valid item, got %v", errs)
	}

	invalid := Item{
		Price:           decimal.NewFromInt(-1),
		ShippingCost:    decimal.NewFromInt(-1),
		PreparationDays: -1,
	}
	if errs := invalid.Validate(); len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(errs), errs)
	}
}

func TestMoneyPrecision(t *testing.T) {
	tests := []struct {
		name  string
		errs  func() []error
		want  error
		valid bool
	}{
		{
			name: "price with cents",
			errs: func() []error {
				item := NewItem("Corbatero", decimal.RequireFromString("10.500"), decimal.RequireFromString("10"), 1)
				return item.Validate()
			},
			valid: true,
		},
		{
			name: "price below a cent",
			errs: func() []error {
				item := NewItem("Corbatero", decimal.RequireFromString("10.505"), decimal.RequireFromString("10"), 1)
				return item.Validate()
			},
			want: ErrMoneyPrecision,
		},
		{
			name: "shipping cost below a cent",
			errs: func() []error {
				item := NewItem("Corbatero", decimal.RequireFromString("10.50"), decimal.RequireFromString("9.999"), 1)
				return item.Validate()
			},
			want: ErrMoneyPrecision,
		},
		{
			name: "annual fee below a cent",
			errs: func() []error {
				membership := DefaultMembership("PREMIUM000001")
				membership.AnnualFee = decimal.RequireFromString("29.999")
				c := NewPremiumCustomer("Luis", "12345678B", "l@x", Address{}, membership)
				return c.Validate()
			},
			want: ErrMoneyPrecision,
		},
		{
			name: "discount rate with five places",
			errs: func() []error {
				membership := DefaultMembership("PREMIUM000001")
				membership.ShippingDiscountRate = decimal.RequireFromString("0.12345")
				c := NewPremiumCustomer("Luis", "12345678B", "l@x", Address{}, membership)
				return c.Validate()
			},
			want: ErrDiscountRatePrecision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.errs()
			if tt.valid {
				if len(errs) != 0 {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			joined := errors.Join(errs...)
			if !errors.Is(joined, tt.want) || !IsValidation(joined) {
				t.Fatalf("expected %v, got %v", tt.want, joined)
			}
		})
	}
}

func TestItemSameDescription(t *testing.T) {
	item := NewItem("Corbatero", decimal.Zero, decimal.Zero, 0)
	if !item.SameDescription("  corbatero") {
		t.Fatal("description match must ignore case and surrounding spaces")
	}
	if item.SameDescription("Corbata") {
		t.Fatal("different descriptions must not match")
	}
}

func TestAddress(t *testing.T) {
	if !(Address{ID: 3, City: "  "}).IsZero() {
		t.Fatal("blank address must be zero")
	}
	a := Address{Street: " Calle Mayor 1 ", City: "Madrid", Country: "ES"}.Normalize()
	if a.Street != "Calle Mayor 1" {
		t.Fatalf("unexpected normalized street %q", a.Street)
	}
	if got := a.String(); got != "Calle Mayor 1, Madrid, ES" {
		t.Fatalf("unexpected address string %q", got)
	}
}
