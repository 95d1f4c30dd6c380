package domain_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

func filterFixture() []domain.Order {
	mk := func(number int64, customer domain.Customer, prep int, date time.Time, shipped bool) domain.Order {
		o := makeOrder(customer)
		o.Number = number
		o.Item.PreparationDays = prep
		o.OrderDate = date
		o.Shipped = shipped
		return o
	}

	return []domain.Order{
		mk(1, standardCustomer(), 5, day(2024, time.March, 1), true), // ship 03-06
		mk(2, premiumCustomer(), 1, day(2024, time.March, 2), true),  // ship 03-03
		mk(3, standardCustomer(), 1, day(2024, time.March, 3), false),
		mk(4, premiumCustomer(), 2, day(2024, time.March, 1), true), // ship 03-03
		mk(5, premiumCustomer(), 0, day(2024, time.March, 4), false),
	}
}

func numbers(orders []domain.Order) []int64 {
	out := make([]int64, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Number)
	}
	return out
}

func equalNumbers(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterByStatus(t *testing.T) {
	tests := []struct {
		name   string
		status domain.StatusFilter
		want   []int64
	}{
		{name: "all keeps insertion order", status: domain.StatusFilterAll, want: []int64{1, 2, 3, 4, 5}},
		{name: "pending", status: domain.StatusFilterPending, want: []int64{3, 5}},
		{name: "shipped sorted by ship date", status: domain.StatusFilterShipped, want: []int64{2, 4, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := filterFixture()
			got := numbers(domain.FilterByStatus(orders, tt.status))
			if !equalNumbers(got, tt.want) {
				t.Fatalf("FilterByStatus(%s) = %v, want %v", tt.status, got, tt.want)
			}
			if !equalNumbers(numbers(orders), []int64{1, 2, 3, 4, 5}) {
				t.Fatal("filtering must not reorder the input")
			}
		})
	}
}

func TestFilterByCustomer(t *testing.T) {
	orders := filterFixture()

	got := numbers(domain.FilterByCustomer(orders, " 12345678b "))
	if !equalNumbers(got, []int64{2, 4, 5}) {
		t.Fatalf("unexpected orders for premium customer: %v", got)
	}
	if got := domain.FilterByCustomer(orders, "00000000Z"); len(got) != 0 {
		t.Fatalf("expected no orders, got %v", numbers(got))
	}
}

func TestOrderFilterApply(t *testing.T) {
	orders := filterFixture()

	got := numbers(domain.OrderFilter{
		Status:        domain.StatusFilterShipped,
		CustomerTaxID: "12345678B",
	}.Apply(orders))
	if !equalNumbers(got, []int64{2, 4}) {
		t.Fatalf("unexpected filtered orders: %v", got)
	}

	if got := (domain.OrderFilter{}).Apply(orders); len(got) != len(orders) {
		t.Fatalf("empty filter must keep all orders, got %d", len(got))
	}
}

func TestFilterByShipDate(t *testing.T) {
	orders := filterFixture()

	got := numbers(domain.FilterByShipDate(orders, day(2024, time.March, 3), day(2024, time.March, 4)))
	if !equalNumbers(got, []int64{2, 4, 3, 5}) {
		t.Fatalf("unexpected ship-date window: %v", got)
	}

	got = numbers(domain.FilterByShipDate(orders, time.Time{}, time.Time{}))
	if !equalNumbers(got, []int64{2, 4, 3, 5, 1}) {
		t.Fatalf("open window must sort all orders by ship date: %v", got)
	}
}

func TestStatusFilterValid(t *testing.T) {
	for _, f := range []domain.StatusFilter{domain.StatusFilterAll, domain.StatusFilterPending, domain.StatusFilterShipped} {
		if !f.Valid() {
			t.Fatalf("%s should be valid", f)
		}
	}
	if domain.StatusFilter("delivered").Valid() {
		t.Fatal("unknown filter must be invalid")
	}
}
