package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCategories(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{name: "quantity is validation", err: ErrQuantityInvalid, check: IsValidation, want: true},
		{name: "tax id duplicate", err: ErrDuplicateTaxID, check: IsDuplicate, want: true},
		{name: "order shipped is invalid state", err: ErrOrderShipped, check: IsInvalidState, want: true},
		{name: "customer not found", err: ErrCustomerNotFound, check: IsNotFound, want: true},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", ErrItemNotFound), check: IsNotFound, want: true},
		{name: "joined persistence", err: errors.Join(ErrPersistence, errors.New("conn reset")), check: IsPersistence, want: true},
		{name: "not found is not duplicate", err: ErrOrderNotFound, check: IsDuplicate, want: false},
		{name: "nil error", err: nil, check: IsNotFound, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("check(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestReferenceError(t *testing.T) {
	err := error(&ReferenceError{Entity: "item", Key: "A000001", Orders: []int64{3, 7}})

	if !IsReferentialIntegrity(err) {
		t.Fatal("ReferenceError must unwrap to ErrReferentialIntegrity")
	}
	var refErr *ReferenceError
	if !errors.As(fmt.Errorf("delete: %w", err), &refErr) {
		t.Fatal("expected errors.As to find ReferenceError")
	}
	if len(refErr.Orders) != 2 {
		t.Fatalf("unexpected blocking orders: %v", refErr.Orders)
	}
	if got := err.Error(); got != `item "A000001" is referenced by 2 order(s): 3,7` {
		t.Fatalf("unexpected message %q", got)
	}
}
