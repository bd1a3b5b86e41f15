package userControllers

import (
	"errors"
	"testing"

	"github.com/haku19602/beetlefactory-back/apperr"
)

func TestNextCartStep_ExistingEntry(t *testing.T) {
	tests := []struct {
		name     string
		existing int
		delta    int
		stock    int
		sell     bool
		want     cartStep
	}{
		{name: "merge within stock", existing: 2, delta: 3, stock: 10, sell: true, want: cartStep{Quantity: 5}},
		{name: "decrease within stock", existing: 5, delta: -2, stock: 10, sell: true, want: cartStep{Quantity: 3}},
		{name: "delta to zero removes entry", existing: 2, delta: -2, stock: 10, sell: true, want: cartStep{Remove: true}},
		{name: "delta below zero removes entry", existing: 2, delta: -9, stock: 10, sell: true, want: cartStep{Remove: true}},
		{name: "cumulative over stock clamps and reports", existing: 2, delta: 5, stock: 3, sell: true, want: cartStep{Quantity: 3, Insufficient: true}},
		{name: "clamp to zero stock removes entry", existing: 2, delta: 1, stock: 0, sell: true, want: cartStep{Remove: true, Insufficient: true}},
		// Delisting is only checked when inserting a new entry; existing
		// entries still merge. Checkout re-validates authoritatively.
		{name: "delisted product still merges", existing: 1, delta: 1, stock: 5, sell: false, want: cartStep{Quantity: 2}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := nextCartStep(test.existing, true, test.delta, test.stock, test.sell)
			if err != nil {
				t.Fatalf("nextCartStep() error = %v, want nil", err)
			}
			if got != test.want {
				t.Errorf("nextCartStep() = %+v, want %+v", got, test.want)
			}
		})
	}
}

func TestNextCartStep_NewEntry(t *testing.T) {
	tests := []struct {
		name    string
		delta   int
		stock   int
		sell    bool
		want    cartStep
		wantErr error
	}{
		{name: "insert within stock", delta: 2, stock: 5, sell: true, want: cartStep{Quantity: 2}},
		{name: "insert exactly stock", delta: 5, stock: 5, sell: true, want: cartStep{Quantity: 5}},
		{name: "requested over stock rejected without clamp", delta: 10, stock: 3, sell: true, wantErr: apperr.ErrInsufficientStock},
		{name: "delisted reads as missing", delta: 1, stock: 5, sell: false, wantErr: apperr.ErrProductNotFound},
		{name: "zero delta rejected", delta: 0, stock: 5, sell: true, wantErr: apperr.Validation("quantity", "缺少商品數量")},
		{name: "negative delta rejected", delta: -3, stock: 5, sell: true, wantErr: apperr.Validation("quantity", "缺少商品數量")},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := nextCartStep(0, false, test.delta, test.stock, test.sell)
			if test.wantErr != nil {
				if err == nil {
					t.Fatalf("nextCartStep() = %+v, want error %v", got, test.wantErr)
				}
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("nextCartStep() error = %v, want %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("nextCartStep() error = %v, want nil", err)
			}
			if got != test.want {
				t.Errorf("nextCartStep() = %+v, want %+v", got, test.want)
			}
		})
	}
}

// A failed clamp-free insert must leave nothing behind to persist: the step
// carries no quantity and no removal, so the cart stays unchanged.
func TestNextCartStep_FailedInsertLeavesCartUnchanged(t *testing.T) {
	got, err := nextCartStep(0, false, 10, 3, true)
	if !errors.Is(err, apperr.ErrInsufficientStock) {
		t.Fatalf("nextCartStep() error = %v, want ErrInsufficientStock", err)
	}
	if got.Quantity != 0 || got.Remove || got.Insufficient {
		t.Errorf("nextCartStep() = %+v, want zero step", got)
	}
}
