package entity

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validItem(t *testing.T) LineItem {
	t.Helper()
	item, err := NewLineItem(uuid.Nil, "SKU-1", "Producto", 2, dec("50.00"), dec("10"))
	if err != nil {
		t.Fatal(err)
	}
	return *item
}

func TestNewLineItemValidations(t *testing.T) {
	cases := []struct {
		name     string
		product  string
		quantity int
		price    decimal.Decimal
		discount decimal.Decimal
		wantErr  error
	}{
		{"empty product name", "", 1, dec("10"), decimal.Zero, ErrProductNameRequired},
		{"zero quantity", "P", 0, dec("10"), decimal.Zero, ErrInvalidQuantity},
		{"negative quantity", "P", -3, dec("10"), decimal.Zero, ErrInvalidQuantity},
		{"negative price", "P", 1, dec("-1"), decimal.Zero, ErrInvalidUnitPrice},
		{"discount over 100", "P", 1, dec("10"), dec("101"), ErrInvalidDiscountPercent},
		{"negative discount", "P", 1, dec("10"), dec("-5"), ErrInvalidDiscountPercent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLineItem(uuid.Nil, "SKU", tc.product, tc.quantity, tc.price, tc.discount)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestNetValueAppliesDiscountAndRounds(t *testing.T) {
	// 2 × 50.00 × (1 − 10/100) = 90.00
	item := validItem(t)
	if !item.NetValue().Equal(dec("90.00")) {
		t.Errorf("expected 90.00, got %s", item.NetValue())
	}

	// 3 × 9.99 × (1 − 33/100) = 20.07990 → 20.08
	item2, err := NewLineItem(uuid.Nil, "SKU-2", "Producto", 3, dec("9.99"), dec("33"))
	if err != nil {
		t.Fatal(err)
	}
	if !item2.NetValue().Equal(dec("20.08")) {
		t.Errorf("expected 20.08, got %s", item2.NetValue())
	}
}

func TestNewOpportunityAssignsItemsAndTotal(t *testing.T) {
	tenantID := uuid.New()
	items := []LineItem{validItem(t), validItem(t)}

	opportunity, err := NewOpportunity(tenantID, "Venta Q3", FreightCIF, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if opportunity.Stage != StageOpen {
		t.Errorf("new opportunity must start OPEN, got %s", opportunity.Stage)
	}
	if !opportunity.TotalValue.Equal(dec("180.00")) {
		t.Errorf("expected total 180.00, got %s", opportunity.TotalValue)
	}
	for i := range opportunity.Items {
		if opportunity.Items[i].OpportunityID != opportunity.ID {
			t.Errorf("item %d not linked to aggregate", i)
		}
	}
}

func TestNewOpportunityValidations(t *testing.T) {
	item := validItem(t)

	if _, err := NewOpportunity(uuid.Nil, "T", FreightCIF, []LineItem{item}); !errors.Is(err, ErrTenantIDRequired) {
		t.Errorf("expected ErrTenantIDRequired, got %v", err)
	}
	if _, err := NewOpportunity(uuid.New(), "", FreightCIF, []LineItem{item}); !errors.Is(err, ErrTitleRequired) {
		t.Errorf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := NewOpportunity(uuid.New(), "T", "EXW", []LineItem{item}); !errors.Is(err, ErrInvalidFreightMode) {
		t.Errorf("expected ErrInvalidFreightMode, got %v", err)
	}
	if _, err := NewOpportunity(uuid.New(), "T", FreightFOB, nil); !errors.Is(err, ErrOpportunityMustHaveItems) {
		t.Errorf("expected ErrOpportunityMustHaveItems, got %v", err)
	}
}

func TestStageTransitions(t *testing.T) {
	opportunity, err := NewOpportunity(uuid.New(), "T", FreightFOB, []LineItem{validItem(t)})
	if err != nil {
		t.Fatal(err)
	}

	if err := opportunity.MarkWon(); err != nil {
		t.Fatalf("open opportunity should be winnable: %v", err)
	}
	if err := opportunity.MarkLost(); !errors.Is(err, ErrOpportunityNotOpen) {
		t.Errorf("won opportunity cannot be lost, got %v", err)
	}
	if err := opportunity.MarkWon(); !errors.Is(err, ErrOpportunityNotOpen) {
		t.Errorf("double win must fail, got %v", err)
	}
}

func TestItemUpdateIsEmpty(t *testing.T) {
	if !(ItemUpdate{ItemID: uuid.New()}).IsEmpty() {
		t.Error("update without fields should be empty")
	}
	qty := 1
	if (ItemUpdate{ItemID: uuid.New(), Quantity: &qty}).IsEmpty() {
		t.Error("update with quantity should not be empty")
	}
}
