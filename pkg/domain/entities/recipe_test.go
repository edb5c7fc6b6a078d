package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseUnit(t *testing.T) {
	for _, label := range []string{"g", "pcs", "count", "text"} {
		unit, err := ParseUnit(label)
		if err != nil {
			t.Fatalf("Expected %s to parse: %v", label, err)
		}
		if unit.String() != label {
			t.Errorf("Expected round trip of %s, got %s", label, unit)
		}
	}

	if _, err := ParseUnit("kg"); err == nil {
		t.Error("Expected error for unknown unit")
	}

	var u Unit
	if err := u.UnmarshalText([]byte("pcs")); err != nil || u != Pieces {
		t.Errorf("Expected pcs to unmarshal to Pieces, got %v (%v)", u, err)
	}
}

func TestRecipe_QuantityOf(t *testing.T) {
	recipe, err := NewRecipe("Fried Rice", map[IngredientName]float64{"Rice": 250})
	if err != nil {
		t.Fatalf("Expected valid recipe creation to succeed: %v", err)
	}
	if got := recipe.QuantityOf("Rice"); got != 250 {
		t.Errorf("Expected 250, got %v", got)
	}
	if got := recipe.QuantityOf("Egg"); got != 0 {
		t.Errorf("Expected unused ingredient to be 0, got %v", got)
	}

	if _, err := NewRecipe("", nil); err == nil {
		t.Error("Expected error for empty item name")
	}
}

func TestNewSaleRecord(t *testing.T) {
	amount := decimal.NewNullDecimal(decimal.NewFromInt(150))
	record, err := NewSaleRecord("Beef Noodle Soup", "May", amount, decimal.NullDecimal{})
	if err != nil {
		t.Fatalf("Expected valid sale record creation to succeed: %v", err)
	}
	if !ValueOrZero(record.Amount).Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected amount 150, got %s", ValueOrZero(record.Amount))
	}
	if !ValueOrZero(record.Count).IsZero() {
		t.Errorf("Expected missing count to read as zero, got %s", ValueOrZero(record.Count))
	}

	if _, err := NewSaleRecord("", "May", amount, amount); err == nil {
		t.Error("Expected error for empty item name")
	}
	if _, err := NewSaleRecord("Soup", "", amount, amount); err == nil {
		t.Error("Expected error for empty month")
	}
}
