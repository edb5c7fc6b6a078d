package entities

import "fmt"

// IngredientName is the canonical recipe-side ingredient identifier
type IngredientName string

// Unit represents the measurement unit of an ingredient column
type Unit int

const (
	Grams Unit = iota
	Pieces
	Count
	Text
)

// String returns the short label used in recipe headers and dashboard output
func (u Unit) String() string {
	switch u {
	case Grams:
		return "g"
	case Pieces:
		return "pcs"
	case Count:
		return "count"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// ParseUnit maps a header suffix to a Unit
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "g":
		return Grams, nil
	case "pcs":
		return Pieces, nil
	case "count":
		return Count, nil
	case "text":
		return Text, nil
	default:
		return Grams, fmt.Errorf("invalid unit: %s (expected g, pcs or count)", s)
	}
}

// MarshalText renders the unit label
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText parses a unit label
func (u *Unit) UnmarshalText(b []byte) error {
	parsed, err := ParseUnit(string(b))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Ingredient is one normalized recipe column
type Ingredient struct {
	Name IngredientName
	Unit Unit
}

// Recipe holds per-item ingredient quantities.
// Ingredients absent from Quantities are not used by the item.
type Recipe struct {
	ItemName   ItemName
	Quantities map[IngredientName]float64
}

// NewRecipe creates a validated Recipe
func NewRecipe(itemName ItemName, quantities map[IngredientName]float64) (*Recipe, error) {
	if string(itemName) == "" {
		return nil, fmt.Errorf("item name cannot be empty")
	}
	if quantities == nil {
		quantities = make(map[IngredientName]float64)
	}

	return &Recipe{
		ItemName:   itemName,
		Quantities: quantities,
	}, nil
}

// QuantityOf returns the per-item quantity of an ingredient, zero when unused
func (r *Recipe) QuantityOf(name IngredientName) float64 {
	return r.Quantities[name]
}
