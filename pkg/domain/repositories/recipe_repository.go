package repositories

import "github.com/msydata/dashboard/pkg/domain/entities"

// RecipeRepository provides access to the normalized recipe table
type RecipeRepository interface {
	GetRecipe(itemName entities.ItemName) (*entities.Recipe, error)
	GetAllRecipes() ([]*entities.Recipe, error)
	LoadRecipes(ingredients []entities.Ingredient, recipes []*entities.Recipe) error

	// Ingredients returns the ingredient columns in table order.
	Ingredients() []entities.Ingredient

	// Unit returns the resolved unit of an ingredient column.
	Unit(name entities.IngredientName) (entities.Unit, bool)
}
