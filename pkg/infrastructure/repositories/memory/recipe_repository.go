package memory

import (
	"fmt"

	"github.com/msydata/dashboard/pkg/domain/entities"
	"github.com/msydata/dashboard/pkg/domain/repositories"
)

// RecipeRepository provides in-memory recipe storage keyed by item name
type RecipeRepository struct {
	recipes     []entities.Recipe
	recipesMap  map[entities.ItemName]int
	ingredients []entities.Ingredient
	units       map[entities.IngredientName]entities.Unit
}

// NewRecipeRepository creates a new in-memory recipe repository
func NewRecipeRepository(expectedItems int) *RecipeRepository {
	return &RecipeRepository{
		recipes:    make([]entities.Recipe, 0, expectedItems),
		recipesMap: make(map[entities.ItemName]int, expectedItems),
		units:      make(map[entities.IngredientName]entities.Unit),
	}
}

// Verify interface compliance
var _ repositories.RecipeRepository = (*RecipeRepository)(nil)

// LoadRecipes loads ingredient columns and recipe rows into the repository
func (r *RecipeRepository) LoadRecipes(ingredients []entities.Ingredient, recipes []*entities.Recipe) error {
	for _, ingredient := range ingredients {
		if _, exists := r.units[ingredient.Name]; exists {
			return fmt.Errorf("duplicate ingredient column: %s", ingredient.Name)
		}
		r.units[ingredient.Name] = ingredient.Unit
		r.ingredients = append(r.ingredients, ingredient)
	}

	for _, recipe := range recipes {
		if err := r.AddRecipe(*recipe); err != nil {
			return err
		}
	}
	return nil
}

// AddRecipe adds a recipe row, rejecting a second row for the same item
func (r *RecipeRepository) AddRecipe(recipe entities.Recipe) error {
	if _, exists := r.recipesMap[recipe.ItemName]; exists {
		return fmt.Errorf("duplicate recipe for item: %s", recipe.ItemName)
	}
	r.recipesMap[recipe.ItemName] = len(r.recipes)
	r.recipes = append(r.recipes, recipe)
	return nil
}

// GetRecipe returns the recipe row for an item
func (r *RecipeRepository) GetRecipe(itemName entities.ItemName) (*entities.Recipe, error) {
	index, exists := r.recipesMap[itemName]
	if !exists {
		return nil, fmt.Errorf("recipe not found: %s", itemName)
	}
	return &r.recipes[index], nil
}

// GetAllRecipes returns all recipe rows in load order
func (r *RecipeRepository) GetAllRecipes() ([]*entities.Recipe, error) {
	recipes := make([]*entities.Recipe, 0, len(r.recipes))
	for i := range r.recipes {
		recipes = append(recipes, &r.recipes[i])
	}
	return recipes, nil
}

// Ingredients returns the ingredient columns in table order
func (r *RecipeRepository) Ingredients() []entities.Ingredient {
	ingredients := make([]entities.Ingredient, len(r.ingredients))
	copy(ingredients, r.ingredients)
	return ingredients
}

// Unit returns the resolved unit of an ingredient column
func (r *RecipeRepository) Unit(name entities.IngredientName) (entities.Unit, bool) {
	unit, ok := r.units[name]
	return unit, ok
}
