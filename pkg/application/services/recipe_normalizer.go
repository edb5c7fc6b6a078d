package services

import (
	"context"
	"fmt"
	"regexp"

	"github.com/msydata/dashboard/pkg/config"
	"github.com/msydata/dashboard/pkg/domain/entities"
	"github.com/msydata/dashboard/pkg/infrastructure/repositories/memory"
	"github.com/msydata/dashboard/pkg/infrastructure/tabular"
	"github.com/msydata/dashboard/pkg/logging"
)

// unitSuffix matches a parenthesized unit at the end of an ingredient header, e.g. "Rice (g)"
var unitSuffix = regexp.MustCompile(`\s?\((g|pcs|count)\)`)

// ParseIngredientHeader splits a recipe column header into ingredient name and unit.
// Headers without a recognized suffix are measured in grams.
func ParseIngredientHeader(header string) (entities.IngredientName, entities.Unit) {
	match := unitSuffix.FindStringSubmatch(header)
	if match == nil {
		return entities.IngredientName(header), entities.Grams
	}

	unit, err := entities.ParseUnit(match[1])
	if err != nil {
		unit = entities.Grams
	}
	return entities.IngredientName(unitSuffix.ReplaceAllString(header, "")), unit
}

// RecipeNormalizer turns the raw ingredient table into keyed recipe rows
type RecipeNormalizer struct {
	cfg    config.Pipeline
	logger *logging.Logger
}

// NewRecipeNormalizer creates a recipe normalizer
func NewRecipeNormalizer(cfg config.Pipeline, logger *logging.Logger) *RecipeNormalizer {
	return &RecipeNormalizer{
		cfg:    cfg,
		logger: logger.WithComponent("recipe-normalizer"),
	}
}

type recipeColumn struct {
	header     string
	ingredient entities.Ingredient
}

// Normalize parses headers, keys rows by item name, defaults missing cells to
// zero and applies the configured composite folds
func (n *RecipeNormalizer) Normalize(ctx context.Context, table *tabular.Table) (*memory.RecipeRepository, error) {
	idColumn, err := n.identifierColumn(table)
	if err != nil {
		return nil, err
	}

	var columns []recipeColumn
	seen := make(map[entities.IngredientName]bool)
	for _, header := range table.Columns() {
		if header == idColumn {
			continue
		}
		name, unit := ParseIngredientHeader(header)
		if seen[name] {
			n.logger.WarnContext(ctx, "duplicate ingredient column ignored", "header", header, "ingredient", name)
			continue
		}
		seen[name] = true
		columns = append(columns, recipeColumn{header: header, ingredient: entities.Ingredient{Name: name, Unit: unit}})
	}

	var recipes []*entities.Recipe
	keyed := make(map[entities.ItemName]bool, table.Len())
	for row := 0; row < table.Len(); row++ {
		itemName := entities.ItemName(table.Value(row, idColumn))
		if itemName == "" {
			n.logger.WarnContext(ctx, "recipe row without item name skipped", "row", row+2)
			continue
		}
		if keyed[itemName] {
			n.logger.WarnContext(ctx, "duplicate recipe row ignored", "item", itemName, "row", row+2)
			continue
		}
		keyed[itemName] = true

		quantities := make(map[entities.IngredientName]float64, len(columns))
		for _, col := range columns {
			quantities[col.ingredient.Name] = tabular.FloatOrZero(table.Number(row, col.header))
		}

		recipe, err := entities.NewRecipe(itemName, quantities)
		if err != nil {
			return nil, fmt.Errorf("recipe row %d: %w", row+2, err)
		}
		recipes = append(recipes, recipe)
	}

	ingredients := make([]entities.Ingredient, len(columns))
	for i, col := range columns {
		ingredients[i] = col.ingredient
	}
	for _, fold := range n.cfg.CompositeFolds {
		ingredients = n.applyFold(ctx, fold, ingredients, recipes)
	}

	repo := memory.NewRecipeRepository(len(recipes))
	if err := repo.LoadRecipes(ingredients, recipes); err != nil {
		return nil, fmt.Errorf("failed to load recipes into repository: %w", err)
	}
	return repo, nil
}

// identifierColumn finds the item key column, accepting the configured
// header or one already named with the canonical key
func (n *RecipeNormalizer) identifierColumn(table *tabular.Table) (string, error) {
	for _, candidate := range []string{n.cfg.RecipeItemColumn, ItemNameColumn} {
		if table.HasColumn(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("recipe table has no %q column", n.cfg.RecipeItemColumn)
}

// applyFold sums the fold's source columns into its target column and drops
// the sources. A fold whose sources are all absent is skipped.
func (n *RecipeNormalizer) applyFold(ctx context.Context, fold config.CompositeFold, ingredients []entities.Ingredient, recipes []*entities.Recipe) []entities.Ingredient {
	present := make(map[entities.IngredientName]bool, len(ingredients))
	for _, ingredient := range ingredients {
		present[ingredient.Name] = true
	}

	var sources []config.FoldSource
	for _, source := range fold.Sources {
		if present[source.Column] {
			sources = append(sources, source)
		} else {
			n.logger.WarnContext(ctx, "composite fold source column missing", "target", fold.Target, "column", source.Column)
		}
	}
	if len(sources) == 0 {
		return ingredients
	}

	for _, recipe := range recipes {
		total := 0.0
		for _, source := range sources {
			total += recipe.Quantities[source.Column] * source.Factor
			delete(recipe.Quantities, source.Column)
		}
		recipe.Quantities[fold.Target] = total
	}

	folded := make([]entities.Ingredient, 0, len(ingredients)+1)
	dropped := make(map[entities.IngredientName]bool, len(sources))
	for _, source := range sources {
		dropped[source.Column] = true
	}
	for _, ingredient := range ingredients {
		if !dropped[ingredient.Name] && ingredient.Name != fold.Target {
			folded = append(folded, ingredient)
		}
	}
	return append(folded, entities.Ingredient{Name: fold.Target, Unit: fold.Unit})
}
