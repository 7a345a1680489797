package domain

import (
	"context"
	"time"
)

// RecipeStore читает рецепты из внешнего хранилища.
type RecipeStore interface {
	// GetPublishedRecipe возвращает ErrRecipeNotFound, если строки нет или is_published=false.
	GetPublishedRecipe(ctx context.Context, id string) (Recipe, error)
	ListIngredients(ctx context.Context, recipeID string) ([]Ingredient, error)
	ListSteps(ctx context.Context, recipeID string) ([]Step, error)
}

// RecipeFetcher отдаёт публичное представление рецепта.
type RecipeFetcher interface {
	Get(ctx context.Context, id string) (PublicRecipe, error)
}

// MetaResolver строит метаданные для страницы шаринга.
type MetaResolver interface {
	Resolve(ctx context.Context, id string) ShareMeta
}

// Cache используется для простых TTL-хранилищ.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get возвращает ErrCacheMiss, если ключа нет.
	Get(ctx context.Context, key string) ([]byte, error)
}
