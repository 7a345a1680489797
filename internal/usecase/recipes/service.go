package recipes

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"jikonify-landing/internal/domain"
	"jikonify-landing/internal/infra/metrics"
)

// Service отдаёт публичное представление опубликованных рецептов.
type Service struct {
	store domain.RecipeStore
	log   zerolog.Logger
}

var _ domain.RecipeFetcher = (*Service)(nil)

// NewService создаёт сервис. store может быть nil, тогда Get возвращает domain.ErrNotConfigured.
func NewService(store domain.RecipeStore, logger zerolog.Logger) *Service {
	return &Service{store: store, log: logger}
}

// Get читает рецепт и его дочерние коллекции.
// Ошибка в ингредиентах или шагах не фатальна: коллекция становится пустой, ошибка логируется.
func (s *Service) Get(ctx context.Context, id string) (domain.PublicRecipe, error) {
	if s.store == nil {
		return domain.PublicRecipe{}, domain.ErrNotConfigured
	}

	recipe, err := s.store.GetPublishedRecipe(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) || errors.Is(err, domain.ErrNotConfigured) || errors.Is(err, domain.ErrStoreUnavailable) {
			return domain.PublicRecipe{}, err
		}
		return domain.PublicRecipe{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if !recipe.IsPublished {
		return domain.PublicRecipe{}, domain.ErrRecipeNotFound
	}
	difficulty, ok := domain.NormalizeDifficulty(recipe.Difficulty)
	if !ok {
		s.log.Warn().Str("recipe_id", id).Str("difficulty", string(recipe.Difficulty)).Msg("recipes: unknown difficulty, using medium")
	}
	recipe.Difficulty = difficulty

	var (
		ingredients []domain.Ingredient
		steps       []domain.Step
	)
	// TODO: деградация до пустых коллекций требует подтверждения со стороны продукта.
	var g errgroup.Group
	g.Go(func() error {
		res, err := s.store.ListIngredients(ctx, id)
		if err != nil {
			s.log.Error().Err(err).Str("recipe_id", id).Msg("recipes: ingredients lookup failed")
			metrics.IncPartialFailure("ingredients")
			return nil
		}
		ingredients = res
		return nil
	})
	g.Go(func() error {
		res, err := s.store.ListSteps(ctx, id)
		if err != nil {
			s.log.Error().Err(err).Str("recipe_id", id).Msg("recipes: steps lookup failed")
			metrics.IncPartialFailure("steps")
			return nil
		}
		steps = res
		return nil
	})
	_ = g.Wait()

	slices.SortStableFunc(ingredients, func(a, b domain.Ingredient) int {
		return cmp.Compare(a.OrderIndex, b.OrderIndex)
	})
	slices.SortStableFunc(steps, func(a, b domain.Step) int {
		return cmp.Compare(a.StepNumber, b.StepNumber)
	})
	return domain.ToPublic(recipe, ingredients, steps), nil
}
