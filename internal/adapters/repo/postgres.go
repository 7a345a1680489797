package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"jikonify-landing/internal/domain"
	"jikonify-landing/internal/infra/metrics"
)

// invalid_text_representation: id не является корректным uuid.
const pgCodeInvalidText = "22P02"

// Postgres реализует domain.RecipeStore на основе pgxpool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ domain.RecipeStore = (*Postgres)(nil)

// NewPostgres создаёт адаптер БД.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) connCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 5*time.Second)
}

// GetPublishedRecipe возвращает опубликованный рецепт по идентификатору.
func (p *Postgres) GetPublishedRecipe(ctx context.Context, id string) (domain.Recipe, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	var (
		r          domain.Recipe
		difficulty string
	)
	start := time.Now()
	err := p.pool.QueryRow(ctx, `
SELECT id::text, title, summary, description, hero_image, thumbnail_image,
       prep_time_minutes, cook_time_minutes, COALESCE(total_time_minutes, 0), COALESCE(difficulty::text, ''),
       COALESCE(servings, 0), COALESCE(cuisine, ''), is_published
FROM recipes
WHERE id = $1 AND is_published = true
`, id).Scan(&r.ID, &r.Title, &r.Summary, &r.Description, &r.HeroImage, &r.ThumbnailImage,
		&r.PrepTimeMinutes, &r.CookTimeMinutes, &r.TotalTimeMinutes, &difficulty,
		&r.Servings, &r.Cuisine, &r.IsPublished)
	metrics.ObserveNetworkRequest("postgres", "recipes_get_published", "recipes", start, err)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Recipe{}, domain.ErrRecipeNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgCodeInvalidText {
		return domain.Recipe{}, domain.ErrRecipeNotFound
	}
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("select recipe: %w", err)
	}
	r.Difficulty = domain.Difficulty(difficulty)
	return r, nil
}

// ListIngredients возвращает ингредиенты рецепта по order_index.
func (p *Postgres) ListIngredients(ctx context.Context, recipeID string) ([]domain.Ingredient, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id::text, recipe_id::text, name, quantity::float8, unit, "group", note, order_index
FROM recipe_ingredients
WHERE recipe_id = $1
ORDER BY order_index ASC
`, recipeID)
	metrics.ObserveNetworkRequest("postgres", "recipe_ingredients_list", "recipe_ingredients", start, err)
	if err != nil {
		return nil, fmt.Errorf("select ingredients: %w", err)
	}
	defer rows.Close()
	var out []domain.Ingredient
	for rows.Next() {
		var ing domain.Ingredient
		if err := rows.Scan(&ing.ID, &ing.RecipeID, &ing.Name, &ing.Quantity, &ing.Unit, &ing.Group, &ing.Note, &ing.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// ListSteps возвращает шаги рецепта по step_number.
func (p *Postgres) ListSteps(ctx context.Context, recipeID string) ([]domain.Step, error) {
	ctx, cancel := p.connCtx(ctx)
	defer cancel()

	start := time.Now()
	rows, err := p.pool.Query(ctx, `
SELECT id::text, recipe_id::text, step_number, instruction, time_minutes, tip, image_url
FROM recipe_steps
WHERE recipe_id = $1
ORDER BY step_number ASC
`, recipeID)
	metrics.ObserveNetworkRequest("postgres", "recipe_steps_list", "recipe_steps", start, err)
	if err != nil {
		return nil, fmt.Errorf("select steps: %w", err)
	}
	defer rows.Close()
	var out []domain.Step
	for rows.Next() {
		var st domain.Step
		if err := rows.Scan(&st.ID, &st.RecipeID, &st.StepNumber, &st.Instruction, &st.TimeMinutes, &st.Tip, &st.ImageURL); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
