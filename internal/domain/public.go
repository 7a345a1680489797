package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// PublicRecipe — публичный JSON-контракт рецепта.
type PublicRecipe struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	Summary          *string            `json:"summary"`
	Description      *string            `json:"description"`
	HeroImage        *string            `json:"hero_image"`
	ThumbnailImage   *string            `json:"thumbnail_image"`
	PrepTimeMinutes  *int               `json:"prep_time_minutes"`
	CookTimeMinutes  *int               `json:"cook_time_minutes"`
	TotalTimeMinutes int                `json:"total_time_minutes"`
	Difficulty       Difficulty         `json:"difficulty"`
	Servings         int                `json:"servings"`
	Cuisine          string             `json:"cuisine"`
	Ingredients      []PublicIngredient `json:"ingredients"`
	Instructions     []PublicStep       `json:"instructions"`
}

// PublicIngredient — ингредиент без порядка, группы и заметок.
type PublicIngredient struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
}

// PublicStep — шаг приготовления.
type PublicStep struct {
	StepNumber  int    `json:"step_number"`
	Instruction string `json:"instruction"`
}

// ToPublic собирает публичное представление. Порядок дочерних записей сохраняется как есть.
func ToPublic(r Recipe, ingredients []Ingredient, steps []Step) PublicRecipe {
	view := PublicRecipe{
		ID:               r.ID,
		Title:            r.Title,
		Summary:          r.Summary,
		Description:      r.Description,
		HeroImage:        r.HeroImage,
		ThumbnailImage:   r.ThumbnailImage,
		PrepTimeMinutes:  r.PrepTimeMinutes,
		CookTimeMinutes:  r.CookTimeMinutes,
		TotalTimeMinutes: r.TotalTimeMinutes,
		Difficulty:       r.Difficulty,
		Servings:         r.Servings,
		Cuisine:          r.Cuisine,
		Ingredients:      make([]PublicIngredient, 0, len(ingredients)),
		Instructions:     make([]PublicStep, 0, len(steps)),
	}
	for _, ing := range ingredients {
		view.Ingredients = append(view.Ingredients, PublicIngredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	for _, st := range steps {
		view.Instructions = append(view.Instructions, PublicStep{
			StepNumber:  st.StepNumber,
			Instruction: st.Instruction,
		})
	}
	return view
}

// DecodePublicRecipe разбирает JSON публичного представления. Объект без id и title считается некорректным.
func DecodePublicRecipe(body []byte) (PublicRecipe, error) {
	var recipe PublicRecipe
	if err := json.Unmarshal(body, &recipe); err != nil {
		return PublicRecipe{}, fmt.Errorf("decode recipe: %w", err)
	}
	if recipe.ID == "" && recipe.Title == "" {
		return PublicRecipe{}, errors.New("decode recipe: empty payload")
	}
	return recipe, nil
}
