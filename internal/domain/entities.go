package domain

import "strings"

// Difficulty описывает сложность рецепта.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Valid сообщает, входит ли значение в перечисление.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

// NormalizeDifficulty приводит значение из хранилища к перечислению.
// Неизвестное значение заменяется на medium, второй результат тогда false.
func NormalizeDifficulty(d Difficulty) (Difficulty, bool) {
	n := Difficulty(strings.ToLower(strings.TrimSpace(string(d))))
	if n.Valid() {
		return n, true
	}
	return DifficultyMedium, false
}

// Recipe описывает строку таблицы recipes в объёме, который нужен публичному представлению.
type Recipe struct {
	ID               string
	Title            string
	Summary          *string
	Description      *string
	HeroImage        *string
	ThumbnailImage   *string
	PrepTimeMinutes  *int
	CookTimeMinutes  *int
	TotalTimeMinutes int
	Difficulty       Difficulty
	Servings         int
	Cuisine          string
	IsPublished      bool
}

// Ingredient описывает строку recipe_ingredients.
type Ingredient struct {
	ID         string
	RecipeID   string
	Name       string
	Quantity   *float64
	Unit       *string
	Group      *string
	Note       *string
	OrderIndex int
}

// Step описывает строку recipe_steps.
type Step struct {
	ID          string
	RecipeID    string
	StepNumber  int
	Instruction string
	TimeMinutes *int
	Tip         *string
	ImageURL    *string
}
