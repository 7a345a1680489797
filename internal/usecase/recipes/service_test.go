package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"jikonify-landing/internal/domain"
)

type stubStore struct {
	mu          sync.Mutex
	recipes     map[string]domain.Recipe
	ingredients map[string][]domain.Ingredient
	steps       map[string][]domain.Step
	recipeErr   error
	ingErr      error
	stepErr     error
	calls       int
}

func (s *stubStore) GetPublishedRecipe(_ context.Context, id string) (domain.Recipe, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.recipeErr != nil {
		return domain.Recipe{}, s.recipeErr
	}
	r, ok := s.recipes[id]
	if !ok || !r.IsPublished {
		return domain.Recipe{}, domain.ErrRecipeNotFound
	}
	return r, nil
}

func (s *stubStore) ListIngredients(_ context.Context, id string) ([]domain.Ingredient, error) {
	if s.ingErr != nil {
		return nil, s.ingErr
	}
	return s.ingredients[id], nil
}

func (s *stubStore) ListSteps(_ context.Context, id string) ([]domain.Step, error) {
	if s.stepErr != nil {
		return nil, s.stepErr
	}
	return s.steps[id], nil
}

func ptr[T any](v T) *T { return &v }

func breadStore() *stubStore {
	return &stubStore{
		recipes: map[string]domain.Recipe{
			"abc123": {ID: "abc123", Title: "Bread", TotalTimeMinutes: 30, Difficulty: domain.DifficultyEasy, Servings: 2, Cuisine: "Kenyan", IsPublished: true},
			"draft":  {ID: "draft", Title: "Draft", IsPublished: false},
		},
		ingredients: map[string][]domain.Ingredient{
			"abc123": {
				{Name: "Flour", Quantity: ptr(200.0), Unit: ptr("g"), OrderIndex: 1},
				{Name: "Salt", Quantity: ptr(1.0), Unit: ptr("tsp"), OrderIndex: 0},
			},
		},
		steps: map[string][]domain.Step{
			"abc123": {{StepNumber: 1, Instruction: "Mix well"}},
		},
	}
}

func TestGetReshapesAndOrders(t *testing.T) {
	svc := NewService(breadStore(), zerolog.Nop())
	got, err := svc.Get(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	wantIngredients := []domain.PublicIngredient{
		{Name: "Salt", Quantity: ptr(1.0), Unit: ptr("tsp")},
		{Name: "Flour", Quantity: ptr(200.0), Unit: ptr("g")},
	}
	if diff := cmp.Diff(wantIngredients, got.Ingredients); diff != "" {
		t.Fatalf("ингредиенты (-want +got):\n%s", diff)
	}
	wantSteps := []domain.PublicStep{{StepNumber: 1, Instruction: "Mix well"}}
	if diff := cmp.Diff(wantSteps, got.Instructions); diff != "" {
		t.Fatalf("шаги (-want +got):\n%s", diff)
	}
}

func TestGetSortsStepsRegardlessOfStoreOrder(t *testing.T) {
	store := breadStore()
	store.steps["abc123"] = []domain.Step{
		{StepNumber: 3, Instruction: "c"},
		{StepNumber: 1, Instruction: "a"},
		{StepNumber: 2, Instruction: "b"},
	}
	got, err := NewService(store, zerolog.Nop()).Get(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	for i, st := range got.Instructions {
		if st.StepNumber != i+1 {
			t.Fatalf("ожидали шаги по возрастанию, получили %+v", got.Instructions)
		}
	}
}

func TestGetNotFoundCases(t *testing.T) {
	svc := NewService(breadStore(), zerolog.Nop())
	for _, id := range []string{"missing", "draft"} {
		if _, err := svc.Get(context.Background(), id); !errors.Is(err, domain.ErrRecipeNotFound) {
			t.Fatalf("для %s ожидали ErrRecipeNotFound, получили %v", id, err)
		}
	}
}

func TestGetWithoutStoreIsNotConfigured(t *testing.T) {
	svc := NewService(nil, zerolog.Nop())
	if _, err := svc.Get(context.Background(), "abc123"); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("ожидали ErrNotConfigured, получили %v", err)
	}
}

func TestGetWrapsUnexpectedParentError(t *testing.T) {
	store := breadStore()
	store.recipeErr = errors.New("connection refused")
	_, err := NewService(store, zerolog.Nop()).Get(context.Background(), "abc123")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("ожидали ErrStoreUnavailable, получили %v", err)
	}
}

func TestGetDegradesChildFailuresToEmpty(t *testing.T) {
	store := breadStore()
	store.ingErr = errors.New("ingredients boom")
	store.stepErr = errors.New("steps boom")
	got, err := NewService(store, zerolog.Nop()).Get(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	raw, _ := json.Marshal(got)
	var decoded map[string]json.RawMessage
	_ = json.Unmarshal(raw, &decoded)
	if string(decoded["ingredients"]) != "[]" {
		t.Fatalf("ожидали ingredients: [], получили %s", decoded["ingredients"])
	}
	if string(decoded["instructions"]) != "[]" {
		t.Fatalf("ожидали instructions: [], получили %s", decoded["instructions"])
	}
}

func TestGetIngredientsFailureKeepsSteps(t *testing.T) {
	store := breadStore()
	store.ingErr = errors.New("ingredients boom")
	got, err := NewService(store, zerolog.Nop()).Get(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if string(decoded["ingredients"]) != "[]" {
		t.Fatalf("ожидали ingredients: [], получили %s", decoded["ingredients"])
	}
	wantSteps := []domain.PublicStep{{StepNumber: 1, Instruction: "Mix well"}}
	if diff := cmp.Diff(wantSteps, got.Instructions); diff != "" {
		t.Fatalf("шаги должны остаться (-want +got):\n%s", diff)
	}
}

func TestGetSortsExtremeOrderIndexes(t *testing.T) {
	store := breadStore()
	store.ingredients["abc123"] = []domain.Ingredient{
		{Name: "Last", OrderIndex: math.MaxInt},
		{Name: "First", OrderIndex: math.MinInt},
	}
	got, err := NewService(store, zerolog.Nop()).Get(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got.Ingredients[0].Name != "First" || got.Ingredients[1].Name != "Last" {
		t.Fatalf("неверный порядок: %+v", got.Ingredients)
	}
}

func TestGetNormalizesDifficulty(t *testing.T) {
	cases := map[domain.Difficulty]domain.Difficulty{
		" Hard ": domain.DifficultyHard,
		"expert": domain.DifficultyExpert,
		"insane": domain.DifficultyMedium,
		"":       domain.DifficultyMedium,
	}
	for stored, want := range cases {
		store := breadStore()
		r := store.recipes["abc123"]
		r.Difficulty = stored
		store.recipes["abc123"] = r
		got, err := NewService(store, zerolog.Nop()).Get(context.Background(), "abc123")
		if err != nil {
			t.Fatalf("не ожидали ошибку: %v", err)
		}
		if got.Difficulty != want {
			t.Fatalf("для %q ожидали %q, получили %q", stored, want, got.Difficulty)
		}
	}
}

func TestGetReadsStoreEveryCall(t *testing.T) {
	store := breadStore()
	svc := NewService(store, zerolog.Nop())
	for i := 0; i < 3; i++ {
		if _, err := svc.Get(context.Background(), "abc123"); err != nil {
			t.Fatalf("не ожидали ошибку: %v", err)
		}
	}
	if store.calls != 3 {
		t.Fatalf("ожидали 3 обращения к хранилищу, получили %d", store.calls)
	}
}
