package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jikonify-landing/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, "anon-key", WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New("", "key")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
	_, err = New("https://proj.supabase.co", "")
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestGetPublishedRecipeFilters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/recipes", r.URL.Path)
		assert.Equal(t, "eq.abc123", r.URL.Query().Get("id"))
		assert.Equal(t, "eq.true", r.URL.Query().Get("is_published"))
		assert.Equal(t, recipeColumns, r.URL.Query().Get("select"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":"abc123","title":"Bread","summary":null,"total_time_minutes":30,"difficulty":"easy","servings":2,"cuisine":"Kenyan","is_published":true,"rating_average":4.2,"created_at":"2024-05-01T10:00:00.123456+00:00","updated_at":"2024-05-02T10:00:00+00:00"}]`))
	})

	recipe, err := c.GetPublishedRecipe(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Bread", recipe.Title)
	assert.Nil(t, recipe.Summary)
	assert.Equal(t, domain.DifficultyEasy, recipe.Difficulty)
	assert.Equal(t, 30, recipe.TotalTimeMinutes)
}

func TestGetPublishedRecipeIgnoresInternalColumns(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NotContains(t, r.URL.Query().Get("select"), "created_at")
		_, _ = w.Write([]byte(`[{"id":"abc123","title":"Bread","difficulty":"easy","is_published":true,"created_at":"2024-05-01T10:00:00.123456","updated_at":null,"rating_average":"n/a"}]`))
	})

	recipe, err := c.GetPublishedRecipe(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Bread", recipe.Title)
}

func TestGetPublishedRecipeEmptyIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	_, err := c.GetPublishedRecipe(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestInvalidUUIDIsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"22P02","message":"invalid input syntax for type uuid: \"missing\""}`))
	})
	_, err := c.GetPublishedRecipe(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestServerErrorIsUnavailable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"upstream down"}`))
	})
	_, err := c.ListSteps(context.Background(), "abc123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
	assert.Contains(t, err.Error(), "upstream down")
}

func TestListIngredientsOrdersByIndex(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/recipe_ingredients", r.URL.Path)
		assert.Equal(t, "order_index.asc", r.URL.Query().Get("order"))
		assert.Equal(t, "eq.abc123", r.URL.Query().Get("recipe_id"))
		_, _ = w.Write([]byte(`[{"name":"Salt","quantity":1,"unit":"tsp","order_index":0},{"name":"Flour","quantity":200,"unit":"g","group":"dry","order_index":1}]`))
	})
	ings, err := c.ListIngredients(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, ings, 2)
	assert.Equal(t, "Salt", ings[0].Name)
	require.NotNil(t, ings[1].Quantity)
	assert.Equal(t, 200.0, *ings[1].Quantity)
	require.NotNil(t, ings[1].Group)
	assert.Equal(t, "dry", *ings[1].Group)
}
