// Package supabase читает рецепты через PostgREST API Supabase с anon key.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jikonify-landing/internal/domain"
	"jikonify-landing/internal/infra/metrics"
)

const restPrefix = "/rest/v1/"

// Client реализует domain.RecipeStore поверх PostgREST.
type Client struct {
	baseURL    *url.URL
	anonKey    string
	httpClient *http.Client
}

var _ domain.RecipeStore = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// apiError — тело ошибки PostgREST.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// New создаёт клиента. Без URL или ключа возвращает domain.ErrNotConfigured.
func New(baseURL, anonKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" || anonKey == "" {
		return nil, domain.ErrNotConfigured
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse supabase url: %w", err)
	}
	if parsed.Scheme == "" {
		parsed.Scheme = "https"
	}
	c := &Client{
		baseURL:    parsed,
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// recipeColumns ограничивает выборку полями публичного представления и флагом публикации.
const recipeColumns = "id,title,summary,description,hero_image,thumbnail_image," +
	"prep_time_minutes,cook_time_minutes,total_time_minutes,difficulty,servings,cuisine,is_published"

type recipeRow struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Summary          *string `json:"summary"`
	Description      *string `json:"description"`
	HeroImage        *string `json:"hero_image"`
	ThumbnailImage   *string `json:"thumbnail_image"`
	PrepTimeMinutes  *int    `json:"prep_time_minutes"`
	CookTimeMinutes  *int    `json:"cook_time_minutes"`
	TotalTimeMinutes int     `json:"total_time_minutes"`
	Difficulty       string  `json:"difficulty"`
	Servings         int     `json:"servings"`
	Cuisine          string  `json:"cuisine"`
	IsPublished      bool    `json:"is_published"`
}

type ingredientRow struct {
	ID         string   `json:"id"`
	RecipeID   string   `json:"recipe_id"`
	Name       string   `json:"name"`
	Quantity   *float64 `json:"quantity"`
	Unit       *string  `json:"unit"`
	Group      *string  `json:"group"`
	Note       *string  `json:"note"`
	OrderIndex int      `json:"order_index"`
}

type stepRow struct {
	ID          string  `json:"id"`
	RecipeID    string  `json:"recipe_id"`
	StepNumber  int     `json:"step_number"`
	Instruction string  `json:"instruction"`
	TimeMinutes *int    `json:"time_minutes"`
	Tip         *string `json:"tip"`
	ImageURL    *string `json:"image_url"`
}

// GetPublishedRecipe реализует domain.RecipeStore.
func (c *Client) GetPublishedRecipe(ctx context.Context, id string) (domain.Recipe, error) {
	q := url.Values{}
	q.Set("select", recipeColumns)
	q.Set("id", "eq."+id)
	q.Set("is_published", "eq.true")
	q.Set("limit", "1")
	var rows []recipeRow
	if err := c.get(ctx, "recipes", q, &rows); err != nil {
		return domain.Recipe{}, err
	}
	if len(rows) == 0 {
		return domain.Recipe{}, domain.ErrRecipeNotFound
	}
	row := rows[0]
	return domain.Recipe{
		ID:               row.ID,
		Title:            row.Title,
		Summary:          row.Summary,
		Description:      row.Description,
		HeroImage:        row.HeroImage,
		ThumbnailImage:   row.ThumbnailImage,
		PrepTimeMinutes:  row.PrepTimeMinutes,
		CookTimeMinutes:  row.CookTimeMinutes,
		TotalTimeMinutes: row.TotalTimeMinutes,
		Difficulty:       domain.Difficulty(row.Difficulty),
		Servings:         row.Servings,
		Cuisine:          row.Cuisine,
		IsPublished:      row.IsPublished,
	}, nil
}

// ListIngredients реализует domain.RecipeStore.
func (c *Client) ListIngredients(ctx context.Context, recipeID string) ([]domain.Ingredient, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("recipe_id", "eq."+recipeID)
	q.Set("order", "order_index.asc")
	var rows []ingredientRow
	if err := c.get(ctx, "recipe_ingredients", q, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Ingredient, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Ingredient{
			ID:         row.ID,
			RecipeID:   row.RecipeID,
			Name:       row.Name,
			Quantity:   row.Quantity,
			Unit:       row.Unit,
			Group:      row.Group,
			Note:       row.Note,
			OrderIndex: row.OrderIndex,
		})
	}
	return out, nil
}

// ListSteps реализует domain.RecipeStore.
func (c *Client) ListSteps(ctx context.Context, recipeID string) ([]domain.Step, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("recipe_id", "eq."+recipeID)
	q.Set("order", "step_number.asc")
	var rows []stepRow
	if err := c.get(ctx, "recipe_steps", q, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Step, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Step{
			ID:          row.ID,
			RecipeID:    row.RecipeID,
			StepNumber:  row.StepNumber,
			Instruction: row.Instruction,
			TimeMinutes: row.TimeMinutes,
			Tip:         row.Tip,
			ImageURL:    row.ImageURL,
		})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, table string, query url.Values, out any) error {
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: restPrefix + table, RawQuery: query.Encode()})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveNetworkRequest("supabase", "select", table, start, err)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", domain.ErrStoreUnavailable, table, err)
	}
	if resp.StatusCode >= 300 {
		var apiErr apiError
		_ = json.Unmarshal(body, &apiErr)
		// Некорректный uuid в фильтре PostgREST отдаёт как 400 с кодом 22P02.
		if apiErr.Code == "22P02" {
			return domain.ErrRecipeNotFound
		}
		msg := apiErr.Message
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return fmt.Errorf("%w: %s: status %d: %s", domain.ErrStoreUnavailable, table, resp.StatusCode, msg)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}
