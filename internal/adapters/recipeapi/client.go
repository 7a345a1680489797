package recipeapi

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

// Client ходит в GET /api/recipe/{id} по сети.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	headers    http.Header
}

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

// WithHeader добавляет заголовок к каждому запросу.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if key != "" && value != "" {
			c.headers.Set(key, value)
		}
	}
}

type apiError struct {
	Error string `json:"error"`
}

// StatusError описывает неуспешный ответ API.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("recipe api: status %d", e.Status)
	}
	return fmt.Sprintf("recipe api: status %d: %s", e.Status, e.Message)
}

// Unwrap позволяет сравнивать 404 с domain.ErrRecipeNotFound через errors.Is.
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return domain.ErrRecipeNotFound
	}
	return nil
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme == "" {
		parsed.Scheme = "http"
	}
	client := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		headers:    http.Header{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// RecipeURL возвращает абсолютный адрес API для рецепта.
func (c *Client) RecipeURL(id string) string {
	u := *c.baseURL
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/api/recipe/" + url.PathEscape(id)
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/api/recipe/" + id
	return u.String()
}

// FetchRaw возвращает тело успешного ответа без декодирования.
func (c *Client) FetchRaw(ctx context.Context, id string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RecipeURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, values := range c.headers {
		req.Header[key] = values
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ObserveNetworkRequest("recipeapi", "get_recipe", "api_recipe", start, err)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		_ = json.Unmarshal(body, &apiErr)
		return nil, &StatusError{Status: resp.StatusCode, Message: apiErr.Error}
	}
	return body, nil
}
