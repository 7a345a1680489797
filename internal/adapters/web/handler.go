package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	qrcode "github.com/skip2/go-qrcode"

	"jikonify-landing/internal/domain"
	"jikonify-landing/internal/infra/metrics"
	"jikonify-landing/internal/usecase/redirect"
)

//go:embed templates/*.html
var templatesFS embed.FS

const qrSize = 256

// Deps — зависимости обработчиков.
type Deps struct {
	Recipes     domain.RecipeFetcher
	Meta        domain.MetaResolver
	Redirect    redirect.Config
	ContentURL  func(id string) string
	APKURL      string
	Screenshots []string
	StaticDir   string
	Logger      zerolog.Logger
}

// Handler обслуживает лендинг, страницу шаринга и API рецептов.
type Handler struct {
	deps Deps
	log  zerolog.Logger
	tmpl *template.Template

	qrOnce sync.Once
	qrPNG  []byte
	qrErr  error
}

// NewHandler создаёт обработчик и разбирает шаблоны.
func NewHandler(deps Deps) (*Handler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if deps.ContentURL == nil {
		deps.ContentURL = func(id string) string { return "/api/recipe/" + url.PathEscape(id) }
	}
	return &Handler{deps: deps, log: deps.Logger, tmpl: tmpl}, nil
}

// Register вешает маршруты. apiMiddlewares применяются только к /api.
func (h *Handler) Register(r chi.Router, apiMiddlewares ...func(http.Handler) http.Handler) {
	r.Get("/", h.landing)
	r.Get("/qr.png", h.qr)
	r.Get("/og-image.png", h.ogImage)
	r.Get("/recipe/{id}", h.sharePage)
	if h.deps.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(h.deps.StaticDir))))
	}
	r.Route("/api", func(api chi.Router) {
		api.Use(apiMiddlewares...)
		api.Get("/recipe/{id}", h.getRecipe)
	})
}

// recipeID возвращает декодированный id. chi маршрутизирует по RawPath, если он есть,
// и тогда параметр ещё экранирован; иначе он уже декодирован из Path.
func recipeID(r *http.Request) string {
	param := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return param
	}
	if id, err := url.PathUnescape(param); err == nil {
		return id
	}
	return param
}

func (h *Handler) getRecipe(w http.ResponseWriter, r *http.Request) {
	id := recipeID(r)
	recipe, err := h.deps.Recipes.Get(r.Context(), id)
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		h.log.Error().Msg("api: recipe store is not configured")
		metrics.IncRecipeRequest("not_configured")
		writeError(w, http.StatusInternalServerError, "Supabase not configured")
		return
	case errors.Is(err, domain.ErrRecipeNotFound):
		metrics.IncRecipeRequest("not_found")
		writeError(w, http.StatusNotFound, "Recipe not found")
		return
	case err != nil:
		h.log.Error().Err(err).Str("recipe_id", id).Msg("api: recipe fetch failed")
		metrics.IncRecipeRequest("error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	metrics.IncRecipeRequest("ok")
	writeJSON(w, recipe)
}

type landingView struct {
	APKURL      string
	Screenshots []string
}

func (h *Handler) landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, "landing.html", landingView{APKURL: h.deps.APKURL, Screenshots: h.deps.Screenshots})
}

func (h *Handler) qr(w http.ResponseWriter, r *http.Request) {
	h.qrOnce.Do(func() {
		h.qrPNG, h.qrErr = qrcode.Encode(h.deps.APKURL, qrcode.Highest, qrSize)
	})
	if h.qrErr != nil {
		h.log.Error().Err(h.qrErr).Msg("landing: qr encode failed")
		http.Error(w, "qr unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(h.qrPNG)
}

func (h *Handler) ogImage(w http.ResponseWriter, r *http.Request) {
	if h.deps.StaticDir == "" {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(h.deps.StaticDir, "og-image.png")
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

type shareView struct {
	Meta domain.ShareMeta
	Plan redirect.Plan
}

func (h *Handler) sharePage(w http.ResponseWriter, r *http.Request) {
	id := recipeID(r)
	view := shareView{
		Meta: h.deps.Meta.Resolve(r.Context(), id),
		Plan: redirect.NewPlan(h.deps.Redirect, id, h.deps.ContentURL(id)),
	}
	h.render(w, "recipe.html", view)
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.Error().Err(err).Str("template", name).Msg("web: render failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
