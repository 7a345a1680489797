package metadata

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jikonify-landing/internal/domain"
	"jikonify-landing/internal/infra/metrics"
)

const (
	SiteName           = "Jikonify"
	DefaultTitle       = "Recipe on Jikonify"
	DefaultDescription = "Hey! Join me, let's cook on Jikonify. Check out this delicious recipe!"
	DefaultImagePath   = "/og-image.png"

	cacheKeyPrefix = "meta:recipe:"
)

// RecipeSource отдаёт сырое тело ответа GET /api/recipe/{id}.
type RecipeSource interface {
	FetchRaw(ctx context.Context, id string) ([]byte, error)
}

// Resolver строит метаданные превью. Ошибки наружу не отдаются: при любой проблеме
// возвращается набор по умолчанию.
type Resolver struct {
	source  RecipeSource
	cache   domain.Cache
	baseURL string
	window  time.Duration
	log     zerolog.Logger
}

var _ domain.MetaResolver = (*Resolver)(nil)

// NewResolver создаёт резолвер. Успешные ответы живут в cache в течение window.
func NewResolver(source RecipeSource, cache domain.Cache, baseURL string, window time.Duration, logger zerolog.Logger) *Resolver {
	return &Resolver{
		source:  source,
		cache:   cache,
		baseURL: strings.TrimRight(baseURL, "/"),
		window:  window,
		log:     logger,
	}
}

// Resolve возвращает метаданные для страницы /recipe/{id}.
func (r *Resolver) Resolve(ctx context.Context, id string) domain.ShareMeta {
	recipe, err := r.load(ctx, id)
	if err != nil {
		reason := "fetch"
		switch {
		case errors.Is(err, domain.ErrRecipeNotFound):
			reason = "not_found"
		case errors.Is(err, errDecode):
			reason = "decode"
		}
		r.log.Warn().Err(err).Str("recipe_id", id).Str("reason", reason).Msg("metadata: using fallback")
		metrics.IncShareMetaFallback(reason)
		metrics.IncShareMetaLookup("fallback")
		return r.build(id, nil)
	}
	return r.build(id, &recipe)
}

var errDecode = errors.New("malformed recipe body")

func (r *Resolver) load(ctx context.Context, id string) (domain.PublicRecipe, error) {
	key := cacheKeyPrefix + id
	if r.cache != nil {
		if body, err := r.cache.Get(ctx, key); err == nil {
			if recipe, err := domain.DecodePublicRecipe(body); err == nil {
				metrics.IncShareMetaLookup("cache")
				return recipe, nil
			}
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			r.log.Debug().Err(err).Str("key", key).Msg("metadata: cache read failed")
		}
	}
	if r.source == nil {
		return domain.PublicRecipe{}, errors.New("recipe source not configured")
	}

	body, err := r.source.FetchRaw(ctx, id)
	if err != nil {
		return domain.PublicRecipe{}, err
	}
	recipe, err := domain.DecodePublicRecipe(body)
	if err != nil {
		return domain.PublicRecipe{}, errors.Join(errDecode, err)
	}
	metrics.IncShareMetaLookup("fetch")
	if r.cache != nil && r.window > 0 {
		if err := r.cache.Set(ctx, key, body, r.window); err != nil {
			r.log.Debug().Err(err).Str("key", key).Msg("metadata: cache write failed")
		}
	}
	return recipe, nil
}

func (r *Resolver) build(id string, recipe *domain.PublicRecipe) domain.ShareMeta {
	meta := domain.ShareMeta{
		Title:        DefaultTitle,
		Description:  DefaultDescription,
		ImageURL:     r.baseURL + DefaultImagePath,
		CanonicalURL: r.baseURL + "/recipe/" + url.PathEscape(id),
		SiteName:     SiteName,
		Fallback:     recipe == nil,
	}
	if recipe != nil {
		if recipe.Title != "" {
			meta.Title = recipe.Title
		}
		if d := firstNonEmpty(recipe.Summary, recipe.Description); d != "" {
			meta.Description = d
		}
		if img := firstNonEmpty(recipe.HeroImage, recipe.ThumbnailImage); img != "" {
			meta.ImageURL = img
		}
	}
	meta.PageTitle = meta.Title + " | " + SiteName
	return meta
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}
