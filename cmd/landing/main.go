package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"jikonify-landing/internal/adapters/recipeapi"
	"jikonify-landing/internal/adapters/repo"
	"jikonify-landing/internal/adapters/supabase"
	"jikonify-landing/internal/adapters/web"
	"jikonify-landing/internal/domain"
	"jikonify-landing/internal/infra/cache"
	"jikonify-landing/internal/infra/config"
	"jikonify-landing/internal/infra/db"
	httpinfra "jikonify-landing/internal/infra/http"
	applog "jikonify-landing/internal/infra/log"
	"jikonify-landing/internal/infra/metrics"
	"jikonify-landing/internal/usecase/metadata"
	"jikonify-landing/internal/usecase/recipes"
	"jikonify-landing/internal/usecase/redirect"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)
	zlog.Logger = logger

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore := buildStore(cfg, logger)
	defer closeStore()
	recipeService := recipes.NewService(store, logger.With().Str("component", "recipes").Logger())

	metaCache, closeCache := buildCache(ctx, cfg, logger)
	defer closeCache()

	// Запросы резолвера к собственному API идут с одного IP и не должны упираться в лимит.
	internalToken := cfg.API.InternalToken
	if internalToken == "" {
		internalToken = uuid.NewString()
	}
	apiClient, err := recipeapi.New(cfg.PublicBaseURL(),
		recipeapi.WithTimeout(cfg.Meta.FetchTimeout),
		recipeapi.WithHeader(httpinfra.InternalTokenHeader, internalToken))
	if err != nil {
		logger.Fatal().Err(err).Msg("landing: invalid public base url")
	}
	resolver := metadata.NewResolver(apiClient, metaCache, cfg.PublicBaseURL(), cfg.Meta.Revalidate,
		logger.With().Str("component", "share_meta").Logger())

	handler, err := web.NewHandler(web.Deps{
		Recipes:    recipeService,
		Meta:       resolver,
		ContentURL: apiClient.RecipeURL,
		Redirect: redirect.Config{
			SDKKey:         cfg.App.BranchKey,
			DeepLinkScheme: cfg.App.DeepLinkScheme,
			PlayStoreURL:   cfg.App.PlayStoreURL,
			APKURL:         cfg.App.APKURL,
		},
		APKURL:      cfg.App.APKURL,
		Screenshots: cfg.Site.Screenshots,
		StaticDir:   cfg.Site.StaticDir,
		Logger:      logger.With().Str("component", "web").Logger(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("landing: шаблоны не разобраны")
	}

	server := httpinfra.NewServer(logger)
	limiter := httpinfra.NewRateLimiter(cfg.API.RatePerSec, cfg.API.RateBurst, httpinfra.WithBypassToken(internalToken))
	handler.Register(server.Router, httpinfra.CORS(cfg.API.CORSOrigins), limiter.Limit)

	go func() {
		if err := server.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("landing: http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("landing: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("landing: shutdown failed")
	}
}

// buildStore выбирает хранилище: прямой Postgres, PostgREST или ничего.
func buildStore(cfg config.AppConfig, logger zerolog.Logger) (domain.RecipeStore, func()) {
	if cfg.PGDSN != "" {
		pool, err := db.Connect(cfg.PGDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("landing: нет подключения к БД")
		}
		logger.Info().Msg("landing: рецепты читаются из Postgres")
		return repo.NewPostgres(pool), pool.Close
	}
	if cfg.SupabaseConfigured() {
		client, err := supabase.New(cfg.Supabase.URL, cfg.Supabase.AnonKey, supabase.WithTimeout(cfg.Supabase.Timeout))
		if err != nil {
			logger.Fatal().Err(err).Msg("landing: invalid supabase config")
		}
		logger.Info().Msg("landing: рецепты читаются через PostgREST")
		return client, func() {}
	}
	logger.Warn().Msg("landing: хранилище рецептов не настроено, API будет отвечать 500")
	return nil, func() {}
}

func buildCache(ctx context.Context, cfg config.AppConfig, logger zerolog.Logger) (domain.Cache, func()) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(), func() {}
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("landing: redis недоступен, используем кэш в памяти")
		_ = client.Close()
		return cache.NewMemory(), func() {}
	}
	return cache.NewRedis(client), func() { _ = client.Close() }
}
