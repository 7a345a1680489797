package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 30},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})

	RecipeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_requests_total",
		Help: "Запросы к API рецептов по исходу",
	}, []string{"outcome"})

	RecipePartialFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recipe_partial_failures_total",
		Help: "Ошибки загрузки дочерних коллекций, заменённых пустыми",
	}, []string{"collection"})

	ShareMetaLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "share_meta_lookups_total",
		Help: "Построение метаданных страницы шаринга по источнику",
	}, []string{"source"})

	ShareMetaFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "share_meta_fallbacks_total",
		Help: "Использование метаданных по умолчанию по причине",
	}, []string{"reason"})

	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "api_rate_limited_total",
		Help: "Запросы, отклонённые ограничителем",
	})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		NetworkRequestDuration,
		NetworkRequestTotal,
		RecipeRequestsTotal,
		RecipePartialFailures,
		ShareMetaLookups,
		ShareMetaFallbacks,
		RateLimitedTotal,
	)
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// IncRecipeRequest учитывает исход запроса к API рецептов.
func IncRecipeRequest(outcome string) {
	RecipeRequestsTotal.WithLabelValues(outcome).Inc()
}

// IncPartialFailure учитывает деградацию дочерней коллекции.
func IncPartialFailure(collection string) {
	RecipePartialFailures.WithLabelValues(collection).Inc()
}

// IncShareMetaLookup учитывает источник метаданных: cache, fetch или fallback.
func IncShareMetaLookup(source string) {
	ShareMetaLookups.WithLabelValues(source).Inc()
}

// IncShareMetaFallback учитывает причину использования метаданных по умолчанию.
func IncShareMetaFallback(reason string) {
	ShareMetaFallbacks.WithLabelValues(reason).Inc()
}
