package domain

import "errors"

var (
	// ErrNotConfigured возвращается, когда не заданы реквизиты хранилища рецептов.
	ErrNotConfigured = errors.New("recipe store not configured")

	// ErrRecipeNotFound возвращается, когда рецепта нет или он не опубликован.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrStoreUnavailable возвращается при недоступности хранилища.
	ErrStoreUnavailable = errors.New("recipe store unavailable")
)

// ErrCacheMiss возвращается кэшем, если ключ отсутствует или истёк.
var ErrCacheMiss = errors.New("cache miss")
