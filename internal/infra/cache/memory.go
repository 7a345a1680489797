package cache

import (
	"context"
	"sync"
	"time"

	"jikonify-landing/internal/domain"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// Memory — TTL-кэш в памяти процесса, используется без REDIS_ADDR.
type Memory struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

var _ domain.Cache = (*Memory)(nil)

// NewMemory создаёт пустой кэш.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]memoryItem), now: time.Now}
}

// Set задаёт значение. Неположительный ttl означает хранение без срока.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := memoryItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()
	return nil
}

// Get возвращает значение или domain.ErrCacheMiss. Истёкшие ключи удаляются при чтении.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	if !item.expiresAt.IsZero() && !m.now().Before(item.expiresAt) {
		delete(m.items, key)
		return nil, domain.ErrCacheMiss
	}
	return append([]byte(nil), item.value...), nil
}
