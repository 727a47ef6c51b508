package routes

import (
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapStorage is a fiber.Storage shared by every limiter, like the Redis store.
type mapStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapStorage() *mapStorage { return &mapStorage{data: map[string][]byte{}} }

func (s *mapStorage) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *mapStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), val...)
	return nil
}

func (s *mapStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *mapStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string][]byte{}
	return nil
}

func (s *mapStorage) Close() error { return nil }

func TestRateLimit_ScopesShareStorageWithoutSharingCounters(t *testing.T) {
	store := newMapStorage()
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	app := fiber.New()
	api := app.Group("/api")
	api.Use(rateLimit("api", 60, store))
	api.Get("/products", ok)
	api.Post("/users/login", rateLimit("auth", 10, store), ok)

	call := func(method, path string) int {
		resp, err := app.Test(httptest.NewRequest(method, path, nil))
		require.NoError(t, err)
		return resp.StatusCode
	}

	for i := 0; i < 12; i++ {
		require.Equal(t, fiber.StatusOK, call(fiber.MethodGet, "/api/products"))
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, fiber.StatusOK, call(fiber.MethodPost, "/api/users/login"), "login %d", i+1)
	}
	assert.Equal(t, fiber.StatusTooManyRequests, call(fiber.MethodPost, "/api/users/login"))
	assert.Equal(t, fiber.StatusOK, call(fiber.MethodGet, "/api/products"))

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.GreaterOrEqual(t, len(store.data), 2)
}
