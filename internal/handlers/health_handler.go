package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	ping    func(ctx context.Context) error
	storage string
	cache   *redis.Client
}

// NewHealthHandler reports on the database via ping. cache may be nil.
func NewHealthHandler(ping func(ctx context.Context) error, storageDriver string, cache *redis.Client) *HealthHandler {
	return &HealthHandler{ping: ping, storage: storageDriver, cache: cache}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status, dbStatus := "ok", "ok"
	if err := h.ping(ctx); err != nil {
		status, dbStatus = "degraded", "unhealthy: "+err.Error()
	}

	resp := dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Storage:   h.storage,
	}
	if h.cache != nil {
		resp.Cache = "ok"
		if err := h.cache.Ping(ctx).Err(); err != nil {
			resp.Cache = "unhealthy: " + err.Error()
		}
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(resp)
}
